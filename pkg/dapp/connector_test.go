package dapp

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kalondepeace/Celo-Faucet/pkg/notify"
	"github.com/kalondepeace/Celo-Faucet/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectWithoutProvider(t *testing.T) {
	h := newHarness(t)
	banner := h.banner
	kitCalls := 0
	connector := NewConnector(
		func() (wallet.Provider, bool) { return nil, false },
		func(ctx context.Context, provider wallet.Provider) (Kit, error) {
			kitCalls++
			return nil, nil
		},
		testContracts, banner,
	)

	ch, stop := banner.Subscribe()
	defer stop()
	<-ch

	session, err := connector.Connect(context.Background())
	assert.ErrorIs(t, err, wallet.ErrProviderUnavailable)
	assert.Nil(t, session)
	assert.Zero(t, kitCalls)

	n := <-ch
	assert.Equal(t, notify.Notification{Visible: true, Text: "⚠️ Please install a wallet provider.", UpdatedAt: n.UpdatedAt}, n)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected second notification: %+v", extra)
	default:
	}
}

func TestConnectAuthorizationFailure(t *testing.T) {
	h := newHarness(t)
	h.provider.enableErr = errors.New("User rejected the request")

	err := h.app.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, h.provider.enableErr)

	n := h.banner.Current()
	assert.True(t, n.Visible)
	assert.Equal(t, "⚠️ User rejected the request.", n.Text)

	assert.Nil(t, h.app.Session())
	assert.Zero(t, h.kitCalls)
	assert.Empty(t, h.kit.boundFaucet)
}

func TestConnectFailures(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(h *harness)
		wantErr    error
		wantBanner string
		wantClosed int
	}{
		{
			name:       "accounts error",
			setup:      func(h *harness) { h.kit.accountsErr = errors.New("connection refused") },
			wantBanner: "⚠️ connection refused.",
			wantClosed: 1,
		},
		{
			name:       "no accounts",
			setup:      func(h *harness) { h.kit.accounts = nil },
			wantErr:    ErrNoAccounts,
			wantBanner: "⚠️ wallet exposes no accounts.",
			wantClosed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			err := h.app.Connect(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantBanner, h.banner.Current().Text)
			assert.Nil(t, h.app.Session())
			assert.Empty(t, h.kit.boundFaucet)
			assert.Equal(t, tt.wantClosed, h.kit.closed)
		})
	}
}

func TestConnectKitFailure(t *testing.T) {
	h := newHarness(t)
	connector := NewConnector(
		func() (wallet.Provider, bool) { return h.provider, true },
		func(ctx context.Context, provider wallet.Provider) (Kit, error) {
			return nil, errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")
		},
		testContracts, h.banner,
	)

	session, err := connector.Connect(context.Background())
	require.Error(t, err)
	assert.Nil(t, session)
	assert.Equal(t, "⚠️ dial tcp 127.0.0.1:8545: connect: connection refused.", h.banner.Current().Text)
}

func TestConnect(t *testing.T) {
	h := newHarness(t)
	h.connect(t)

	assert.True(t, h.provider.enabled)
	assert.False(t, h.banner.Current().Visible)
	assert.Equal(t, "⚠️ Please approve this DApp to use it.", h.banner.Current().Text)

	session := h.app.Session()
	require.NotNil(t, session)
	assert.Equal(t, accountA, session.Account)
	assert.Equal(t, []common.Address{faucetAddress}, h.kit.boundFaucet)
	assert.Equal(t, []common.Address{cUSDAddress}, h.kit.boundToken)
	assert.Equal(t, faucetAddress, session.Faucet.Address())
	assert.Equal(t, cUSDAddress, session.Token.Address())

	state := h.app.State()
	assert.True(t, state.Connected)
	assert.Equal(t, accountA.Hex(), state.Account)
}

func TestReconnectClosesPreviousKit(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.connect(t)
	assert.Equal(t, 1, h.kit.closed)

	h.provider.enableErr = errors.New("locked")
	require.Error(t, h.app.Connect(context.Background()))
	assert.Nil(t, h.app.Session())
	assert.Equal(t, 2, h.kit.closed)

	h.app.Close()
	assert.Equal(t, 2, h.kit.closed)
}
