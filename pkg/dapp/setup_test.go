package dapp

import (
	"context"
	"testing"

	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfigWithoutWallet(t *testing.T) {
	logger.UseForTest(t)
	cfg := &config.Schema{
		Chain: config.Chain{Name: "alfajores", HttpAddr: "http://127.0.0.1:1"},
		Contracts: config.Contracts{
			Faucet:      faucetAddress.Hex(),
			StableToken: cUSDAddress.Hex(),
			StableUnit:  currency.DefaultCUSD,
			NativeUnit:  currency.DefaultCELO,
		},
	}

	app := FromConfig(cfg, currency.NewDefaultRegistry())
	err := app.Load(context.Background())
	require.ErrorIs(t, err, wallet.ErrProviderUnavailable)

	state := app.State()
	assert.False(t, state.Connected)
	assert.True(t, state.Notification.Visible)
	assert.Equal(t, msgInstallProvider, state.Notification.Text)
	assert.Len(t, app.Units(), 3)
}

func TestUnitsWithoutRegistry(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []*currency.Unit{currency.DefaultCELO, currency.DefaultCUSD}, h.app.Units())
}
