package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var alfajores = big.NewInt(44787)

func TestLookup(t *testing.T) {
	t.Setenv("WALLET_TEST_KEY", testKey)

	tests := []struct {
		name      string
		cfg       config.Wallet
		available bool
		wantType  Provider
	}{
		{name: "nothing configured", cfg: config.Wallet{}, available: false},
		{name: "key env unset", cfg: config.Wallet{PrivateKeyEnv: "WALLET_TEST_UNSET"}, available: false},
		{name: "private key", cfg: config.Wallet{PrivateKeyEnv: "WALLET_TEST_KEY"}, available: true, wantType: &KeyProvider{}},
		{name: "keystore wins", cfg: config.Wallet{KeystoreDir: "/tmp/ks", PrivateKeyEnv: "WALLET_TEST_KEY"}, available: true, wantType: &KeystoreProvider{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Lookup(tt.cfg)
			assert.Equal(t, tt.available, ok)
			if !tt.available {
				assert.Nil(t, p)
				return
			}
			assert.IsType(t, tt.wantType, p)
		})
	}
}

func TestKeyProvider(t *testing.T) {
	ctx := context.Background()
	p := NewKeyProvider("0x" + testKey)

	_, err := p.Accounts(ctx)
	assert.ErrorIs(t, err, ErrNotEnabled)
	_, err = p.Transactor(common.Address{}, alfajores)
	assert.ErrorIs(t, err, ErrNotEnabled)

	require.NoError(t, p.Enable(ctx))

	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	accounts, err := p.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{want}, accounts)

	opts, err := p.Transactor(want, alfajores)
	require.NoError(t, err)
	assert.Equal(t, want, opts.From)

	_, err = p.Transactor(common.HexToAddress("0x1"), alfajores)
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestKeyProviderInvalidKey(t *testing.T) {
	p := NewKeyProvider("not-a-key")
	err := p.Enable(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid private key")
}

func TestKeystoreProvider(t *testing.T) {
	logger.UseForTest(t)
	ctx := context.Background()
	dir := t.TempDir()

	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	acc, err := ks.NewAccount("correct horse")
	require.NoError(t, err)

	t.Run("wrong password is an authorization failure", func(t *testing.T) {
		p := NewKeystoreProvider(dir, "battery staple", keystore.LightScryptN, keystore.LightScryptP)
		err := p.Enable(ctx)
		assert.Error(t, err)
		_, err = p.Accounts(ctx)
		assert.ErrorIs(t, err, ErrNotEnabled)
	})

	t.Run("unlock and sign", func(t *testing.T) {
		p := NewKeystoreProvider(dir, "correct horse", keystore.LightScryptN, keystore.LightScryptP)
		require.NoError(t, p.Enable(ctx))

		accounts, err := p.Accounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []common.Address{acc.Address}, accounts)

		opts, err := p.Transactor(acc.Address, alfajores)
		require.NoError(t, err)
		assert.Equal(t, acc.Address, opts.From)

		_, err = p.Transactor(common.HexToAddress("0x1"), alfajores)
		assert.ErrorIs(t, err, ErrUnknownAccount)
	})

	t.Run("missing directory", func(t *testing.T) {
		p := NewKeystoreProvider(dir+"/missing", "x", keystore.LightScryptN, keystore.LightScryptP)
		assert.Error(t, p.Enable(ctx))
	})

	t.Run("empty directory", func(t *testing.T) {
		p := NewKeystoreProvider(t.TempDir(), "x", keystore.LightScryptN, keystore.LightScryptP)
		err := p.Enable(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no accounts")
	})
}
