package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
)

var (
	ErrProviderUnavailable = errors.New("no wallet provider configured")
	ErrNotEnabled          = errors.New("wallet provider has not been enabled")
	ErrUnknownAccount      = errors.New("account is not managed by this wallet")
)

// Provider is the wallet capability the dApp is handed. Enable asks for
// authorization; Accounts and Transactor are only usable afterwards.
type Provider interface {
	Enable(ctx context.Context) error
	Accounts(ctx context.Context) ([]common.Address, error)
	Transactor(account common.Address, chainID *big.Int) (*bind.TransactOpts, error)
}

// Lookup reports which provider the configuration makes available. It never
// touches the filesystem or the key material; that happens in Enable.
func Lookup(cfg config.Wallet) (Provider, bool) {
	switch {
	case cfg.KeystoreDir != "":
		return NewKeystoreProvider(cfg.KeystoreDir, cfg.Password(), keystore.StandardScryptN, keystore.StandardScryptP), true
	case cfg.PrivateKey() != "":
		return NewKeyProvider(cfg.PrivateKey()), true
	default:
		return nil, false
	}
}
