package wallet

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

// KeystoreProvider serves accounts from an encrypted go-ethereum keystore
// directory. Enable unlocks every account with the configured password.
type KeystoreProvider struct {
	dir      string
	password string
	scryptN  int
	scryptP  int

	mu      sync.RWMutex
	ks      *keystore.KeyStore
	enabled bool
}

func NewKeystoreProvider(dir, password string, scryptN, scryptP int) *KeystoreProvider {
	return &KeystoreProvider{
		dir:      dir,
		password: password,
		scryptN:  scryptN,
		scryptP:  scryptP,
	}
}

func (p *KeystoreProvider) Enable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(p.dir); err != nil {
		return fmt.Errorf("keystore directory %s: %w", p.dir, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ks := keystore.NewKeyStore(p.dir, p.scryptN, p.scryptP)
	accs := ks.Accounts()
	if len(accs) == 0 {
		return fmt.Errorf("keystore %s holds no accounts", p.dir)
	}
	for _, acc := range accs {
		if err := ks.Unlock(acc, p.password); err != nil {
			return fmt.Errorf("failed to unlock %s: %w", acc.Address.Hex(), err)
		}
	}
	logger.Infof("unlocked %d keystore account(s) from %s", len(accs), p.dir)

	p.ks = ks
	p.enabled = true
	return nil
}

func (p *KeystoreProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.enabled {
		return nil, ErrNotEnabled
	}

	accs := p.ks.Accounts()
	addrs := make([]common.Address, 0, len(accs))
	for _, acc := range accs {
		addrs = append(addrs, acc.Address)
	}
	return addrs, nil
}

func (p *KeystoreProvider) Transactor(account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.enabled {
		return nil, ErrNotEnabled
	}
	if !p.ks.HasAddress(account) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Hex())
	}
	return bind.NewKeyStoreTransactorWithChainID(p.ks, accounts.Account{Address: account}, chainID)
}
