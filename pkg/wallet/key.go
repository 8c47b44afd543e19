package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyProvider holds a single raw secp256k1 key, typically injected through
// the environment for test networks.
type KeyProvider struct {
	hexKey string

	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewKeyProvider(hexKey string) *KeyProvider {
	return &KeyProvider{hexKey: strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")}
}

func (p *KeyProvider) Enable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := crypto.HexToECDSA(p.hexKey)
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.key = key
	p.address = crypto.PubkeyToAddress(key.PublicKey)
	return nil
}

func (p *KeyProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.key == nil {
		return nil, ErrNotEnabled
	}
	return []common.Address{p.address}, nil
}

func (p *KeyProvider) Transactor(account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.key == nil {
		return nil, ErrNotEnabled
	}
	if account != p.address {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Hex())
	}
	return bind.NewKeyedTransactorWithChainID(p.key, chainID)
}
