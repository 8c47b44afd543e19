package dapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kalondepeace/Celo-Faucet/pkg/faucet"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/notify"
	"github.com/kalondepeace/Celo-Faucet/pkg/wallet"
)

const (
	msgApprove         = "⚠️ Please approve this DApp to use it."
	msgInstallProvider = "⚠️ Please install a wallet provider."
)

var ErrNoAccounts = errors.New("wallet exposes no accounts")

// Session is what a successful Connect produces. Flows never touch the chain
// without one.
type Session struct {
	Account common.Address
	Kit     Kit
	Faucet  faucet.Fauceter
	Token   Token

	// Guarded by App.mu. A retired session's kit is closed once refs drops
	// to zero.
	refs    int
	retired bool
}

// Contracts are the fixed addresses the dApp talks to.
type Contracts struct {
	Faucet common.Address
	Stable common.Address
}

// ProviderLookup reports the wallet provider available to the process, if any.
type ProviderLookup func() (wallet.Provider, bool)

type Connector struct {
	lookup    ProviderLookup
	newKit    KitFactory
	contracts Contracts
	banner    *notify.Banner
}

func NewConnector(lookup ProviderLookup, newKit KitFactory, contracts Contracts, banner *notify.Banner) *Connector {
	return &Connector{
		lookup:    lookup,
		newKit:    newKit,
		contracts: contracts,
		banner:    banner,
	}
}

// Connect authorizes the wallet and binds the faucet and stablecoin
// contracts for its first account. Every failure is shown on the banner and
// leaves no session behind.
func (c *Connector) Connect(ctx context.Context) (*Session, error) {
	provider, ok := c.lookup()
	if !ok {
		c.banner.Show(msgInstallProvider)
		return nil, wallet.ErrProviderUnavailable
	}

	c.banner.Show(msgApprove)
	if err := provider.Enable(ctx); err != nil {
		return nil, c.fail(ctx, fmt.Errorf("failed to enable wallet: %w", err), err)
	}
	c.banner.Hide()

	kit, err := c.newKit(ctx, provider)
	if err != nil {
		return nil, c.fail(ctx, fmt.Errorf("failed to build chain client: %w", err), err)
	}

	accounts, err := kit.Accounts(ctx)
	if err == nil && len(accounts) == 0 {
		err = ErrNoAccounts
	}
	if err != nil {
		kit.Close()
		return nil, c.fail(ctx, fmt.Errorf("failed to list accounts: %w", err), err)
	}

	session := &Session{
		Account: accounts[0],
		Kit:     kit,
		Faucet:  kit.BindFaucet(c.contracts.Faucet),
		Token:   kit.BindToken(c.contracts.Stable),
	}
	logger.InfoContext(logger.WithAccount(ctx, session.Account.Hex()), "wallet connected",
		"faucet", c.contracts.Faucet.Hex(), "stableToken", c.contracts.Stable.Hex())
	return session, nil
}

// fail shows the cause verbatim and returns the wrapped error.
func (c *Connector) fail(ctx context.Context, wrapped, cause error) error {
	logger.ErrorContext(ctx, "connect failed", "error", wrapped)
	c.banner.Show(fmt.Sprintf("⚠️ %v.", cause))
	return wrapped
}
