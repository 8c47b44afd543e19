package dapp

import (
	"context"
	"fmt"
	"time"

	"github.com/carlmjohnson/flowmatic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kalondepeace/Celo-Faucet/pkg/faucet"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

const (
	msgFetchBalanceFailed = "fetching balance failed"

	walletBalancePlaces = 2
)

// Snapshot holds freshly read balances in base units.
type Snapshot struct {
	Account       common.Address
	FaucetAddress common.Address
	Wallet        *TotalBalance
	Faucet        *faucet.TokenBalance
}

// RefreshWalletBalance reads the account's stablecoin balance and stores it
// rounded to two decimal places.
func (a *App) RefreshWalletBalance(ctx context.Context) error {
	session, release := a.acquire()
	defer release()
	if session == nil {
		a.banner.Show(msgFetchBalanceFailed)
		return ErrNotConnected
	}

	total, err := session.Kit.TotalBalance(ctx, session.Account)
	a.metrics.observeRead("wallet", err)
	if err != nil {
		logger.ErrorContext(ctx, "fetching wallet balance failed", "account", session.Account.Hex(), "error", err)
		a.banner.Show(msgFetchBalanceFailed)
		return fmt.Errorf("failed to read wallet balance: %w", err)
	}

	a.mu.Lock()
	a.display.Balance = a.stableUnit.FormatFixed(total.Stable, walletBalancePlaces)
	a.display.UpdatedAt = time.Now()
	a.mu.Unlock()
	return nil
}

// RefreshContractBalances reads what the faucet holds and stores both
// amounts at full precision.
func (a *App) RefreshContractBalances(ctx context.Context) error {
	session, release := a.acquire()
	defer release()
	if session == nil {
		a.banner.Show(msgFetchBalanceFailed)
		return ErrNotConnected
	}

	balance, err := session.Faucet.ContractTokenBalance(ctx)
	a.metrics.observeRead("contract", err)
	if err != nil {
		logger.ErrorContext(ctx, "fetching contract balance failed", "faucet", session.Faucet.Address().Hex(), "error", err)
		a.banner.Show(msgFetchBalanceFailed)
		return fmt.Errorf("failed to read contract balance: %w", err)
	}

	a.mu.Lock()
	a.display.CeloBal = a.nativeUnit.Format(balance.Celo)
	a.display.CUSDBal = a.stableUnit.Format(balance.CUSD)
	a.display.UpdatedAt = time.Now()
	a.mu.Unlock()
	return nil
}

// ReadBalances reads wallet and faucet balances without touching the
// display or the banner.
func (a *App) ReadBalances(ctx context.Context) (*Snapshot, error) {
	session, release := a.acquire()
	defer release()
	if session == nil {
		return nil, ErrNotConnected
	}

	snap := Snapshot{Account: session.Account, FaucetAddress: session.Faucet.Address()}
	err := flowmatic.Do(
		func() error {
			total, err := session.Kit.TotalBalance(ctx, session.Account)
			snap.Wallet = total
			return err
		},
		func() error {
			balance, err := session.Faucet.ContractTokenBalance(ctx)
			snap.Faucet = balance
			return err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read balances: %w", err)
	}
	return &snap, nil
}
