package dapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

const (
	msgRequestSuccessful = "Request successful"
	msgRequestFailed     = "Request failed"
	msgSwapSuccessful    = "Swap successful"
	msgSwapFailed        = "Swap failed"
	msgInProgress        = "⚠️ Another transaction is in progress."

	flowRequest = "request"
	flowSwap    = "swap"
)

var ErrFlowInProgress = errors.New("another transaction is in progress")

// RequestTokens asks the faucet to send tokens to address, signed by the
// session account.
func (a *App) RequestTokens(ctx context.Context, address string) error {
	if !a.requesting.CompareAndSwap(false, true) {
		a.metrics.observeFlow(flowRequest, outcomeInProgress, time.Now())
		a.banner.Show(msgInProgress)
		return ErrFlowInProgress
	}
	defer a.requesting.Store(false)

	started := time.Now()
	ctx = logger.WithFlow(ctx, flowRequest)

	err := a.requestTokens(ctx, address)
	if err != nil {
		logger.ErrorContext(ctx, "token request failed", "address", address, "error", err)
		a.metrics.observeFlow(flowRequest, outcomeFailed, started)
		a.banner.Show(msgRequestFailed)
		return err
	}
	a.metrics.observeFlow(flowRequest, outcomeSuccess, started)
	a.banner.Show(msgRequestSuccessful)
	return nil
}

func (a *App) requestTokens(ctx context.Context, address string) error {
	session, release := a.acquire()
	defer release()
	if session == nil {
		return ErrNotConnected
	}
	ctx = logger.WithAccount(ctx, session.Account.Hex())

	logger.InfoContext(ctx, "requesting the tokens, please wait")
	receipt, err := session.Faucet.RequestTokens(ctx, session.Account, address)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "tokens requested", "tx", receipt.TxHash.Hex())
	return nil
}

// SwapToken swaps amount, a decimal string in stablecoin units, through the
// faucet. The approval must be mined before the swap is sent.
func (a *App) SwapToken(ctx context.Context, amount string) error {
	if !a.swapping.CompareAndSwap(false, true) {
		a.metrics.observeFlow(flowSwap, outcomeInProgress, time.Now())
		a.banner.Show(msgInProgress)
		return ErrFlowInProgress
	}
	defer a.swapping.Store(false)

	started := time.Now()
	ctx = logger.WithFlow(ctx, flowSwap)

	err := a.swapToken(ctx, amount)
	if err != nil {
		logger.ErrorContext(ctx, "swap failed", "amount", amount, "error", err)
		a.metrics.observeFlow(flowSwap, outcomeFailed, started)
		a.banner.Show(msgSwapFailed)
		return err
	}
	a.metrics.observeFlow(flowSwap, outcomeSuccess, started)
	a.banner.Show(msgSwapSuccessful)
	return nil
}

func (a *App) swapToken(ctx context.Context, amount string) error {
	session, release := a.acquire()
	defer release()
	if session == nil {
		return ErrNotConnected
	}
	ctx = logger.WithAccount(ctx, session.Account.Hex())

	value, err := a.stableUnit.ToBaseUnits(amount)
	if err != nil {
		return err
	}
	spender := session.Faucet.Address()

	if allowance, err := session.Token.Allowance(ctx, session.Account, spender); err != nil {
		logger.WarnContext(ctx, "could not read allowance", "error", err)
	} else {
		logger.DebugContext(ctx, "current allowance", "spender", spender.Hex(), "allowance", allowance.String())
	}

	logger.InfoContext(ctx, "awaiting swap approval of the token, please wait", "amount", value.String())
	if _, err := session.Token.Approve(ctx, session.Account, spender, value); err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}

	receipt, err := session.Faucet.SwapToken(ctx, session.Account, value)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "swap successful", "tx", receipt.TxHash.Hex())
	return nil
}
