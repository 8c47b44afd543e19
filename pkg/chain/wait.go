package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

const (
	minPollInterval = 2 * time.Second
	maxPollInterval = 10 * time.Second
)

// effectiveTimeout returns the shorter of timeout and the time left before
// ctx's deadline.
func effectiveTimeout(ctx context.Context, timeout time.Duration) time.Duration {
	if timeout <= 0 {
		timeout = config.DefaultConfirmationTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return remaining
		}
	}
	return timeout
}

// pollInterval returns configured if set, otherwise 20% of timeout clamped
// to [2s, 10s].
func pollInterval(timeout, configured time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	interval := timeout / 5
	if interval < minPollInterval {
		interval = minPollInterval
	}
	if interval > maxPollInterval {
		interval = maxPollInterval
	}
	return interval
}

// WaitMined polls for the receipt of hash until it is available, the
// confirmation timeout elapses or ctx is done.
func (c *Client) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	timeout := effectiveTimeout(ctx, c.confirm.Timeout)
	interval := pollInterval(timeout, c.confirm.PollInterval)
	logger.Debugf("waiting for %s (timeout: %v, poll interval: %v)", hash.Hex(), timeout, interval)

	confirmCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(confirmCtx, hash)
		switch {
		case err == nil:
			return receipt, nil
		case errors.Is(err, ethereum.NotFound):
			logger.Debugf("transaction %s not yet mined", hash.Hex())
		case confirmCtx.Err() == nil:
			logger.Warnf("failed to get receipt for %s: %v", hash.Hex(), err)
		}

		select {
		case <-confirmCtx.Done():
			return nil, fmt.Errorf("timeout waiting for confirmation: %w", confirmCtx.Err())
		case <-ticker.C:
		}
	}
}
