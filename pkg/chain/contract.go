package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

var ErrTxReverted = errors.New("transaction reverted")

// Binding is what token and faucet wrappers need from a bound contract.
type Binding interface {
	Call(ctx context.Context, method string, params ...any) ([]any, error)
	Send(ctx context.Context, from common.Address, method string, params ...any) (*types.Receipt, error)
}

var _ Binding = (*Contract)(nil)

// Contract is a bound contract. Call reads state, Send submits a transaction
// and blocks until it is mined.
type Contract struct {
	Address common.Address

	client *Client
	bound  *bind.BoundContract
}

func (c *Contract) Call(ctx context.Context, method string, params ...any) ([]any, error) {
	var out []any
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, c.Address.Hex(), err)
	}
	return out, nil
}

// Send signs method(params) as from, submits it and waits for the receipt.
// A mined but reverted transaction yields ErrTxReverted together with the receipt.
func (c *Contract) Send(ctx context.Context, from common.Address, method string, params ...any) (*types.Receipt, error) {
	opts, err := c.client.wallet.Transactor(from, c.client.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor for %s: %w", from.Hex(), err)
	}
	opts.Context = ctx

	tx, err := c.bound.Transact(opts, method, params...)
	if err != nil {
		return nil, fmt.Errorf("send %s to %s: %w", method, c.Address.Hex(), err)
	}
	logger.DebugContext(ctx, "transaction submitted", "method", method, "to", c.Address.Hex(), "tx", tx.Hash().Hex())

	receipt, err := c.client.WaitMined(ctx, tx.Hash())
	if err != nil {
		return nil, fmt.Errorf("wait for %s (%s): %w", method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s (%s): %w", method, tx.Hash().Hex(), ErrTxReverted)
	}
	logger.InfoContext(ctx, "transaction mined", "method", method, "tx", tx.Hash().Hex(), "block", receipt.BlockNumber)
	return receipt, nil
}
