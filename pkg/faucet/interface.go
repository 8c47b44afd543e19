package faucet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Fauceter defines the operations the dApp performs against the faucet contract.
type Fauceter interface {
	Address() common.Address
	RequestTokens(ctx context.Context, from common.Address, requestor string) (*types.Receipt, error)
	SwapToken(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error)
	ContractTokenBalance(ctx context.Context) (*TokenBalance, error)
}

var _ Fauceter = (*Client)(nil)
