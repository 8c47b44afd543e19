package faucet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kalondepeace/Celo-Faucet/pkg/chain"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

var ErrInvalidRequestor = errors.New("invalid requestor address")

// Client is the faucet contract bound to a chain client.
type Client struct {
	address  common.Address
	contract chain.Binding
}

// TokenBalance holds what the faucet contract holds, in base units.
type TokenBalance struct {
	Celo *big.Int
	CUSD *big.Int
}

// Bind attaches the faucet ABI to address on client.
func Bind(client *chain.Client, address common.Address) *Client {
	return New(address, client.Bind(ABI, address))
}

func New(address common.Address, contract chain.Binding) *Client {
	return &Client{address: address, contract: contract}
}

func (c *Client) Address() common.Address {
	return c.address
}

// RequestTokens asks the faucet to drip tokens to requestor. The address is
// parsed here; a malformed one never reaches the node.
func (c *Client) RequestTokens(ctx context.Context, from common.Address, requestor string) (*types.Receipt, error) {
	requestor = strings.TrimSpace(requestor)
	if !common.IsHexAddress(requestor) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequestor, requestor)
	}

	logger.InfoContext(ctx, "requesting tokens", "requestor", requestor)
	receipt, err := c.contract.Send(ctx, from, "requestTokens", common.HexToAddress(requestor))
	if err != nil {
		return receipt, fmt.Errorf("requestTokens failed: %w", err)
	}
	return receipt, nil
}

// SwapToken swaps amount of the stablecoin, which must already be approved
// for the faucet.
func (c *Client) SwapToken(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("swap amount must be positive")
	}

	logger.InfoContext(ctx, "swapping tokens", "amount", amount.String())
	receipt, err := c.contract.Send(ctx, from, "swapToken", amount)
	if err != nil {
		return receipt, fmt.Errorf("swapToken failed: %w", err)
	}
	return receipt, nil
}

// ContractTokenBalance reads the faucet's CELO and cUSD holdings without a transaction.
func (c *Client) ContractTokenBalance(ctx context.Context) (*TokenBalance, error) {
	out, err := c.contract.Call(ctx, "contractTokenBalance")
	if err != nil {
		return nil, fmt.Errorf("failed to call contractTokenBalance: %w", err)
	}
	if len(out) != 2 {
		return nil, fmt.Errorf("contractTokenBalance returned %d values, expected 2", len(out))
	}
	return &TokenBalance{
		Celo: abi.ConvertType(out[0], new(big.Int)).(*big.Int),
		CUSD: abi.ConvertType(out[1], new(big.Int)).(*big.Int),
	}, nil
}
