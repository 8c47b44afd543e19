package erc20

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kalondepeace/Celo-Faucet/pkg/chain"
)

// Token encapsulates minimal interactions with an ERC20 contract.
type Token struct {
	address  common.Address
	contract chain.Binding
}

// Metadata represents ERC20 token metadata.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Bind attaches the ERC20 ABI to address on client.
func Bind(client *chain.Client, address common.Address) *Token {
	return New(address, client.Bind(ABI, address))
}

// New wraps an already bound contract.
func New(address common.Address, contract chain.Binding) *Token {
	return &Token{address: address, contract: contract}
}

func (t *Token) Address() common.Address {
	return t.address
}

// BalanceOf returns the raw token balance for the provided address.
func (t *Token) BalanceOf(ctx context.Context, address common.Address) (*big.Int, error) {
	out, err := t.contract.Call(ctx, "balanceOf", address)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("balanceOf returned empty result")
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// Allowance returns how much spender may still move out of owner's balance.
func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := t.contract.Call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to call allowance: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("allowance returned empty result")
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// Approve lets spender transfer amount on behalf of from and waits until the
// approval is mined.
func (t *Token) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	receipt, err := t.contract.Send(ctx, from, "approve", spender, amount)
	if err != nil {
		return receipt, fmt.Errorf("failed to approve %s for %s: %w", amount, spender.Hex(), err)
	}
	return receipt, nil
}

// Decimals fetches the token decimals.
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.contract.Call(ctx, "decimals")
	if err != nil {
		return 0, fmt.Errorf("failed to call decimals: %w", err)
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("decimals returned empty result")
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// Symbol fetches the token symbol.
func (t *Token) Symbol(ctx context.Context) (string, error) {
	out, err := t.contract.Call(ctx, "symbol")
	if err != nil {
		return "", fmt.Errorf("failed to call symbol: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("symbol returned empty result")
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// Name fetches the token name.
func (t *Token) Name(ctx context.Context) (string, error) {
	out, err := t.contract.Call(ctx, "name")
	if err != nil {
		return "", fmt.Errorf("failed to call name: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("name returned empty result")
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// Metadata fetches symbol, name, and decimals. name() is optional in ERC20,
// so the symbol stands in for it when the call fails.
func (t *Token) Metadata(ctx context.Context) (*Metadata, error) {
	symbol, err := t.Symbol(ctx)
	if err != nil {
		return nil, fmt.Errorf("symbol is required: %w", err)
	}

	decimals, err := t.Decimals(ctx)
	if err != nil {
		return nil, fmt.Errorf("decimals is required: %w", err)
	}

	name, err := t.Name(ctx)
	if err != nil {
		name = symbol
	}

	return &Metadata{
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}, nil
}
