package dapp

import (
	"context"
	"fmt"
	"math/big"

	"github.com/carlmjohnson/flowmatic"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kalondepeace/Celo-Faucet/pkg/chain"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/erc20"
	"github.com/kalondepeace/Celo-Faucet/pkg/faucet"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/wallet"
)

// TotalBalance is an account's holdings in base units.
type TotalBalance struct {
	Native *big.Int
	Stable *big.Int
}

// Token is the part of an ERC20 token the swap flow needs.
type Token interface {
	Address() common.Address
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (*types.Receipt, error)
}

// Kit is the chain SDK handed to a session once the wallet is authorized.
type Kit interface {
	Accounts(ctx context.Context) ([]common.Address, error)
	TotalBalance(ctx context.Context, account common.Address) (*TotalBalance, error)
	BindFaucet(address common.Address) faucet.Fauceter
	BindToken(address common.Address) Token
	Close()
}

// KitFactory builds a Kit on top of an enabled wallet provider.
type KitFactory func(ctx context.Context, provider wallet.Provider) (Kit, error)

type chainKit struct {
	client *chain.Client
	stable *erc20.Token
}

// NewChainKit returns a KitFactory dialing the node described by cfg. The
// stablecoin's on-chain metadata is registered in registry on the way.
func NewChainKit(cfg *config.Schema, registry *currency.Registry) KitFactory {
	return func(ctx context.Context, provider wallet.Provider) (Kit, error) {
		backend, err := chain.Dial(ctx, cfg.Chain)
		if err != nil {
			return nil, err
		}

		opts := []chain.Option{chain.WithConfirmOptions(chain.ConfirmOptions{
			Timeout:      cfg.Tx.ConfirmationTimeout,
			PollInterval: cfg.Tx.PollInterval,
		})}
		if cfg.Chain.ChainID > 0 {
			opts = append(opts, chain.WithChainID(big.NewInt(cfg.Chain.ChainID)))
		}

		client, err := chain.NewClient(ctx, backend, provider, opts...)
		if err != nil {
			backend.Close()
			return nil, err
		}
		logger.Infof("connected to chain %s (id %s)", cfg.Chain.Name, client.ChainID())

		stable := erc20.Bind(client, common.HexToAddress(cfg.Contracts.StableToken))
		if meta, err := erc20.ResolveUnits(ctx, registry, stable, cfg.Contracts.StableUnit); err != nil {
			logger.Warnf("could not verify stable token metadata: %v", err)
		} else {
			logger.Debugf("stable token %s (%s) has %d decimals", meta.Name, meta.Symbol, meta.Decimals)
		}
		// CELO also answers the ERC20 interface on Celo networks.
		if cfg.Contracts.NativeToken != "" {
			native := erc20.Bind(client, common.HexToAddress(cfg.Contracts.NativeToken))
			if _, err := erc20.ResolveUnits(ctx, registry, native, cfg.Contracts.NativeUnit); err != nil {
				logger.Warnf("could not verify native token metadata: %v", err)
			}
		}

		return &chainKit{client: client, stable: stable}, nil
	}
}

func (k *chainKit) Accounts(ctx context.Context) ([]common.Address, error) {
	return k.client.Accounts(ctx)
}

// TotalBalance reads the native and stablecoin balances concurrently.
func (k *chainKit) TotalBalance(ctx context.Context, account common.Address) (*TotalBalance, error) {
	var total TotalBalance
	err := flowmatic.Do(
		func() error {
			native, err := k.client.BalanceAt(ctx, account)
			total.Native = native
			return err
		},
		func() error {
			stable, err := k.stable.BalanceOf(ctx, account)
			total.Stable = stable
			return err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get total balance of %s: %w", account.Hex(), err)
	}
	return &total, nil
}

func (k *chainKit) BindFaucet(address common.Address) faucet.Fauceter {
	return faucet.Bind(k.client, address)
}

func (k *chainKit) BindToken(address common.Address) Token {
	if address == k.stable.Address() {
		return k.stable
	}
	return erc20.Bind(k.client, address)
}

func (k *chainKit) Close() {
	k.client.Close()
}
