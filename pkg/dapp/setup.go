package dapp

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/notify"
	"github.com/kalondepeace/Celo-Faucet/pkg/wallet"
)

// FromConfig wires an App against the chain, wallet and contracts in cfg.
// The configuration is expected to be normalized and validated.
func FromConfig(cfg *config.Schema, registry *currency.Registry, opts ...Option) *App {
	banner := notify.NewBanner()
	lookup := func() (wallet.Provider, bool) {
		return wallet.Lookup(cfg.Wallet)
	}
	contracts := Contracts{
		Faucet: common.HexToAddress(cfg.Contracts.Faucet),
		Stable: common.HexToAddress(cfg.Contracts.StableToken),
	}

	connector := NewConnector(lookup, NewChainKit(cfg, registry), contracts, banner)
	opts = append([]Option{
		WithUnits(cfg.Contracts.StableUnit, cfg.Contracts.NativeUnit),
		WithRegistry(registry),
	}, opts...)
	return NewApp(connector, banner, opts...)
}
