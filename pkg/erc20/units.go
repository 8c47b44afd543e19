package erc20

import (
	"context"
	"fmt"

	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

// ResolveUnits fetches the token's metadata and registers its unit. A
// configured unit whose decimals disagree with the chain is reported but kept,
// since amounts are scaled with the configured value.
func ResolveUnits(ctx context.Context, registry *currency.Registry, token *Token, configured *currency.Unit) (*Metadata, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	meta, err := token.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata for %s: %w", token.Address().Hex(), err)
	}

	if configured != nil && configured.Decimals != int32(meta.Decimals) {
		logger.Warnf("token %s reports %d decimals, configured unit %s uses %d",
			token.Address().Hex(), meta.Decimals, configured.Symbol, configured.Decimals)
	}

	if _, err := currency.EnsureUnit(registry, meta.Symbol, meta.Symbol, meta.Decimals); err != nil {
		return meta, fmt.Errorf("failed to register unit for %s: %w", token.Address().Hex(), err)
	}
	return meta, nil
}
