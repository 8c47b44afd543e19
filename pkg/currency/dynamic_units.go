package currency

import (
	"fmt"
	"strings"
)

// EnsureUnit registers a token unit discovered on-chain, or returns the existing
// one. An existing unit with different decimals is an error: amounts would be
// scaled inconsistently.
func EnsureUnit(registry *Registry, name, symbol string, decimals uint8) (*Unit, error) {
	if registry == nil {
		return nil, fmt.Errorf("currency registry cannot be nil")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("unit name cannot be empty")
	}
	if symbol == "" {
		symbol = name
	}

	if unit, err := registry.Get(name); err == nil {
		if unit.Decimals != int32(decimals) {
			return unit, fmt.Errorf("unit %s already registered with %d decimals, chain reports %d", unit.Name, unit.Decimals, decimals)
		}
		return unit, nil
	}

	unit := &Unit{
		Name:        strings.ToUpper(name),
		Symbol:      symbol,
		Decimals:    int32(decimals),
		Description: fmt.Sprintf("%s token", symbol),
	}
	return registry.Register(unit)
}
