package currency

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the fixed-point precision shared by CELO and cUSD.
const DefaultDecimals = 18

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrTooPrecise    = errors.New("amount has more fractional digits than the unit supports")
)

// Unit represents a currency unit
type Unit struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int32  `json:"decimals"`
	Description string `json:"description,omitempty"`
}

// Registry maintains the set of known token units
type Registry struct {
	mu    sync.RWMutex
	units map[string]*Unit
}

var (
	DefaultCELO = &Unit{
		Name:        "CELO",
		Symbol:      "CELO",
		Decimals:    DefaultDecimals,
		Description: "Celo native asset",
	}

	DefaultCUSD = &Unit{
		Name:        "CUSD",
		Symbol:      "cUSD",
		Decimals:    DefaultDecimals,
		Description: "Celo Dollar stablecoin",
	}

	DefaultWEI = &Unit{
		Name:        "WEI",
		Symbol:      "WEI",
		Decimals:    0,
		Description: "Smallest on-chain unit",
	}
)

// NewRegistry creates a new currency registry
func NewRegistry() *Registry {
	return &Registry{
		units: make(map[string]*Unit),
	}
}

// Register adds a new currency unit to the registry
func (r *Registry) Register(unit *Unit) (*Unit, error) {
	if unit.Name == "" {
		return nil, fmt.Errorf("currency unit name cannot be empty")
	}
	if unit.Decimals < 0 {
		return nil, fmt.Errorf("currency unit %s has negative decimals", unit.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	normalizedName := strings.ToUpper(unit.Name)
	if _, exists := r.units[normalizedName]; exists {
		return nil, fmt.Errorf("currency unit %s already registered", normalizedName)
	}

	r.units[normalizedName] = unit
	return unit, nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(unit *Unit) *Unit {
	u, err := r.Register(unit)
	if err != nil {
		panic(err)
	}
	return u
}

// Get retrieves a currency unit from the registry
func (r *Registry) Get(name string) (*Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	unit, exists := r.units[strings.ToUpper(name)]
	if !exists {
		return nil, fmt.Errorf("currency unit %s not found", name)
	}
	return unit, nil
}

// List returns all registered currency units ordered by name
func (r *Registry) List() []*Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	units := make([]*Unit, 0, len(r.units))
	for _, unit := range r.units {
		units = append(units, unit)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units
}

// ToBaseUnits parses a human-readable decimal string and scales it up to the
// unit's smallest denomination. Zero, negative and over-precise amounts are
// rejected so that FromBaseUnits(ToBaseUnits(a)) == a always holds.
func (u *Unit) ToBaseUnits(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: %q must be greater than zero", ErrInvalidAmount, amount)
	}
	scaled := d.Shift(u.Decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: %q exceeds %d decimals", ErrTooPrecise, amount, u.Decimals)
	}
	return scaled.BigInt(), nil
}

// FromBaseUnits scales an on-chain integer down to the display denomination.
func (u *Unit) FromBaseUnits(value *big.Int) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -u.Decimals)
}

// FormatFixed renders an on-chain integer with a fixed number of decimal places.
func (u *Unit) FormatFixed(value *big.Int, places int32) string {
	return u.FromBaseUnits(value).StringFixed(places)
}

// Format renders an on-chain integer at its natural precision (no trailing zeros).
func (u *Unit) Format(value *big.Int) string {
	return u.FromBaseUnits(value).String()
}

type unitSpec struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals *int32 `yaml:"decimals"`
}

// UnmarshalYAML implements yaml.Unmarshaler. A unit is either the name of a
// default unit or a mapping {name, symbol, decimals}; mapping fields override
// the default unit of the same name.
func (u *Unit) UnmarshalYAML(unmarshal func(interface{}) error) error {
	registry := NewDefaultRegistry()

	var name string
	if err := unmarshal(&name); err == nil {
		unit, err := registry.Get(name)
		if err != nil {
			return err
		}
		*u = *unit
		return nil
	}

	var spec unitSpec
	if err := unmarshal(&spec); err != nil {
		return err
	}
	if spec.Name == "" {
		return fmt.Errorf("currency unit name cannot be empty")
	}

	unit := Unit{Name: strings.ToUpper(spec.Name), Symbol: spec.Name}
	known, err := registry.Get(spec.Name)
	if err == nil {
		unit = *known
	} else if spec.Decimals == nil {
		return fmt.Errorf("currency unit %s is not a default unit and needs decimals", spec.Name)
	}
	if spec.Symbol != "" {
		unit.Symbol = spec.Symbol
	}
	if spec.Decimals != nil {
		unit.Decimals = *spec.Decimals
	}

	*u = unit
	return nil
}

// String returns the string representation of the currency unit
func (u *Unit) String() string {
	return u.Symbol
}

// Helper to create a new registry with default units
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(DefaultCELO)
	r.MustRegister(DefaultCUSD)
	r.MustRegister(DefaultWEI)
	return r
}
