package validation

import (
	"fmt"
	"math"

	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
)

// ContractsValidator checks the faucet and token addresses and their units.
type ContractsValidator struct {
	BaseValidator
}

func NewContractsValidator() *ContractsValidator {
	return &ContractsValidator{}
}

func (v *ContractsValidator) Validate(cfg *config.Schema) ValidationErrors {
	var errors ValidationErrors
	contracts := &cfg.Contracts

	errors = append(errors, v.ValidateAddress("contracts.faucet", contracts.Faucet, true)...)
	errors = append(errors, v.ValidateAddress("contracts.stableToken", contracts.StableToken, true)...)
	errors = append(errors, v.ValidateAddress("contracts.nativeToken", contracts.NativeToken, false)...)

	if contracts.Faucet != "" && contracts.Faucet == contracts.StableToken {
		errors = append(errors, ValidationError{
			Field:   "contracts.stableToken",
			Message: "stable token address cannot equal the faucet address",
		})
	}

	errors = append(errors, v.validateUnit("contracts.stableUnit", contracts.StableUnit)...)
	errors = append(errors, v.validateUnit("contracts.nativeUnit", contracts.NativeUnit)...)
	return errors
}

func (v *ContractsValidator) validateUnit(field string, unit *currency.Unit) ValidationErrors {
	var errors ValidationErrors

	if unit == nil {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "unit cannot be empty",
		})
		return errors
	}
	// ERC20 decimals are a uint8.
	if unit.Decimals < 0 || unit.Decimals > math.MaxUint8 {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("decimals must be between 0 and %d", math.MaxUint8),
		})
	}
	return errors
}
