package validation

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// BaseValidator provides the address checks shared by every section.
type BaseValidator struct{}

// ValidateAddress accepts a 0x-prefixed, 40 hex digit address. Mixed-case
// input must carry a valid EIP-55 checksum. Nothing is trimmed or padded, so a
// stray trailing character is reported rather than silently dropped.
func (v *BaseValidator) ValidateAddress(field, addr string, required bool) ValidationErrors {
	var errors ValidationErrors

	if addr == "" {
		if required {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "address cannot be empty",
			})
		}
		return errors
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	if len(hex) != 2*common.AddressLength {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("address must have %d hex digits, got %d", 2*common.AddressLength, len(hex)),
		})
		return errors
	}

	if !common.IsHexAddress(addr) {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "invalid Ethereum address format",
		})
		return errors
	}

	if hex != strings.ToLower(hex) && hex != strings.ToUpper(hex) {
		checksumAddr := common.HexToAddress(addr).Hex()
		if "0x"+hex != checksumAddr {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("address checksum mismatch, expected %s", checksumAddr),
			})
		}
	}

	return errors
}
