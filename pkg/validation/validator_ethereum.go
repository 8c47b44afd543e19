package validation

import (
	"net/url"

	"github.com/kalondepeace/Celo-Faucet/pkg/config"
)

// EthereumValidator checks the JSON-RPC endpoint settings.
type EthereumValidator struct {
	BaseValidator
}

func NewEthereumValidator() *EthereumValidator {
	return &EthereumValidator{}
}

func (v *EthereumValidator) Validate(cfg *config.Schema) ValidationErrors {
	var errors ValidationErrors

	if cfg.Chain.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "chain.name",
			Message: "chain name cannot be empty",
		})
	}

	if cfg.Chain.ChainID < 0 {
		errors = append(errors, ValidationError{
			Field:   "chain.chainId",
			Message: "chain id cannot be negative",
		})
	}

	errors = append(errors, v.validateHTTPAddress(&cfg.Chain)...)
	return errors
}

func (v *EthereumValidator) validateHTTPAddress(chain *config.Chain) ValidationErrors {
	var errors ValidationErrors

	if chain.HttpAddr == "" {
		errors = append(errors, ValidationError{
			Field:   "chain.httpAddr",
			Message: "HTTP address cannot be empty",
		})
		return errors
	}

	parsedURL, err := url.Parse(chain.HttpAddr)
	if err != nil {
		errors = append(errors, ValidationError{
			Field:   "chain.httpAddr",
			Message: "invalid HTTP address URL",
		})
		return errors
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, ValidationError{
			Field:   "chain.httpAddr",
			Message: "URL scheme must be either http or https",
		})
	}

	if parsedURL.Scheme == "https" && chain.HttpSSLVerify != "" &&
		chain.HttpSSLVerify != "true" && chain.HttpSSLVerify != "false" {
		errors = append(errors, ValidationError{
			Field:   "chain.httpSSLVerify",
			Message: "SSL verification must be either 'true' or 'false'",
		})
	}

	return errors
}
