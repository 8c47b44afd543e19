package validation

import (
	"os"

	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

// WalletValidator checks that a configured wallet source is usable. Running
// without any wallet is allowed: the dApp then reports that a provider must
// be installed.
type WalletValidator struct{}

func NewWalletValidator() *WalletValidator {
	return &WalletValidator{}
}

func (v *WalletValidator) Validate(cfg *config.Schema) ValidationErrors {
	var errors ValidationErrors
	w := &cfg.Wallet

	if w.KeystoreDir == "" && w.PrivateKeyEnv == "" {
		logger.Warnf("no wallet source configured, transactions will be unavailable")
		return errors
	}

	if w.KeystoreDir != "" {
		if info, err := os.Stat(w.KeystoreDir); err != nil || !info.IsDir() {
			errors = append(errors, ValidationError{
				Field:   "wallet.keystoreDir",
				Message: "keystore directory does not exist",
			})
		}
		if w.PasswordEnv == "" {
			errors = append(errors, ValidationError{
				Field:   "wallet.passwordEnv",
				Message: "required when keystoreDir is set",
			})
		}
		if w.PrivateKeyEnv != "" {
			logger.Warnf("both keystoreDir and privateKeyEnv are set, using the keystore")
		}
	}

	return errors
}
