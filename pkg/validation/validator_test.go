package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
)

const (
	faucetAddr = "0xc11430db76Ad33455169fA1b27fA797D4F31Fa06"
	cUSDAddr   = "0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"
	celoAddr   = "0xF194afDf50B03e69Bd7D057c1Aa9e10c9954E4C9"
)

func validConfig() *config.Schema {
	return &config.Schema{
		Global: config.Global{
			ListenAddr: ":8080",
			LogLevel:   "info",
		},
		Chain: config.Chain{
			Name:     "alfajores",
			HttpAddr: "https://alfajores-forno.celo-testnet.org",
			ChainID:  44787,
		},
		Wallet: config.Wallet{PrivateKeyEnv: "FAUCET_PRIVATE_KEY"},
		Contracts: config.Contracts{
			Faucet:      faucetAddr,
			StableToken: cUSDAddr,
			NativeToken: celoAddr,
			StableUnit:  currency.DefaultCUSD,
			NativeUnit:  currency.DefaultCELO,
		},
	}
}

func fields(err error) []string {
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestConfigValidator(t *testing.T) {
	logger.UseForTest(t)

	tests := []struct {
		name       string
		mutate     func(cfg *config.Schema)
		wantFields []string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *config.Schema) {},
		},
		{
			name: "lowercase addresses skip the checksum",
			mutate: func(cfg *config.Schema) {
				cfg.Contracts.Faucet = strings.ToLower(faucetAddr)
				cfg.Contracts.StableToken = strings.ToLower(cUSDAddr)
			},
		},
		{
			name:       "trailing character on the faucet address",
			mutate:     func(cfg *config.Schema) { cfg.Contracts.Faucet = faucetAddr + "6" },
			wantFields: []string{"contracts.faucet"},
		},
		{
			name:       "bad checksum",
			mutate:     func(cfg *config.Schema) { cfg.Contracts.Faucet = "0xC11430db76Ad33455169fA1b27fA797D4F31Fa06" },
			wantFields: []string{"contracts.faucet"},
		},
		{
			name:       "non-hex stable token",
			mutate:     func(cfg *config.Schema) { cfg.Contracts.StableToken = "0x" + strings.Repeat("zz", 20) },
			wantFields: []string{"contracts.stableToken"},
		},
		{
			name:       "missing stable token",
			mutate:     func(cfg *config.Schema) { cfg.Contracts.StableToken = "" },
			wantFields: []string{"contracts.stableToken"},
		},
		{
			name:   "native token is optional",
			mutate: func(cfg *config.Schema) { cfg.Contracts.NativeToken = "" },
		},
		{
			name:       "stable token equals faucet",
			mutate:     func(cfg *config.Schema) { cfg.Contracts.StableToken = faucetAddr },
			wantFields: []string{"contracts.stableToken"},
		},
		{
			name:       "missing unit",
			mutate:     func(cfg *config.Schema) { cfg.Contracts.StableUnit = nil },
			wantFields: []string{"contracts.stableUnit"},
		},
		{
			name: "negative decimals",
			mutate: func(cfg *config.Schema) {
				cfg.Contracts.StableUnit = &currency.Unit{Name: "CUSD", Symbol: "cUSD", Decimals: -1}
			},
			wantFields: []string{"contracts.stableUnit"},
		},
		{
			name:   "upper case prefix with checksum",
			mutate: func(cfg *config.Schema) { cfg.Contracts.Faucet = "0X" + faucetAddr[2:] },
		},
		{
			name:       "upper case prefix with bad checksum",
			mutate:     func(cfg *config.Schema) { cfg.Contracts.Faucet = "0XC11430db76Ad33455169fA1b27fA797D4F31Fa06" },
			wantFields: []string{"contracts.faucet"},
		},
		{
			name:       "bad scheme",
			mutate:     func(cfg *config.Schema) { cfg.Chain.HttpAddr = "ws://localhost:8546" },
			wantFields: []string{"chain.httpAddr"},
		},
		{
			name:       "bad ssl flag",
			mutate:     func(cfg *config.Schema) { cfg.Chain.HttpSSLVerify = "yes" },
			wantFields: []string{"chain.httpSSLVerify"},
		},
		{
			name: "bad global section",
			mutate: func(cfg *config.Schema) {
				cfg.Global.ListenAddr = ""
				cfg.Global.LogLevel = "verbose"
				cfg.Global.RefreshSchedule = "* * * * *"
			},
			wantFields: []string{"global.listenAddr", "global.logLevel", "global.refreshSchedule"},
		},
		{
			name:   "seconds schedule",
			mutate: func(cfg *config.Schema) { cfg.Global.RefreshSchedule = "*/30 * * * * *" },
		},
		{
			name:   "no wallet configured",
			mutate: func(cfg *config.Schema) { cfg.Wallet = config.Wallet{} },
		},
		{
			name: "keystore without password",
			mutate: func(cfg *config.Schema) {
				cfg.Wallet = config.Wallet{KeystoreDir: "/nonexistent/keystore"}
			},
			wantFields: []string{"wallet.keystoreDir", "wallet.passwordEnv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := NewConfigValidator().ValidateConfig(cfg)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected no errors, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected errors on %v, got none", tt.wantFields)
			}

			got := fields(err)
			if strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("expected errors on %v, got %v (%v)", tt.wantFields, got, err)
			}
		})
	}
}

func TestKeystoreWallet(t *testing.T) {
	logger.UseForTest(t)
	cfg := validConfig()
	cfg.Wallet = config.Wallet{KeystoreDir: t.TempDir(), PasswordEnv: "FAUCET_KEYSTORE_PASSWORD"}

	if err := NewConfigValidator().ValidateConfig(cfg); err != nil {
		t.Fatalf("expected no errors, got %v", err)
	}
}

func TestValidateAddressMessages(t *testing.T) {
	var v BaseValidator

	errs := v.ValidateAddress("contracts.faucet", faucetAddr+"6", true)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "40 hex digits, got 41") {
		t.Errorf("unexpected errors: %v", errs)
	}

	errs = v.ValidateAddress("contracts.faucet", "0xc11430db76ad33455169fa1b27fa797d4f31Fa06", true)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, faucetAddr) {
		t.Errorf("expected checksum hint, got %v", errs)
	}

	if errs := v.ValidateAddress("contracts.nativeToken", "", false); len(errs) != 0 {
		t.Errorf("expected optional empty address to pass, got %v", errs)
	}
}
