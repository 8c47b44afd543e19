package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"gopkg.in/yaml.v2"
)

type Schema struct {
	Global    Global    `yaml:"global"`
	Chain     Chain     `yaml:"chain"`
	Wallet    Wallet    `yaml:"wallet"`
	Contracts Contracts `yaml:"contracts"`
	Tx        Tx        `yaml:"tx"`
}

type Global struct {
	Environment string `yaml:"environment"`
	ListenAddr  string `yaml:"listenAddr"`
	LogLevel    string `yaml:"logLevel"`

	// Cron expression for a background balance refresh, empty disables it.
	RefreshSchedule string `yaml:"refreshSchedule"`
}

type Chain struct {
	Name          string         `yaml:"name"`
	HttpAddr      string         `yaml:"httpAddr"`
	HttpAddrEnv   string         `yaml:"httpAddrEnv"`
	HttpSSLVerify string         `yaml:"httpSSLVerify"`
	ChainID       int64          `yaml:"chainId"`
	Authorization *Authorization `yaml:"authorization"`
}

type Authorization struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Wallet selects the wallet provider. A keystore directory takes precedence
// over a raw private key; with neither set no provider is available.
type Wallet struct {
	KeystoreDir    string `yaml:"keystoreDir"`
	KeystoreDirEnv string `yaml:"keystoreDirEnv"`
	PasswordEnv    string `yaml:"passwordEnv"`
	PrivateKeyEnv  string `yaml:"privateKeyEnv"`
}

type Contracts struct {
	Faucet         string         `yaml:"faucet"`
	FaucetEnv      string         `yaml:"faucetEnv"`
	StableToken    string         `yaml:"stableToken"`
	StableTokenEnv string         `yaml:"stableTokenEnv"`
	NativeToken    string         `yaml:"nativeToken"`
	NativeTokenEnv string         `yaml:"nativeTokenEnv"`
	StableUnit     *currency.Unit `yaml:"stableUnit"`
	NativeUnit     *currency.Unit `yaml:"nativeUnit"`
}

type Tx struct {
	ConfirmationTimeout time.Duration `yaml:"confirmationTimeout"`
	PollInterval        time.Duration `yaml:"pollInterval"`
}

const (
	DefaultListenAddr          = ":8080"
	DefaultLogLevel            = "info"
	DefaultConfirmationTimeout = 2 * time.Minute
)

func (s *Schema) Normalize() error {
	if s.Global.ListenAddr == "" {
		s.Global.ListenAddr = DefaultListenAddr
	}
	if s.Global.LogLevel == "" {
		s.Global.LogLevel = DefaultLogLevel
	}
	if err := s.Chain.Normalize(); err != nil {
		return fmt.Errorf("failed to normalize chain %s: %w", s.Chain.Name, err)
	}
	if err := s.Wallet.Normalize(); err != nil {
		return fmt.Errorf("failed to normalize wallet: %w", err)
	}
	if err := s.Contracts.Normalize(); err != nil {
		return fmt.Errorf("failed to normalize contracts: %w", err)
	}
	if s.Tx.ConfirmationTimeout <= 0 {
		s.Tx.ConfirmationTimeout = DefaultConfirmationTimeout
	}
	return nil
}

func (c *Chain) Normalize() error {
	c.HttpAddr = envOr(c.HttpAddrEnv, c.HttpAddr)
	return nil
}

func (w *Wallet) Normalize() error {
	w.KeystoreDir = envOr(w.KeystoreDirEnv, w.KeystoreDir)
	return nil
}

func (c *Contracts) Normalize() error {
	c.Faucet = envOr(c.FaucetEnv, c.Faucet)
	c.StableToken = envOr(c.StableTokenEnv, c.StableToken)
	c.NativeToken = envOr(c.NativeTokenEnv, c.NativeToken)
	if c.StableUnit == nil {
		c.StableUnit = currency.DefaultCUSD
	}
	if c.NativeUnit == nil {
		c.NativeUnit = currency.DefaultCELO
	}
	return nil
}

// envOr returns the value of the named environment variable when it is set
// and non-empty, and fallback otherwise.
func envOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// Password resolves the keystore password from the environment.
func (w *Wallet) Password() string {
	if w.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(w.PasswordEnv)
}

// PrivateKey resolves the hex private key from the environment.
func (w *Wallet) PrivateKey() string {
	if w.PrivateKeyEnv == "" {
		return ""
	}
	return os.Getenv(w.PrivateKeyEnv)
}

// Load opens and decodes the config file at path.
func Load(path string) (*Schema, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return ReadConfigWithError(file)
}

func ReadConfigWithError(r io.Reader) (*Schema, error) {
	config := &Schema{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Normalize(); err != nil {
		return nil, fmt.Errorf("failed to normalize config: %w", err)
	}
	return config, nil
}
