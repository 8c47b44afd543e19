package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/dapp"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/notify"
	"github.com/kalondepeace/Celo-Faucet/pkg/validation"
	"github.com/kalondepeace/Celo-Faucet/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var (
	cfgPath string
	timeout time.Duration
	verbose bool

	app faucetApp
)

// faucetApp is the part of dapp.App the commands drive.
type faucetApp interface {
	Load(ctx context.Context) error
	RefreshWalletBalance(ctx context.Context) error
	RefreshContractBalances(ctx context.Context) error
	RequestTokens(ctx context.Context, address string) error
	SwapToken(ctx context.Context, amount string) error
	State() dapp.State
	Close()
}

var rootCmd = &cobra.Command{
	Use:     "faucet-cli",
	Short:   "Request and swap tokens through the Celo faucet contract",
	Version: version.GetVersion().String(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		level := zapcore.WarnLevel
		if verbose {
			level = zapcore.DebugLevel
		}
		if err := logger.InitLogger(logger.WithLevel(level), logger.WithDevelopment()); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		if err := validation.NewConfigValidator().ValidateConfig(cfg); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		app = dapp.FromConfig(cfg, currency.NewDefaultRegistry())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to the config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall deadline for the command")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// runFlow loads the session, runs flow when given, and prints the banner
// and balances whatever the outcome.
func runFlow(cmd *cobra.Command, flow func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	err := app.Load(ctx)
	if err == nil && flow != nil {
		err = flow(ctx)
	}
	printState(cmd.OutOrStdout(), app.State())
	return err
}

// refreshBalances re-reads both balances after a flow moved tokens.
func refreshBalances(ctx context.Context) error {
	return errors.Join(
		app.RefreshWalletBalance(ctx),
		app.RefreshContractBalances(ctx),
	)
}

func printNotification(w io.Writer, n notify.Notification) {
	if !n.Visible || n.Text == "" {
		return
	}
	c := color.New(color.FgGreen, color.Bold)
	if isFailure(n.Text) {
		c = color.New(color.FgRed, color.Bold)
	}
	c.Fprintln(w, n.Text)
}

func printState(w io.Writer, state dapp.State) {
	printNotification(w, state.Notification)
	if !state.Connected {
		return
	}
	label := color.New(color.FgCyan)
	label.Fprint(w, "account:  ")
	fmt.Fprintln(w, state.Account)
	label.Fprint(w, "balance:  ")
	fmt.Fprintf(w, "%s cUSD\n", orDash(state.Balances.Balance))
	label.Fprint(w, "faucet:   ")
	fmt.Fprintf(w, "%s CELO, %s cUSD\n", orDash(state.Balances.CeloBal), orDash(state.Balances.CUSDBal))
}

func isFailure(text string) bool {
	switch text {
	case "Request successful", "Swap successful", "⌛ Loading...":
		return false
	}
	return true
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
