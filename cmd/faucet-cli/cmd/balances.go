package cmd

import (
	"github.com/spf13/cobra"
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show the wallet and faucet balances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, nil)
	},
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}
