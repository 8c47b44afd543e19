package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var requestCmd = &cobra.Command{
	Use:   "request <address>",
	Short: "Ask the faucet to send tokens to an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, func(ctx context.Context) error {
			if err := app.RequestTokens(ctx, args[0]); err != nil {
				return err
			}
			return refreshBalances(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(requestCmd)
}
