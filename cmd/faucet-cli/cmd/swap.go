package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var swapCmd = &cobra.Command{
	Use:     "swap <amount>",
	Short:   "Approve and swap an amount of cUSD through the faucet",
	Example: "  faucet-cli swap 2.5",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlow(cmd, func(ctx context.Context) error {
			if err := app.SwapToken(ctx, args[0]); err != nil {
				return err
			}
			return refreshBalances(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(swapCmd)
}
