package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var claimCmd = &cobra.Command{
	Use:     "claim <address>",
	Short:   "Claim everything currently vested for an address",
	GroupID: "claims",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		receipt, err := vestingClient.Claim(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("claiming: %w", err)
		}

		if jsonOutput {
			printJSON(receipt)
			return nil
		}
		if receipt.Amount.IsZero() {
			fmt.Println("Nothing to claim right now.")
			return nil
		}
		printClaimTable(receipt)
		return nil
	},
}
