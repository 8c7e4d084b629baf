package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:     "balance <account>",
	Short:   "Show the token balance of an account",
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := vestingClient.GetBalance(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("getting balance: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			fmt.Printf("%s: %s\n", resp.Account, resp.Balance)
		}
		return nil
	},
}
