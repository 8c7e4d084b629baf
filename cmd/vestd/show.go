package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <address>",
	Short:   "Show a beneficiary and their claim history",
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := vestingClient.GetBeneficiary(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("getting beneficiary %s: %w", args[0], err)
		}
		claims, err := vestingClient.ListClaims(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing claims: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]any{"beneficiary": b, "claims": claims})
			return nil
		}

		printBeneficiaryTable(b)
		if len(claims) > 0 {
			fmt.Println()
			fmt.Println("Claims:")
			printClaimListTable(claims)
		}
		return nil
	},
}
