package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/vestd/internal/model"
)

var fundCmd = &cobra.Command{
	Use:     "fund <amount>",
	Short:   "Add tokens to the treasury balance",
	GroupID: "admin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := model.ParseAmount(args[0])
		if err != nil {
			return fmt.Errorf("parsing amount: %w", err)
		}

		balance, err := vestingClient.Fund(context.Background(), amount, actor)
		if err != nil {
			return fmt.Errorf("funding: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]any{"balance": balance})
		} else {
			fmt.Printf("Treasury balance: %s\n", balance)
		}
		return nil
	},
}
