package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:     "register <pool> <address> [address...]",
	Short:   "Register beneficiaries in an even-split pool",
	GroupID: "admin",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pool := args[0]
		addresses := args[1:]

		if len(addresses) == 1 {
			b, err := vestingClient.Register(context.Background(), pool, addresses[0], actor)
			if err != nil {
				return fmt.Errorf("registering %s: %w", addresses[0], err)
			}
			if jsonOutput {
				printJSON(b)
			} else {
				printBeneficiaryTable(b)
			}
			return nil
		}

		bs, err := vestingClient.RegisterBatch(context.Background(), pool, addresses, actor)
		if err != nil {
			return fmt.Errorf("registering batch: %w", err)
		}
		if jsonOutput {
			printJSON(bs)
		} else {
			printBeneficiaryListTable(bs)
		}
		return nil
	},
}
