package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var poolsCmd = &cobra.Command{
	Use:     "pools [pool]",
	Short:   "List vesting pools, or the beneficiaries of one pool",
	GroupID: "views",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			pools, err := vestingClient.ListPools(context.Background())
			if err != nil {
				return fmt.Errorf("listing pools: %w", err)
			}
			if jsonOutput {
				printJSON(pools)
			} else {
				printPoolTable(pools)
			}
			return nil
		}

		bs, err := vestingClient.ListBeneficiaries(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing beneficiaries of %s: %w", args[0], err)
		}
		if jsonOutput {
			printJSON(bs)
		} else {
			printBeneficiaryListTable(bs)
		}
		return nil
	},
}
