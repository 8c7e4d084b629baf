package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var distributionCmd = &cobra.Command{
	Use:     "init-distribution",
	Short:   "Carve the treasury into vesting pools",
	GroupID: "admin",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pools, err := vestingClient.InitializeDistribution(context.Background(), actor)
		if err != nil {
			return fmt.Errorf("initializing distribution: %w", err)
		}

		if jsonOutput {
			printJSON(pools)
		} else {
			printPoolTable(pools)
		}
		return nil
	},
}
