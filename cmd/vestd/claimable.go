package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var claimableAt string

var claimableCmd = &cobra.Command{
	Use:     "claimable <address>",
	Short:   "Show what an address could claim now or at a future time",
	GroupID: "claims",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var at int64
		if claimableAt != "" {
			var err error
			at, err = parseTimestamp(claimableAt)
			if err != nil {
				return err
			}
		}

		resp, err := vestingClient.Claimable(context.Background(), args[0], at)
		if err != nil {
			return fmt.Errorf("fetching claimable: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
		} else if at > 0 {
			fmt.Printf("Claimable at %s: %s\n", formatTimestamp(at), resp.Claimable)
		} else {
			fmt.Printf("Claimable: %s\n", resp.Claimable)
		}
		return nil
	},
}

func init() {
	claimableCmd.Flags().StringVar(&claimableAt, "at", "", "project at a timestamp (unix seconds or RFC 3339)")
}
