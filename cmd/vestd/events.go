package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:     "events <address>",
	Short:   "Show the event history for an address",
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		evs, err := vestingClient.ListEvents(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}

		if jsonOutput {
			printJSON(evs)
		} else {
			printEventListTable(evs)
		}
		return nil
	},
}
