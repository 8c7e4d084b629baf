package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// parseTimestamp accepts either unix seconds or an RFC 3339 time.
func parseTimestamp(s string) (int64, error) {
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q (want unix seconds or RFC 3339)", s)
	}
	return t.Unix(), nil
}

var startDateCmd = &cobra.Command{
	Use:     "set-start-date <timestamp>",
	Short:   "Open the team and DAO vesting windows at the given time",
	GroupID: "admin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := parseTimestamp(args[0])
		if err != nil {
			return err
		}
		if err := vestingClient.SetStartDate(context.Background(), ts, actor); err != nil {
			return fmt.Errorf("setting start date: %w", err)
		}
		if jsonOutput {
			printJSON(map[string]any{"start_timestamp": ts, "pools": []string{"team", "dao"}})
		} else {
			fmt.Printf("Team and DAO vesting starts at %s\n", formatTimestamp(ts))
		}
		return nil
	},
}

var dexLaunchDateCmd = &cobra.Command{
	Use:     "set-dex-launch-date <timestamp>",
	Short:   "Open the investor vesting window at the given time",
	GroupID: "admin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := parseTimestamp(args[0])
		if err != nil {
			return err
		}
		if err := vestingClient.SetDexLaunchDate(context.Background(), ts, actor); err != nil {
			return fmt.Errorf("setting dex launch date: %w", err)
		}
		if jsonOutput {
			printJSON(map[string]any{"start_timestamp": ts, "pools": []string{"investor"}})
		} else {
			fmt.Printf("Investor vesting starts at %s\n", formatTimestamp(ts))
		}
		return nil
	},
}
