package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/vestd/internal/client"
	"github.com/groblegark/vestd/internal/model"
)

var (
	coreStart    string
	coreDuration int64
)

var registerCoreCmd = &cobra.Command{
	Use:     "register-core <address> <grant>",
	Short:   "Register a core team member with an individual grant and window",
	GroupID: "admin",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		grant, err := model.ParseAmount(args[1])
		if err != nil {
			return fmt.Errorf("parsing grant: %w", err)
		}
		start, err := parseTimestamp(coreStart)
		if err != nil {
			return err
		}

		b, err := vestingClient.RegisterCoreMember(context.Background(), &client.RegisterCoreMemberRequest{
			Address:         args[0],
			Grant:           grant,
			StartTimestamp:  start,
			DurationSeconds: coreDuration,
			Actor:           actor,
		})
		if err != nil {
			return fmt.Errorf("registering core member: %w", err)
		}

		if jsonOutput {
			printJSON(b)
		} else {
			printBeneficiaryTable(b)
		}
		return nil
	},
}

func init() {
	registerCoreCmd.Flags().StringVar(&coreStart, "start", "", "vesting start (unix seconds or RFC 3339)")
	registerCoreCmd.Flags().Int64Var(&coreDuration, "duration", 0, "vesting duration in seconds")
	registerCoreCmd.MarkFlagRequired("start")
	registerCoreCmd.MarkFlagRequired("duration")
}
