package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Dump the whole ledger as JSONL",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := os.Stdout
		if exportFile != "" {
			f, err := os.Create(exportFile)
			if err != nil {
				return fmt.Errorf("creating %s: %w", exportFile, err)
			}
			defer f.Close()
			out = f
		}

		if err := vestingClient.Export(context.Background(), out); err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "output", "o", "", "write to a file instead of stdout")
}
