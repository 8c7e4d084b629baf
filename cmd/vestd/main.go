package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/vestd/internal/client"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	actor      string

	vestingClient client.VestingClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("VESTD_HTTP_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "vestd <command>",
	Short: "CLI client for the vesting ledger service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		vestingClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if vestingClient != nil {
			vestingClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("VESTD_AUTH_TOKEN"), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "actor name recorded on admin operations")

	rootCmd.AddGroup(
		&cobra.Group{ID: "admin", Title: "Administration:"},
		&cobra.Group{ID: "claims", Title: "Claims:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Administration
	rootCmd.AddCommand(fundCmd)
	rootCmd.AddCommand(distributionCmd)
	rootCmd.AddCommand(startDateCmd)
	rootCmd.AddCommand(dexLaunchDateCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(registerCoreCmd)

	// Claims
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(claimableCmd)

	// Views
	rootCmd.AddCommand(poolsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
