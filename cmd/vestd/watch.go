package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/groblegark/vestd/internal/events"
)

var (
	watchNATSURL string
	watchTopic   string
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream ledger events from the bus as they happen",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchNATSURL == "" {
			return fmt.Errorf("no NATS URL (set --nats-url or VESTD_NATS_URL)")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(watchNATSURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(watchTopic)
		if err != nil {
			return err
		}
		defer cancel()

		fmt.Fprintf(os.Stderr, "watching %s on %s (ctrl-c to stop)\n", watchTopic, watchNATSURL)
		for {
			select {
			case <-ctx.Done():
				return nil
			case payload, ok := <-ch:
				if !ok {
					return nil
				}
				printEventPayload(payload)
			}
		}
	},
}

// printEventPayload compacts the raw payload to one line per event; --json
// pretty-prints instead.
func printEventPayload(payload []byte) {
	if jsonOutput {
		var v any
		if err := json.Unmarshal(payload, &v); err == nil {
			printJSON(v)
			return
		}
	}
	var buf []byte
	if compact, err := compactJSON(payload); err == nil {
		buf = compact
	} else {
		buf = payload
	}
	fmt.Println(string(buf))
}

func compactJSON(data []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func init() {
	watchCmd.Flags().StringVar(&watchNATSURL, "nats-url", os.Getenv("VESTD_NATS_URL"), "NATS server URL")
	watchCmd.Flags().StringVar(&watchTopic, "topic", "vesting.>", "topic to subscribe to (NATS wildcards allowed)")
}
