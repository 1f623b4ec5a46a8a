package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/parcelops/shiptrack/internal/config"
	"github.com/parcelops/shiptrack/pkg/logging"
	"github.com/parcelops/shiptrack/pkg/ups"
	"github.com/parcelops/shiptrack/pkg/usps"
	"github.com/spf13/cobra"
)

func newTrackCmd() *cobra.Command {
	var carrier string
	var raw bool
	var concurrency int

	cmd := &cobra.Command{
		Use:   "track [tracking numbers...]",
		Short: "Track shipments and print the results as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(logging.Config{
				Level:  logging.LogLevel(cfg.LogLevel),
				Pretty: cfg.LogPretty,
				Output: os.Stderr,
			})
			if concurrency > 0 {
				cfg.Concurrency = concurrency
			}

			ctx := cmd.Context()
			var out interface{}

			switch carrier {
			case "ups":
				client := ups.New(upsConfig(cfg))
				if raw {
					out = client.TrackRaw(ctx, args)
				} else {
					out = client.Track(ctx, args)
				}
			case "usps":
				client, err := usps.New(uspsConfig(cfg))
				if err != nil {
					return err
				}
				if raw {
					out = client.TrackRaw(ctx, args)
				} else {
					out = client.Track(ctx, args)
				}
			default:
				return fmt.Errorf("unknown carrier %q (want ups or usps)", carrier)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&carrier, "carrier", "ups", "carrier to query (ups or usps)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print raw carrier responses instead of normalized records")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "payloads in flight at once (default from TRACK_CONCURRENCY)")

	return cmd
}
