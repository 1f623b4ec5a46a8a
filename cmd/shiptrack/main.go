// shiptrack is the batch shipment tracking CLI and HTTP service.
package main

import (
	"os"

	"github.com/parcelops/shiptrack/internal/config"
	"github.com/parcelops/shiptrack/pkg/ups"
	"github.com/parcelops/shiptrack/pkg/usps"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "shiptrack",
		Short:        "Batch shipment tracking for UPS and USPS",
		SilenceUsage: true,
	}

	root.AddCommand(newTrackCmd())
	root.AddCommand(newServeCmd())

	return root
}

func upsConfig(cfg *config.Config) ups.Config {
	c := ups.DefaultConfig(cfg.UPSUsername, cfg.UPSPassword, cfg.UPSLicense)
	c.Batch.MaxConcurrency = cfg.Concurrency
	return c
}

func uspsConfig(cfg *config.Config) usps.Config {
	c := usps.DefaultConfig(cfg.USPSUserID, cfg.USPSCompanyName)
	c.ClientIP = cfg.USPSClientIP
	c.Batch.MaxConcurrency = cfg.Concurrency
	return c
}
