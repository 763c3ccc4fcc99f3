package main

import (
	"encoding/json"
	"fmt"
	"os"

	"elysoir/storefront/internal/container"

	"github.com/spf13/cobra"
)

var syncReportOnly bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one catalog sync and print the result as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		app, err := container.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		snap := app.Sync(cmd.Context())

		var out any = snap
		if syncReportOnly {
			report, err := app.Service.LastReport(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read sync report: %w", err)
			}
			out = report
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncReportOnly, "report", false, "print only the sync report")
}
