package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"elysoir/storefront/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log.Info("Starting Elysoir storefront...")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := container.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		if err := app.Run(ctx); err != nil {
			return fmt.Errorf("application exited with error: %w", err)
		}

		log.Info("Application finished successfully")
		return nil
	},
}
