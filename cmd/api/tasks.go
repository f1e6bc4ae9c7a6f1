package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/farmease/workmatch/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Opening the app applies migrations.
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.StorageDriver != config.StoragePostgres {
			return errors.New("migrate requires STORAGE_DRIVER=postgres")
		}

		a.log.Info().Msg("Database is up to date")
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Complete every active listing whose work date has passed, once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.listings.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		a.log.Info().Int64("completed", n).Msg("Sweep command finished")
		return nil
	},
}
