package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "workmatch",
	Short:         "FarmEase work matching service",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Without a subcommand the API server runs.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
}

// @title        FarmEase Work Matching API
// @version      1.0
// @description  Matches short-term farm work listings to laborers and notifies affected parties.
// @BasePath     /api/v1
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
