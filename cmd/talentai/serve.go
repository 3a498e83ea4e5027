package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"talentai/internal/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and upload form",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := bootstrap.Build(ctx, loadConfig())
		if err != nil {
			return err
		}
		defer app.Close(context.Background())
		return bootstrap.Serve(ctx, app)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
