package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"talentai/internal/bootstrap"
	"talentai/internal/shared/config"
	"talentai/internal/shared/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("startup.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer app.Close(context.Background())

	if err := bootstrap.Serve(ctx, app); err != nil {
		telemetry.Error("server.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
