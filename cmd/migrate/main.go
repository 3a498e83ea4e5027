package main

// Apply audit_logs migrations for a SQL audit store:
//   AUDIT_STORE_URL=postgres://... go run ./cmd/migrate

import (
	"context"
	"errors"
	"os"

	"talentai/internal/audit"
	"talentai/internal/shared/config"
	"talentai/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if err := audit.Migrate(ctx, cfg.AuditStoreURL); err != nil {
		if errors.Is(err, audit.ErrNoMigrations) {
			telemetry.Info("migrate.skipped", map[string]any{"reason": err.Error()})
			return
		}
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
