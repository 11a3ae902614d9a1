package main

// Apply the referrals and site_content migrations:
//   DATABASE_URL=postgres://... go run ./cmd/migrate

import (
	"context"
	"os"

	"practice-backend/internal/shared/config"
	"practice-backend/internal/shared/storage/db"
	"practice-backend/internal/shared/telemetry"
)

func main() {
	os.Exit(run(context.Background(), config.Load()))
}

func run(ctx context.Context, cfg config.Config) int {
	defer telemetry.Sync()

	names, err := db.MigrationNames()
	if err != nil {
		telemetry.Error("migrate.list_failed", map[string]any{"error": err})
		return 1
	}
	telemetry.Info("migrate.start", map[string]any{"env": cfg.Env, "migrations": names})

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		return 1
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		return 1
	}
	return 0
}
