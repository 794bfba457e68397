package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/storage/db"
	"resume-parser/internal/shared/telemetry"
)

func newMigrateCmd() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the parse audit log migrations to DATABASE_URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), config.Load(), down)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "Roll back the most recent migration instead")
	return cmd
}

func runMigrate(ctx context.Context, cfg config.Config, down bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	if down {
		err = db.RollbackMigration(ctx, sqlDB)
	} else {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	telemetry.Info("migrate.done", map[string]any{"down": down})
	return nil
}
