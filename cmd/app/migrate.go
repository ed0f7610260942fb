package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/osse101/ssbwatch/internal/database"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withConnString(func(ctx context.Context, conn string) error {
			return database.Migrate(ctx, conn)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withConnString(func(ctx context.Context, conn string) error {
			return database.MigrateDown(ctx, conn)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: withConnString(func(ctx context.Context, conn string) error {
			version, err := database.MigrationVersion(ctx, conn)
			if err != nil {
				return fmt.Errorf("reading schema version: %w", err)
			}
			slog.Info("Schema version", "version", version)
			return database.MigrationStatus(ctx, conn)
		}),
	})

	return cmd
}

func withConnString(fn func(ctx context.Context, conn string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(ctx, cfg.GetDBConnString())
	}
}
