package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/spacebridge/connsync-server/database"
)

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back database migrations",
	Long: `Roll back all applied database migrations. This is destructive: the
connections table and its data are dropped. Intended for development and
test environments only.`,
	RunE: runMigrateDown,
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	connString, cfg, err := migrationConnString(cmd)
	if err != nil {
		return err
	}

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}

	if !yes {
		slog.Warn("About to roll back ALL migrations, this drops the connections table",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Database)
		if !confirm() {
			slog.Info("Rollback cancelled by user")
			return nil
		}
	}

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(ctx); closeErr != nil {
			slog.Error("Error closing database connection", "error", closeErr)
		}
	}()

	slog.Info("Rolling back database migrations...")
	if err := database.MigrateDown(ctx, conn); err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	slog.Info("Rollback complete")
	return nil
}
