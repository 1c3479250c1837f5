package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/scoutmail/internal/config"
	"github.com/abdulachik/scoutmail/internal/db"
	"github.com/abdulachik/scoutmail/internal/ledger"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply pending schema migrations to the local database, or list them
with --status. Other commands migrate automatically on start.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "List migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if !migrateStatus {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database ready", "path", cfg.DatabasePath)
	}

	states, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	for _, st := range states {
		applied := mutedStyle.Render("pending")
		if !st.Pending() {
			applied = goodStyle.Render(st.AppliedAt.Format(ledger.DateLayout))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", st.Version, applied)
	}
	return nil
}
