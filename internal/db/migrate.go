package db

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/abdulachik/scoutmail/internal/db/migrations"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Migration is one embedded schema file.
type Migration struct {
	Version string
	Up      string
	Down    string
}

// MigrationState reports whether a migration has been applied.
type MigrationState struct {
	Version   string
	AppliedAt time.Time // zero when pending
}

// Pending reports whether the migration still has to run.
func (m MigrationState) Pending() bool {
	return m.AppliedAt.IsZero()
}

// Migrate applies every pending migration, each in its own transaction.
func (s *Store) Migrate(ctx context.Context) error {
	states, all, err := s.migrationStates(ctx)
	if err != nil {
		return err
	}

	applied := 0
	for i, st := range states {
		if !st.Pending() {
			continue
		}
		m := all[i]
		slog.Info("applying migration", "version", m.Version)

		tx, err := s.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.Version, err)
		}
		applied++
	}

	slog.Debug("migrations up to date", "applied", applied, "total", len(all))
	return nil
}

// MigrationStatus lists every embedded migration with its applied time.
func (s *Store) MigrationStatus(ctx context.Context) ([]MigrationState, error) {
	states, _, err := s.migrationStates(ctx)
	return states, err
}

func (s *Store) migrationStates(ctx context.Context) ([]MigrationState, []Migration, error) {
	_, err := s.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("create migrations table: %w", err)
	}

	rows, err := s.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var (
			version string
			at      time.Time
		)
		if err := rows.Scan(&version, &at); err != nil {
			return nil, nil, fmt.Errorf("scan migration: %w", err)
		}
		applied[version] = at
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate migrations: %w", err)
	}

	all, err := loadMigrations(migrations.FS)
	if err != nil {
		return nil, nil, err
	}

	states := make([]MigrationState, len(all))
	for i, m := range all {
		states[i] = MigrationState{Version: m.Version, AppliedAt: applied[m.Version]}
	}
	return states, all, nil
}

// loadMigrations reads the .sql files of fsys in lexical order.
func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		up, down := splitMigration(string(content))
		out = append(out, Migration{Version: entry.Name(), Up: up, Down: down})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// splitMigration returns the Up and Down sections of a migration file. A
// file without markers is all Up.
func splitMigration(content string) (up, down string) {
	up = content
	if idx := strings.Index(content, downMarker); idx != -1 {
		up = content[:idx]
		down = strings.TrimSpace(content[idx+len(downMarker):])
	}
	up = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(up), upMarker))
	return up, down
}
