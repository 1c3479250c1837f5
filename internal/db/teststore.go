package db

import (
	"context"
	"path/filepath"
	"testing"
)

// NewTestStore returns a migrated store under t.TempDir, closed on cleanup.
// Other packages use it to exercise their sqlite-backed code.
func NewTestStore(t testing.TB) *Store {
	t.Helper()

	ctx := context.Background()
	s, err := NewStore(ctx, filepath.Join(t.TempDir(), "scoutmail-test.db"))
	if err != nil {
		t.Fatalf("db.NewTestStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("db.NewTestStore: migrate: %v", err)
	}
	return s
}
