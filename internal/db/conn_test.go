package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "scout.db")
	s := openStore(t, path)

	_, err := os.Stat(path)
	require.NoError(t, err)

	var one int
	require.NoError(t, s.QueryRowContext(context.Background(), "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestNewStore_Pragmas(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "scout.db"))

	cases := map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"busy_timeout": "5000",
	}
	for pragma, want := range cases {
		var got string
		err := s.QueryRowContext(context.Background(), "PRAGMA "+pragma).Scan(&got)
		require.NoError(t, err, pragma)
		assert.Equal(t, want, got, pragma)
	}
}

func TestDSN(t *testing.T) {
	got := dsn("data/x.db")
	assert.True(t, strings.HasPrefix(got, "file:data/x.db?"))
	assert.Equal(t, 3, strings.Count(got, "_pragma="))
}

func TestStore_Migrate(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "scout.db"))

	// a second run must be a no-op
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))

	rows, err := s.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	require.NoError(t, err)
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	assert.Subset(t, tables, []string{"sessions", "match_results", "ledger_entries", "dispatch_outcomes"})

	n, err := s.CountSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_MigrationStatus(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	states, err := store.MigrationStatus(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, states)
	assert.Equal(t, "001_initial.sql", states[0].Version)
	assert.True(t, states[0].Pending())

	require.NoError(t, store.Migrate(ctx))

	states, err = store.MigrationStatus(ctx)
	require.NoError(t, err)
	for _, st := range states {
		assert.False(t, st.Pending(), st.Version)
	}
}

func TestSplitMigration(t *testing.T) {
	t.Run("splits up and down", func(t *testing.T) {
		content := `-- +migrate Up
CREATE TABLE test (id INTEGER);

-- +migrate Down
DROP TABLE test;
`
		up, down := splitMigration(content)
		assert.Equal(t, "CREATE TABLE test (id INTEGER);", up)
		assert.Equal(t, "DROP TABLE test;", down)
	})

	t.Run("handles no markers", func(t *testing.T) {
		up, down := splitMigration("CREATE TABLE test (id INTEGER);")
		assert.Equal(t, "CREATE TABLE test (id INTEGER);", up)
		assert.Empty(t, down)
	})
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql":  {Data: []byte("-- +migrate Up\nSELECT 2;")},
		"001_a.sql":  {Data: []byte("-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 0;")},
		"README.txt": {Data: []byte("ignored")},
	}

	got, err := loadMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []Migration{
		{Version: "001_a.sql", Up: "SELECT 1;", Down: "SELECT 0;"},
		{Version: "002_b.sql", Up: "SELECT 2;"},
	}, got)
}
