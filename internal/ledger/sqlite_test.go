package ledger

import (
	"context"
	"testing"

	"github.com/abdulachik/scoutmail/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteBackend(t *testing.T) {
	store := db.NewTestStore(t)
	ctx := context.Background()

	l := New(Config{Backend: NewSQLiteBackend(store.Queries)})
	assert.False(t, l.HasBeenSent(ctx, "Kitap", "A"))

	require.NoError(t, l.Record(ctx, "Kitap", []string{"A", "C"}, "hak@example.com"))
	assert.True(t, l.HasBeenSent(ctx, "Kitap", "A"))
	assert.True(t, l.HasBeenSent(ctx, "Kitap", "C"))
	assert.False(t, l.HasBeenSent(ctx, "Kitap", "B"))

	history, err := l.History(ctx, "Kitap")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "A, C", history[0].Publishers)
	assert.Equal(t, DefaultSource, history[0].Source)
	assert.False(t, history[0].Date.IsZero())
}
