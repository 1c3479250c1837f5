package ledger

import (
	"context"

	"github.com/abdulachik/scoutmail/internal/db"
)

// SQLiteBackend keeps the ledger in the local database.
type SQLiteBackend struct {
	q *db.Queries
}

// NewSQLiteBackend returns a backend on the store's ledger table.
func NewSQLiteBackend(q *db.Queries) *SQLiteBackend {
	return &SQLiteBackend{q: q}
}

// Entries lists every row in insertion order.
func (b *SQLiteBackend) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := b.q.ListLedgerEntries(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{
			Date:         r.SentAt,
			Book:         r.Book,
			Publishers:   r.Publishers,
			RightsHolder: r.RightsHolder,
			Status:       r.Status,
			Source:       r.Source,
		}
	}
	return entries, nil
}

// Append inserts one row.
func (b *SQLiteBackend) Append(ctx context.Context, e Entry) error {
	return b.q.CreateLedgerEntry(ctx, db.CreateLedgerEntryParams{
		SentAt:       e.Date,
		Book:         e.Book,
		Publishers:   e.Publishers,
		RightsHolder: e.RightsHolder,
		Status:       e.Status,
		Source:       e.Source,
	})
}
