package dispatch

import (
	"context"
	"database/sql"

	"github.com/abdulachik/scoutmail/internal/db"
)

// DBRecorder stores outcomes in the local database.
type DBRecorder struct {
	q *db.Queries
}

// NewDBRecorder returns a recorder on the store's outcome table.
func NewDBRecorder(q *db.Queries) *DBRecorder {
	return &DBRecorder{q: q}
}

// RecordOutcome inserts one outcome row.
func (r *DBRecorder) RecordOutcome(ctx context.Context, runID, book string, o Outcome) error {
	return r.q.CreateDispatchOutcome(ctx, db.CreateDispatchOutcomeParams{
		RunID:     runID,
		Book:      book,
		Publisher: o.Recipient.Publisher,
		Email:     o.Recipient.Email,
		Status:    string(o.Status),
		Message:   sql.NullString{String: o.Message, Valid: o.Message != ""},
	})
}
