package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by Queries.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the typed statements for the store.
type Queries struct {
	db DBTX
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to a transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createSession = `
INSERT INTO sessions (id, manuscript, word_count, signals)
VALUES (?, ?, ?, ?)
RETURNING id, manuscript, word_count, signals, profile, intel, created_at, updated_at
`

// CreateSessionParams are the inputs for CreateSession.
type CreateSessionParams struct {
	ID         string
	Manuscript string
	WordCount  int64
	Signals    string
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (*Session, error) {
	row := q.db.QueryRowContext(ctx, createSession, arg.ID, arg.Manuscript, arg.WordCount, arg.Signals)
	return scanSession(row)
}

const getSession = `
SELECT id, manuscript, word_count, signals, profile, intel, created_at, updated_at
FROM sessions WHERE id = ?
`

func (q *Queries) GetSession(ctx context.Context, id string) (*Session, error) {
	return scanSession(q.db.QueryRowContext(ctx, getSession, id))
}

const getLatestSession = `
SELECT id, manuscript, word_count, signals, profile, intel, created_at, updated_at
FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT 1
`

func (q *Queries) GetLatestSession(ctx context.Context) (*Session, error) {
	return scanSession(q.db.QueryRowContext(ctx, getLatestSession))
}

const updateSessionProfile = `
UPDATE sessions SET profile = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

// UpdateSessionProfileParams are the inputs for UpdateSessionProfile.
type UpdateSessionProfileParams struct {
	ID      string
	Profile sql.NullString
}

func (q *Queries) UpdateSessionProfile(ctx context.Context, arg UpdateSessionProfileParams) error {
	_, err := q.db.ExecContext(ctx, updateSessionProfile, arg.Profile, arg.ID)
	return err
}

const updateSessionIntel = `
UPDATE sessions SET intel = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

// UpdateSessionIntelParams are the inputs for UpdateSessionIntel.
type UpdateSessionIntelParams struct {
	ID    string
	Intel sql.NullString
}

func (q *Queries) UpdateSessionIntel(ctx context.Context, arg UpdateSessionIntelParams) error {
	_, err := q.db.ExecContext(ctx, updateSessionIntel, arg.Intel, arg.ID)
	return err
}

const countSessions = `SELECT COUNT(*) FROM sessions`

func (q *Queries) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countSessions).Scan(&count)
	return count, err
}

const deleteMatchResults = `DELETE FROM match_results WHERE session_id = ?`

func (q *Queries) DeleteMatchResults(ctx context.Context, sessionID string) error {
	_, err := q.db.ExecContext(ctx, deleteMatchResults, sessionID)
	return err
}

const createMatchResult = `
INSERT INTO match_results (session_id, position, publisher, score, rationale, degraded)
VALUES (?, ?, ?, ?, ?, ?)
`

// CreateMatchResultParams are the inputs for CreateMatchResult.
type CreateMatchResultParams struct {
	SessionID string
	Position  int64
	Publisher string
	Score     int64
	Rationale string
	Degraded  bool
}

func (q *Queries) CreateMatchResult(ctx context.Context, arg CreateMatchResultParams) error {
	_, err := q.db.ExecContext(ctx, createMatchResult,
		arg.SessionID, arg.Position, arg.Publisher, arg.Score, arg.Rationale, arg.Degraded)
	return err
}

const listMatchResults = `
SELECT id, session_id, position, publisher, score, rationale, degraded, created_at
FROM match_results WHERE session_id = ? ORDER BY position
`

func (q *Queries) ListMatchResults(ctx context.Context, sessionID string) ([]*MatchResult, error) {
	rows, err := q.db.QueryContext(ctx, listMatchResults, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*MatchResult
	for rows.Next() {
		var m MatchResult
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Position, &m.Publisher,
			&m.Score, &m.Rationale, &m.Degraded, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

const createLedgerEntry = `
INSERT INTO ledger_entries (sent_at, book, publishers, rights_holder, status, source)
VALUES (?, ?, ?, ?, ?, ?)
`

// CreateLedgerEntryParams are the inputs for CreateLedgerEntry.
type CreateLedgerEntryParams struct {
	SentAt       time.Time
	Book         string
	Publishers   string
	RightsHolder string
	Status       string
	Source       string
}

func (q *Queries) CreateLedgerEntry(ctx context.Context, arg CreateLedgerEntryParams) error {
	_, err := q.db.ExecContext(ctx, createLedgerEntry,
		arg.SentAt, arg.Book, arg.Publishers, arg.RightsHolder, arg.Status, arg.Source)
	return err
}

const listLedgerEntries = `
SELECT id, sent_at, book, publishers, rights_holder, status, source
FROM ledger_entries ORDER BY id
`

func (q *Queries) ListLedgerEntries(ctx context.Context) ([]*LedgerEntry, error) {
	rows, err := q.db.QueryContext(ctx, listLedgerEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.SentAt, &e.Book, &e.Publishers,
			&e.RightsHolder, &e.Status, &e.Source); err != nil {
			return nil, err
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}

const countLedgerEntries = `SELECT COUNT(*) FROM ledger_entries`

func (q *Queries) CountLedgerEntries(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countLedgerEntries).Scan(&count)
	return count, err
}

const createDispatchOutcome = `
INSERT INTO dispatch_outcomes (run_id, book, publisher, email, status, message)
VALUES (?, ?, ?, ?, ?, ?)
`

// CreateDispatchOutcomeParams are the inputs for CreateDispatchOutcome.
type CreateDispatchOutcomeParams struct {
	RunID     string
	Book      string
	Publisher string
	Email     string
	Status    string
	Message   sql.NullString
}

func (q *Queries) CreateDispatchOutcome(ctx context.Context, arg CreateDispatchOutcomeParams) error {
	_, err := q.db.ExecContext(ctx, createDispatchOutcome,
		arg.RunID, arg.Book, arg.Publisher, arg.Email, arg.Status, arg.Message)
	return err
}

const countDispatchOutcomesByStatus = `
SELECT status, COUNT(*) FROM dispatch_outcomes GROUP BY status ORDER BY status
`

// CountDispatchOutcomesByStatusRow is one status bucket.
type CountDispatchOutcomesByStatusRow struct {
	Status string
	Count  int64
}

func (q *Queries) CountDispatchOutcomesByStatus(ctx context.Context) ([]CountDispatchOutcomesByStatusRow, error) {
	rows, err := q.db.QueryContext(ctx, countDispatchOutcomesByStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CountDispatchOutcomesByStatusRow
	for rows.Next() {
		var r CountDispatchOutcomesByStatusRow
		if err := rows.Scan(&r.Status, &r.Count); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	if err := row.Scan(&s.ID, &s.Manuscript, &s.WordCount, &s.Signals,
		&s.Profile, &s.Intel, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
