package db

import (
	"database/sql"
	"time"
)

// Session is a persisted workflow session for one manuscript.
type Session struct {
	ID         string
	Manuscript string
	WordCount  int64
	Signals    string
	Profile    sql.NullString
	Intel      sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MatchResult is one stored publisher compatibility verdict.
type MatchResult struct {
	ID        int64
	SessionID string
	Position  int64
	Publisher string
	Score     int64
	Rationale string
	Degraded  bool
	CreatedAt time.Time
}

// LedgerEntry is one row of the local send ledger.
type LedgerEntry struct {
	ID           int64
	SentAt       time.Time
	Book         string
	Publishers   string
	RightsHolder string
	Status       string
	Source       string
}

// DispatchOutcome records what happened to one recipient in a dispatch run.
type DispatchOutcome struct {
	ID        int64
	RunID     string
	Book      string
	Publisher string
	Email     string
	Status    string
	Message   sql.NullString
	CreatedAt time.Time
}
