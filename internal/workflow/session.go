// Package workflow carries one manuscript through the pipeline. A session is
// created when a manuscript is loaded and replaced by the next one.
package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abdulachik/scoutmail/internal/db"
	"github.com/abdulachik/scoutmail/internal/extractor"
	"github.com/abdulachik/scoutmail/internal/matcher"
	"github.com/abdulachik/scoutmail/internal/scanner"
)

// ErrNoSession is returned when no session matches.
var ErrNoSession = errors.New("no session")

// Session is the pipeline state for one manuscript.
type Session struct {
	ID         string
	Manuscript string
	WordCount  int
	Scan       scanner.Result
	Profile    *extractor.BookProfile
	Intel      *extractor.IntelRecord
	Matches    []matcher.Result
	CreatedAt  time.Time
}

// Book returns the profile title, or the manuscript name before extraction.
func (s *Session) Book() string {
	if s.Profile != nil && s.Profile.Title != "" {
		return s.Profile.Title
	}
	return s.Manuscript
}

// Store persists sessions in the local database.
type Store struct {
	store *db.Store
}

// NewStore wraps a database store.
func NewStore(store *db.Store) *Store {
	return &Store{store: store}
}

// Start creates a session for a prepared manuscript.
func (s *Store) Start(ctx context.Context, m *extractor.Manuscript, scan scanner.Result) (*Session, error) {
	hits := scan.Hits
	if hits == nil {
		hits = []scanner.Hit{}
	}
	signals, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("encode signals: %w", err)
	}

	row, err := s.store.CreateSession(ctx, db.CreateSessionParams{
		ID:         uuid.NewString(),
		Manuscript: m.Name,
		WordCount:  int64(m.WordCount),
		Signals:    string(signals),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s.hydrate(ctx, row)
}

// Load returns the session with the given id, or the latest one when id is
// empty.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	var (
		row *db.Session
		err error
	)
	if id == "" {
		row, err = s.store.GetLatestSession(ctx)
	} else {
		row, err = s.store.GetSession(ctx, id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.hydrate(ctx, row)
}

// SaveProfile stores the extracted profile on the session.
func (s *Store) SaveProfile(ctx context.Context, sess *Session, p *extractor.BookProfile) error {
	err := s.store.UpdateSessionProfile(ctx, db.UpdateSessionProfileParams{
		ID:      sess.ID,
		Profile: sql.NullString{String: p.JSON(), Valid: true},
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	sess.Profile = p
	return nil
}

// SaveIntel stores the refined market record on the session.
func (s *Store) SaveIntel(ctx context.Context, sess *Session, intel extractor.IntelRecord) error {
	data, err := json.Marshal(intel)
	if err != nil {
		return fmt.Errorf("encode intel: %w", err)
	}
	err = s.store.UpdateSessionIntel(ctx, db.UpdateSessionIntelParams{
		ID:    sess.ID,
		Intel: sql.NullString{String: string(data), Valid: true},
	})
	if err != nil {
		return fmt.Errorf("save intel: %w", err)
	}
	sess.Intel = &intel
	return nil
}

// SaveMatches replaces the session's match results, keeping their order.
func (s *Store) SaveMatches(ctx context.Context, sess *Session, results []matcher.Result) error {
	tx, err := s.store.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.store.WithTx(tx)
	if err := q.DeleteMatchResults(ctx, sess.ID); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	for i, r := range results {
		err := q.CreateMatchResult(ctx, db.CreateMatchResultParams{
			SessionID: sess.ID,
			Position:  int64(i),
			Publisher: r.Publisher,
			Score:     int64(r.Score),
			Rationale: r.Rationale,
			Degraded:  r.Degraded,
		})
		if err != nil {
			return fmt.Errorf("save match %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit matches: %w", err)
	}

	sess.Matches = results
	return nil
}

func (s *Store) hydrate(ctx context.Context, row *db.Session) (*Session, error) {
	sess := &Session{
		ID:         row.ID,
		Manuscript: row.Manuscript,
		WordCount:  int(row.WordCount),
		CreatedAt:  row.CreatedAt,
	}

	if err := json.Unmarshal([]byte(row.Signals), &sess.Scan.Hits); err != nil {
		return nil, fmt.Errorf("decode signals: %w", err)
	}

	if row.Profile.Valid {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(row.Profile.String), &fields); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		p, err := extractor.ParseProfile(fields)
		if err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		sess.Profile = p
	}

	if row.Intel.Valid {
		var intel extractor.IntelRecord
		if err := json.Unmarshal([]byte(row.Intel.String), &intel); err != nil {
			return nil, fmt.Errorf("decode intel: %w", err)
		}
		sess.Intel = &intel
	}

	rows, err := s.store.ListMatchResults(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	for _, m := range rows {
		sess.Matches = append(sess.Matches, matcher.Result{
			Publisher: m.Publisher,
			Score:     int(m.Score),
			Rationale: m.Rationale,
			Degraded:  m.Degraded,
		})
	}
	return sess, nil
}
