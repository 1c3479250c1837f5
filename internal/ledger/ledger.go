// Package ledger records successful sends and answers whether a book was
// already pitched to a publisher.
//
// The ledger is read, then appended to, without a lock. Two dispatch runs
// against the same backend at once can both see "not sent"; the workflow
// assumes one operator at a time.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnavailable means the backing store could not be read or written.
var ErrUnavailable = errors.New("ledger unavailable")

// Header is the fixed first row of the worksheet.
var Header = []string{"Date", "Book", "Publishers", "RightsHolder", "Status", "Source"}

const (
	// DateLayout formats the Date column.
	DateLayout = "2006-01-02 15:04"
	// StatusSuccess is the only status this package writes.
	StatusSuccess = "success"
	// DefaultSource tags rows written by this tool.
	DefaultSource = "scoutmail"
)

// Entry is one ledger row. Publishers holds the comma-joined names.
type Entry struct {
	Date         time.Time
	Book         string
	Publishers   string
	RightsHolder string
	Status       string
	Source       string
}

// Backend stores ledger rows.
type Backend interface {
	Entries(ctx context.Context) ([]Entry, error)
	Append(ctx context.Context, e Entry) error
}

// MatchMode selects how a publisher name is compared with a row.
type MatchMode string

const (
	// MatchSubstring treats the publisher as sent if its name occurs anywhere
	// in the row's Publishers cell, case-sensitively.
	MatchSubstring MatchMode = "substring"
	// MatchExact splits the cell on commas and compares case- and
	// space-normalized names.
	MatchExact MatchMode = "exact"
)

// ParseMatchMode validates a mode name. Empty means substring.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchExact:
		return MatchExact, nil
	}
	return "", fmt.Errorf("unknown ledger match mode %q", s)
}

// Ledger is the send history.
type Ledger struct {
	backend Backend
	mode    MatchMode
	source  string
	now     func() time.Time
}

// Config holds configuration for the ledger.
type Config struct {
	Backend Backend
	Mode    MatchMode // default: substring
	Source  string    // default: "scoutmail"
}

// New creates a Ledger.
func New(cfg Config) *Ledger {
	mode := cfg.Mode
	if mode == "" {
		mode = MatchSubstring
	}
	source := cfg.Source
	if source == "" {
		source = DefaultSource
	}
	return &Ledger{
		backend: cfg.Backend,
		mode:    mode,
		source:  source,
		now:     time.Now,
	}
}

// HasBeenSent reports whether book was already sent to publisher. A read
// failure is logged and reported as not sent. A blank publisher never
// matches.
func (l *Ledger) HasBeenSent(ctx context.Context, book, publisher string) bool {
	if strings.TrimSpace(publisher) == "" {
		return false
	}
	entries, err := l.backend.Entries(ctx)
	if err != nil {
		slog.Warn("ledger read failed, assuming not sent",
			"book", book,
			"publisher", publisher,
			"error", fmt.Errorf("%w: %w", ErrUnavailable, err),
		)
		return false
	}

	for _, e := range entries {
		if e.Book == book && l.matches(e.Publishers, publisher) {
			return true
		}
	}
	return false
}

func (l *Ledger) matches(cell, publisher string) bool {
	if l.mode == MatchExact {
		want := normalize(publisher)
		for _, name := range strings.Split(cell, ",") {
			if normalize(name) == want {
				return true
			}
		}
		return false
	}
	return strings.Contains(cell, publisher)
}

// Record appends one success row listing every publisher. It does not check
// for duplicates. A write failure is logged and returned wrapped in
// ErrUnavailable; callers are expected to carry on.
func (l *Ledger) Record(ctx context.Context, book string, publishers []string, rightsContact string) error {
	names := make([]string, 0, len(publishers))
	for _, p := range publishers {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	entry := Entry{
		Date:         l.now(),
		Book:         book,
		Publishers:   strings.Join(names, ", "),
		RightsHolder: rightsContact,
		Status:       StatusSuccess,
		Source:       l.source,
	}

	if err := l.backend.Append(ctx, entry); err != nil {
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
		slog.Warn("ledger write failed, send history not recorded",
			"book", book,
			"publishers", entry.Publishers,
			"error", err,
		)
		return err
	}

	slog.Info("ledger updated", "book", book, "publishers", len(names))
	return nil
}

// History returns the rows for a book, or every row when book is empty.
func (l *Ledger) History(ctx context.Context, book string) ([]Entry, error) {
	entries, err := l.backend.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if book == "" {
		return entries, nil
	}

	var out []Entry
	for _, e := range entries {
		if e.Book == book {
			out = append(out, e)
		}
	}
	return out, nil
}

func normalize(name string) string {
	return strings.Join(strings.Fields(cases.Lower(language.Turkish).String(name)), " ")
}
