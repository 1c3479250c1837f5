package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultWorksheet is the ledger tab name.
const DefaultWorksheet = "Logs"

// Worksheet is the spreadsheet access the Sheets backend needs.
type Worksheet interface {
	EnsureSheet(ctx context.Context, sheet string, header []string) error
	Rows(ctx context.Context, sheet string) ([][]string, error)
	Append(ctx context.Context, sheet string, row []string) error
}

// SheetsBackend keeps the ledger in a worksheet, created with Header on
// first use.
type SheetsBackend struct {
	sheet Worksheet
	name  string

	mu      sync.Mutex
	ensured bool
}

// NewSheetsBackend returns a backend on the named worksheet.
func NewSheetsBackend(sheet Worksheet, name string) *SheetsBackend {
	if name == "" {
		name = DefaultWorksheet
	}
	return &SheetsBackend{sheet: sheet, name: name}
}

func (b *SheetsBackend) ensure(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ensured {
		return nil
	}
	if err := b.sheet.EnsureSheet(ctx, b.name, Header); err != nil {
		return err
	}
	b.ensured = true
	return nil
}

// Entries reads every row after the header.
func (b *SheetsBackend) Entries(ctx context.Context) ([]Entry, error) {
	if err := b.ensure(ctx); err != nil {
		return nil, err
	}

	rows, err := b.sheet.Rows(ctx, b.name)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		entries = append(entries, parseRow(row))
	}
	return entries, nil
}

// Append writes one row.
func (b *SheetsBackend) Append(ctx context.Context, e Entry) error {
	if err := b.ensure(ctx); err != nil {
		return err
	}
	if err := b.sheet.Append(ctx, b.name, formatRow(e)); err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	return nil
}

func formatRow(e Entry) []string {
	return []string{
		e.Date.Format(DateLayout),
		e.Book,
		e.Publishers,
		e.RightsHolder,
		e.Status,
		e.Source,
	}
}

func parseRow(row []string) Entry {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	// Rows typed by hand may use another date format; keep them anyway.
	date, _ := time.ParseInLocation(DateLayout, get(0), time.Local)

	return Entry{
		Date:         date,
		Book:         get(1),
		Publishers:   get(2),
		RightsHolder: get(3),
		Status:       get(4),
		Source:       get(5),
	}
}

func isHeader(row []string) bool {
	return len(row) > 2 && row[0] == Header[0] && row[1] == Header[1]
}
