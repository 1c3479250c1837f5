// Package gsheets reads and appends rows in a Google Sheets spreadsheet.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrNotConfigured means no spreadsheet ID or credentials were given.
var ErrNotConfigured = errors.New("google sheets is not configured")

// Config holds spreadsheet access settings.
type Config struct {
	SpreadsheetID      string
	ServiceAccountPath string
}

// Validate checks that the config is complete.
func (c Config) Validate() error {
	if c.SpreadsheetID == "" || c.ServiceAccountPath == "" {
		return ErrNotConfigured
	}
	return nil
}

// Spreadsheet is one spreadsheet addressed by ID.
type Spreadsheet struct {
	service *sheets.Service
	id      string
}

// Open authenticates with a service account key and returns the spreadsheet.
func Open(ctx context.Context, cfg Config) (*Spreadsheet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	jsonKey, err := os.ReadFile(cfg.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	httpClient := oauth2.NewClient(ctx, jwtConfig.TokenSource(ctx))
	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return New(service, cfg.SpreadsheetID), nil
}

// New wraps an existing service.
func New(service *sheets.Service, spreadsheetID string) *Spreadsheet {
	return &Spreadsheet{service: service, id: spreadsheetID}
}

// FirstSheet returns the title of the first worksheet.
func (s *Spreadsheet) FirstSheet(ctx context.Context) (string, error) {
	meta, err := s.service.Spreadsheets.Get(s.id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet: %w", err)
	}
	if len(meta.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", s.id)
	}
	return meta.Sheets[0].Properties.Title, nil
}

// Rows returns every populated row of a worksheet as strings.
func (s *Spreadsheet) Rows(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.id, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

// rawInput stores cells exactly as sent. USER_ENTERED would let Sheets turn
// titles such as "007" or "1/2" into numbers and dates.
const rawInput = "RAW"

// Append adds one row after the last populated row, cells stored verbatim.
func (s *Spreadsheet) Append(ctx context.Context, sheet string, row []string) error {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.service.Spreadsheets.Values.Append(s.id, sheet, &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption(rawInput).InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

// EnsureSheet creates the worksheet with a header row if it does not exist.
func (s *Spreadsheet) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	meta, err := s.service.Spreadsheets.Get(s.id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheet {
			return nil
		}
	}

	_, err = s.service.Spreadsheets.BatchUpdate(s.id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: sheet,
					GridProperties: &sheets.GridProperties{
						RowCount:    1000,
						ColumnCount: int64(len(header)),
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet %s: %w", sheet, err)
	}

	return s.Append(ctx, sheet, header)
}
