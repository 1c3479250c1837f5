package roster

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Recipient is one confirmed dispatch target.
type Recipient struct {
	Publisher  string
	Email      string
	Salutation string
}

var (
	publisherKeywords  = []string{"yayinevi", "yayınevi", "publisher"}
	emailKeywords      = []string{"mail"}
	salutationKeywords = []string{"hitap", "salutation", "greeting"}
	sendKeywords       = []string{"gönder", "send"}
)

// LoadRecipients reads a recipient list from .csv or .xlsx. For workbooks an
// empty sheet means the first worksheet.
func LoadRecipients(path, sheet string) ([]Recipient, error) {
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read recipients: %w", err)
		}
		rows, err = readCSV(data)
		if err != nil {
			return nil, fmt.Errorf("parse recipients csv: %w", err)
		}
	case ".xlsx":
		var err error
		rows, err = readWorkbook(path, sheet)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported recipient list format: %s", filepath.Ext(path))
	}
	return ParseRecipients(rows), nil
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// ParseRecipients maps rows to recipients. The header row is detected by the
// absence of an email address; columns are then found by keyword, falling
// back to positions 0, 1 and 2. When a send column exists only ticked rows
// are kept. Rows without an email or a publisher name are skipped.
func ParseRecipients(rows [][]string) []Recipient {
	if len(rows) == 0 {
		return nil
	}

	pubCol, mailCol, salCol, sendCol := 0, 1, 2, -1
	data := rows
	if !rowHasEmail(rows[0]) {
		header := rows[0]
		pubCol = findColumn(header, publisherKeywords, 0, -1)
		sendCol = findColumn(header, sendKeywords, -1, -1)
		mailCol = findColumn(header, emailKeywords, 1, sendCol)
		salCol = findColumn(header, salutationKeywords, 2, sendCol)
		data = rows[1:]
	}

	var out []Recipient
	for i, row := range data {
		if isBlankRow(row) {
			continue
		}
		if sendCol >= 0 && !ticked(cell(row, sendCol)) {
			continue
		}
		r := Recipient{
			Publisher:  cell(row, pubCol),
			Email:      cell(row, mailCol),
			Salutation: cell(row, salCol),
		}
		if r.Email == "" {
			slog.Warn("recipient without email skipped", "row", i+1, "publisher", r.Publisher)
			continue
		}
		if r.Publisher == "" {
			slog.Warn("recipient without publisher skipped", "row", i+1, "email", r.Email)
			continue
		}
		out = append(out, r)
	}
	return out
}

// findColumn returns the first header index containing a keyword, else
// fallback. The skip index is never returned.
func findColumn(header []string, keywords []string, fallback, skip int) int {
	lower := cases.Lower(language.Turkish)
	for _, k := range keywords {
		for i, h := range header {
			if i != skip && strings.Contains(lower.String(h), k) {
				return i
			}
		}
	}
	return fallback
}

func rowHasEmail(row []string) bool {
	for _, c := range row {
		if strings.Contains(c, "@") {
			return true
		}
	}
	return false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func ticked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "y", "x", "1", "evet", "✓", "✔":
		return true
	}
	return false
}
