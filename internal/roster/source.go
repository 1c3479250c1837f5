package roster

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RowReader reads worksheet rows.
type RowReader interface {
	FirstSheet(ctx context.Context) (string, error)
	Rows(ctx context.Context, sheet string) ([][]string, error)
}

// SheetsSource reads the roster from a worksheet. An empty Sheet means the
// first worksheet.
type SheetsSource struct {
	Reader  RowReader
	Sheet   string
	Columns Columns
}

// Load reads the worksheet and builds publishers.
func (s *SheetsSource) Load(ctx context.Context) ([]Publisher, error) {
	sheet := s.Sheet
	if sheet == "" {
		first, err := s.Reader.FirstSheet(ctx)
		if err != nil {
			return nil, fmt.Errorf("find roster worksheet: %w", err)
		}
		sheet = first
	}

	rows, err := s.Reader.Rows(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	publishers := FromRecords(RecordsFromRows(rows), s.Columns)
	slog.Info("loaded roster", "source", "sheets", "worksheet", sheet, "publishers", len(publishers))
	return publishers, nil
}

// FileSource reads the roster from a CSV export or a YAML list of records.
type FileSource struct {
	Path    string
	Columns Columns
}

// Load parses the file by extension.
func (s *FileSource) Load(ctx context.Context) ([]Publisher, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var records []Record
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv":
		rows, err := readCSV(data)
		if err != nil {
			return nil, fmt.Errorf("parse roster csv: %w", err)
		}
		records = RecordsFromRows(rows)
	case ".yaml", ".yml":
		records, err = parseYAMLRecords(data)
		if err != nil {
			return nil, fmt.Errorf("parse roster yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported roster format: %s", filepath.Ext(s.Path))
	}

	publishers := FromRecords(records, s.Columns)
	slog.Info("loaded roster", "source", "file", "path", s.Path, "publishers", len(publishers))
	return publishers, nil
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// parseYAMLRecords decodes a sequence of mappings, keeping key order.
func parseYAMLRecords(data []byte) ([]Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	seq := doc.Content[0]
	if seq.Kind == yaml.MappingNode {
		// Allow a top-level "publishers:" key.
		for i := 0; i+1 < len(seq.Content); i += 2 {
			if seq.Content[i].Value == "publishers" {
				seq = seq.Content[i+1]
				break
			}
		}
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a list of records, got %s", kindName(seq.Kind))
	}

	records := make([]Record, 0, len(seq.Content))
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("record %d: expected a mapping", i+1)
		}
		rec := make(Record, 0, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, value := item.Content[j], item.Content[j+1]
			if value.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("record %d: field %q must be a scalar", i+1, key.Value)
			}
			rec = append(rec, Field{Column: key.Value, Value: strings.TrimSpace(value.Value)})
		}
		records = append(records, rec)
	}
	return records, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
