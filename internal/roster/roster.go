// Package roster loads publisher profiles and recipient lists.
package roster

import (
	"context"
	"sort"
	"strings"
)

// LabelPrefix starts every flattened profile. The oracle sometimes echoes it
// back in front of a publisher name.
const LabelPrefix = "PUBLISHER ID/NAME:"

// Columns names the survey columns with special meaning.
type Columns struct {
	Name       string
	Department string
	Blacklist  string
	// Excluded columns never reach the flattened profile.
	Excluded []string
}

// DefaultColumns matches the publisher survey form.
var DefaultColumns = Columns{
	Name:       "Yayınevi Adı",
	Department: "Bu formu hangi departman/alan için dolduruyorsunuz?",
	Blacklist:  `Yayın programınızda ASLA yer vermediğiniz, "Bize göndermeyin" dediğiniz türler veya konular var mı?`,
	Excluded:   []string{"Zaman damgası", "E-posta Adresi", "Timestamp", "Email Address"},
}

const (
	unknownName       = "Unknown"
	defaultDepartment = "General"
)

// Field is one column/value pair of a survey record.
type Field struct {
	Column string
	Value  string
}

// Record is one survey response with columns in sheet order.
type Record []Field

// Get returns the value of a column and whether the column exists.
func (r Record) Get(column string) (string, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return "", false
}

// Publisher is one roster entry. Name is kept verbatim.
type Publisher struct {
	Name       string `yaml:"name" json:"name"`
	Department string `yaml:"department" json:"department"`
	Blacklist  string `yaml:"blacklist" json:"blacklist"`
	Profile    string `yaml:"-" json:"profile"`
}

// Source loads the publisher roster.
type Source interface {
	Load(ctx context.Context) ([]Publisher, error)
}

// FromRecords builds publishers from survey records.
func FromRecords(records []Record, cols Columns) []Publisher {
	excluded := make(map[string]bool, len(cols.Excluded))
	for _, c := range cols.Excluded {
		excluded[c] = true
	}

	publishers := make([]Publisher, 0, len(records))
	for _, rec := range records {
		name, ok := rec.Get(cols.Name)
		if !ok {
			name = unknownName
		}
		department, ok := rec.Get(cols.Department)
		if !ok {
			department = defaultDepartment
		}
		blacklist, _ := rec.Get(cols.Blacklist)

		publishers = append(publishers, Publisher{
			Name:       name,
			Department: department,
			Blacklist:  blacklist,
			Profile:    Flatten(name, rec, excluded),
		})
	}
	return publishers
}

// Flatten renders the profile text sent to the oracle.
func Flatten(name string, rec Record, excluded map[string]bool) string {
	var b strings.Builder
	b.WriteString(LabelPrefix + " " + name + "\n")
	for _, f := range rec {
		if excluded[f.Column] || strings.TrimSpace(f.Value) == "" {
			continue
		}
		b.WriteString("- " + f.Column + ": " + f.Value + "\n")
	}
	return b.String()
}

// RecordsFromRows treats the first row as the header. Short rows are padded
// with empty values.
func RecordsFromRows(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}
	header := rows[0]

	var records []Record
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(Record, len(header))
		for i, column := range header {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			rec[i] = Field{Column: strings.TrimSpace(column), Value: value}
		}
		records = append(records, rec)
	}
	return records
}

// Departments returns the distinct non-empty departments, sorted.
func Departments(publishers []Publisher) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range publishers {
		if p.Department == "" || seen[p.Department] {
			continue
		}
		seen[p.Department] = true
		out = append(out, p.Department)
	}
	sort.Strings(out)
	return out
}

// FilterDepartments keeps publishers in any of the given departments.
// An empty filter keeps everyone.
func FilterDepartments(publishers []Publisher, departments []string) []Publisher {
	if len(departments) == 0 {
		return publishers
	}
	want := make(map[string]bool, len(departments))
	for _, d := range departments {
		want[strings.TrimSpace(d)] = true
	}

	var out []Publisher
	for _, p := range publishers {
		if want[p.Department] {
			out = append(out, p)
		}
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
