package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdulachik/scoutmail/internal/oracle"
)

// IntelRecord is normalized external research about a book. Any field may
// be empty.
type IntelRecord struct {
	Rating      string `json:"rating"`
	PageCount   string `json:"page_count"`
	Awards      string `json:"awards"`
	AuthorBio   string `json:"author_bio"`
	RightsSales string `json:"rights_sales"`
	Summary     string `json:"summary"`
}

// IsEmpty reports whether every field is blank.
func (r IntelRecord) IsEmpty() bool {
	return r == IntelRecord{}
}

// Refiner normalizes scraped research text.
type Refiner struct {
	oracle oracle.Oracle
	model  string
}

// NewRefiner creates a Refiner.
func NewRefiner(o oracle.Oracle, model string) *Refiner {
	return &Refiner{oracle: o, model: model}
}

// Refine never fails outward: any oracle or parse error yields an empty
// record. Blank input skips the oracle call.
func (r *Refiner) Refine(ctx context.Context, raw string) IntelRecord {
	if strings.TrimSpace(raw) == "" {
		return IntelRecord{}
	}

	response, err := r.oracle.Complete(ctx, oracle.Request{
		System: IntelSystemPrompt,
		Prompt: fmt.Sprintf(IntelPrompt, raw),
		Model:  r.model,
		JSON:   true,
	})
	if err != nil {
		slog.Warn("intel refinement failed", "error", fmt.Errorf("%w: %w", ErrExtractionFailed, err))
		return IntelRecord{}
	}

	var fields map[string]json.RawMessage
	if err := oracle.DecodeObject(response, &fields); err != nil {
		slog.Warn("intel response unusable", "error", err)
		return IntelRecord{}
	}

	get := func(key string) string {
		raw, ok := fields[key]
		if !ok {
			return ""
		}
		text, err := textValue(raw)
		if err != nil {
			slog.Debug("intel field dropped", "field", key, "error", err)
			return ""
		}
		return text
	}

	return IntelRecord{
		Rating:      get("rating"),
		PageCount:   get("page_count"),
		Awards:      get("awards"),
		AuthorBio:   get("author_bio"),
		RightsSales: get("rights_sales"),
		Summary:     get("summary"),
	}
}
