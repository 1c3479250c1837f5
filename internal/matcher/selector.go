package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abdulachik/scoutmail/internal/oracle"
	"github.com/abdulachik/scoutmail/internal/roster"
)

// Selector asks the oracle to score one batch of publishers.
type Selector struct {
	oracle oracle.Oracle
	model  string
}

// NewSelector creates a new selector.
func NewSelector(o oracle.Oracle, model string) *Selector {
	return &Selector{oracle: o, model: model}
}

// verdict is one record of a batch response before repair.
type verdict struct {
	Name      string
	Score     int
	Rationale string
}

var (
	nameKeys      = []string{"publisher_name", "publisher", "name", "yayınevi"}
	scoreKeys     = []string{"score", "compatibility_score", "uyum_skoru"}
	rationaleKeys = []string{"rationale", "reason", "sebep"}
)

// UnmarshalJSON accepts the contract keys plus a few common variants.
func (v *verdict) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("result is not an object: %w", err)
	}

	v.Name = firstText(fields, nameKeys)
	v.Rationale = firstText(fields, rationaleKeys)

	for _, key := range scoreKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		score, err := parseScore(raw)
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		v.Score = score
		break
	}
	return nil
}

// EvaluateBatch makes one oracle call for the batch and returns the raw
// records in response order.
func (s *Selector) EvaluateBatch(ctx context.Context, profileJSON string, batch []roster.Publisher) ([]verdict, error) {
	profiles := make([]string, len(batch))
	for i, p := range batch {
		profiles[i] = p.Profile
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profiles); err != nil {
		return nil, fmt.Errorf("marshal profiles: %w", err)
	}

	response, err := s.oracle.Complete(ctx, oracle.Request{
		System: MatchSystemPrompt,
		Prompt: fmt.Sprintf(BatchMatchPrompt, profileJSON, strings.TrimSpace(buf.String())),
		Model:  s.model,
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("oracle complete: %w", err)
	}

	var verdicts []verdict
	if err := oracle.DecodeArray(response, &verdicts); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return verdicts, nil
}

func firstText(fields map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(string(raw))
	}
	return ""
}

// parseScore accepts numbers and numeric strings such as "85" or "85/100".
func parseScore(raw json.RawMessage) (int, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(math.Round(n)), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("score is neither number nor string")
	}
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "/ %"); i > 0 {
		s = s[:i]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("score %q is not numeric", s)
	}
	return int(math.Round(f)), nil
}
