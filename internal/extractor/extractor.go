// Package extractor turns manuscripts and web research into structured
// records with a single oracle call each.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdulachik/scoutmail/internal/oracle"
	"github.com/abdulachik/scoutmail/internal/scanner"
)

// ErrExtractionFailed means the oracle could not produce a conforming profile.
var ErrExtractionFailed = errors.New("extraction failed")

// Extractor builds book DNA profiles.
type Extractor struct {
	oracle oracle.Oracle
	model  string
}

// Config holds configuration for the extractor.
type Config struct {
	Oracle oracle.Oracle
	// Model overrides the oracle's default model when set.
	Model string
}

// New creates a new Extractor.
func New(cfg Config) *Extractor {
	return &Extractor{
		oracle: cfg.Oracle,
		model:  cfg.Model,
	}
}

// Extract makes exactly one oracle call with the scan hints and the full
// text. It does not retry; every failure wraps ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, text string, scan scanner.Result) (*BookProfile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: manuscript is empty", ErrExtractionFailed)
	}

	slog.Info("extracting book DNA",
		"words", countWords(text),
		"signals", len(scan.Hits),
	)

	response, err := e.oracle.Complete(ctx, oracle.Request{
		System: DNASystemPrompt,
		Prompt: fmt.Sprintf(DNAPrompt, scan.Hint(), text),
		Model:  e.model,
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	var fields map[string]json.RawMessage
	if err := oracle.DecodeObject(response, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	profile, err := ParseProfile(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrExtractionFailed, oracle.ErrMalformed, err)
	}

	slog.Info("extracted book DNA",
		"title", profile.Title,
		"genre", profile.PrimaryGenre,
	)

	return profile, nil
}
