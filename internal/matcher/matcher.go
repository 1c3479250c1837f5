// Package matcher scores a book against a publisher roster in fixed-size
// oracle batches.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abdulachik/scoutmail/internal/extractor"
	"github.com/abdulachik/scoutmail/internal/oracle"
	"github.com/abdulachik/scoutmail/internal/roster"
)

// ErrBatchOracleFailed marks a batch whose oracle call could not be used.
var ErrBatchOracleFailed = errors.New("batch oracle failed")

const (
	// DefaultBatchSize is the number of publishers per oracle call.
	DefaultBatchSize = 5

	// NoRationale replaces an empty rationale.
	NoRationale = "oracle gave no rationale"

	missingRationale   = "oracle returned no result for this publisher"
	cancelledRationale = "not evaluated: matching was cancelled"
)

// legacyLabel is the survey label older prompts used.
const legacyLabel = "YAYINEVİ ID/ADI:"

// Result is one publisher's compatibility verdict.
type Result struct {
	Publisher string `json:"publisher_name"`
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
	// Degraded marks a synthesized result rather than an oracle verdict.
	Degraded bool `json:"degraded,omitempty"`
}

// Engine runs batch matchmaking.
type Engine struct {
	selector  *Selector
	batchSize int
	limiter   oracle.Limiter
	progress  func(done, total int)
}

// Config holds configuration for the engine.
type Config struct {
	Oracle    oracle.Oracle
	Model     string
	BatchSize int            // default: 5
	Limiter   oracle.Limiter // paces batches; default: no limit
	// Progress, if set, is called after every batch.
	Progress func(done, total int)
}

// New creates a new Engine.
func New(cfg Config) *Engine {
	size := cfg.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	var limiter oracle.Limiter = oracle.NoLimit{}
	if cfg.Limiter != nil {
		limiter = cfg.Limiter
	}

	return &Engine{
		selector:  NewSelector(cfg.Oracle, cfg.Model),
		batchSize: size,
		limiter:   limiter,
		progress:  cfg.Progress,
	}
}

// Match returns exactly one result per publisher, in input order. A failed
// batch yields degraded results for that batch only. If ctx is cancelled no
// further batches start; the remaining publishers get degraded results and
// ctx.Err() is returned with the full slice.
func (e *Engine) Match(ctx context.Context, profile *extractor.BookProfile, publishers []roster.Publisher) ([]Result, error) {
	results := make([]Result, 0, len(publishers))
	if len(publishers) == 0 {
		return results, nil
	}

	profileJSON := profile.JSON()
	batches := (len(publishers) + e.batchSize - 1) / e.batchSize

	slog.Info("starting matchmaking",
		"book", profile.Title,
		"publishers", len(publishers),
		"batches", batches,
	)

	for start := 0; start < len(publishers); start += e.batchSize {
		end := min(start+e.batchSize, len(publishers))
		batch := publishers[start:end]
		index := start/e.batchSize + 1

		// The first wait passes at once; later ones hold batches a full
		// interval apart.
		if err := e.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			return fillCancelled(results, publishers[start:]), err
		}
		if ctx.Err() != nil {
			return fillCancelled(results, publishers[start:]), ctx.Err()
		}

		// A started call is allowed to finish.
		verdicts, err := e.selector.EvaluateBatch(context.WithoutCancel(ctx), profileJSON, batch)
		if err != nil {
			err = fmt.Errorf("%w: batch %d: %w", ErrBatchOracleFailed, index, err)
			slog.Warn("batch degraded", "batch", index, "of", batches, "error", err)
			results = append(results, degraded(batch, "ERROR: "+err.Error())...)
		} else {
			results = append(results, align(batch, verdicts, index)...)
			slog.Debug("batch scored", "batch", index, "of", batches, "records", len(verdicts))
		}

		if e.progress != nil {
			e.progress(end, len(publishers))
		}
	}

	slog.Info("matchmaking complete", "book", profile.Title, "results", len(results))
	return results, nil
}

func fillCancelled(results []Result, rest []roster.Publisher) []Result {
	slog.Warn("matchmaking cancelled", "unevaluated", len(rest))
	return append(results, degraded(rest, cancelledRationale)...)
}

func degraded(batch []roster.Publisher, reason string) []Result {
	out := make([]Result, len(batch))
	for i, p := range batch {
		out[i] = Result{
			Publisher: p.Name,
			Score:     0,
			Rationale: reason,
			Degraded:  true,
		}
	}
	return out
}

// align pairs response records with batch inputs: exact name first, then a
// case- and space-insensitive name, then position when the counts agree.
// Inputs left over get degraded results; unmatched records are dropped.
// Output names are always the input names.
func align(batch []roster.Publisher, verdicts []verdict, index int) []Result {
	for i := range verdicts {
		verdicts[i].Name = CleanName(verdicts[i].Name)
	}

	assigned := make([]int, len(batch))
	for i := range assigned {
		assigned[i] = -1
	}
	used := make([]bool, len(verdicts))

	match := func(same func(input, got string) bool) {
		for i, p := range batch {
			if assigned[i] >= 0 {
				continue
			}
			for j, v := range verdicts {
				if !used[j] && same(p.Name, v.Name) {
					assigned[i], used[j] = j, true
					break
				}
			}
		}
	}
	match(func(a, b string) bool { return a == b })
	match(func(a, b string) bool { return foldName(a) == foldName(b) })

	if len(verdicts) == len(batch) {
		for i := range batch {
			if assigned[i] < 0 && !used[i] {
				assigned[i], used[i] = i, true
				slog.Debug("result matched by position",
					"batch", index, "publisher", batch[i].Name, "returned", verdicts[i].Name)
			}
		}
	}

	out := make([]Result, len(batch))
	for i, p := range batch {
		j := assigned[i]
		if j < 0 {
			out[i] = Result{Publisher: p.Name, Rationale: missingRationale, Degraded: true}
			continue
		}
		out[i] = repair(p.Name, verdicts[j])
	}

	var extras []string
	for j, ok := range used {
		if !ok {
			extras = append(extras, verdicts[j].Name)
		}
	}
	if len(extras) > 0 {
		slog.Warn("dropped unmatched oracle results", "batch", index, "names", extras)
	}
	if len(verdicts) != len(batch) {
		slog.Warn("batch result count mismatch", "batch", index, "expected", len(batch), "got", len(verdicts))
	}

	return out
}

func repair(name string, v verdict) Result {
	rationale := strings.TrimSpace(v.Rationale)
	if rationale == "" {
		rationale = NoRationale
	}
	return Result{
		Publisher: name,
		Score:     max(0, min(100, v.Score)),
		Rationale: rationale,
	}
}

// CleanName strips a label the oracle may echo in front of a name.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	for _, label := range []string{roster.LabelPrefix, legacyLabel} {
		name = strings.TrimSpace(strings.TrimPrefix(name, label))
	}
	return name
}

func foldName(s string) string {
	return strings.Join(strings.Fields(cases.Lower(language.Turkish).String(s)), " ")
}
