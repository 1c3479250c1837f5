// Package vectorstore provides a VecLite-based semantic index of publisher
// profiles, used to shortlist candidates before oracle matchmaking.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abdul-hamid-achik/veclite"

	"github.com/abdulachik/scoutmail/internal/extractor"
	"github.com/abdulachik/scoutmail/internal/roster"
)

const (
	collectionName = "publishers"
	syncEvery      = 100
)

// Config locates the index file and the veclite.yaml holding embedder
// settings. An empty ConfigPath uses veclite's own search order.
type Config struct {
	Path       string
	ConfigPath string
}

// PublisherIndex is a hybrid vector and BM25 index over publisher profiles.
type PublisherIndex struct {
	db       *veclite.DB
	coll     *veclite.Collection
	embedder veclite.Embedder
}

// Hit is one search result.
type Hit struct {
	Name       string
	Department string
	Similarity float32
}

func New(cfg Config) (*PublisherIndex, error) {
	vcfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: load config: %w", err)
	}
	emb, err := veclite.NewEmbedderFromConfig(vcfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embedder: %w", err)
	}

	vdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: open %s: %w", cfg.Path, err)
	}
	coll, err := publisherCollection(vdb, emb)
	if err != nil {
		vdb.Close()
		return nil, err
	}

	slog.Debug("publisher index open", "path", cfg.Path, "profiles", coll.Count())
	return &PublisherIndex{db: vdb, coll: coll, embedder: emb}, nil
}

// publisherCollection reuses the collection when the file already has one.
func publisherCollection(vdb *veclite.DB, emb veclite.Embedder) (*veclite.Collection, error) {
	if coll, err := vdb.GetCollection(collectionName); err == nil {
		return coll, nil
	}
	coll, err := vdb.CreateCollection(collectionName,
		veclite.WithDimension(emb.Dimension()),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200),
		veclite.WithTextIndex("name", "department", "profile"),
		veclite.WithEmbedder(emb),
	)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: create collection: %w", err)
	}
	return coll, nil
}

func (s *PublisherIndex) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Index embeds each profile and returns how many were written. A profile
// that fails to embed is logged and skipped.
func (s *PublisherIndex) Index(ctx context.Context, publishers []roster.Publisher) (int, error) {
	var n int
	for _, p := range publishers {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if strings.TrimSpace(p.Profile) == "" {
			continue
		}

		_, err := s.coll.InsertText(p.Profile, map[string]any{
			"name":       p.Name,
			"department": p.Department,
			"profile":    p.Profile,
		})
		if err != nil {
			slog.Warn("skip publisher", "publisher", p.Name, "error", err)
			continue
		}

		n++
		if n%syncEvery == 0 {
			if err := s.db.Sync(); err != nil {
				slog.Warn("vectorstore sync", "error", err)
			}
		}
	}

	if err := s.db.Sync(); err != nil {
		return n, fmt.Errorf("vectorstore: sync: %w", err)
	}
	return n, nil
}

// Search runs a hybrid vector + BM25 query.
func (s *PublisherIndex) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	vec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embed query: %w", err)
	}

	results, err := s.coll.HybridSearch(vec, query,
		veclite.TopK(k),
		veclite.WithVectorWeight(1.0),
		veclite.WithTextWeight(0.3),
	)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: search: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		h := Hit{Similarity: r.Score}
		if r.Record.Payload != nil {
			h.Name, _ = r.Record.Payload["name"].(string)
			h.Department, _ = r.Record.Payload["department"].(string)
		}
		if h.Name == "" {
			continue
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func (s *PublisherIndex) Count() int {
	return s.coll.Count()
}

// Stats returns statistics about the index.
func (s *PublisherIndex) Stats() veclite.CollectionStats {
	return s.coll.Stats()
}

// Searcher is the search half of the index.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Hit, error)
}

// Shortlist narrows publishers to the k profiles closest to the book. The
// result keeps roster order. If the search fails or finds nobody from the
// roster, every publisher is returned.
func Shortlist(ctx context.Context, s Searcher, profile *extractor.BookProfile, publishers []roster.Publisher, k int) []roster.Publisher {
	if k <= 0 || k >= len(publishers) {
		return publishers
	}

	// Over-fetch: stale index entries may name publishers no longer in the roster.
	hits, err := s.Search(ctx, Query(profile), k*3)
	if err != nil {
		slog.Warn("shortlist search failed, using full roster", "error", err)
		return publishers
	}

	picked := selectShortlist(publishers, hits, k)
	if len(picked) == 0 {
		slog.Warn("shortlist matched no roster entries, using full roster")
		return publishers
	}

	slog.Info("shortlisted publishers", "roster", len(publishers), "shortlist", len(picked))
	return picked
}

// Query builds the search text from the parts of the DNA that describe fit.
func Query(p *extractor.BookProfile) string {
	parts := []string{p.PrimaryGenre, p.Subgenres, p.Pitch, p.Themes, p.Atmosphere, p.TargetAudience}
	var kept []string
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ". ")
}

func selectShortlist(publishers []roster.Publisher, hits []Hit, k int) []roster.Publisher {
	wanted := make(map[string]bool, k)
	for _, h := range hits {
		if len(wanted) == k {
			break
		}
		if containsName(publishers, h.Name) {
			wanted[h.Name] = true
		}
	}

	var out []roster.Publisher
	for _, p := range publishers {
		if wanted[p.Name] {
			out = append(out, p)
			delete(wanted, p.Name)
		}
	}
	return out
}

func containsName(publishers []roster.Publisher, name string) bool {
	for _, p := range publishers {
		if p.Name == name {
			return true
		}
	}
	return false
}
