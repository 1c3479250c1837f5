package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/abdulachik/scoutmail/internal/extractor"
	"github.com/abdulachik/scoutmail/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	hits  []Hit
	err   error
	query string
	k     int
}

func (f *fakeSearcher) Search(_ context.Context, query string, k int) ([]Hit, error) {
	f.query, f.k = query, k
	return f.hits, f.err
}

func roster5() []roster.Publisher {
	return []roster.Publisher{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}}
}

var book = &extractor.BookProfile{
	Title:        "Kitap",
	PrimaryGenre: "crime",
	Subgenres:    "noir",
	Pitch:        "Sherlock meets Istanbul",
	Themes:       " ",
}

func TestShortlist(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps roster order", func(t *testing.T) {
		s := &fakeSearcher{hits: []Hit{{Name: "D"}, {Name: "Gone"}, {Name: "B"}, {Name: "A"}}}
		got := Shortlist(ctx, s, book, roster5(), 2)
		require.Len(t, got, 2)
		assert.Equal(t, "B", got[0].Name)
		assert.Equal(t, "D", got[1].Name)
		assert.Equal(t, 6, s.k)
		assert.Equal(t, "crime. noir. Sherlock meets Istanbul", s.query)
	})

	t.Run("duplicate hits count once", func(t *testing.T) {
		s := &fakeSearcher{hits: []Hit{{Name: "C"}, {Name: "C"}, {Name: "E"}}}
		got := Shortlist(ctx, s, book, roster5(), 2)
		require.Len(t, got, 2)
		assert.Equal(t, []string{"C", "E"}, []string{got[0].Name, got[1].Name})
	})

	t.Run("search failure falls back to roster", func(t *testing.T) {
		s := &fakeSearcher{err: errors.New("embedder offline")}
		assert.Len(t, Shortlist(ctx, s, book, roster5(), 2), 5)
	})

	t.Run("no roster hits falls back", func(t *testing.T) {
		s := &fakeSearcher{hits: []Hit{{Name: "Gone"}}}
		assert.Len(t, Shortlist(ctx, s, book, roster5(), 2), 5)
	})

	t.Run("k covering roster skips search", func(t *testing.T) {
		s := &fakeSearcher{}
		assert.Len(t, Shortlist(ctx, s, book, roster5(), 10), 5)
		assert.Equal(t, 0, s.k)
	})
}
