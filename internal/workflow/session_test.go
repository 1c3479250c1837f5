package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/scoutmail/internal/db"
	"github.com/abdulachik/scoutmail/internal/extractor"
	"github.com/abdulachik/scoutmail/internal/matcher"
	"github.com/abdulachik/scoutmail/internal/scanner"
)

func testProfile() *extractor.BookProfile {
	return &extractor.BookProfile{
		Title:          "Kuzey Yıldızı",
		Author:         "A. Yazar",
		PrimaryGenre:   "literary fiction",
		SubstanceUse:   extractor.NewRiskVerdict("Present: wine in chapter 2"),
		LGBT:           extractor.NewRiskVerdict("None"),
		Themes:         "exile, memory",
		TargetAudience: "adult",
	}
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore(db.NewTestStore(t))

	_, err := s.Load(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)

	m := extractor.Prepare("kuzey.txt", "Ayşe ve gay arkadaşı barda şarap içti")
	scan := scanner.Scan(m.Text)

	sess, err := s.Start(ctx, m, scan)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "kuzey.txt", sess.Book())
	assert.True(t, sess.Scan.Has(scanner.SubstanceUse))

	require.NoError(t, s.SaveProfile(ctx, sess, testProfile()))
	require.NoError(t, s.SaveIntel(ctx, sess, extractor.IntelRecord{Rating: "4.1", Awards: "none"}))
	results := []matcher.Result{
		{Publisher: "B", Score: 80, Rationale: "fits"},
		{Publisher: "A", Score: 0, Rationale: "ERROR: batch oracle failed", Degraded: true},
	}
	require.NoError(t, s.SaveMatches(ctx, sess, results))

	loaded, err := s.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "Kuzey Yıldızı", loaded.Book())
	assert.Equal(t, testProfile(), loaded.Profile)
	assert.Equal(t, "4.1", loaded.Intel.Rating)
	assert.Equal(t, results, loaded.Matches)
	assert.Equal(t, scan.Hits, loaded.Scan.Hits)

	require.NoError(t, s.SaveMatches(ctx, sess, results[:1]))
	loaded, err = s.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Matches, 1, "matches are replaced, not appended")
}

func TestStore_NewSessionReplacesLatest(t *testing.T) {
	ctx := context.Background()
	s := NewStore(db.NewTestStore(t))

	first, err := s.Start(ctx, extractor.Prepare("a.txt", "bir"), scanner.Result{})
	require.NoError(t, err)
	second, err := s.Start(ctx, extractor.Prepare("b.txt", "iki"), scanner.Result{})
	require.NoError(t, err)

	latest, err := s.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Nil(t, latest.Profile)
	assert.Empty(t, latest.Scan.Hits)

	old, err := s.Load(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", old.Manuscript)

	_, err = s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoSession)
}
