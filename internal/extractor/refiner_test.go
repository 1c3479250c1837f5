package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefiner_Refine(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes response", func(t *testing.T) {
		o := &recordingOracle{response: `{"rating": 4.2, "page_count": "320", "awards": ["Orhan Kemal Prize"],
			"author_bio": "Istanbul-born novelist.", "rights_sales": "", "summary": "A family saga."}`}
		rec := NewRefiner(o, "fast").Refine(ctx, "raw scraped page")

		assert.Equal(t, "4.2", rec.Rating)
		assert.Equal(t, "320", rec.PageCount)
		assert.Equal(t, "Orhan Kemal Prize", rec.Awards)
		assert.Equal(t, "", rec.RightsSales)
		assert.Equal(t, "fast", o.requests[0].Model)
		assert.Contains(t, o.requests[0].Prompt, "raw scraped page")
	})

	t.Run("missing keys are empty", func(t *testing.T) {
		o := &recordingOracle{response: `{"summary": "Short."}`}
		rec := NewRefiner(o, "").Refine(ctx, "raw")
		assert.Equal(t, IntelRecord{Summary: "Short."}, rec)
	})

	t.Run("oracle failure yields empty record", func(t *testing.T) {
		o := &recordingOracle{err: errors.New("quota exceeded")}
		rec := NewRefiner(o, "").Refine(ctx, "raw")
		assert.True(t, rec.IsEmpty())
	})

	t.Run("malformed response yields empty record", func(t *testing.T) {
		o := &recordingOracle{response: "I could not find anything."}
		rec := NewRefiner(o, "").Refine(ctx, "raw")
		assert.True(t, rec.IsEmpty())
	})

	t.Run("blank input skips the oracle", func(t *testing.T) {
		o := &recordingOracle{response: `{"summary": "x"}`}
		rec := NewRefiner(o, "").Refine(ctx, " \n ")
		assert.True(t, rec.IsEmpty())
		assert.Equal(t, 0, o.calls)
	})
}
