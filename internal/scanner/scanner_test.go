package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	t.Run("flags lgbt and substance signals", func(t *testing.T) {
		result := Scan("Ayşe ve gay arkadaşı barda şarap içti")

		require.Len(t, result.Hits, 2)
		assert.Equal(t, Hit{Category: LGBTSignals, Token: "gay"}, result.Hits[0])
		assert.Equal(t, Hit{Category: SubstanceUse, Token: "şarap"}, result.Hits[1])
	})

	t.Run("clean text has no hits", func(t *testing.T) {
		result := Scan("Kedi pencerenin önünde uyudu.")
		assert.Empty(t, result.Hits)
		assert.Equal(t, CleanHint, result.Hint())
	})

	t.Run("whole word patterns respect boundaries", func(t *testing.T) {
		// "kan" must not fire inside "kanepe"; "gay" must not fire inside "gayret"
		result := Scan("Gayretle kanepeye oturdu.")
		assert.False(t, result.Has(ViolenceTrauma))
		assert.False(t, result.Has(LGBTSignals))
	})

	t.Run("stems match suffixed forms", func(t *testing.T) {
		result := Scan("Sigaralarını yaktı.")
		assert.Equal(t, "sigara", result.Token(SubstanceUse))
	})

	t.Run("first declared pattern wins within a category", func(t *testing.T) {
		// both "viski" and "şarap" appear; şarap is declared first
		result := Scan("Viski değil şarap istedi.")
		assert.Equal(t, "şarap", result.Token(SubstanceUse))
	})

	t.Run("turkish dotted capital is folded", func(t *testing.T) {
		result := Scan("İNTİHAR mektubu bulundu")
		assert.Equal(t, "intihar", result.Token(ViolenceTrauma))
	})

	t.Run("match at start and end of text", func(t *testing.T) {
		assert.True(t, Scan("kan").Has(ViolenceTrauma))
		assert.True(t, Scan("polis").Has(SensitiveSociopolitical))
	})
}

func TestScan_Deterministic(t *testing.T) {
	texts := []string{
		"",
		"Ayşe ve gay arkadaşı barda şarap içti",
		"Polis cesedi sabah buldu; kilisenin önünde kan vardı.",
	}

	for _, text := range texts {
		first := Scan(text)
		second := Scan(text)
		assert.Equal(t, first, second)
	}
}

func TestResult_Hint(t *testing.T) {
	result := Result{Hits: []Hit{
		{Category: LGBTSignals, Token: "gay"},
		{Category: SubstanceUse, Token: "şarap"},
	}}

	assert.Equal(t,
		"- LGBT_SIGNALS suspected (word: gay)\n- SUBSTANCE_USE suspected (word: şarap)",
		result.Hint())
}

func TestPatterns_CoverEveryCategory(t *testing.T) {
	for _, cat := range Categories {
		assert.NotEmpty(t, Patterns[cat], "no patterns for %s", cat)
	}
}
