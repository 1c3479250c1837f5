package extractor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFields(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &fields))
	return fields
}

func TestParseProfile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := ParseProfile(decodeFields(t, validDNA))
		require.NoError(t, err)
		assert.Equal(t, "Ayşe Yılmaz", p.Author)
		assert.Equal(t, "present (wine at dinner scenes)", p.SubstanceUse.Raw)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		fields := decodeFields(t, validDNA)
		fields["mood"] = json.RawMessage(`"dark"`)
		_, err := ParseProfile(fields)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected keys: mood")
	})

	t.Run("empty title rejected", func(t *testing.T) {
		fields := decodeFields(t, validDNA)
		fields["title"] = json.RawMessage(`""`)
		_, err := ParseProfile(fields)
		require.Error(t, err)
	})

	t.Run("numbers and nulls flatten", func(t *testing.T) {
		fields := decodeFields(t, validDNA)
		fields["pacing"] = json.RawMessage(`null`)
		fields["themes"] = json.RawMessage(`[1, "loss", null]`)
		p, err := ParseProfile(fields)
		require.NoError(t, err)
		assert.Equal(t, "", p.Pacing)
		assert.Equal(t, "1, loss", p.Themes)
	})

	t.Run("nested objects rejected", func(t *testing.T) {
		fields := decodeFields(t, validDNA)
		fields["pitch"] = json.RawMessage(`{"x": "y"}`)
		_, err := ParseProfile(fields)
		require.Error(t, err)
	})
}

func TestNewRiskVerdict(t *testing.T) {
	tests := []struct {
		raw     string
		present bool
	}{
		{"present (kiss in chapter 4)", true},
		{"Present", true},
		{"VAR (Kanıt: şarap)", true},
		{"yes", true},
		{"absent", false},
		{"YOK", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.present, NewRiskVerdict(tt.raw).Present)
		})
	}
}

func TestBookProfile_JSON(t *testing.T) {
	p, err := ParseProfile(decodeFields(t, validDNA))
	require.NoError(t, err)

	var back BookProfile
	require.NoError(t, json.Unmarshal([]byte(p.JSON()), &back))
	assert.Equal(t, *p, back)
	assert.Contains(t, p.JSON(), `"lgbt":"present (two side characters are a couple)"`)
}
