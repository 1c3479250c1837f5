package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		open     byte
		close    byte
		expected string
	}{
		{name: "clean object", input: `{"key": "value"}`, open: '{', close: '}', expected: `{"key": "value"}`},
		{name: "object with preamble", input: "Here is the result:\n{\"key\": \"value\"}", open: '{', close: '}', expected: `{"key": "value"}`},
		{name: "object with suffix", input: "{\"key\": \"value\"}\n\nHope this helps!", open: '{', close: '}', expected: `{"key": "value"}`},
		{name: "nested object", input: `{"outer": {"inner": "value"}}`, open: '{', close: '}', expected: `{"outer": {"inner": "value"}}`},
		{name: "brace inside string", input: `{"pitch": "a } b"} trailing`, open: '{', close: '}', expected: `{"pitch": "a } b"}`},
		{name: "escaped quote inside string", input: `{"a": "say \"}\""}`, open: '{', close: '}', expected: `{"a": "say \"}\""}`},
		{name: "array", input: `Results: [{"a": 1}, {"a": 2}] done`, open: '[', close: ']', expected: `[{"a": 1}, {"a": 2}]`},
		{name: "no json", input: "Just plain text", open: '{', close: '}', expected: ""},
		{name: "incomplete", input: `{"key": "value"`, open: '{', close: '}', expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSON(tt.input, tt.open, tt.close))
		})
	}
}

func TestDecodeArray(t *testing.T) {
	type rec struct {
		Name string `json:"name"`
	}

	t.Run("clean array", func(t *testing.T) {
		var out []rec
		require.NoError(t, DecodeArray(`[{"name":"A"}]`, &out))
		assert.Equal(t, []rec{{Name: "A"}}, out)
	})

	t.Run("fenced array", func(t *testing.T) {
		var out []rec
		require.NoError(t, DecodeArray("```json\n[{\"name\":\"A\"},{\"name\":\"B\"}]\n```", &out))
		assert.Len(t, out, 2)
	})

	t.Run("array with preamble", func(t *testing.T) {
		var out []rec
		require.NoError(t, DecodeArray("Sure:\n[{\"name\":\"A\"}]", &out))
		assert.Len(t, out, 1)
	})

	t.Run("object where array expected", func(t *testing.T) {
		var out []rec
		err := DecodeArray(`{"name":"A"}`, &out)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("truncated", func(t *testing.T) {
		var out []rec
		err := DecodeArray(`[{"name":"A"`, &out)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("empty", func(t *testing.T) {
		var out []rec
		err := DecodeArray("  ", &out)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestDecodeObject(t *testing.T) {
	var out map[string]string
	require.NoError(t, DecodeObject("noise {\"title\": \"Kitap\"} noise", &out))
	assert.Equal(t, "Kitap", out["title"])

	err := DecodeObject("no object here", &out)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", ResolveModel("fast"))
	assert.Equal(t, "gemini-2.5-pro", ResolveModel("advanced"))
	assert.Equal(t, "claude-3-opus", ResolveModel("claude-3-opus"))
	assert.Equal(t, "", ResolveModel(""))
}
