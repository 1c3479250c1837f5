package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeObject parses a JSON object out of an oracle response into v.
func DecodeObject(response string, v any) error {
	return decode(response, '{', '}', v)
}

// DecodeArray parses a JSON array out of an oracle response into v.
func DecodeArray(response string, v any) error {
	return decode(response, '[', ']', v)
}

func decode(response string, open, close byte, v any) error {
	text := StripFences(response)
	if text == "" {
		return ErrEmptyResponse
	}

	if strings.HasPrefix(text, string(open)) {
		if err := json.Unmarshal([]byte(text), v); err == nil {
			return nil
		}
	}

	// Models sometimes wrap the payload in prose.
	fragment := ExtractJSON(text, open, close)
	if fragment == "" {
		return fmt.Errorf("%w: no JSON %c...%c found", ErrMalformed, open, close)
	}
	if err := json.Unmarshal([]byte(fragment), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// StripFences removes markdown code fences around a response.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	for _, fence := range []string{"```json", "```html", "```"} {
		text = strings.ReplaceAll(text, fence, "")
	}
	return strings.TrimSpace(text)
}

// ExtractJSON returns the first balanced open...close fragment in text,
// ignoring brackets inside string literals. It returns "" if none is found.
func ExtractJSON(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}
