package extractor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abdulachik/scoutmail/internal/scanner"
)

// ProfileKeys is the exact key set a DNA response must carry.
var ProfileKeys = []string{
	"title",
	"author",
	"target_audience",
	"primary_genre",
	"subgenres",
	"language_difficulty",
	"pacing",
	"pitch",
	"lgbt",
	"sexual_content",
	"substance_use",
	"violence",
	"sociopolitical",
	"atmosphere",
	"themes",
	"comparable_titles",
}

// RiskVerdict is the oracle's free-text verdict for one risk category,
// such as "present (two characters kiss in chapter 4)" or "absent".
type RiskVerdict struct {
	Raw     string
	Present bool
}

// NewRiskVerdict derives presence from the verdict's leading word.
func NewRiskVerdict(raw string) RiskVerdict {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	present := false
	for _, prefix := range []string{"present", "yes", "var", "evet"} {
		if strings.HasPrefix(lower, prefix) {
			present = true
			break
		}
	}
	return RiskVerdict{Raw: raw, Present: present}
}

// MarshalJSON writes the raw verdict so serialized profiles keep the
// response shape.
func (v RiskVerdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw)
}

// UnmarshalJSON reads a verdict string.
func (v *RiskVerdict) UnmarshalJSON(data []byte) error {
	text, err := textValue(data)
	if err != nil {
		return err
	}
	*v = NewRiskVerdict(text)
	return nil
}

// BookProfile is the structured DNA of one manuscript.
type BookProfile struct {
	Title              string      `json:"title"`
	Author             string      `json:"author"`
	TargetAudience     string      `json:"target_audience"`
	PrimaryGenre       string      `json:"primary_genre"`
	Subgenres          string      `json:"subgenres"`
	LanguageDifficulty string      `json:"language_difficulty"`
	Pacing             string      `json:"pacing"`
	Pitch              string      `json:"pitch"`
	LGBT               RiskVerdict `json:"lgbt"`
	SexualContent      RiskVerdict `json:"sexual_content"`
	SubstanceUse       RiskVerdict `json:"substance_use"`
	Violence           RiskVerdict `json:"violence"`
	Sociopolitical     RiskVerdict `json:"sociopolitical"`
	Atmosphere         string      `json:"atmosphere"`
	Themes             string      `json:"themes"`
	ComparableTitles   string      `json:"comparable_titles"`
}

// Risk returns the verdict for a scanner category.
func (p *BookProfile) Risk(c scanner.Category) RiskVerdict {
	switch c {
	case scanner.LGBTSignals:
		return p.LGBT
	case scanner.EroticContent:
		return p.SexualContent
	case scanner.SubstanceUse:
		return p.SubstanceUse
	case scanner.ViolenceTrauma:
		return p.Violence
	case scanner.SensitiveSociopolitical:
		return p.Sociopolitical
	}
	return RiskVerdict{}
}

// JSON returns the profile serialized for oracle prompts.
func (p *BookProfile) JSON() string {
	data, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ParseProfile validates a decoded DNA object against the fixed key set.
// List-valued fields may arrive as strings or arrays; arrays are joined.
func ParseProfile(fields map[string]json.RawMessage) (*BookProfile, error) {
	var missing, unknown []string
	for _, key := range ProfileKeys {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	known := make(map[string]bool, len(ProfileKeys))
	for _, key := range ProfileKeys {
		known[key] = true
	}
	for key := range fields {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing keys: %s", strings.Join(missing, ", "))
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unexpected keys: %s", strings.Join(unknown, ", "))
	}

	values := make(map[string]string, len(fields))
	for key, raw := range fields {
		text, err := textValue(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		values[key] = text
	}

	if values["title"] == "" {
		return nil, fmt.Errorf("field title is empty")
	}

	return &BookProfile{
		Title:              values["title"],
		Author:             values["author"],
		TargetAudience:     values["target_audience"],
		PrimaryGenre:       values["primary_genre"],
		Subgenres:          values["subgenres"],
		LanguageDifficulty: values["language_difficulty"],
		Pacing:             values["pacing"],
		Pitch:              values["pitch"],
		LGBT:               NewRiskVerdict(values["lgbt"]),
		SexualContent:      NewRiskVerdict(values["sexual_content"]),
		SubstanceUse:       NewRiskVerdict(values["substance_use"]),
		Violence:           NewRiskVerdict(values["violence"]),
		Sociopolitical:     NewRiskVerdict(values["sociopolitical"]),
		Atmosphere:         values["atmosphere"],
		Themes:             values["themes"],
		ComparableTitles:   values["comparable_titles"],
	}, nil
}

// textValue flattens a JSON scalar or array into display text.
func textValue(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	return flatten(v)
}

func flatten(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			text, err := flatten(item)
			if err != nil {
				return "", err
			}
			if text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("unsupported value %T", v)
	}
}
