// Package scanner flags sensitive-content signals in manuscript text.
package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a sensitive-content signal category.
type Category string

const (
	LGBTSignals             Category = "lgbt_signals"
	EroticContent           Category = "erotic_content"
	SubstanceUse            Category = "substance_use"
	ViolenceTrauma          Category = "violence_trauma"
	SensitiveSociopolitical Category = "sensitive_sociopolitical"
)

// Categories lists every category in scan order.
var Categories = []Category{
	LGBTSignals,
	EroticContent,
	SubstanceUse,
	ViolenceTrauma,
	SensitiveSociopolitical,
}

// CleanHint is the hint sent to the oracle when nothing was flagged.
const CleanHint = "Automatic scan found no signals."

// pattern is a lowercase token matched at a word start. Whole patterns must
// also end at a word boundary; stems may continue (suffixes are common in Turkish).
type pattern struct {
	token string
	whole bool
}

func word(token string) pattern { return pattern{token: token, whole: true} }
func stem(token string) pattern { return pattern{token: token} }

// Patterns is the declared pattern table. Order within a category matters:
// the first matching pattern is the one reported.
var Patterns = map[Category][]pattern{
	LGBTSignals: {
		word("gay"), stem("lezbiyen"), stem("eşcinsel"), stem("queer"), word("trans"),
		stem("hemcins"), stem("iki baba"), stem("iki anne"), stem("non-binary"),
		stem("kuir"), stem("partner"), stem("sevgili"), stem("hoşlan"), stem("aşık"),
		stem("lesbian"), stem("homosexual"), stem("bisexual"),
	},
	EroticContent: {
		stem("seviş"), stem("yatak"), stem("çıplak"), stem("soyun"), stem("arzu"),
		stem("şehvet"), stem("öpüş"), stem("kalça"), stem("göğüs"), stem("memeler"),
		stem("kasık"), stem("inledi"), stem("sürtün"), stem("prezervatif"), stem("korunma"),
		stem("nefes nefese"), stem("ten tene"),
		stem("naked"), stem("erotic"), stem("moaned"),
	},
	SubstanceUse: {
		stem("şarap"), stem("viski"), stem("sigara"), stem("alkol"), stem("içki"), stem("bira"),
		stem("kokain"), stem("esrar"), word("hap"), stem("uyuşturucu"), stem("iğne"),
		stem("kriz"), stem("duman"), stem("toz"), stem("madde"), stem("kristal"), word("ot"),
		stem("whisk"), stem("cocaine"), stem("heroin"),
	},
	ViolenceTrauma: {
		word("kan"), stem("ceset"), stem("cinayet"), stem("intihar"), stem("öldür"),
		stem("boğdu"), stem("bıçak"), stem("silah"), stem("tabanca"), stem("tecavüz"),
		stem("taciz"), stem("istismar"), stem("dayak"), stem("kesik"), stem("vahşet"),
		stem("işkence"), stem("kemik"),
		stem("murder"), stem("suicide"), stem("corpse"),
	},
	SensitiveSociopolitical: {
		stem("tanrı"), stem("kilise"), stem("camii"), stem("örgüt"), stem("terör"),
		stem("darbe"), stem("devrim"), stem("başkaldırı"), stem("propaganda"),
		stem("alevi"), stem("kürt"), stem("ermeni"), stem("yahudi"), stem("hristiyan"),
		stem("hükümet"), stem("asker"), stem("polis"),
		stem("coup"), stem("revolution"),
	},
}

// Hit is one flagged category and the token that triggered it.
type Hit struct {
	Category Category `json:"category"`
	Token    string   `json:"token"`
}

// Result is the outcome of a scan, at most one hit per category.
type Result struct {
	Hits []Hit `json:"hits"`
}

// Has reports whether the category was flagged.
func (r Result) Has(c Category) bool {
	for _, h := range r.Hits {
		if h.Category == c {
			return true
		}
	}
	return false
}

// Token returns the triggering token for a category, or "".
func (r Result) Token(c Category) string {
	for _, h := range r.Hits {
		if h.Category == c {
			return h.Token
		}
	}
	return ""
}

// Hint renders the hits as the hint list sent to the oracle.
func (r Result) Hint() string {
	if len(r.Hits) == 0 {
		return CleanHint
	}
	lines := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		lines[i] = fmt.Sprintf("- %s suspected (word: %s)", strings.ToUpper(string(h.Category)), h.Token)
	}
	return strings.Join(lines, "\n")
}

type compiled struct {
	token string
	re    *regexp.Regexp
}

// Scanner matches text against the compiled pattern table.
type Scanner struct {
	table map[Category][]compiled
	lang  language.Tag
}

// letters and digits count as word characters, so boundaries work for Turkish.
const boundary = `[^\p{L}\p{N}_]`

// New compiles the pattern table.
func New() *Scanner {
	table := make(map[Category][]compiled, len(Patterns))
	for cat, pats := range Patterns {
		list := make([]compiled, len(pats))
		for i, p := range pats {
			expr := `(?:^|` + boundary + `)` + regexp.QuoteMeta(p.token)
			if p.whole {
				expr += `(?:$|` + boundary + `)`
			}
			list[i] = compiled{token: p.token, re: regexp.MustCompile(expr)}
		}
		table[cat] = list
	}
	return &Scanner{
		table: table,
		lang:  language.Turkish,
	}
}

var defaultScanner = New()

// Scan flags text with the default pattern table.
func Scan(text string) Result {
	return defaultScanner.Scan(text)
}

// Scan lower-cases text once and records the first matching pattern per category.
func (s *Scanner) Scan(text string) Result {
	lowered := cases.Lower(s.lang).String(text)

	var result Result
	for _, cat := range Categories {
		for _, p := range s.table[cat] {
			if p.re.MatchString(lowered) {
				result.Hits = append(result.Hits, Hit{Category: cat, Token: p.token})
				break
			}
		}
	}
	return result
}
