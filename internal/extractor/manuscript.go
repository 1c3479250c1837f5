package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Manuscript is cleaned manuscript text plus basic statistics.
type Manuscript struct {
	Name      string
	Text      string
	WordCount int
	CharCount int
	Chapters  []string
}

// Prepare cleans raw extracted text: normalizes line endings, strips
// boilerplate blocks and bare page numbers, collapses blank runs and records
// chapter headings.
func Prepare(name, raw string) *Manuscript {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := stripBoilerplate(strings.Split(raw, "\n"))

	var (
		out      []string
		chapters []string
		blank    int
	)
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if isPageNumber(line) {
			continue
		}
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}

		if chapter := detectChapter(line); chapter != "" {
			chapters = append(chapters, chapter)
		}
		out = append(out, line)
	}

	text := strings.TrimSpace(strings.Join(out, "\n"))
	return &Manuscript{
		Name:      name,
		Text:      text,
		WordCount: countWords(text),
		CharCount: len([]rune(text)),
		Chapters:  chapters,
	}
}

// Empty reports whether no usable text survived cleaning.
func (m *Manuscript) Empty() bool {
	return m == nil || m.WordCount == 0
}

var (
	headerMarkers = []string{"*** START OF", "***START OF", "*END*THE SMALL PRINT"}
	footerMarkers = []string{"*** END OF", "***END OF", "End of Project Gutenberg", "End of the Project Gutenberg"}
)

func hasMarker(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// stripBoilerplate keeps the lines between a distributor header and footer.
// Text without both markers in the right order is returned unchanged.
func stripBoilerplate(lines []string) []string {
	from, to := 0, len(lines)
	for i, line := range lines {
		if hasMarker(line, headerMarkers) {
			from = i + 1
			break
		}
	}
	for i := len(lines) - 1; i >= from; i-- {
		if hasMarker(lines[i], footerMarkers) {
			to = i
			break
		}
	}
	if from >= to {
		return lines
	}
	return lines[from:to]
}

var chapterPrefixes = []string{
	"CHAPTER",
	"PART",
	"EPILOGUE",
	"PROLOGUE",
	"BÖLÜM",
	"KISIM",
	"ÖNSÖZ",
	"SONSÖZ",
	"GİRİŞ",
}

var numberedChapter = regexp.MustCompile(`^\d+\.\s*(BÖLÜM|KISIM|CHAPTER)`)

// detectChapter returns the trimmed line if it looks like a chapter heading.
func detectChapter(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || len([]rune(line)) > 60 {
		return ""
	}
	upper := cases.Upper(language.Turkish).String(line)

	for _, prefix := range chapterPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return line
		}
	}
	if numberedChapter.MatchString(upper) {
		return line
	}

	if len(line) <= 10 && romanHeading.MatchString(line) {
		return line
	}
	return ""
}

var romanHeading = regexp.MustCompile(`^[IVXLCDMivxlcdm.\s]+$`)

var pageNumber = regexp.MustCompile(`^\s*\d{1,4}\s*$`)

func isPageNumber(line string) bool { return pageNumber.MatchString(line) }

func countWords(text string) int {
	return len(strings.Fields(text))
}
