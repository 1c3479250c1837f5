package mailer

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// BodyStyle is the inline style of the outgoing <body>.
const BodyStyle = "font-family: Times New Roman; font-size: 14px;"

var (
	fencePattern  = regexp.MustCompile("```[a-zA-Z]*")
	brPattern     = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	brRunPattern  = regexp.MustCompile(`(<br>\s*)+`)
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	tagPattern    = regexp.MustCompile(`(?i)<\s*/?\s*(p|br|b|i|u|ul|ol|li|div|span|strong|em|a|h[1-6])\b[^>]*>`)
)

var markdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps()))

// FormatBody turns a drafted body into email-ready HTML. Bodies that already
// contain HTML keep their markup; only leftover markdown emphasis is
// converted. Plain markdown is rendered in full.
func FormatBody(text string) (string, error) {
	text = strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
	if text == "" {
		return "", nil
	}

	if !tagPattern.MatchString(text) {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(text), &buf); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		return strings.TrimSpace(buf.String()), nil
	}

	text = boldPattern.ReplaceAllString(text, "<b>$1</b>")
	text = italicPattern.ReplaceAllString(text, "<i>$1</i>")
	text = brPattern.ReplaceAllString(text, "<br>")
	text = brRunPattern.ReplaceAllString(text, "<br>")
	return text, nil
}

// WrapHTML places a body fragment in the house document template.
func WrapHTML(body string) string {
	return fmt.Sprintf("<html><body style='%s'>%s</body></html>", BodyStyle, body)
}

// Personalize fills {{publisher}} and {{salutation}} placeholders in an HTML
// body. Both values are escaped.
func Personalize(body, publisher, salutation string) string {
	return strings.NewReplacer(
		"{{publisher}}", html.EscapeString(publisher),
		"{{salutation}}", html.EscapeString(salutation),
	).Replace(body)
}
