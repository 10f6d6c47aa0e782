package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once

	// CSI and OSC escape sequences.
	escapeSeq = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
)

func policy() *bluemonday.Policy {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// StripHTML removes all markup and returns the text content with entities decoded.
func StripHTML(s string) string {
	return html.UnescapeString(policy().Sanitize(s))
}

// StripControl removes terminal escape sequences and control characters,
// keeping newlines and tabs. Carriage returns are normalized away.
func StripControl(s string) string {
	s = escapeSeq.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Display prepares server-provided text for a terminal: markup stripped,
// control sequences removed and surrounding whitespace trimmed.
func Display(s string) string {
	return strings.TrimSpace(StripControl(StripHTML(s)))
}

// Line is Display collapsed onto a single line, for table cells and headers.
func Line(s string) string {
	return strings.Join(strings.Fields(Display(s)), " ")
}
