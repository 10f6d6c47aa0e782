package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures Make.
type Option func(*options)

type options struct {
	replace   map[string]string
	separator string
	maxLength int
	lowercase bool
}

// MaxLength caps the slug at n runes, cutting at a separator when possible.
// Zero means no limit.
func MaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = max(n, 0)
	}
}

// Separator sets the word separator. Default: "-".
func Separator(s string) Option {
	return func(o *options) {
		if s != "" {
			o.separator = s
		}
	}
}

// Lowercase controls case folding. Default: true.
func Lowercase(on bool) Option {
	return func(o *options) {
		o.lowercase = on
	}
}

// CustomReplace applies literal replacements before slugification.
func CustomReplace(m map[string]string) Option {
	return func(o *options) {
		o.replace = m
	}
}

// Letters that do not decompose under NFD.
var special = strings.NewReplacer(
	"ß", "ss", "ẞ", "SS",
	"æ", "ae", "Æ", "AE",
	"ø", "o", "Ø", "O",
	"œ", "oe", "Œ", "OE",
	"đ", "d", "Đ", "D",
	"ł", "l", "Ł", "L",
)

// Make builds a slug from s.
func Make(s string, opts ...Option) string {
	o := &options{separator: "-", lowercase: true}
	for _, opt := range opts {
		opt(o)
	}

	for from, to := range o.replace {
		s = strings.ReplaceAll(s, from, " "+to+" ")
	}
	s = special.Replace(s)
	s = fold(s)
	if o.lowercase {
		s = strings.ToLower(s)
	}

	words := strings.FieldsFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})

	out := strings.Join(words, o.separator)
	if o.maxLength > 0 {
		out = truncate(words, o.separator, o.maxLength)
	}
	return out
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func truncate(words []string, sep string, limit int) string {
	var b strings.Builder
	n := 0
	for _, w := range words {
		extra := len(w)
		if b.Len() > 0 {
			extra += len(sep)
		}
		if n+extra > limit {
			if b.Len() == 0 {
				// A single word longer than the limit is cut mid-word.
				return w[:limit]
			}
			break
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(w)
		n += extra
	}
	return b.String()
}
