package apperror

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Extractor tries to pull a user-facing message out of a parsed JSON body.
// It must not assume any particular shape and reports false when it has nothing.
type Extractor func(body gjson.Result) (string, bool)

// DefaultExtractors returns the extractors used when none are given:
// the "detail" field first, then "message".
func DefaultExtractors() []Extractor {
	return []Extractor{StringField("detail"), StringField("message")}
}

// StringField extracts a non-blank string at the given gjson path.
// Non-string values are ignored.
func StringField(path string) Extractor {
	return func(body gjson.Result) (string, bool) {
		v := body.Get(path)
		if v.Type != gjson.String {
			return "", false
		}
		s := v.String()
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	}
}

// DetailList extracts the first "msg" of a validation error list shaped like
// {"detail":[{"loc":[...],"msg":"...","type":"..."}]}. Not installed by default.
func DetailList() Extractor {
	return StringField("detail.0.msg")
}

// extractMessage runs extractors in order against body. Invalid JSON and
// panicking extractors yield no message.
func extractMessage(body []byte, extractors []Extractor) (msg string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			msg, ok = "", false
		}
	}()

	if len(body) == 0 || !gjson.ValidBytes(body) {
		return "", false
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return "", false
	}

	for _, ex := range extractors {
		if ex == nil {
			continue
		}
		if m, found := ex(parsed); found {
			return m, true
		}
	}
	return "", false
}
