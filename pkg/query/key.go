package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Key identifies a cache entry. The zero Key is the prefix of every key.
type Key struct {
	parts []string
}

// NewKey builds a key from a resource name and parameters. Parameters are
// JSON-encoded; nil becomes null.
func NewKey(resource string, params ...any) Key {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, encodePart(resource))
	for _, p := range params {
		parts = append(parts, encodePart(p))
	}
	return Key{parts: parts}
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return Key{}, errors.Join(ErrInvalidKey, err)
	}

	parts := make([]string, len(raw))
	for i, r := range raw {
		var buf bytes.Buffer
		if err := json.Compact(&buf, r); err != nil {
			return Key{}, errors.Join(ErrInvalidKey, err)
		}
		parts[i] = buf.String()
	}
	return Key{parts: parts}, nil
}

// String renders the key as a JSON array, the form used in storage.
func (k Key) String() string {
	return "[" + strings.Join(k.parts, ",") + "]"
}

// Len returns the number of parts, resource included.
func (k Key) Len() int {
	return len(k.parts)
}

// HasPrefix reports whether prefix matches the leading parts of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix.parts) > len(k.parts) {
		return false
	}
	for i, p := range prefix.parts {
		if k.parts[i] != p {
			return false
		}
	}
	return true
}

// Equal reports whether both keys have identical parts.
func (k Key) Equal(other Key) bool {
	return len(k.parts) == len(other.parts) && k.HasPrefix(other)
}

func encodePart(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(fmt.Sprint(v))
	}
	return string(data)
}
