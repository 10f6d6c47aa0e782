package query

import "errors"

var (
	// ErrNotCached is returned by Peek when the key holds no data.
	ErrNotCached = errors.New("query: entry not cached")

	// ErrInvalidKey is returned by ParseKey for malformed input.
	ErrInvalidKey = errors.New("query: invalid key")
)
