package cache

import "errors"

var (
	// ErrNotFound means the key was never stored, was deleted or has expired.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned by a Memory cache after Close.
	ErrClosed = errors.New("cache: use of closed cache")

	ErrMarshal   = errors.New("cache: encode value")
	ErrUnmarshal = errors.New("cache: decode value")
)
