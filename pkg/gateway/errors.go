package gateway

import "errors"

var (
	// ErrMissingBaseURL is returned by New when the base URL is empty.
	ErrMissingBaseURL = errors.New("gateway: missing base URL")

	// ErrInvalidBaseURL is returned by New when the base URL cannot be parsed
	// or is not absolute.
	ErrInvalidBaseURL = errors.New("gateway: invalid base URL")
)
