package redis

import "errors"

var (
	// ErrMissingURL is returned by Open for an empty URL.
	ErrMissingURL = errors.New("redis: missing URL")

	// ErrInvalidURL is returned for a URL go-redis cannot parse.
	ErrInvalidURL = errors.New("redis: invalid URL")

	// ErrUnreachable is returned when no connection attempt succeeded.
	ErrUnreachable = errors.New("redis: server unreachable")

	ErrPingFailed = errors.New("redis: ping failed")
)
