package redis

import "time"

// Option configures a Redis connection.
type Option func(*options)

type options struct {
	poolSize      int
	retryAttempts int
	retryInterval time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration
	dialTimeout   time.Duration
}

func defaultOptions() *options {
	return &options{
		poolSize:      4,
		retryAttempts: 2,
		retryInterval: 500 * time.Millisecond,
		readTimeout:   2 * time.Second,
		writeTimeout:  2 * time.Second,
		dialTimeout:   3 * time.Second,
	}
}

// WithPoolSize sets the maximum number of pooled connections. Default: 4
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = n
	}
}

// WithRetry configures startup retries. The wait between attempts grows
// linearly with the attempt number. Default: 2 attempts, 500ms.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithTimeouts sets the dial, read and write timeouts in one call.
// Zero leaves the corresponding default in place.
func WithTimeouts(dial, read, write time.Duration) Option {
	return func(o *options) {
		if dial > 0 {
			o.dialTimeout = dial
		}
		if read > 0 {
			o.readTimeout = read
		}
		if write > 0 {
			o.writeTimeout = write
		}
	}
}
