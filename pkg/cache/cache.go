package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Cache is a generic key-value store with per-entry TTL.
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the keys of all live entries in no particular order.
	Keys(ctx context.Context) ([]string, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases resources (background goroutines, etc.).
	Close() error
}

// Marshaler serializes values for backends that store bytes.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSONMarshaler is the default Marshaler.
type JSONMarshaler[V any] struct{}

func (JSONMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSONMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}
