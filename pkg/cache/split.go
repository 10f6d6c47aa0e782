package cache

import (
	"context"
	"errors"
	"time"
)

// Split routes keys matched by local to one store and every other key to
// shared. Use it to keep per-process entries out of a store other processes
// can read.
type Split[V any] struct {
	local  Cache[V]
	shared Cache[V]
	match  func(key string) bool
}

// NewSplit creates a Split. A nil match routes nothing to local.
func NewSplit[V any](local, shared Cache[V], match func(key string) bool) *Split[V] {
	if match == nil {
		match = func(string) bool { return false }
	}
	return &Split[V]{local: local, shared: shared, match: match}
}

func (s *Split[V]) pick(key string) Cache[V] {
	if s.match(key) {
		return s.local
	}
	return s.shared
}

func (s *Split[V]) Get(ctx context.Context, key string) (V, error) {
	return s.pick(key).Get(ctx, key)
}

func (s *Split[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return s.pick(key).Set(ctx, key, value, ttl)
}

func (s *Split[V]) Delete(ctx context.Context, key string) error {
	return s.pick(key).Delete(ctx, key)
}

// Keys lists local keys followed by the shared keys local does not claim.
func (s *Split[V]) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.local.Keys(ctx)
	if err != nil {
		return nil, err
	}
	shared, err := s.shared.Keys(ctx)
	if err != nil {
		return nil, err
	}
	for _, k := range shared {
		if !s.match(k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *Split[V]) Clear(ctx context.Context) error {
	return errors.Join(s.local.Clear(ctx), s.shared.Clear(ctx))
}

func (s *Split[V]) Close() error {
	return errors.Join(s.local.Close(), s.shared.Close())
}
