package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	expiresAt time.Time // zero = never
	value     V
	key       string
}

// Memory is an in-process cache with TTL expiration and optional LRU eviction.
// The front of the eviction list holds the most recently used entry.
type Memory[V any] struct {
	items    map[string]*list.Element
	eviction *list.List
	opts     *memoryOptions
	onEvict  func(key string, value V)
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewMemory creates an in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory[V]{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// OnEvict registers a callback for entries dropped by LRU eviction or
// expiration. Explicit Delete and Clear do not trigger it.
func (m *Memory[V]) OnEvict(fn func(key string, value V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

// Get retrieves a value and marks it as recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if m.closed {
		return zero, ErrClosed
	}

	elem, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}

	e := elem.Value.(*memoryEntry[V])
	if m.expired(e) {
		m.remove(elem, true)
		return zero, ErrNotFound
	}

	m.eviction.MoveToFront(elem)
	return e.value, nil
}

// Set stores a value. Overwriting an existing key refreshes its TTL and recency.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.opts.now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*memoryEntry[V])
		e.value = value
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.eviction.Back(); oldest != nil {
			m.remove(oldest, true)
		}
	}

	m.items[key] = m.eviction.PushFront(&memoryEntry[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

// Delete removes a key.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem, false)
	}
	return nil
}

// Keys lists live keys, most recently used first.
func (m *Memory[V]) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	keys := make([]string, 0, len(m.items))
	for elem := m.eviction.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*memoryEntry[V])
		if !m.expired(e) {
			keys = append(keys, e.key)
		}
	}
	return keys, nil
}

// Len returns the number of stored entries, including expired ones not yet collected.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Clear removes all entries.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items = make(map[string]*list.Element)
	m.eviction.Init()
	return nil
}

// Close stops the janitor. Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.collect()
		}
	}
}

// collect drops expired entries, walking from the least recently used end.
func (m *Memory[V]) collect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for elem := m.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if m.expired(elem.Value.(*memoryEntry[V])) {
			m.remove(elem, true)
		}
		elem = prev
	}
}

// Caller must hold the mutex.
func (m *Memory[V]) expired(e *memoryEntry[V]) bool {
	return !e.expiresAt.IsZero() && m.opts.now().After(e.expiresAt)
}

// Caller must hold the mutex.
func (m *Memory[V]) remove(elem *list.Element, evicted bool) {
	m.eviction.Remove(elem)
	e := elem.Value.(*memoryEntry[V])
	delete(m.items, e.key)

	if evicted && m.onEvict != nil {
		m.onEvict(e.key, e.value)
	}
}

var _ Cache[any] = (*Memory[any])(nil)
