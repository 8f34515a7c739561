package cache

import (
	"sync"
	"sync/atomic"

	"github.com/riskibarqy/match-commentary/internal/platform/resilience"
)

// Memo keeps loaded values for its whole lifetime. Concurrent loads of the
// same key run once; failed loads are not stored.
type Memo[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	flight  resilience.SingleFlight
	hits    atomic.Int64
	misses  atomic.Int64
}

func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{entries: make(map[string]V)}
}

func (m *Memo[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	return v, ok
}

func (m *Memo[V]) GetOrLoad(key string, loader func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		m.hits.Add(1)
		return v, nil
	}

	loaded, err, shared := m.flight.Do(key, func() (any, error) {
		if cached, ok := m.Get(key); ok {
			return cached, nil
		}
		v, err := loader()
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.entries[key] = v
		m.mu.Unlock()
		return v, nil
	})
	if shared {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	if err != nil {
		var zero V
		return zero, err
	}

	return loaded.(V), nil
}

func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats reports cache hits and misses since creation.
func (m *Memo[V]) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}
