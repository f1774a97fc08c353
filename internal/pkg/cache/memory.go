package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// sweepInterval bounds how long expired keys that are never read again stay
// in memory.
const sweepInterval = time.Minute

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is a process-local Client for single instance deployments and tests.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time

	nextSweep time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry), now: time.Now}
}

// sweep drops expired entries at most once per sweepInterval. Callers hold mu.
func (m *Memory) sweep() {
	now := m.now()
	if now.Before(m.nextSweep) {
		return
	}
	for k, e := range m.items {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.items, k)
		}
	}
	m.nextSweep = now.Add(sweepInterval)
}

func (m *Memory) get(key string) (entry, bool) {
	e, ok := m.items[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.items, key)
		return entry{}, false
	}
	return e, true
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return e.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()

	e := entry{value: fmt.Sprint(value)}
	if expiration > 0 {
		e.expiresAt = m.now().Add(expiration)
	}
	m.items[key] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *Memory) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()

	e, ok := m.get(key)
	var n int64
	if ok {
		if _, err := fmt.Sscan(e.value, &n); err != nil {
			return 0, fmt.Errorf("value at %s is not an integer", key)
		}
	} else {
		e = entry{expiresAt: m.now().Add(window)}
	}
	n++
	e.value = fmt.Sprint(n)
	m.items[key] = e
	return n, nil
}
