package directory

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Directory for tests and redis-less dev runs.
// Expiry is enforced lazily on read.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	name    string
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]entry{}, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.name, true, nil
}

func (m *Memory) Set(_ context.Context, key, name string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{name: name, expires: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k, e := range m.entries {
		if m.now().After(e.expires) {
			delete(m.entries, k)
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}
