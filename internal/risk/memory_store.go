package risk

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory alert store for demo/development mode.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts []*Alert
}

// NewMemoryStore creates a new in-memory alert store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Add(ctx context.Context, alert *Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *alert
	m.alerts = append(m.alerts, &cp)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]*Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStore) Replace(ctx context.Context, alerts []*Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]*Alert, 0, len(alerts))
	for _, a := range alerts {
		cp := *a
		next = append(next, &cp)
	}
	m.alerts = next
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alerts = nil
	return nil
}
