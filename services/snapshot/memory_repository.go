package snapshot

import (
	"context"
	"sync"
	"time"
)

type MemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snapshots: make(map[string]Snapshot)}
}

func (m *MemoryRepository) Save(_ context.Context, name string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[name] = Snapshot{Name: name, Payload: append([]byte(nil), payload...), SavedAt: time.Now().UTC()}
	return nil
}

func (m *MemoryRepository) Load(_ context.Context, name string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[name]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	s.Payload = append([]byte(nil), s.Payload...)
	return s, nil
}

func (m *MemoryRepository) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, name)
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
