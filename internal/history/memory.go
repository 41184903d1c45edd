package history

import (
	"sync"

	"github.com/reqdesk-hq/reqdesk/internal/domain"
)

// memoryStore is a bounded in-memory history. Newest entries evict the
// oldest once capacity is reached.
type memoryStore struct {
	mu       sync.Mutex
	entries  []domain.Exchange
	capacity int
}

func newMemoryStore(capacity int) *memoryStore {
	return &memoryStore{capacity: capacity}
}

func (m *memoryStore) Close() error { return nil }

// Append records the exchange, dropping the oldest entry at capacity.
func (m *memoryStore) Append(ex domain.Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, ex)
	if len(m.entries) > m.capacity {
		m.entries = m.entries[len(m.entries)-m.capacity:]
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (m *memoryStore) Recent(limit int) ([]domain.Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}

	out := make([]domain.Exchange, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
