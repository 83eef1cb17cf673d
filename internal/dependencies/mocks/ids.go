package mocks

import (
	"fmt"
	"sync"

	"github.com/djasnowski/myrefell-sub008/internal/dependencies/ids"
)

// MockIDs is a deterministic Generator for testing. Queued IDs are handed
// out first; after that it counts upwards per prefix.
type MockIDs struct {
	mu       sync.Mutex
	queue    []string
	counters map[string]int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{counters: make(map[string]int)}
}

// NewID returns the next queued ID, or prefix plus a counter
func (m *MockIDs) NewID(prefix string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) > 0 {
		id := m.queue[0]
		m.queue = m.queue[1:]
		return id
	}
	m.counters[prefix]++
	return fmt.Sprintf("%s%d", prefix, m.counters[prefix])
}

// Queue adds IDs to be returned before falling back to counters
func (m *MockIDs) Queue(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, values...)
}
