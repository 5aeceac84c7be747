package store

import (
	"context"
	"sync"
)

// MockStore wraps a Memory store for tests, injecting errors and counting calls.
type MockStore struct {
	*Memory

	// Error flags for testing error conditions
	FindOneError error
	FindError    error
	InsertError  error
	CountError   error

	// FailInsertOn makes the n-th InsertOne call (1-based) fail with InsertError.
	FailInsertOn int

	mu      sync.Mutex
	calls   map[string]int
	inserts int
}

// NewMockStore returns a MockStore backed by an empty Memory store.
func NewMockStore() *MockStore {
	return &MockStore{Memory: NewMemory(), calls: make(map[string]int)}
}

// Calls returns how many times the named method was called for collection.
func (m *MockStore) Calls(method, collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method+":"+collection]
}

func (m *MockStore) record(method, collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method+":"+collection]++
}

func (m *MockStore) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	m.record("FindOne", collection)
	if m.FindOneError != nil {
		return nil, m.FindOneError
	}
	return m.Memory.FindOne(ctx, collection, filter)
}

func (m *MockStore) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	m.record("Find", collection)
	if m.FindError != nil {
		return nil, m.FindError
	}
	return m.Memory.Find(ctx, collection, filter)
}

func (m *MockStore) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	m.record("InsertOne", collection)
	m.mu.Lock()
	m.inserts++
	n := m.inserts
	m.mu.Unlock()

	if m.InsertError != nil && (m.FailInsertOn == 0 || m.FailInsertOn == n) {
		return "", m.InsertError
	}
	return m.Memory.InsertOne(ctx, collection, doc)
}

func (m *MockStore) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	m.record("Count", collection)
	if m.CountError != nil {
		return 0, m.CountError
	}
	return m.Memory.Count(ctx, collection, filter)
}
