package generic

import (
	"context"
	"sync"
)

// MockDatabaseOperations is a thread-safe DatabaseOperations fake that
// records its calls.
type MockDatabaseOperations[K comparable, V any] struct {
	mu sync.Mutex

	LoadAllFunc func(ctx context.Context) (map[K]V, error)
	PersistFunc func(ctx context.Context, key K, value V) error
	DeleteFunc  func(ctx context.Context, key K) error

	loadAllCalls int
	persisted    []K
	deleted      []K
}

// NewMockDatabaseOperations creates a mock with no-op behavior.
func NewMockDatabaseOperations[K comparable, V any]() *MockDatabaseOperations[K, V] {
	return &MockDatabaseOperations[K, V]{
		LoadAllFunc: func(context.Context) (map[K]V, error) { return map[K]V{}, nil },
		PersistFunc: func(context.Context, K, V) error { return nil },
		DeleteFunc:  func(context.Context, K) error { return nil },
	}
}

func (m *MockDatabaseOperations[K, V]) LoadAll(ctx context.Context) (map[K]V, error) {
	m.mu.Lock()
	m.loadAllCalls++
	m.mu.Unlock()
	return m.LoadAllFunc(ctx)
}

func (m *MockDatabaseOperations[K, V]) Persist(ctx context.Context, key K, value V) error {
	m.mu.Lock()
	m.persisted = append(m.persisted, key)
	m.mu.Unlock()
	return m.PersistFunc(ctx, key, value)
}

func (m *MockDatabaseOperations[K, V]) Delete(ctx context.Context, key K) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, key)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, key)
}

// LoadAllCallCount returns how many times LoadAll ran.
func (m *MockDatabaseOperations[K, V]) LoadAllCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadAllCalls
}

// PersistedKeys returns the keys passed to Persist, in call order.
func (m *MockDatabaseOperations[K, V]) PersistedKeys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]K(nil), m.persisted...)
}

// DeletedKeys returns the keys passed to Delete, in call order.
func (m *MockDatabaseOperations[K, V]) DeletedKeys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]K(nil), m.deleted...)
}
