package varstore

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memory is a process-local variable store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	group  singleflight.Group
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Kind returns KindMemory.
func (m *Memory) Kind() Kind { return KindMemory }

// Get returns the stored value for name.
func (m *Memory) Get(_ context.Context, name string) (string, bool, error) {
	m.mu.RLock()
	value, ok := m.values[name]
	m.mu.RUnlock()
	return value, ok, nil
}

// GetOrCompute returns the stored value or computes, stores and returns it.
func (m *Memory) GetOrCompute(ctx context.Context, name string, fn ComputeFunc) (string, bool, error) {
	return ComputeThrough(ctx, m, &m.group, name, fn)
}

// Set stores the stringified value.
func (m *Memory) Set(_ context.Context, name string, value any) error {
	s := Stringify(value)
	m.mu.Lock()
	m.values[name] = s
	m.mu.Unlock()
	return nil
}

// List returns all stored names, sorted.
func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Ensure Memory implements Store
var _ Store = (*Memory)(nil)
