package varstore

import (
	"fmt"
	"sort"
	"sync"
)

// Config carries backend settings for factories.
type Config struct {
	Redis RedisConfig
}

// Factory creates a Store from configuration.
type Factory func(cfg Config) (Store, error)

// Registry maps store kinds to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// Register adds a factory for kind. A kind can only be registered once.
func (r *Registry) Register(kind Kind, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("%w: nil factory for %s", ErrInvalidArgument, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: variable store kind %s already registered", ErrInvalidArgument, kind)
	}
	r.factories[kind] = factory
	return nil
}

// Create builds a store of the given kind.
func (r *Registry) Create(kind Kind, cfg Config) (Store, error) {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: variable store kind %s is not registered", ErrInvalidArgument, kind)
	}
	return factory(cfg)
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// DefaultRegistry knows the memory and redis backends.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(KindMemory, func(Config) (Store, error) {
		return NewMemory(), nil
	})
	_ = r.Register(KindRedis, func(cfg Config) (Store, error) {
		return NewRedis(cfg.Redis), nil
	})
	return r
}
