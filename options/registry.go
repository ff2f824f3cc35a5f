package options

import "sync"

// Registry holds the default options and named option sets.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ownership: stored and returned Maps are copies.
type Registry struct {
	mu       sync.RWMutex
	defaults Map
	sets     map[string]Map
}

// NewRegistry creates a registry with empty defaults.
func NewRegistry() *Registry {
	return &Registry{
		defaults: Map{},
		sets:     make(map[string]Map),
	}
}

// RegisterDefault replaces the default options.
func (r *Registry) RegisterDefault(m Map) {
	c := m.Clone()
	r.mu.Lock()
	r.defaults = c
	r.mu.Unlock()
}

// Default returns a copy of the default options.
func (r *Registry) Default() Map {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults.Clone()
}

// Register stores m under name, replacing any previous set.
func (r *Registry) Register(name string, m Map) error {
	if blank(name) {
		return errBlankName(name)
	}
	c := m.Clone()
	r.mu.Lock()
	r.sets[name] = c
	r.mu.Unlock()
	return nil
}

// Registered returns a copy of the set stored under name.
func (r *Registry) Registered(name string) (Map, bool) {
	if blank(name) {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.sets[name]
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// IsRegistered reports whether a set is stored under name.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.Registered(name)
	return ok
}

// Resolve returns the defaults merged with the first registered set among
// names, or the onMissing fallback when none is registered.
func (r *Registry) Resolve(onMissing OnMissing, names ...string) Map {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range names {
		if blank(name) {
			continue
		}
		if set, ok := r.sets[name]; ok {
			return r.defaults.Merge(set)
		}
	}

	switch onMissing {
	case MissingDefault:
		return r.defaults.Clone()
	case MissingNil:
		return nil
	default:
		return Map{}
	}
}
