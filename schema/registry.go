package schema

import "sync"

// Registry caches compiled schemas and their default templates per
// version, so defaults are derived from schema introspection once per
// process instead of on every call.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

func (r *Registry) Get(version string) (*Schema, error) {
	r.mu.RLock()
	s, ok := r.schemas[version]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.schemas[version]; ok {
		return s, nil
	}
	s, err := load(version)
	if err != nil {
		return nil, err
	}
	r.schemas[version] = s
	return s, nil
}

var defaultRegistry = NewRegistry()

// Get returns the process wide compiled schema for a version.
func Get(version string) (*Schema, error) {
	return defaultRegistry.Get(version)
}
