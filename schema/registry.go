package schema

import (
	"fmt"
	"sync"
)

// Registry holds type descriptors by name.  It is safe for concurrent
// use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

func NewRegistry(ts ...*Type) (*Registry, error) {
	r := &Registry{types: make(map[string]*Type, len(ts))}
	for _, t := range ts {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register registers a type descriptor.
func (r *Registry) Register(t *Type) error {
	if t == nil {
		return fmt.Errorf("cannot register nil type")
	}
	if t.Name == "" {
		return fmt.Errorf("type must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.types == nil {
		r.types = make(map[string]*Type)
	}
	if _, exists := r.types[t.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, t.Name)
	}
	r.types[t.Name] = t
	return nil
}

// Lookup looks up a type by name
func (r *Registry) Lookup(name string) *Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[name]
}

// All returns all registered types
func (r *Registry) All() map[string]*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Type, len(r.types))
	for k, v := range r.types {
		result[k] = v
	}
	return result
}

func (r *Registry) Fields(typeName string) ([]Field, bool) {
	t := r.Lookup(typeName)
	if t == nil {
		return nil, false
	}
	return t.Fields, true
}
