package provider

import (
	"errors"
	"fmt"
	"sync"
)

// ErrFrozen is returned when adding to a registry after Freeze.
var ErrFrozen = errors.New("provider: registry is frozen")

// Registry holds named entries in registration order. Adding an entry under
// an existing name replaces it in place, so the last registration wins while
// the original position is kept.
//
// Registries are filled at startup and frozen before requests are served;
// after Freeze every method is safe for concurrent readers.
type Registry[T Named] struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]T
	frozen  bool
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Named]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
	}
}

// Add registers entry under entry.Name().
func (r *Registry[T]) Add(entry T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("add %q: %w", entry.Name(), ErrFrozen)
	}
	name := entry.Name()
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = entry
	return nil
}

// Get returns the entry registered under name.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	return entry, ok
}

// All returns every entry in registration order.
func (r *Registry[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Names returns every registered name in registration order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Freeze rejects further registrations.
func (r *Registry[T]) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry[T]) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
