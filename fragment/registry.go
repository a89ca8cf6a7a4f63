package fragment

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/corebundle/di"
)

var (
	// ErrFrozen is returned when adding after Freeze.
	ErrFrozen = errors.New("fragment: registry is frozen")
	// ErrNotBound is returned when a fragment is requested before Bind.
	ErrNotBound = errors.New("fragment: registry is not bound to a container")
)

type entry struct {
	cfg   Config
	proxy ProxyFactory
	seq   int
}

// Registry is the process-wide fragment table. It is filled by the register
// passes, frozen, then bound to the compiled container.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*entry
	order     []string
	globals   map[string]map[string][]*entry
	seq       int
	frozen    bool
	fragments map[string]Fragment
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:   make(map[string]*entry),
		globals:   make(map[string]map[string][]*entry),
		fragments: make(map[string]Fragment),
	}
}

// Add registers cfg under cfg.Key and, when globalsKey is set, lists it in
// the globals table. Re-adding a key replaces the earlier registration and
// keeps its position among entries of equal priority.
func (r *Registry) Add(cfg Config, globalsKey string, proxy ProxyFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("add %s: %w", cfg.Key, ErrFrozen)
	}
	if cfg.Key == "" {
		return errors.New("fragment: key is required")
	}

	e := &entry{cfg: cfg, proxy: proxy}
	if prev, ok := r.entries[cfg.Key]; ok {
		r.unlist(prev)
		e.seq = prev.seq
	} else {
		r.order = append(r.order, cfg.Key)
		r.seq++
		e.seq = r.seq
	}
	r.entries[cfg.Key] = e

	if globalsKey != "" {
		byCategory, ok := r.globals[globalsKey]
		if !ok {
			byCategory = make(map[string][]*entry)
			r.globals[globalsKey] = byCategory
		}
		list := append(byCategory[cfg.Category], e)
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].cfg.Priority != list[j].cfg.Priority {
				return list[i].cfg.Priority > list[j].cfg.Priority
			}
			return list[i].seq < list[j].seq
		})
		byCategory[cfg.Category] = list
	}
	return nil
}

func (r *Registry) unlist(prev *entry) {
	for _, byCategory := range r.globals {
		list := byCategory[prev.cfg.Category]
		for i, e := range list {
			if e == prev {
				byCategory[prev.cfg.Category] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// Get returns the configuration registered under key.
func (r *Registry) Get(key string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return Config{}, false
	}
	return e.cfg, true
}

// Keys returns every key in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// All returns every configuration in registration order.
func (r *Registry) All() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Config, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key].cfg)
	}
	return out
}

// ByTag returns the configurations registered for tag, highest priority
// first. Equal priorities keep registration order.
func (r *Registry) ByTag(tag string) []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entry
	for _, key := range r.order {
		if e := r.entries[key]; e.cfg.Tag == tag {
			list = append(list, e)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].cfg.Priority != list[j].cfg.Priority {
			return list[i].cfg.Priority > list[j].cfg.Priority
		}
		return list[i].seq < list[j].seq
	})
	out := make([]Config, len(list))
	for i, e := range list {
		out[i] = e.cfg
	}
	return out
}

// GlobalsKeys returns the globals keys in use, sorted.
func (r *Registry) GlobalsKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.globals))
	for k := range r.globals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Globals returns the table for globalsKey: category to fragment types,
// highest priority first.
func (r *Registry) Globals(globalsKey string) map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byCategory := r.globals[globalsKey]
	out := make(map[string][]string, len(byCategory))
	for category, list := range byCategory {
		if len(list) == 0 {
			continue
		}
		types := make([]string, len(list))
		for i, e := range list {
			types[i] = e.cfg.Type
		}
		out[category] = types
	}
	return out
}

// Lookup finds the configuration of fragment type under globalsKey. When a
// type is listed in several categories the highest priority wins.
func (r *Registry) Lookup(globalsKey, fragmentType string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *entry
	for _, list := range r.globals[globalsKey] {
		for _, e := range list {
			if e.cfg.Type != fragmentType {
				continue
			}
			if found == nil || e.cfg.Priority > found.cfg.Priority ||
				(e.cfg.Priority == found.cfg.Priority && e.seq < found.seq) {
				found = e
			}
		}
	}
	if found == nil {
		return Config{}, false
	}
	return found.cfg, true
}

// Freeze rejects further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Bind attaches the compiled container. Fragments without a proxy are
// resolved now; proxied ones are wrapped and resolved on first render.
func (r *Registry) Bind(resolver di.Resolver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range r.order {
		e := r.entries[key]
		serviceID := e.cfg.ServiceID
		build := func() (Fragment, error) {
			return di.Resolve[Fragment](resolver, serviceID)
		}
		if e.proxy != nil {
			r.fragments[key] = e.proxy(key, build)
			continue
		}
		f, err := build()
		if err != nil {
			return fmt.Errorf("fragment %s: %w", key, err)
		}
		r.fragments[key] = f
	}
	return nil
}

// Fragment returns the fragment registered under key.
func (r *Registry) Fragment(key string) (Fragment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.entries[key]; !ok {
		return nil, fmt.Errorf("fragment %s: not registered", key)
	}
	f, ok := r.fragments[key]
	if !ok {
		return nil, fmt.Errorf("fragment %s: %w", key, ErrNotBound)
	}
	return f, nil
}
