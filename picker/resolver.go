package picker

import (
	"slices"

	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/provider"
)

type namedBuilder struct {
	name string
	Builder
}

func (b namedBuilder) Name() string { return b.name }

// Resolver dispatches to the first builder that supports a context.
// It implements Builder itself so callers need not know how many builders
// are registered.
type Resolver struct {
	builders *provider.Registry[namedBuilder]
	order    []string
	log      *logger.Logger
}

var _ Builder = (*Resolver)(nil)

// NewResolver creates a resolver. Builders named in order are consulted first,
// in that order; the rest follow in registration order.
func NewResolver(order []string) *Resolver {
	return &Resolver{
		builders: provider.NewRegistry[namedBuilder](),
		order:    append([]string(nil), order...),
		log:      logger.Get("picker"),
	}
}

// Add registers a builder under name. Re-adding a name replaces the builder.
func (r *Resolver) Add(name string, b Builder) error {
	return r.builders.Add(namedBuilder{name: name, Builder: b})
}

// Freeze rejects further registrations.
func (r *Resolver) Freeze() { r.builders.Freeze() }

// Names returns builder names in resolution order.
func (r *Resolver) Names() []string {
	ordered := r.ordered()
	names := make([]string, len(ordered))
	for i, b := range ordered {
		names[i] = b.name
	}
	return names
}

// Builder returns the builder registered under name.
func (r *Resolver) Builder(name string) (Builder, bool) {
	b, ok := r.builders.Get(name)
	if !ok {
		return nil, false
	}
	return b.Builder, true
}

func (r *Resolver) ordered() []namedBuilder {
	all := r.builders.All()
	if len(r.order) == 0 {
		return all
	}
	rank := func(name string) int {
		if i := slices.Index(r.order, name); i >= 0 {
			return i
		}
		return len(r.order)
	}
	slices.SortStableFunc(all, func(a, b namedBuilder) int {
		return rank(a.name) - rank(b.name)
	})
	return all
}

func (r *Resolver) first(context string, allowed []string) (namedBuilder, bool) {
	for _, b := range r.ordered() {
		if b.SupportsContext(context, allowed) {
			return b, true
		}
	}
	return namedBuilder{}, false
}

// Create asks the first builder supporting cfg.Context. A declining builder
// ends the search.
func (r *Resolver) Create(cfg Config) (*Picker, bool) {
	b, ok := r.first(cfg.Context, nil)
	if !ok {
		r.log.Debug("No picker builder for context", map[string]interface{}{
			logger.FieldContext: cfg.Context,
		})
		return nil, false
	}
	return b.Create(cfg)
}

// CreateFromData decodes data and resolves it like Create.
func (r *Resolver) CreateFromData(data string) (*Picker, bool) {
	cfg, err := ConfigFromData(data)
	if err != nil {
		r.log.Debug("Invalid picker data", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, false
	}
	b, ok := r.first(cfg.Context, nil)
	if !ok {
		return nil, false
	}
	return b.CreateFromData(data)
}

// SupportsContext reports whether any builder supports context.
func (r *Resolver) SupportsContext(context string, allowed []string) bool {
	_, ok := r.first(context, allowed)
	return ok
}

// URL delegates to the first supporting builder, or returns "".
func (r *Resolver) URL(context string, extras map[string]any, value string) string {
	b, ok := r.first(context, nil)
	if !ok {
		return ""
	}
	return b.URL(context, extras, value)
}
