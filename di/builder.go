package di

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCompiled is returned when a builder is modified after Compile.
var ErrCompiled = errors.New("di: builder already compiled")

// TaggedService is one tag occurrence found by FindTagged.
type TaggedService struct {
	ID         string
	Definition *Definition
	Tag        Tag
	// Index is the position of the definition in registration order.
	Index int
}

// Builder collects service definitions before the container is compiled.
// It is not safe for concurrent use; builds are single-threaded.
type Builder struct {
	defs       map[string]*Definition
	order      []string
	instances  map[string]any
	parameters map[string]any
	compiled   bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		defs:       make(map[string]*Definition),
		instances:  make(map[string]any),
		parameters: make(map[string]any),
	}
}

// Register adds a definition. Re-registering an ID replaces the definition
// but keeps its original position.
func (b *Builder) Register(def Definition) error {
	if b.compiled {
		return ErrCompiled
	}
	if def.ID == "" {
		return fmt.Errorf("di: definition ID is required")
	}
	if def.Factory == nil {
		return fmt.Errorf("di: definition %s has no factory", def.ID)
	}
	if _, exists := b.defs[def.ID]; !exists {
		b.order = append(b.order, def.ID)
	}
	d := def
	b.defs[def.ID] = &d
	return nil
}

// Set registers a pre-built instance under id.
func (b *Builder) Set(id string, instance any) error {
	if b.compiled {
		return ErrCompiled
	}
	b.instances[id] = instance
	return nil
}

// Has reports whether id is defined or set.
func (b *Builder) Has(id string) bool {
	if _, ok := b.instances[id]; ok {
		return true
	}
	_, ok := b.defs[id]
	return ok
}

// Definition returns the definition for id.
func (b *Builder) Definition(id string) (*Definition, bool) {
	d, ok := b.defs[id]
	return d, ok
}

// Remove deletes the definition for id.
func (b *Builder) Remove(id string) {
	if _, ok := b.defs[id]; !ok {
		return
	}
	delete(b.defs, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// IDs returns every definition ID in registration order.
func (b *Builder) IDs() []string {
	return append([]string(nil), b.order...)
}

// FindTagged returns every occurrence of tag across all definitions, in
// registration order. A definition carrying the tag twice appears twice.
func (b *Builder) FindTagged(tag string) []TaggedService {
	var out []TaggedService
	for i, id := range b.order {
		def := b.defs[id]
		for _, t := range def.Tags {
			if t.Name == tag {
				out = append(out, TaggedService{ID: id, Definition: def, Tag: t, Index: i})
			}
		}
	}
	return out
}

// FindTaggedByPriority is FindTagged sorted by the "priority" attribute,
// highest first; equal priorities keep registration order.
func (b *Builder) FindTaggedByPriority(tag string) []TaggedService {
	tagged := b.FindTagged(tag)
	sort.SliceStable(tagged, func(i, j int) bool {
		return tagged[i].Tag.Int("priority", 0) > tagged[j].Tag.Int("priority", 0)
	})
	return tagged
}

// SetParameter stores a build parameter.
func (b *Builder) SetParameter(name string, value any) {
	b.parameters[name] = value
}

// Parameter returns a build parameter.
func (b *Builder) Parameter(name string) (any, bool) {
	v, ok := b.parameters[name]
	return v, ok
}

// Compiled reports whether Compile has run.
func (b *Builder) Compiled() bool {
	return b.compiled
}

// Compile freezes the builder and returns the container. Non-lazy
// definitions are constructed immediately, in registration order.
func (b *Builder) Compile() (*Container, error) {
	if b.compiled {
		return nil, ErrCompiled
	}
	b.compiled = true

	c := newContainer(b)
	for _, id := range b.order {
		if b.defs[id].Lazy {
			continue
		}
		if _, err := c.Resolve(id); err != nil {
			return nil, fmt.Errorf("di: build %s: %w", id, err)
		}
	}
	return c, nil
}
