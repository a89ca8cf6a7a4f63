package di

import (
	"fmt"
	"strconv"
)

// Resolver looks services up by ID.
type Resolver interface {
	Resolve(id string) (any, error)
	Has(id string) bool
}

// Factory constructs a service. It receives the resolver so it can pull its
// own collaborators.
type Factory func(r Resolver) (any, error)

// Call configures a freshly constructed service, the way a method call on a
// definition does.
type Call func(r Resolver, instance any) error

// Tag marks a definition for a compiler pass.
type Tag struct {
	Name       string
	Attributes map[string]any
}

// NewTag builds a tag from alternating attribute key-value pairs.
func NewTag(name string, kvs ...any) Tag {
	attrs := make(map[string]any, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			attrs[key] = kvs[i+1]
		}
	}
	return Tag{Name: name, Attributes: attrs}
}

// String returns a string attribute or def when missing.
func (t Tag) String(key, def string) string {
	v, ok := t.Attributes[key]
	if !ok || v == nil {
		return def
	}
	s := fmt.Sprintf("%v", v)
	if s == "" {
		return def
	}
	return s
}

// Int returns an integer attribute or def when missing or unparsable.
func (t Tag) Int(key string, def int) int {
	switch v := t.Attributes[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Definition describes how to build one service.
type Definition struct {
	// ID is the unique service identifier.
	ID string
	// Type is the service's type name, used where a default name is derived
	// from it (e.g. fragment types).
	Type string
	// Factory builds the instance.
	Factory Factory
	// Tags mark the definition for compiler passes.
	Tags []Tag
	// Lazy definitions are built on first resolve; others are built when the
	// container is compiled.
	Lazy bool

	calls []Call
}

// AddCall appends a configurator that runs after the factory.
func (d *Definition) AddCall(c Call) {
	d.calls = append(d.calls, c)
}

// CallCount returns how many configurators are attached.
func (d *Definition) CallCount() int {
	return len(d.calls)
}

// HasTag reports whether the definition carries the tag.
func (d *Definition) HasTag(name string) bool {
	for _, t := range d.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
