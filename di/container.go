package di

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/kbukum/corebundle/logger"
)

// ErrNotFound is returned when resolving an unknown ID.
var ErrNotFound = errors.New("di: service not registered")

// Container is the compiled, read-only service graph.
type Container struct {
	mu         sync.Mutex
	defs       map[string]*Definition
	order      []string
	instances  map[string]any
	parameters map[string]any
	building   map[string]bool
	log        *logger.Logger
}

func newContainer(b *Builder) *Container {
	instances := make(map[string]any, len(b.instances)+len(b.defs))
	for id, inst := range b.instances {
		instances[id] = inst
	}
	return &Container{
		defs:       b.defs,
		order:      append([]string(nil), b.order...),
		instances:  instances,
		parameters: b.parameters,
		building:   make(map[string]bool),
		log:        logger.Get("di"),
	}
}

// Has reports whether id can be resolved.
func (c *Container) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.instances[id]; ok {
		return true
	}
	_, ok := c.defs[id]
	return ok
}

// Resolve returns the instance for id, constructing it on first use.
func (c *Container) Resolve(id string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolveLocked(id)
}

func (c *Container) resolveLocked(id string) (any, error) {
	if inst, ok := c.instances[id]; ok {
		return inst, nil
	}
	def, ok := c.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if c.building[id] {
		return nil, fmt.Errorf("di: circular reference while building %s", id)
	}
	c.building[id] = true
	defer delete(c.building, id)

	r := lockedResolver{c: c}
	inst, err := def.Factory(r)
	if err != nil {
		return nil, fmt.Errorf("di: factory %s: %w", id, err)
	}
	for i, call := range def.calls {
		if err := call(r, inst); err != nil {
			return nil, fmt.Errorf("di: call %d on %s: %w", i, id, err)
		}
	}
	c.instances[id] = inst

	c.log.Debug("Service built", map[string]interface{}{
		"service": id,
		"lazy":    def.Lazy,
	})
	return inst, nil
}

// Parameter returns a build parameter.
func (c *Container) Parameter(name string) (any, bool) {
	v, ok := c.parameters[name]
	return v, ok
}

// IDs returns every definition ID in registration order.
func (c *Container) IDs() []string {
	return append([]string(nil), c.order...)
}

// Close closes every constructed instance that implements io.Closer, in
// reverse registration order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for i := len(c.order) - 1; i >= 0; i-- {
		inst, ok := c.instances[c.order[i]]
		if !ok {
			continue
		}
		if closer, ok := inst.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", c.order[i], err))
			}
		}
	}
	return errors.Join(errs...)
}

// lockedResolver is handed to factories while the container lock is held so
// nested resolves do not deadlock.
type lockedResolver struct {
	c *Container
}

func (r lockedResolver) Resolve(id string) (any, error) {
	return r.c.resolveLocked(id)
}

func (r lockedResolver) Has(id string) bool {
	if _, ok := r.c.instances[id]; ok {
		return true
	}
	_, ok := r.c.defs[id]
	return ok
}
