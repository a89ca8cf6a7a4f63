package fragment

import (
	"context"
	"fmt"
	"sync"
)

// Lazy defers building a fragment until it is first rendered. A failed
// build is remembered and returned on every later render.
type Lazy struct {
	key   string
	build func() (Fragment, error)

	mu       sync.Mutex
	built    bool
	fragment Fragment
	err      error
}

var _ Fragment = (*Lazy)(nil)

// NewLazy wraps build. It satisfies ProxyFactory.
func NewLazy(key string, build func() (Fragment, error)) Fragment {
	return &Lazy{key: key, build: build}
}

// Built reports whether construction has been attempted.
func (l *Lazy) Built() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.built
}

func (l *Lazy) get() (Fragment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.built {
		l.built = true
		l.fragment, l.err = l.build()
		if l.err == nil && l.fragment == nil {
			l.err = fmt.Errorf("fragment %s: constructor returned nil", l.key)
		}
	}
	return l.fragment, l.err
}

// Render builds the fragment on first use and delegates to it.
func (l *Lazy) Render(ctx context.Context, cfg Config, m Model) (string, error) {
	f, err := l.get()
	if err != nil {
		return "", err
	}
	return f.Render(ctx, cfg, m)
}
