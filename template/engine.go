package template

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kbukum/corebundle/logger"
)

//go:embed templates
var embedded embed.FS

// ErrTemplate wraps every load or execution failure.
var ErrTemplate = errors.New("template: render failed")

// Renderer renders a named template with data.
type Renderer interface {
	Render(ctx context.Context, name string, data map[string]any) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, name string, data map[string]any) (string, error)

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, name string, data map[string]any) (string, error) {
	return f(ctx, name, data)
}

// Engine is the pongo2-backed Renderer.
type Engine struct {
	set   *pongo2.TemplateSet
	cache *lru.Cache[string, *pongo2.Template]
	cfg   Config
	log   *logger.Logger
}

var _ Renderer = (*Engine)(nil)

// New creates an engine from cfg.
func New(cfg Config) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var loaders []pongo2.TemplateLoader
	if cfg.Dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("template: open %s: %w", cfg.Dir, err)
		}
		loaders = append(loaders, local)
	}
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("template: embedded templates: %w", err)
	}
	loaders = append(loaders, pongo2.NewFSLoader(sub))

	cache, err := lru.New[string, *pongo2.Template](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("template: cache: %w", err)
	}

	set := pongo2.NewSet("corebundle", loaders...)
	set.Debug = cfg.Debug

	return &Engine{set: set, cache: cache, cfg: cfg, log: logger.Get("template")}, nil
}

// Render loads and executes the named template.
func (e *Engine) Render(_ context.Context, name string, data map[string]any) (string, error) {
	tpl, err := e.load(name)
	if err != nil {
		return "", err
	}
	out, err := tpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("%w: execute %s: %v", ErrTemplate, name, err)
	}
	return out, nil
}

// RenderString compiles and executes an inline template. Inline templates are
// not cached.
func (e *Engine) RenderString(source string, data map[string]any) (string, error) {
	tpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("%w: parse inline: %v", ErrTemplate, err)
	}
	out, err := tpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("%w: execute inline: %v", ErrTemplate, err)
	}
	return out, nil
}

// Exists reports whether a template can be loaded.
func (e *Engine) Exists(name string) bool {
	_, err := e.load(name)
	return err == nil
}

// Purge drops every cached template.
func (e *Engine) Purge() {
	e.cache.Purge()
}

func (e *Engine) load(name string) (*pongo2.Template, error) {
	path := e.path(name)
	if !e.cfg.Debug {
		if tpl, ok := e.cache.Get(path); ok {
			return tpl, nil
		}
	}
	tpl, err := e.set.FromFile(path)
	if err != nil {
		e.log.Warn("Template load failed", map[string]interface{}{
			"template": path,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: load %s: %v", ErrTemplate, path, err)
	}
	if !e.cfg.Debug {
		e.cache.Add(path, tpl)
	}
	return tpl, nil
}

func (e *Engine) path(name string) string {
	name = strings.TrimPrefix(name, "/")
	if strings.HasSuffix(name, e.cfg.Extension) {
		return name
	}
	return name + e.cfg.Extension
}
