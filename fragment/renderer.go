package fragment

import (
	"context"
	"fmt"
	"html"
	"net/url"

	"github.com/kbukum/corebundle/logger"
)

// Renderer renders fragments looked up by globals key and type.
type Renderer struct {
	registry    *Registry
	fragmentURL string
	log         *logger.Logger
}

// NewRenderer creates a renderer. fragmentURL is the sub-request path used
// by the esi strategy.
func NewRenderer(registry *Registry, fragmentURL string) *Renderer {
	return &Renderer{registry: registry, fragmentURL: fragmentURL, log: logger.Get("fragment")}
}

// Render renders m through the fragment registered for m.Type under
// globalsKey. ok is false when no such fragment exists.
func (r *Renderer) Render(ctx context.Context, globalsKey string, m Model) (out string, ok bool, err error) {
	cfg, found := r.registry.Lookup(globalsKey, m.Type)
	if !found {
		return "", false, nil
	}
	out, err = r.RenderKey(ctx, cfg.Key, m)
	return out, true, err
}

// RenderKey renders m through the fragment registered under key. Fragments
// with the esi strategy render as an include tag.
func (r *Renderer) RenderKey(ctx context.Context, key string, m Model) (string, error) {
	cfg, found := r.registry.Get(key)
	if !found {
		return "", fmt.Errorf("fragment %s: not registered", key)
	}
	if cfg.Renderer == RendererESI {
		return r.esiInclude(cfg, m), nil
	}
	return r.render(ctx, cfg, m)
}

// Inline renders the fragment under key in place, whatever its strategy.
// The fragment endpoint uses it to answer esi sub-requests.
func (r *Renderer) Inline(ctx context.Context, key string, m Model) (string, error) {
	cfg, found := r.registry.Get(key)
	if !found {
		return "", fmt.Errorf("fragment %s: not registered", key)
	}
	return r.render(ctx, cfg, m)
}

func (r *Renderer) render(ctx context.Context, cfg Config, m Model) (string, error) {
	f, err := r.registry.Fragment(cfg.Key)
	if err != nil {
		return "", err
	}
	out, err := f.Render(ctx, cfg, m)
	if err != nil {
		r.log.WithContext(ctx).Error("Fragment render failed", map[string]interface{}{
			logger.FieldFragment: cfg.Key,
			logger.FieldError:    err.Error(),
		})
		return "", fmt.Errorf("fragment %s: %w", cfg.Key, err)
	}
	return out, nil
}

func (r *Renderer) esiInclude(cfg Config, m Model) string {
	q := url.Values{}
	q.Set("key", cfg.Key)
	q.Set("id", fmt.Sprintf("%d", m.ID))
	return fmt.Sprintf(`<esi:include src="%s" />`, html.EscapeString(r.fragmentURL+"?"+q.Encode()))
}
