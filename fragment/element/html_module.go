package element

import (
	"context"

	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/template"
)

// HTMLController is the custom HTML frontend module. Its content is
// authored by administrators and rendered unfiltered.
type HTMLController struct {
	renderer template.Renderer
}

// NewHTMLController creates the html module.
func NewHTMLController(renderer template.Renderer) *HTMLController {
	return &HTMLController{renderer: renderer}
}

// Render implements fragment.Fragment.
func (c *HTMLController) Render(ctx context.Context, cfg fragment.Config, m fragment.Model) (string, error) {
	return c.renderer.Render(ctx, cfg.Template, map[string]any{"html": m.String("html")})
}
