package element

import (
	"context"
	"net/url"

	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/template"
)

// PreviewLinksController is the backend module listing frontend preview
// entry points.
type PreviewLinksController struct {
	renderer   template.Renderer
	previewURL string
}

// NewPreviewLinksController creates the module. previewURL is the frontend
// preview entry script.
func NewPreviewLinksController(renderer template.Renderer, previewURL string) *PreviewLinksController {
	return &PreviewLinksController{renderer: renderer, previewURL: previewURL}
}

// Render implements fragment.Fragment. The model may carry a "page" alias
// to preview a specific page.
func (c *PreviewLinksController) Render(ctx context.Context, cfg fragment.Config, m fragment.Model) (string, error) {
	target := c.previewURL
	if page := m.String("page"); page != "" {
		target += "/" + url.PathEscape(page)
	}
	links := []map[string]any{
		{"label": "Preview", "url": target},
		{"label": "Preview with unpublished content", "url": target + "?unpublished=show"},
	}
	return c.renderer.Render(ctx, cfg.Template, map[string]any{
		"title": "Preview",
		"links": links,
	})
}
