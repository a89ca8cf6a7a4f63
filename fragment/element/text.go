package element

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/template"
)

// TextController renders a rich-text element with an optional headline.
type TextController struct {
	renderer  template.Renderer
	sanitizer *bluemonday.Policy
}

// NewTextController creates the text element.
func NewTextController(renderer template.Renderer, sanitizer *bluemonday.Policy) *TextController {
	return &TextController{renderer: renderer, sanitizer: sanitizer}
}

// Render implements fragment.Fragment.
func (c *TextController) Render(ctx context.Context, cfg fragment.Config, m fragment.Model) (string, error) {
	data := baseData(cfg, m)
	data["text"] = EncodeEmail(c.sanitizer.Sanitize(m.String("text")))
	return c.renderer.Render(ctx, cfg.Template, data)
}

// HeadlineController renders a headline element.
type HeadlineController struct {
	renderer template.Renderer
}

// NewHeadlineController creates the headline element.
func NewHeadlineController(renderer template.Renderer) *HeadlineController {
	return &HeadlineController{renderer: renderer}
}

// Render implements fragment.Fragment.
func (c *HeadlineController) Render(ctx context.Context, cfg fragment.Config, m fragment.Model) (string, error) {
	return c.renderer.Render(ctx, cfg.Template, baseData(cfg, m))
}

// baseData holds the fields every element template reads.
func baseData(cfg fragment.Config, m fragment.Model) map[string]any {
	hl := m.String("hl")
	switch hl {
	case "h1", "h2", "h3", "h4", "h5", "h6":
	default:
		hl = "h1"
	}
	return map[string]any{
		"type":     cfg.Type,
		"class":    "ce_" + cfg.Type,
		"css_id":   m.String("cssID"),
		"hl":       hl,
		"headline": m.String("headline"),
	}
}
