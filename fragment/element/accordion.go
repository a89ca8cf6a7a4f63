package element

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/template"
)

// AccordionController renders a single accordion pane.
type AccordionController struct {
	renderer  template.Renderer
	sanitizer *bluemonday.Policy
}

// NewAccordionController creates the accordion element.
func NewAccordionController(renderer template.Renderer, sanitizer *bluemonday.Policy) *AccordionController {
	return &AccordionController{renderer: renderer, sanitizer: sanitizer}
}

// Render implements fragment.Fragment.
func (c *AccordionController) Render(ctx context.Context, cfg fragment.Config, m fragment.Model) (string, error) {
	data := baseData(cfg, m)
	data["text"] = EncodeEmail(c.sanitizer.Sanitize(m.String("text")))

	classes := m.Strings("mooClasses")
	data["toggler"] = classAt(classes, 0, "toggler")
	data["accordion"] = classAt(classes, 1, "accordion")
	data["headline_style"] = m.String("mooStyle")
	data["headline"] = c.sanitizer.Sanitize(m.String("mooHeadline"))

	if m.Bool("addImage") && m.String("singleSRC") != "" {
		data["image"] = m.String("singleSRC")
		data["image_alt"] = m.String("alt")
	}
	return c.renderer.Render(ctx, cfg.Template, data)
}

func classAt(classes []string, i int, def string) string {
	if i < len(classes) && classes[i] != "" {
		return classes[i]
	}
	return def
}
