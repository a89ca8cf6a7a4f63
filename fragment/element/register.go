package element

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/template"
)

// Options configures the built-in fragments.
type Options struct {
	// PreviewURL is the frontend preview entry point.
	PreviewURL string
	// VersionsLimit bounds the dashboard version list.
	VersionsLimit int
}

// Register declares the built-in fragments as tagged definitions. The
// renderer, sanitizer and version repository must be registered under the
// names in di.Services.
func Register(b *di.Builder, opts Options) error {
	defs := []di.Definition{
		{
			ID:   "contao.content_element.accordion",
			Type: "AccordionController",
			Tags: []di.Tag{di.NewTag(fragment.TagContentElement, "category", "texts")},
			Factory: func(r di.Resolver) (any, error) {
				renderer, sanitizer, err := rendererAndSanitizer(r)
				if err != nil {
					return nil, err
				}
				return fragment.Fragment(NewAccordionController(renderer, sanitizer)), nil
			},
		},
		{
			ID:   "contao.content_element.text",
			Type: "TextController",
			Tags: []di.Tag{di.NewTag(fragment.TagContentElement, "category", "texts", "priority", 10)},
			Factory: func(r di.Resolver) (any, error) {
				renderer, sanitizer, err := rendererAndSanitizer(r)
				if err != nil {
					return nil, err
				}
				return fragment.Fragment(NewTextController(renderer, sanitizer)), nil
			},
		},
		{
			ID:   "contao.content_element.headline",
			Type: "HeadlineController",
			Tags: []di.Tag{di.NewTag(fragment.TagContentElement, "category", "texts", "priority", 20)},
			Factory: func(r di.Resolver) (any, error) {
				renderer, err := di.Resolve[template.Renderer](r, di.Services.Renderer)
				if err != nil {
					return nil, err
				}
				return fragment.Fragment(NewHeadlineController(renderer)), nil
			},
		},
		{
			ID:   "contao.frontend_module.html",
			Type: "HTMLController",
			Tags: []di.Tag{di.NewTag(fragment.TagFrontendModule, "category", "miscellaneous")},
			Factory: func(r di.Resolver) (any, error) {
				renderer, err := di.Resolve[template.Renderer](r, di.Services.Renderer)
				if err != nil {
					return nil, err
				}
				return fragment.Fragment(NewHTMLController(renderer)), nil
			},
		},
		{
			ID:   "contao.backend_module.preview_links",
			Type: "PreviewLinksController",
			Tags: []di.Tag{di.NewTag(fragment.TagBackendModule, "category", "system")},
			Factory: func(r di.Resolver) (any, error) {
				renderer, err := di.Resolve[template.Renderer](r, di.Services.Renderer)
				if err != nil {
					return nil, err
				}
				return fragment.Fragment(NewPreviewLinksController(renderer, opts.PreviewURL)), nil
			},
		},
		{
			ID:   "contao.dashboard_widget.versions",
			Type: "VersionsController",
			Tags: []di.Tag{di.NewTag(fragment.TagDashboardWidget)},
			Factory: func(r di.Resolver) (any, error) {
				renderer, err := di.Resolve[template.Renderer](r, di.Services.Renderer)
				if err != nil {
					return nil, err
				}
				versions, err := di.Resolve[VersionLister](r, di.Services.Versions)
				if err != nil {
					return nil, err
				}
				return fragment.Fragment(NewVersionsController(renderer, versions, opts.VersionsLimit)), nil
			},
		},
	}
	for _, def := range defs {
		if err := b.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func rendererAndSanitizer(r di.Resolver) (template.Renderer, *bluemonday.Policy, error) {
	renderer, err := di.Resolve[template.Renderer](r, di.Services.Renderer)
	if err != nil {
		return nil, nil, err
	}
	sanitizer, err := di.Resolve[*bluemonday.Policy](r, di.Services.Sanitizer)
	if err != nil {
		return nil, nil, err
	}
	return renderer, sanitizer, nil
}
