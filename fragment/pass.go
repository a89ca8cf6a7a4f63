package fragment

import (
	"fmt"

	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/logger"
)

// RegisterPass registers every definition tagged with the reference's tag.
type RegisterPass struct {
	ref      Reference
	registry *Registry
	log      *logger.Logger
}

// NewRegisterPass creates the pass for ref, writing into registry.
func NewRegisterPass(ref Reference, registry *Registry) *RegisterPass {
	return &RegisterPass{ref: ref, registry: registry, log: logger.Get("compiler")}
}

// Name identifies the pass in the pipeline.
func (p *RegisterPass) Name() string {
	return "register-fragments:" + p.ref.Tag
}

// Reference returns the fragment kind the pass handles.
func (p *RegisterPass) Reference() Reference {
	return p.ref
}

// Process collects the tagged definitions into the registry.
func (p *RegisterPass) Process(b *di.Builder) error {
	tagged := b.FindTagged(p.ref.Tag)
	for _, ts := range tagged {
		cfg := p.configFor(ts)
		if err := validRenderer(cfg.Renderer); err != nil {
			return fmt.Errorf("%s on %s: %w", p.ref.Tag, ts.ID, err)
		}
		if p.ref.Proxy != nil {
			ts.Definition.Lazy = true
			cfg.Lazy = true
		}
		if err := p.registry.Add(cfg, p.ref.GlobalsKey, p.ref.Proxy); err != nil {
			return err
		}
		p.log.Debug("Fragment registered", map[string]interface{}{
			logger.FieldFragment: cfg.Key,
			"category":           cfg.Category,
			"priority":           cfg.Priority,
		})
	}
	p.log.Info("Fragments registered", map[string]interface{}{
		logger.FieldPass: p.Name(),
		"count":          len(tagged),
	})
	return nil
}

func (p *RegisterPass) configFor(ts di.TaggedService) Config {
	fragmentType := ts.Tag.String("type", "")
	if fragmentType == "" {
		name := ts.Definition.Type
		if name == "" {
			name = ts.ID
		}
		fragmentType = TypeFromName(name)
	}
	return Config{
		Key:       p.ref.Tag + "." + fragmentType,
		ServiceID: ts.ID,
		Tag:       p.ref.Tag,
		Type:      fragmentType,
		Category:  ts.Tag.String("category", DefaultCategory),
		Template:  ts.Tag.String("template", p.ref.TemplatePrefix+fragmentType),
		Renderer:  ts.Tag.String("renderer", RendererForward),
		Method:    ts.Tag.String("method", ""),
		Priority:  ts.Tag.Int("priority", 0),
	}
}

func validRenderer(name string) error {
	switch name {
	case RendererForward, RendererInline, RendererESI:
		return nil
	}
	return fmt.Errorf("unknown fragment renderer %q", name)
}
