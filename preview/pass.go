package preview

import (
	"fmt"

	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/logger"
)

// ProviderTag marks toolbar providers.
const ProviderTag = "contao.preview_provider"

// ProviderPass adds every tagged toolbar provider to the manager, highest
// priority first. The manager renders sections in that order.
type ProviderPass struct {
	log *logger.Logger
}

// NewProviderPass creates the pass.
func NewProviderPass() *ProviderPass {
	return &ProviderPass{log: logger.Get("compiler")}
}

// Name identifies the pass in the pipeline.
func (p *ProviderPass) Name() string { return "frontend-preview-provider" }

// Process wires the providers.
func (p *ProviderPass) Process(b *di.Builder) error {
	def, ok := b.Definition(di.Services.PreviewManager)
	if !ok {
		return nil
	}

	tagged := b.FindTaggedByPriority(ProviderTag)
	for _, ts := range tagged {
		id := ts.ID
		def.AddCall(func(r di.Resolver, instance any) error {
			manager, ok := instance.(*Manager)
			if !ok {
				return fmt.Errorf("%s is %T, not *preview.Manager", di.Services.PreviewManager, instance)
			}
			provider, err := di.Resolve[ToolbarProvider](r, id)
			if err != nil {
				return err
			}
			return manager.AddProvider(provider)
		})
	}
	p.log.Info("Preview providers registered", map[string]interface{}{
		logger.FieldPass: p.Name(),
		"count":          len(tagged),
	})
	return nil
}
