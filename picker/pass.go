package picker

import (
	"fmt"

	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/logger"
)

// Tags read by ProviderPass.
const (
	ProviderTag = "contao.picker_provider"
	BuilderTag  = "contao.picker_builder"
)

// ProviderPass adds tagged providers to the picker builder, highest
// priority first, and tagged builders to the resolver under their "name"
// attribute.
type ProviderPass struct {
	log *logger.Logger
}

// NewProviderPass creates the pass.
func NewProviderPass() *ProviderPass {
	return &ProviderPass{log: logger.Get("compiler")}
}

// Name identifies the pass in the pipeline.
func (p *ProviderPass) Name() string { return "picker-provider" }

// Process wires providers and builders.
func (p *ProviderPass) Process(b *di.Builder) error {
	providers := 0
	if def, ok := b.Definition(di.Services.PickerBuilder); ok {
		tagged := b.FindTaggedByPriority(ProviderTag)
		for _, ts := range tagged {
			id := ts.ID
			def.AddCall(func(r di.Resolver, instance any) error {
				builder, ok := instance.(*ProviderBuilder)
				if !ok {
					return fmt.Errorf("%s is %T, not *picker.ProviderBuilder", di.Services.PickerBuilder, instance)
				}
				provider, err := di.Resolve[Provider](r, id)
				if err != nil {
					return err
				}
				return builder.AddProvider(provider)
			})
		}
		providers = len(tagged)
	}

	builders := 0
	if def, ok := b.Definition(di.Services.PickerResolver); ok {
		tagged := b.FindTaggedByPriority(BuilderTag)
		for _, ts := range tagged {
			id, name := ts.ID, ts.Tag.String("name", ts.ID)
			def.AddCall(func(r di.Resolver, instance any) error {
				resolver, ok := instance.(*Resolver)
				if !ok {
					return fmt.Errorf("%s is %T, not *picker.Resolver", di.Services.PickerResolver, instance)
				}
				builder, err := di.Resolve[Builder](r, id)
				if err != nil {
					return err
				}
				return resolver.Add(name, builder)
			})
		}
		builders = len(tagged)
	}

	p.log.Info("Picker providers registered", map[string]interface{}{
		logger.FieldPass: p.Name(),
		"providers":      providers,
		"builders":       builders,
	})
	return nil
}
