// Package di holds the service definition graph the application is built
// from.
//
// A Builder collects Definitions, each with an explicit Factory and optional
// tags. Compiler passes inspect the builder (FindTagged), edit definitions
// (AddCall, Remove) and finally Compile freezes it into a Container that
// constructs services on first resolve.
//
// # Registration
//
//	b := di.NewBuilder()
//	_ = b.Register(di.Definition{
//	    ID:      "contao.picker.page_provider",
//	    Factory: func(r di.Resolver) (any, error) { return picker.NewPageProvider(), nil },
//	    Tags:    []di.Tag{di.NewTag("contao.picker_provider", "priority", 192)},
//	})
//
// # Resolution
//
//	builder, err := di.Resolve[*picker.ProviderBuilder](container, "contao.picker.builder")
//
// Factories are plain functions; nothing is discovered by reflection.
package di
