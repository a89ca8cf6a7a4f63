package compiler

import (
	"github.com/kbukum/corebundle/crawl"
	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/picker"
	"github.com/kbukum/corebundle/preview"
	"github.com/kbukum/corebundle/search"
)

// DefaultPasses returns the bundle's passes in run order. Fragment passes
// write into fragments.
func DefaultPasses(fragments *fragment.Registry) []Pass {
	passes := []Pass{
		picker.NewProviderPass(),
		preview.NewProviderPass(),
	}
	for _, ref := range fragment.References() {
		passes = append(passes, fragment.NewRegisterPass(ref, fragments))
	}
	return append(passes,
		search.NewIndexerPass(),
		crawl.NewPass(),
	)
}

// NewDefaultPipeline returns the bundle pipeline. The fragment registry is
// frozen once the pipeline finished.
func NewDefaultPipeline(fragments *fragment.Registry) *Pipeline {
	return NewPipeline(DefaultPasses(fragments)...).
		MustPrecede("search-indexer", "crawler").
		OnFinish(fragments.Freeze)
}
