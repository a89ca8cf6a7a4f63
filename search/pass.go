package search

import (
	"fmt"

	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/logger"
)

// IndexerTag marks indexers for the delegating indexer.
const IndexerTag = "contao.search_indexer"

// IndexerPass adds every tagged indexer to the delegating indexer, highest
// priority first, and removes the delegating indexer when nothing is tagged.
type IndexerPass struct {
	log *logger.Logger
}

// NewIndexerPass creates the pass.
func NewIndexerPass() *IndexerPass {
	return &IndexerPass{log: logger.Get("compiler")}
}

// Name identifies the pass in the pipeline.
func (p *IndexerPass) Name() string { return "search-indexer" }

// Process wires the tagged indexers.
func (p *IndexerPass) Process(b *di.Builder) error {
	def, ok := b.Definition(di.Services.SearchIndexer)
	if !ok {
		return nil
	}

	tagged := b.FindTaggedByPriority(IndexerTag)
	if len(tagged) == 0 {
		b.Remove(di.Services.SearchIndexer)
		p.log.Info("No search indexers tagged, indexer removed", map[string]interface{}{
			logger.FieldPass: p.Name(),
		})
		return nil
	}

	for _, ts := range tagged {
		id := ts.ID
		def.AddCall(func(r di.Resolver, instance any) error {
			delegating, ok := instance.(*DelegatingIndexer)
			if !ok {
				return fmt.Errorf("%s is %T, not *search.DelegatingIndexer", di.Services.SearchIndexer, instance)
			}
			indexer, err := di.Resolve[Indexer](r, id)
			if err != nil {
				return err
			}
			delegating.AddIndexer(indexer)
			return nil
		})
	}
	p.log.Info("Search indexers registered", map[string]interface{}{
		logger.FieldPass: p.Name(),
		"count":          len(tagged),
	})
	return nil
}
