package crawl

import (
	"fmt"

	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/search"
)

// Pass registers every tagged subscriber with the crawler. The search index
// subscriber is only defined when the search indexer exists, so the
// search-indexer pass must run first.
type Pass struct {
	log *logger.Logger
}

// NewPass creates the pass.
func NewPass() *Pass {
	return &Pass{log: logger.Get("compiler")}
}

// Name identifies the pass in the pipeline.
func (p *Pass) Name() string { return "crawler" }

// Process wires the subscribers.
func (p *Pass) Process(b *di.Builder) error {
	def, ok := b.Definition(di.Services.Crawler)
	if !ok {
		return nil
	}

	if b.Has(di.Services.SearchIndexer) {
		err := b.Register(di.Definition{
			ID:   di.Services.SearchIndexSubscriber,
			Type: "SearchIndexSubscriber",
			Tags: []di.Tag{di.NewTag(SubscriberTag)},
			Factory: func(r di.Resolver) (any, error) {
				indexer, err := di.Resolve[search.Indexer](r, di.Services.SearchIndexer)
				if err != nil {
					return nil, err
				}
				return NewSearchIndexSubscriber(indexer), nil
			},
		})
		if err != nil {
			return err
		}
	}

	tagged := b.FindTaggedByPriority(SubscriberTag)
	for _, ts := range tagged {
		id := ts.ID
		def.AddCall(func(r di.Resolver, instance any) error {
			crawler, ok := instance.(*Crawler)
			if !ok {
				return fmt.Errorf("%s is %T, not *crawl.Crawler", di.Services.Crawler, instance)
			}
			s, err := di.Resolve[Subscriber](r, id)
			if err != nil {
				return err
			}
			crawler.AddSubscriber(s)
			return nil
		})
	}
	p.log.Info("Crawl subscribers registered", map[string]interface{}{
		logger.FieldPass: p.Name(),
		"count":          len(tagged),
	})
	return nil
}
