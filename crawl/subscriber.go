package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/corebundle/search"
)

// SubscriberTag marks crawl subscribers.
const SubscriberTag = "contao.crawl_subscriber"

// Result is a subscriber's summary of a finished crawl.
type Result struct {
	Subscriber string `json:"subscriber" yaml:"subscriber"`
	Summary    string `json:"summary" yaml:"summary"`
	Warnings   int    `json:"warnings" yaml:"warnings"`
}

// Subscriber receives every crawled response.
type Subscriber interface {
	Name() string
	OnResponse(ctx context.Context, doc *search.Document) error
	Result() Result
}

// SearchIndexSubscriber feeds crawled pages into a search indexer.
type SearchIndexSubscriber struct {
	indexer search.Indexer

	mu      sync.Mutex
	indexed int
	skipped int
	failed  int
}

var _ Subscriber = (*SearchIndexSubscriber)(nil)

// NewSearchIndexSubscriber creates the subscriber.
func NewSearchIndexSubscriber(indexer search.Indexer) *SearchIndexSubscriber {
	return &SearchIndexSubscriber{indexer: indexer}
}

// Name implements Subscriber.
func (s *SearchIndexSubscriber) Name() string { return "search-index" }

// OnResponse indexes doc. Skipped documents are counted, not reported.
func (s *SearchIndexSubscriber) OnResponse(ctx context.Context, doc *search.Document) error {
	err := s.indexer.Index(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.indexed++
	case errors.Is(err, search.ErrNotIndexable):
		s.skipped++
		return nil
	default:
		s.failed++
	}
	return err
}

// Result implements Subscriber.
func (s *SearchIndexSubscriber) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{
		Subscriber: s.Name(),
		Summary:    fmt.Sprintf("%d indexed, %d skipped, %d failed", s.indexed, s.skipped, s.failed),
		Warnings:   s.failed,
	}
}
