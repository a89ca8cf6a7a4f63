package search

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotIndexable is returned for documents an indexer skips on purpose.
var ErrNotIndexable = errors.New("search: document is not indexable")

// Indexer stores and removes documents.
type Indexer interface {
	Index(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, doc *Document) error
	Clear(ctx context.Context) error
}

// DelegatingIndexer forwards every call to the registered indexers in order.
type DelegatingIndexer struct {
	indexers []Indexer
}

var _ Indexer = (*DelegatingIndexer)(nil)

// NewDelegatingIndexer creates an empty delegating indexer.
func NewDelegatingIndexer() *DelegatingIndexer {
	return &DelegatingIndexer{}
}

// AddIndexer appends an indexer.
func (d *DelegatingIndexer) AddIndexer(i Indexer) {
	d.indexers = append(d.indexers, i)
}

// Len returns the number of indexers.
func (d *DelegatingIndexer) Len() int {
	return len(d.indexers)
}

// Index hands doc to every indexer. Indexers skipping the document with
// ErrNotIndexable do not fail the call.
func (d *DelegatingIndexer) Index(ctx context.Context, doc *Document) error {
	var errs []error
	for _, i := range d.indexers {
		if err := i.Index(ctx, doc); err != nil && !errors.Is(err, ErrNotIndexable) {
			errs = append(errs, fmt.Errorf("%T: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Delete removes doc from every indexer.
func (d *DelegatingIndexer) Delete(ctx context.Context, doc *Document) error {
	var errs []error
	for _, i := range d.indexers {
		if err := i.Delete(ctx, doc); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Clear empties every indexer.
func (d *DelegatingIndexer) Clear(ctx context.Context) error {
	var errs []error
	for _, i := range d.indexers {
		if err := i.Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
