package gig

import (
	"context"
	"errors"
)

// ErrSearchUnavailable means no search index is configured; callers fall back to the store.
var ErrSearchUnavailable = errors.New("gig search index unavailable")

// Indexer keeps a full-text search index of gigs.
type Indexer interface {
	Index(ctx context.Context, g *Gig) error
	BulkIndex(ctx context.Context, gigs []Gig) error
	Search(ctx context.Context, query string, limit int) ([]Gig, error)
}

type noopIndexer struct{}

func NewNoopIndexer() Indexer { return noopIndexer{} }

func (noopIndexer) Index(context.Context, *Gig) error { return nil }

func (noopIndexer) BulkIndex(context.Context, []Gig) error { return nil }

func (noopIndexer) Search(context.Context, string, int) ([]Gig, error) {
	return nil, ErrSearchUnavailable
}
