package lifecycle

import (
	"context"
	"time"

	"github.com/gnames/gngeo/pkg/search"
)

// Searcher answers read queries over places.
type Searcher interface {
	// Search matches a term against names and alternate names.
	Search(
		ctx context.Context,
		term string,
		opts search.Options,
	) ([]search.Place, error)

	// GetByID returns one place, or nil when it is missing or deleted.
	GetByID(
		ctx context.Context,
		id int64,
		opts search.Options,
	) (*search.Place, error)

	// FindNearest returns places closest to the point.
	FindNearest(
		ctx context.Context,
		pt search.Point,
		opts search.Options,
	) ([]search.Place, error)

	// FindInBoundingBox returns places inside the box.
	FindInBoundingBox(
		ctx context.Context,
		box search.BBox,
		opts search.Options,
	) ([]search.Place, error)

	// GetChildren returns places under an administrative code path.
	GetChildren(
		ctx context.Context,
		countryCode string,
		parentCodes []string,
		opts search.Options,
	) ([]search.Place, error)
}

// SearchCache keeps serialized query results.
type SearchCache interface {
	// Get decodes a cached value into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores a value for ttl.
	Set(ctx context.Context, key string, val any, ttl time.Duration) error

	// Invalidate drops every cached result.
	Invalidate(ctx context.Context) error
}
