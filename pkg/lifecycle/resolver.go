package lifecycle

import (
	"context"

	"github.com/gnames/gngeo/pkg/search"
)

// Resolver finds administrative ancestors and descendants of places.
type Resolver interface {
	// Ancestors returns ancestors ordered from the country down.
	// With includeSelf the place itself closes the list.
	Ancestors(
		ctx context.Context,
		placeID int64,
		includeSelf bool,
	) ([]search.Place, error)

	// Children returns places of featureClass that share admin codes of
	// the place. Empty featureClass means populated places ("P").
	Children(
		ctx context.Context,
		placeID int64,
		featureClass string,
		limit int,
	) ([]search.Place, error)
}
