package lifecycle

import (
	"context"
	"time"

	"github.com/gnames/gngeo/pkg/schema"
)

// CountryRegistry manages which countries are synchronized.
type CountryRegistry interface {
	// Enable adds countries to synchronization. Returns enabled codes.
	Enable(ctx context.Context, codes []string) ([]string, error)

	// EnableContinent enables all countries of a continent.
	EnableContinent(ctx context.Context, continent string) ([]string, error)

	// Disable stops synchronization of countries. Data stays.
	Disable(ctx context.Context, codes []string) (int, error)

	// List returns known countries ordered by code.
	List(ctx context.Context, enabledOnly bool) ([]schema.Country, error)

	// Stamp records a successful import of countries at the given time.
	Stamp(ctx context.Context, codes []string, at time.Time) error

	// Remove disables a country and soft- or hard-deletes its data.
	// Returns the number of affected places.
	Remove(ctx context.Context, code string, hard bool) (int, error)
}
