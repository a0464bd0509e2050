package lifecycle

import (
	"context"
	"time"

	"github.com/gnames/gngeo/pkg/schema"
)

// SyncMode is the kind of update a country needs.
type SyncMode int

const (
	// NeedsFull means the country is re-imported from its full dump.
	NeedsFull SyncMode = iota

	// NeedsDaily means daily diff feeds are enough.
	NeedsDaily
)

// String implements fmt.Stringer.
func (m SyncMode) String() string {
	if m == NeedsDaily {
		return "NEEDS_DAILY"
	}
	return "NEEDS_FULL"
}

// SyncReport describes the outcome of a synchronization.
type SyncReport struct {
	// Full lists countries imported from full dumps.
	Full []string

	// Daily lists countries updated by daily feeds.
	Daily []string

	// Failed keeps errors by country code. Daily feed failures are
	// recorded for every daily country.
	Failed map[string]error
}

// Scheduler keeps enabled countries fresh.
type Scheduler interface {
	// Plan classifies countries by their last import date.
	Plan(countries []schema.Country, now time.Time) map[string]SyncMode

	// Run synchronizes every enabled country once.
	Run(ctx context.Context) (SyncReport, error)

	// RunEvery runs a synchronization every day at the given hour until
	// the context is cancelled.
	RunEvery(ctx context.Context, hour int) error
}
