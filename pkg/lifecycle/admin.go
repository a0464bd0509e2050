package lifecycle

import (
	"context"

	"github.com/gnames/gngeo/pkg/schema"
)

// AdminSynthesizer derives administrative units from ADM1-ADM5 places.
type AdminSynthesizer interface {
	// SyncFromBatch upserts units built from places that were just
	// reconciled. Returns the number of upserted units.
	SyncFromBatch(ctx context.Context, places []schema.Place) (int, error)

	// SyncFromStore rebuilds units from stored places. An empty
	// countries slice means all countries.
	SyncFromStore(ctx context.Context, countries []string) (int, error)

	// ImportAdminCodes upserts units read from admin code files.
	ImportAdminCodes(ctx context.Context, units []schema.AdminUnit) (int, error)
}
