package lifecycle

import (
	"context"
	"time"
)

// Source is one downloadable or local input of an import.
type Source struct {
	// Type is recorded in the import run.
	Type ImportType

	// Location is a URL or a path to a local file.
	Location string
}

// ImportStats summarizes one import.
type ImportStats struct {
	// Processed is the number of rows read from the source.
	Processed int64

	// Skipped counts malformed and filtered rows.
	Skipped int64

	Inserted int64
	Updated  int64

	// Deleted counts soft or hard deleted records.
	Deleted int64

	Elapsed time.Duration
}

// Importer runs one source through fetch, parse, reconcile, synthesis and
// tracking.
type Importer interface {
	// ImportPlaces reconciles places. A non-empty countries slice filters
	// rows by country code.
	ImportPlaces(
		ctx context.Context,
		src Source,
		countries []string,
	) (ImportStats, error)

	// ImportDeletes soft-deletes places listed in a deletes feed.
	ImportDeletes(ctx context.Context, src Source) (ImportStats, error)

	// ImportAlternateNames reconciles alternate names. A non-empty
	// languages slice filters rows by ISO language.
	ImportAlternateNames(
		ctx context.Context,
		src Source,
		languages []string,
	) (ImportStats, error)

	// ImportAlternateDeletes removes alternate names of a deletes feed.
	ImportAlternateDeletes(ctx context.Context, src Source) (ImportStats, error)

	// ImportHierarchy inserts parent-child edges.
	ImportHierarchy(ctx context.Context, src Source) (ImportStats, error)

	// ImportAdminCodes loads admin1 and admin2 code files.
	ImportAdminCodes(ctx context.Context, src Source) (ImportStats, error)
}
