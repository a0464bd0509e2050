package lifecycle

import (
	"context"

	"github.com/gnames/gngeo/pkg/schema"
)

// ImportType names a kind of import run.
type ImportType string

const (
	ImportFull                       ImportType = "full"
	ImportDailyDelete                ImportType = "daily_delete"
	ImportDailyModification          ImportType = "daily_modification"
	ImportDailyAlternateModification ImportType = "daily_alternate_modification"
	ImportDailyAlternateDelete       ImportType = "daily_alternate_delete"
	ImportAlternateNames             ImportType = "alternate_names"
	ImportHierarchy                  ImportType = "hierarchy"
	ImportAdminCodes                 ImportType = "admin_codes"
)

// Status values of an import run.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Tracker records import runs. A run leaves the running state exactly
// once.
type Tracker interface {
	// Start creates a running import run.
	Start(
		ctx context.Context,
		typ ImportType,
		details string,
	) (*schema.ImportRun, error)

	// Progress updates the number of processed records. The number never
	// decreases.
	Progress(ctx context.Context, run *schema.ImportRun, n int64) error

	// Complete closes the run as completed.
	Complete(ctx context.Context, run *schema.ImportRun, n int64) error

	// Fail closes the run as failed with the error message.
	Fail(ctx context.Context, run *schema.ImportRun, err error) error

	// Recent returns latest runs, newest first.
	Recent(ctx context.Context, limit int) ([]schema.ImportRun, error)
}
