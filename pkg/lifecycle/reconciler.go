package lifecycle

import (
	"context"

	"github.com/gnames/gngeo/pkg/schema"
)

// ReconcileResult counts the outcome of one reconciled batch.
// Inserted + Updated + Skipped always equals the batch length.
type ReconcileResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Add accumulates another result.
func (r *ReconcileResult) Add(o ReconcileResult) {
	r.Inserted += o.Inserted
	r.Updated += o.Updated
	r.Skipped += o.Skipped
}

// Total is the number of records the result accounts for.
func (r ReconcileResult) Total() int {
	return r.Inserted + r.Updated + r.Skipped
}

// Reconciler merges incoming records with stored ones using set
// operations: one id probe per chunk, then bulk inserts and bulk CASE
// updates.
type Reconciler interface {
	// Reconcile inserts new places and updates known ones. Places of
	// countries outside a non-empty countries filter are skipped.
	Reconcile(
		ctx context.Context,
		batch []schema.Place,
		countries []string,
	) (ReconcileResult, error)

	// ReconcileAlternateNames is Reconcile for alternate names.
	ReconcileAlternateNames(
		ctx context.Context,
		batch []schema.AlternateName,
	) (ReconcileResult, error)

	// ProcessDeletes marks places as deleted and returns the number of
	// affected rows.
	ProcessDeletes(ctx context.Context, ids []int64) (int, error)

	// HardDelete physically removes places.
	HardDelete(ctx context.Context, ids []int64) (int, error)

	// DeleteAlternateNames physically removes alternate names.
	DeleteAlternateNames(ctx context.Context, ids []int64) (int, error)

	// InsertEdges adds hierarchy edges, existing edges are ignored.
	InsertEdges(ctx context.Context, edges []schema.HierarchyEdge) (int, error)
}
