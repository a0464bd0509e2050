// Package ioreconcile merges incoming GeoNames records with the store.
// Every batch costs one id probe per chunk, one multi-row INSERT per
// chunk of new records and one CASE UPDATE per chunk of known records.
package ioreconcile

import (
	"context"
	"log/slog"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/jmoiron/sqlx"
)

// Reconciler implements lifecycle.Reconciler.
type Reconciler struct {
	db        *sqlx.DB
	dialect   db.Dialect
	chunkSize int
}

var _ lifecycle.Reconciler = (*Reconciler)(nil)

// New creates a Reconciler that writes through the operator.
func New(op db.Operator, cfg *config.DatabaseConfig) *Reconciler {
	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = 500
	}
	return &Reconciler{
		db:        op.DB(),
		dialect:   op.Dialect(),
		chunkSize: chunk,
	}
}

// Reconcile inserts new places and updates known ones.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	batch []schema.Place,
	countries []string,
) (lifecycle.ReconcileResult, error) {
	return reconcileRecords(ctx, r, batch, countries)
}

// ReconcileAlternateNames inserts new alternate names and updates known
// ones.
func (r *Reconciler) ReconcileAlternateNames(
	ctx context.Context,
	batch []schema.AlternateName,
) (lifecycle.ReconcileResult, error) {
	return reconcileRecords(ctx, r, batch, nil)
}

// ProcessDeletes marks places as deleted. Only is_deleted changes.
func (r *Reconciler) ProcessDeletes(
	ctx context.Context,
	ids []int64,
) (int, error) {
	ids = uniqueIDs(ids)
	table := schema.Place{}.TableName()
	cols := []string{"is_deleted"}
	types := []string{"BOOLEAN"}

	var res int
	for chunk := range chunks(ids, r.chunkLen(2*len(cols)+1)) {
		vals := make([][]any, len(chunk))
		for i := range chunk {
			vals[i] = []any{true}
		}
		q, args := r.dialect.CaseUpdate(table, "id", cols, types, chunk, vals)
		n, err := r.exec(ctx, q, args)
		if err != nil {
			return res, UpdateError(table, len(chunk), err)
		}
		res += n
	}
	return res, nil
}

// HardDelete removes places from the store.
func (r *Reconciler) HardDelete(ctx context.Context, ids []int64) (int, error) {
	return r.deleteByID(ctx, schema.Place{}.TableName(), "id", ids)
}

// DeleteAlternateNames removes alternate names from the store.
func (r *Reconciler) DeleteAlternateNames(
	ctx context.Context,
	ids []int64,
) (int, error) {
	return r.deleteByID(ctx, schema.AlternateName{}.TableName(), "id", ids)
}

// InsertEdges inserts hierarchy edges and ignores known ones.
func (r *Reconciler) InsertEdges(
	ctx context.Context,
	edges []schema.HierarchyEdge,
) (int, error) {
	var e schema.HierarchyEdge
	table := e.TableName()
	cols := schema.Columns(e)

	var res int
	for chunk := range chunks(edges, r.chunkLen(len(cols))) {
		q := r.dialect.InsertIgnore(table, cols, len(chunk))
		args := make([]any, 0, len(chunk)*len(cols))
		for _, e := range chunk {
			args = append(args, e.Values()...)
		}
		n, err := r.exec(ctx, q, args)
		if err != nil {
			return res, InsertError(table, len(chunk), err)
		}
		res += n
	}
	return res, nil
}

func (r *Reconciler) deleteByID(
	ctx context.Context,
	table, key string,
	ids []int64,
) (int, error) {
	ids = uniqueIDs(ids)
	var res int
	for chunk := range chunks(ids, r.chunkLen(1)) {
		where, args := r.dialect.InIDs(key, chunk)
		n, err := r.exec(ctx, "DELETE FROM "+table+" WHERE "+where, args)
		if err != nil {
			return res, DeleteError(table, len(chunk), err)
		}
		res += n
	}
	return res, nil
}

// chunkLen is the configured chunk size capped by the number of
// parameters a row needs.
func (r *Reconciler) chunkLen(paramsPerRow int) int {
	byParams := r.dialect.MaxParams() / max(1, paramsPerRow)
	return max(1, min(r.chunkSize, byParams))
}

func (r *Reconciler) exec(ctx context.Context, q string, args []any) (int, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		slog.Error("Bulk statement failed", "error", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
