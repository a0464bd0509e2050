package ioreconcile

import (
	"context"
	"iter"
	"slices"

	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
)

// reconcileRecords runs filter, dedup, probe, partition, insert and
// update for any keyed record type.
func reconcileRecords[T schema.Record](
	ctx context.Context,
	r *Reconciler,
	batch []T,
	countries []string,
) (lifecycle.ReconcileResult, error) {
	var res lifecycle.ReconcileResult
	var zero T
	table := zero.TableName()
	cols := schema.Columns(zero)
	key := cols[0]

	recs := filterCountries(batch, countries)
	res.Skipped += len(batch) - len(recs)

	uniq := dedup(recs)
	res.Skipped += len(recs) - len(uniq)
	if len(uniq) == 0 {
		return res, nil
	}

	ids := make([]int64, len(uniq))
	for i := range uniq {
		ids[i] = uniq[i].Key()
	}
	existing, err := r.existing(ctx, table, key, ids)
	if err != nil {
		return res, err
	}

	var inserts, updates []T
	for _, rec := range uniq {
		if _, ok := existing[rec.Key()]; ok {
			updates = append(updates, rec)
		} else {
			inserts = append(inserts, rec)
		}
	}

	for chunk := range chunks(inserts, r.chunkLen(len(cols))) {
		if err := insert(ctx, r, table, cols, chunk); err != nil {
			return res, err
		}
		res.Inserted += len(chunk)
	}

	types := schema.ColumnTypes(zero)
	for chunk := range chunks(updates, r.chunkLen(2*len(cols)+1)) {
		if err := update(ctx, r, table, cols, types, chunk); err != nil {
			return res, err
		}
		res.Updated += len(chunk)
	}

	return res, nil
}

func (r *Reconciler) existing(
	ctx context.Context,
	table, key string,
	ids []int64,
) (map[int64]struct{}, error) {
	res := make(map[int64]struct{}, len(ids))
	for chunk := range chunks(ids, r.chunkLen(1)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		where, args := r.dialect.InIDs(key, chunk)
		q := r.db.Rebind("SELECT " + key + " FROM " + table + " WHERE " + where)
		var found []int64
		if err := r.db.SelectContext(ctx, &found, q, args...); err != nil {
			return nil, ProbeError(table, err)
		}
		for _, id := range found {
			res[id] = struct{}{}
		}
	}
	return res, nil
}

// insert writes new records. Conflicting keys are updated, so a record
// inserted by a concurrent writer after the probe is not lost.
func insert[T schema.Record](
	ctx context.Context,
	r *Reconciler,
	table string,
	cols []string,
	recs []T,
) error {
	q := r.dialect.Upsert(table, cols, len(recs), cols[:1], cols[1:])
	args := make([]any, 0, len(recs)*len(cols))
	for _, rec := range recs {
		args = append(args, rec.Values()...)
	}
	if _, err := r.exec(ctx, q, args); err != nil {
		return InsertError(table, len(recs), err)
	}
	return nil
}

func update[T schema.Record](
	ctx context.Context,
	r *Reconciler,
	table string,
	cols, types []string,
	recs []T,
) error {
	keys := make([]int64, len(recs))
	vals := make([][]any, len(recs))
	for i, rec := range recs {
		keys[i] = rec.Key()
		vals[i] = rec.Values()[1:]
	}
	q, args := r.dialect.CaseUpdate(table, cols[0], cols[1:], types[1:], keys, vals)
	if _, err := r.exec(ctx, q, args); err != nil {
		return UpdateError(table, len(recs), err)
	}
	return nil
}

func filterCountries[T schema.Record](batch []T, countries []string) []T {
	if len(countries) == 0 {
		return batch
	}
	res := make([]T, 0, len(batch))
	for _, rec := range batch {
		if slices.Contains(countries, rec.Country()) {
			res = append(res, rec)
		}
	}
	return res
}

// dedup keeps the last occurrence of every key at the position of that
// occurrence.
func dedup[T schema.Record](recs []T) []T {
	last := make(map[int64]int, len(recs))
	for i, rec := range recs {
		last[rec.Key()] = i
	}
	if len(last) == len(recs) {
		return recs
	}
	res := make([]T, 0, len(last))
	for i, rec := range recs {
		if last[rec.Key()] == i {
			res = append(res, rec)
		}
	}
	return res
}

func uniqueIDs(ids []int64) []int64 {
	res := slices.Clone(ids)
	slices.Sort(res)
	return slices.Compact(res)
}

// chunks splits s into consecutive slices of at most n elements.
func chunks[T any](s []T, n int) iter.Seq[[]T] {
	if len(s) == 0 {
		return func(func([]T) bool) {}
	}
	return slices.Chunk(s, n)
}
