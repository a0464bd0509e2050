package ioimport

import (
	"context"
	"slices"

	"github.com/gnames/gngeo/internal/ioparse"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
)

// ImportPlaces reconciles places of a full dump or a modifications feed
// and synthesizes admin units of every batch.
func (im *Importer) ImportPlaces(
	ctx context.Context,
	src lifecycle.Source,
	countries []string,
) (lifecycle.ImportStats, error) {
	keep := countryFilter(countries)
	typ := string(src.Type)

	return im.run(ctx, src, func(
		ctx context.Context,
		rows []ioparse.Row,
		stats *lifecycle.ImportStats,
	) error {
		places := make([]schema.Place, 0, len(rows))
		for _, row := range rows {
			p, err := ioparse.RowToPlace(row)
			if err != nil {
				skip(stats, typ, err)
				continue
			}
			places = append(places, p)
		}

		res, err := im.rec.Reconcile(ctx, places, countries)
		if err != nil {
			return err
		}
		addResult(stats, res)

		kept := slices.DeleteFunc(places, func(p schema.Place) bool {
			return !keep(p.CountryCode)
		})
		_, err = im.admin.SyncFromBatch(ctx, kept)
		return err
	})
}

// ImportDeletes soft-deletes places listed in a deletes feed.
func (im *Importer) ImportDeletes(
	ctx context.Context,
	src lifecycle.Source,
) (lifecycle.ImportStats, error) {
	return im.run(ctx, src, im.deletes(string(src.Type), im.rec.ProcessDeletes))
}

// ImportAlternateDeletes removes alternate names listed in a deletes feed.
func (im *Importer) ImportAlternateDeletes(
	ctx context.Context,
	src lifecycle.Source,
) (lifecycle.ImportStats, error) {
	return im.run(ctx, src, im.deletes(string(src.Type), im.rec.DeleteAlternateNames))
}

func (im *Importer) deletes(
	typ string,
	del func(context.Context, []int64) (int, error),
) batchFunc {
	return func(
		ctx context.Context,
		rows []ioparse.Row,
		stats *lifecycle.ImportStats,
	) error {
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			id, err := ioparse.RowToDeletedID(row)
			if err != nil {
				skip(stats, typ, err)
				continue
			}
			ids = append(ids, id)
		}
		n, err := del(ctx, ids)
		if err != nil {
			return err
		}
		stats.Deleted += int64(n)
		return nil
	}
}

// ImportAlternateNames reconciles alternate names. Rows in languages
// outside a non-empty languages slice are skipped.
func (im *Importer) ImportAlternateNames(
	ctx context.Context,
	src lifecycle.Source,
	languages []string,
) (lifecycle.ImportStats, error) {
	typ := string(src.Type)

	return im.run(ctx, src, func(
		ctx context.Context,
		rows []ioparse.Row,
		stats *lifecycle.ImportStats,
	) error {
		names := make([]schema.AlternateName, 0, len(rows))
		for _, row := range rows {
			a, err := ioparse.RowToAlternateName(row)
			if err != nil {
				skip(stats, typ, err)
				continue
			}
			if len(languages) > 0 && !slices.Contains(languages, a.ISOLanguage) {
				stats.Skipped++
				continue
			}
			names = append(names, a)
		}

		res, err := im.rec.ReconcileAlternateNames(ctx, names)
		if err != nil {
			return err
		}
		addResult(stats, res)
		return nil
	})
}

// ImportHierarchy inserts parent-child edges. Known edges are counted
// as skipped.
func (im *Importer) ImportHierarchy(
	ctx context.Context,
	src lifecycle.Source,
) (lifecycle.ImportStats, error) {
	typ := string(src.Type)

	return im.run(ctx, src, func(
		ctx context.Context,
		rows []ioparse.Row,
		stats *lifecycle.ImportStats,
	) error {
		edges := make([]schema.HierarchyEdge, 0, len(rows))
		for _, row := range rows {
			e, err := ioparse.RowToEdge(row)
			if err != nil {
				skip(stats, typ, err)
				continue
			}
			edges = append(edges, e)
		}

		n, err := im.rec.InsertEdges(ctx, edges)
		if err != nil {
			return err
		}
		stats.Inserted += int64(n)
		stats.Skipped += int64(len(edges) - n)
		return nil
	})
}

// ImportAdminCodes upserts units of admin1CodesASCII.txt and
// admin2Codes.txt.
func (im *Importer) ImportAdminCodes(
	ctx context.Context,
	src lifecycle.Source,
) (lifecycle.ImportStats, error) {
	typ := string(src.Type)

	return im.run(ctx, src, func(
		ctx context.Context,
		rows []ioparse.Row,
		stats *lifecycle.ImportStats,
	) error {
		units := make([]schema.AdminUnit, 0, len(rows))
		for _, row := range rows {
			u, _, err := ioparse.RowToAdminCode(row)
			if err != nil {
				skip(stats, typ, err)
				continue
			}
			units = append(units, u)
		}

		n, err := im.admin.ImportAdminCodes(ctx, units)
		if err != nil {
			return err
		}
		stats.Inserted += int64(n)
		stats.Skipped += int64(len(units) - n)
		return nil
	})
}

func addResult(stats *lifecycle.ImportStats, res lifecycle.ReconcileResult) {
	stats.Inserted += int64(res.Inserted)
	stats.Updated += int64(res.Updated)
	stats.Skipped += int64(res.Skipped)
}
