// Package ioadmin synthesizes the administrative hierarchy index.
//
// Every place with feature code ADM1..ADM5 becomes a unit keyed by its
// composite code, the country code followed by admin codes up to the
// level of the place, joined with dots ("IT.09.TO"). Units are stored in
// one table per level and are always written with a native upsert, so
// the index can be rebuilt at any time from stored places.
package ioadmin

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/jmoiron/sqlx"
)

// Synthesizer implements lifecycle.AdminSynthesizer.
type Synthesizer struct {
	db        *sqlx.DB
	dialect   db.Dialect
	chunkSize int
	pageSize  int
}

var _ lifecycle.AdminSynthesizer = (*Synthesizer)(nil)

// New creates a Synthesizer.
func New(op db.Operator, cfg *config.DatabaseConfig) *Synthesizer {
	return &Synthesizer{
		db:        op.DB(),
		dialect:   op.Dialect(),
		chunkSize: max(1, cfg.ChunkSize),
		pageSize:  max(1, cfg.BatchSize),
	}
}

// UnitFromPlace builds the admin unit of an ADMn place. It returns false
// for other feature codes, for deleted places and for places with a
// missing code component.
func UnitFromPlace(p schema.Place) (schema.AdminUnit, schema.AdminLevel, bool) {
	var res schema.AdminUnit
	level, ok := p.AdminLevel()
	if !ok || p.IsDeleted || p.CountryCode == "" {
		return res, 0, false
	}

	all := p.AdminCodes()
	codes := all[:level]
	if slices.Contains(codes, "") {
		return res, 0, false
	}

	var comps [schema.MaxAdminLevel]string
	copy(comps[:], codes)
	res = schema.AdminUnit{
		Code:        p.CountryCode + "." + strings.Join(codes, "."),
		CountryCode: p.CountryCode,
		Admin1Code:  comps[0],
		Admin2Code:  comps[1],
		Admin3Code:  comps[2],
		Admin4Code:  comps[3],
		Admin5Code:  comps[4],
		Name:        p.Name,
		ASCIIName:   p.ASCIIName,
		PlaceID:     p.ID,
	}
	return res, level, true
}

// SyncFromBatch upserts units of ADMn places from a reconciled batch.
func (s *Synthesizer) SyncFromBatch(
	ctx context.Context,
	places []schema.Place,
) (int, error) {
	byLevel := make(map[schema.AdminLevel][]schema.AdminUnit)
	for _, p := range places {
		u, l, ok := UnitFromPlace(p)
		if !ok {
			continue
		}
		byLevel[l] = append(byLevel[l], u)
	}
	return s.upsertLevels(ctx, byLevel)
}

// ImportAdminCodes upserts units read from admin code files. The level
// of a unit is the number of components in its code.
func (s *Synthesizer) ImportAdminCodes(
	ctx context.Context,
	units []schema.AdminUnit,
) (int, error) {
	byLevel := make(map[schema.AdminLevel][]schema.AdminUnit)
	for _, u := range units {
		l := u.Level()
		if l < 1 || l > schema.MaxAdminLevel {
			slog.Warn("Skipping admin code", "code", u.Code)
			continue
		}
		byLevel[l] = append(byLevel[l], u)
	}
	return s.upsertLevels(ctx, byLevel)
}

// SyncFromStore rebuilds units from stored ADMn places, page by page in
// id order.
func (s *Synthesizer) SyncFromStore(
	ctx context.Context,
	countries []string,
) (int, error) {
	codes := make([]string, schema.MaxAdminLevel)
	for i, l := range schema.AdminLevels() {
		codes[i] = fmt.Sprintf("ADM%d", l)
	}
	fcodes, fargs := s.dialect.InStrings("feature_code", codes)

	where := []string{"is_deleted = ?", fcodes}
	args := append([]any{false}, fargs...)
	if len(countries) > 0 {
		cc, cargs := s.dialect.InStrings("country_code", countries)
		where = append(where, cc)
		args = append(args, cargs...)
	}
	q := s.db.Rebind("SELECT * FROM " + schema.Place{}.TableName() +
		" WHERE " + strings.Join(where, " AND ") +
		" AND id > ? ORDER BY id LIMIT ?")

	var res int
	var last int64
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var page []schema.Place
		pargs := append(slices.Clone(args), last, s.pageSize)
		if err := s.db.SelectContext(ctx, &page, q, pargs...); err != nil {
			return res, ReadStoreError(err)
		}
		if len(page) == 0 {
			break
		}
		n, err := s.SyncFromBatch(ctx, page)
		res += n
		if err != nil {
			return res, err
		}
		last = page[len(page)-1].ID
		if len(page) < s.pageSize {
			break
		}
	}
	slog.Info("Admin units rebuilt from store", "units", res)
	return res, nil
}

func (s *Synthesizer) upsertLevels(
	ctx context.Context,
	byLevel map[schema.AdminLevel][]schema.AdminUnit,
) (int, error) {
	var res int
	for _, l := range schema.AdminLevels() {
		units := lastPerCode(byLevel[l])
		n, err := s.upsert(ctx, l.TableName(), units)
		res += n
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Synthesizer) upsert(
	ctx context.Context,
	table string,
	units []schema.AdminUnit,
) (int, error) {
	cols := schema.Columns(schema.AdminUnit{})
	size := max(1, min(s.chunkSize, s.dialect.MaxParams()/len(cols)))

	var res int
	for chunk := range slices.Chunk(units, size) {
		q := s.dialect.Upsert(table, cols, len(chunk), cols[:1], cols[1:])
		args := make([]any, 0, len(chunk)*len(cols))
		for _, u := range chunk {
			args = append(args, u.Values()...)
		}
		if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...); err != nil {
			return res, UpsertError(table, err)
		}
		res += len(chunk)
	}
	return res, nil
}

// lastPerCode keeps the last unit for every code. A multi-row upsert
// cannot touch the same key twice.
func lastPerCode(units []schema.AdminUnit) []schema.AdminUnit {
	if len(units) == 0 {
		return nil
	}
	last := make(map[string]int, len(units))
	for i, u := range units {
		last[u.Code] = i
	}
	res := make([]schema.AdminUnit, 0, len(last))
	for i, u := range units {
		if last[u.Code] == i {
			res = append(res, u)
		}
	}
	return res
}
