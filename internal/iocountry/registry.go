// Package iocountry keeps the registry of synchronized countries.
//
// Names and continents come from the embedded country list. A country
// row is created the first time a country is enabled and is never
// deleted afterwards, only disabled.
package iocountry

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gngeo/internal/iofs"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
)

// Entry is a country of the embedded list.
type Entry struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	Continent string `yaml:"continent"`
}

// Known parses the embedded country list.
func Known() ([]Entry, error) {
	return parseKnown(iofs.CountriesYAML)
}

func parseKnown(data []byte) ([]Entry, error) {
	var doc struct {
		Countries []Entry `yaml:"countries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, iofs.CountriesDataError(err)
	}
	return doc.Countries, nil
}

// Registry implements lifecycle.CountryRegistry.
type Registry struct {
	db      *sqlx.DB
	dialect db.Dialect
	known   map[string]Entry
	table   string
}

var _ lifecycle.CountryRegistry = (*Registry)(nil)

// New creates a Registry.
func New(op db.Operator) (*Registry, error) {
	entries, err := Known()
	if err != nil {
		return nil, err
	}
	known := make(map[string]Entry, len(entries))
	for _, e := range entries {
		known[e.Code] = e
	}
	return &Registry{
		db:      op.DB(),
		dialect: op.Dialect(),
		known:   known,
		table:   schema.Country{}.TableName(),
	}, nil
}

// Enable upserts countries as enabled. The import stamp of already known
// countries is kept.
func (r *Registry) Enable(ctx context.Context, codes []string) ([]string, error) {
	codes = normalize(codes)
	var unknown []string
	entries := make([]Entry, 0, len(codes))
	for _, c := range codes {
		e, ok := r.known[c]
		if !ok {
			unknown = append(unknown, c)
			continue
		}
		entries = append(entries, e)
	}
	if len(unknown) > 0 {
		return nil, UnknownError(unknown)
	}
	if err := r.enable(ctx, entries); err != nil {
		return nil, err
	}
	return codes, nil
}

// EnableContinent enables every country of a continent.
func (r *Registry) EnableContinent(
	ctx context.Context,
	continent string,
) ([]string, error) {
	continent = strings.ToUpper(strings.TrimSpace(continent))
	var entries []Entry
	for _, e := range r.known {
		if e.Continent == continent {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, UnknownError([]string{continent})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Code, b.Code)
	})
	if err := r.enable(ctx, entries); err != nil {
		return nil, err
	}
	res := make([]string, len(entries))
	for i, e := range entries {
		res[i] = e.Code
	}
	return res, nil
}

func (r *Registry) enable(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	cols := []string{"code", "name", "continent", "is_enabled"}
	q := r.dialect.Upsert(r.table, cols, len(entries), cols[:1], cols[1:])
	args := make([]any, 0, len(entries)*len(cols))
	for _, e := range entries {
		args = append(args, e.Code, e.Name, e.Continent, true)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...); err != nil {
		return UpdateError(err)
	}
	slog.Info("Countries enabled", "count", len(entries))
	return nil
}

// Disable marks countries as not synchronized.
func (r *Registry) Disable(ctx context.Context, codes []string) (int, error) {
	codes = normalize(codes)
	if len(codes) == 0 {
		return 0, nil
	}
	where, args := r.dialect.InStrings("code", codes)
	q := r.db.Rebind("UPDATE " + r.table + " SET is_enabled = ? WHERE " + where)
	res, err := r.db.ExecContext(ctx, q, append([]any{false}, args...)...)
	if err != nil {
		return 0, UpdateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, UpdateError(err)
	}
	return int(n), nil
}

// List returns registered countries ordered by code.
func (r *Registry) List(
	ctx context.Context,
	enabledOnly bool,
) ([]schema.Country, error) {
	q := "SELECT * FROM " + r.table
	var args []any
	if enabledOnly {
		q += " WHERE is_enabled = ?"
		args = append(args, true)
	}
	q += " ORDER BY code"

	var res []schema.Country
	if err := r.db.SelectContext(ctx, &res, r.db.Rebind(q), args...); err != nil {
		return nil, ReadError(err)
	}
	return res, nil
}

// Stamp sets last_imported_at of countries.
func (r *Registry) Stamp(ctx context.Context, codes []string, at time.Time) error {
	codes = normalize(codes)
	if len(codes) == 0 {
		return nil
	}
	where, args := r.dialect.InStrings("code", codes)
	q := r.db.Rebind("UPDATE " + r.table + " SET last_imported_at = ? WHERE " + where)
	if _, err := r.db.ExecContext(ctx, q, append([]any{at}, args...)...); err != nil {
		return UpdateError(err)
	}
	return nil
}

// Remove disables a country and clears its import stamp, so enabling it
// again starts with a full import. In soft mode places are marked as
// deleted. In hard mode edges, alternate names, admin units and places
// of the country are removed in one transaction.
func (r *Registry) Remove(ctx context.Context, code string, hard bool) (int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := r.known[code]; !ok {
		return 0, UnknownError([]string{code})
	}

	q := r.db.Rebind("UPDATE " + r.table +
		" SET is_enabled = ?, last_imported_at = NULL WHERE code = ?")
	if _, err := r.db.ExecContext(ctx, q, false, code); err != nil {
		return 0, RemoveError(code, err)
	}

	var n int
	var err error
	if hard {
		n, err = r.hardRemove(ctx, code)
	} else {
		n, err = r.softRemove(ctx, code)
	}
	if err != nil {
		return 0, RemoveError(code, err)
	}
	slog.Info("Country removed", "code", code, "hard", hard, "places", n)
	return n, nil
}

func (r *Registry) softRemove(ctx context.Context, code string) (int, error) {
	q := r.db.Rebind("UPDATE " + schema.Place{}.TableName() +
		" SET is_deleted = ? WHERE country_code = ? AND is_deleted = ?")
	res, err := r.db.ExecContext(ctx, q, true, code, false)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *Registry) hardRemove(ctx context.Context, code string) (int, error) {
	places := schema.Place{}.TableName()
	ids := "SELECT id FROM " + places + " WHERE country_code = ?"

	stmts := []string{
		"DELETE FROM " + schema.HierarchyEdge{}.TableName() +
			" WHERE child_id IN (" + ids + ")",
		"DELETE FROM " + schema.AlternateName{}.TableName() +
			" WHERE place_id IN (" + ids + ")",
	}
	for _, l := range schema.AdminLevels() {
		stmts = append(stmts,
			"DELETE FROM "+l.TableName()+" WHERE country_code = ?")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range stmts {
		if _, err = tx.ExecContext(ctx, tx.Rebind(s), code); err != nil {
			return 0, err
		}
	}
	res, err := tx.ExecContext(ctx,
		tx.Rebind("DELETE FROM "+places+" WHERE country_code = ?"), code)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), tx.Commit()
}

func normalize(codes []string) []string {
	res := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" && !slices.Contains(res, c) {
			res = append(res, c)
		}
	}
	return res
}
