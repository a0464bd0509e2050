// Package iohierarchy resolves administrative ancestors and descendants
// of places.
//
// Ancestors of administrative divisions ADM1..ADM4 and of populated
// places are found by their admin codes in one query. Everything else,
// for example sub-municipal units, is resolved by walking explicit
// parent-child edges.
package iohierarchy

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/jmoiron/sqlx"
)

// codeLevels is the deepest admin level the fast path resolves.
const codeLevels = 4

// Resolver implements lifecycle.Resolver.
type Resolver struct {
	db           *sqlx.DB
	dialect      db.Dialect
	maxDepth     int
	defaultLimit int
}

var _ lifecycle.Resolver = (*Resolver)(nil)

// New creates a Resolver.
func New(op db.Operator, cfg *config.Config) *Resolver {
	return &Resolver{
		db:           op.DB(),
		dialect:      op.Dialect(),
		maxDepth:     max(1, cfg.Hierarchy.MaxDepth),
		defaultLimit: cfg.Search.DefaultLimit,
	}
}

// Ancestors returns ancestors of a place from the country down.
func (r *Resolver) Ancestors(
	ctx context.Context,
	placeID int64,
	includeSelf bool,
) ([]search.Place, error) {
	target, err := r.place(ctx, placeID)
	if err != nil {
		return nil, err
	}

	res := []search.Place{}
	switch {
	case search.IsCountry(target.FeatureCode):
	case usesCodes(target):
		res, err = r.byCodes(ctx, target)
		if err == nil && len(res) == 0 {
			res, err = r.byEdges(ctx, target.ID)
		}
	default:
		res, err = r.byEdges(ctx, target.ID)
	}
	if err != nil {
		return nil, QueryError(placeID, err)
	}

	if includeSelf {
		res = append(res, target)
	}
	return res, nil
}

// Children returns places of featureClass under the place. Descendants
// of countries and ADMn divisions share the admin code prefix of the
// parent, descendants of other places are linked by hierarchy edges.
func (r *Resolver) Children(
	ctx context.Context,
	placeID int64,
	featureClass string,
	limit int,
) ([]search.Place, error) {
	parent, err := r.place(ctx, placeID)
	if err != nil {
		return nil, err
	}

	featureClass = strings.ToUpper(strings.TrimSpace(featureClass))
	if featureClass == "" {
		featureClass = "P"
	}
	if limit == 0 {
		limit = r.defaultLimit
	}
	limit = max(1, min(limit, config.MaxSearchLimit))

	where := []string{"is_deleted = ?", "feature_class = ?", "id <> ?"}
	args := []any{false, featureClass, parent.ID}

	level, isAdmin := schema.Place{FeatureCode: parent.FeatureCode}.AdminLevel()
	switch {
	case search.IsCountry(parent.FeatureCode):
		where = append(where, "country_code = ?")
		args = append(args, parent.CountryCode)
	case isAdmin:
		where = append(where, "country_code = ?")
		args = append(args, parent.CountryCode)
		codes := adminCodes(parent)
		for k := range int(level) {
			where = append(where, fmt.Sprintf("admin%d_code = ?", k+1))
			args = append(args, codes[k])
		}
	default:
		where = append(where, "id IN (SELECT child_id FROM "+
			schema.HierarchyEdge{}.TableName()+" WHERE parent_id = ?)")
		args = append(args, parent.ID)
	}

	q := "SELECT " + search.SelectColumns("") +
		" FROM " + schema.Place{}.TableName() +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY population DESC NULLS LAST, name ASC LIMIT ?"
	args = append(args, limit)

	res := []search.Place{}
	if err = r.db.SelectContext(ctx, &res, r.db.Rebind(q), args...); err != nil {
		return nil, QueryError(placeID, err)
	}
	return res, nil
}

// place loads a non-deleted place.
func (r *Resolver) place(ctx context.Context, id int64) (search.Place, error) {
	var res search.Place
	q := r.db.Rebind("SELECT " + search.SelectColumns("") +
		" FROM " + schema.Place{}.TableName() +
		" WHERE id = ? AND is_deleted = ?")
	err := r.db.GetContext(ctx, &res, q, id, false)
	if errors.Is(err, sql.ErrNoRows) {
		return res, PlaceNotFoundError(id)
	}
	if err != nil {
		return res, QueryError(id, err)
	}
	return res, nil
}

// usesCodes reports if admin codes of the place identify its ancestors.
func usesCodes(p search.Place) bool {
	if strings.HasPrefix(p.FeatureCode, "PPL") {
		return true
	}
	level, ok := schema.Place{FeatureCode: p.FeatureCode}.AdminLevel()
	return ok && level <= codeLevels
}

// byCodes finds the country record and ADMk divisions above the place
// with one OR query. A level is only looked up when all of its code
// components are known.
func (r *Resolver) byCodes(
	ctx context.Context,
	target search.Place,
) ([]search.Place, error) {
	top := codeLevels
	if level, ok := (schema.Place{FeatureCode: target.FeatureCode}).AdminLevel(); ok {
		top = int(level) - 1
	}

	cc, ccArgs := r.dialect.InStrings("feature_code", search.CountryFeatureCodes)
	ors := []string{"(" + cc + ")"}
	args := slices.Clone(ccArgs)

	codes := adminCodes(target)
	for k := 1; k <= top; k++ {
		if codes[k-1] == "" {
			break
		}
		conds := []string{"feature_code = ?"}
		args = append(args, fmt.Sprintf("ADM%d", k))
		for j := range k {
			conds = append(conds, fmt.Sprintf("admin%d_code = ?", j+1))
			args = append(args, codes[j])
		}
		ors = append(ors, "("+strings.Join(conds, " AND ")+")")
	}

	q := "SELECT " + search.SelectColumns("") +
		" FROM " + schema.Place{}.TableName() +
		" WHERE country_code = ? AND is_deleted = ? AND (" +
		strings.Join(ors, " OR ") + ")"
	args = append([]any{target.CountryCode, false}, args...)

	var found []search.Place
	if err := r.db.SelectContext(ctx, &found, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	// one record per level, the most populous one wins
	slices.SortStableFunc(found, func(a, b search.Place) int {
		if c := cmp.Compare(levelOf(a), levelOf(b)); c != 0 {
			return c
		}
		if c := cmp.Compare(population(b), population(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	res := make([]search.Place, 0, len(found))
	for _, p := range found {
		if len(res) > 0 && levelOf(res[len(res)-1]) == levelOf(p) {
			continue
		}
		res = append(res, p)
	}
	return res, nil
}

// ancestorRow is a place found by the recursive query with its distance
// from the target.
type ancestorRow struct {
	search.Place
	Depth int `db:"depth"`
}

// byEdges walks hierarchy edges from the child up, at most maxDepth
// steps. Edges of any type are followed.
func (r *Resolver) byEdges(ctx context.Context, id int64) ([]search.Place, error) {
	edges := schema.HierarchyEdge{}.TableName()
	q := "WITH RECURSIVE tree (id, depth) AS (" +
		" SELECT parent_id, 1 FROM " + edges + " WHERE child_id = ?" +
		" UNION ALL" +
		" SELECT h.parent_id, t.depth + 1 FROM " + edges + " h" +
		" JOIN tree t ON h.child_id = t.id WHERE t.depth < ?" +
		") SELECT " + search.SelectColumns("p") + ", t.depth AS depth" +
		" FROM tree t JOIN " + schema.Place{}.TableName() + " p ON p.id = t.id" +
		" WHERE p.is_deleted = ? ORDER BY t.depth ASC, p.id ASC"

	var rows []ancestorRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), id, r.maxDepth, false)
	if err != nil {
		return nil, err
	}

	// nearest parent first, a place reachable twice keeps its first depth
	seen := make(map[int64]struct{}, len(rows))
	res := make([]search.Place, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		res = append(res, row.Place)
	}
	slices.Reverse(res)
	return res, nil
}

// levelOf orders ancestors: country first, then ADM1..ADM5.
func levelOf(p search.Place) int {
	if search.IsCountry(p.FeatureCode) {
		return 0
	}
	if l, ok := (schema.Place{FeatureCode: p.FeatureCode}).AdminLevel(); ok {
		return int(l)
	}
	return schema.MaxAdminLevel + 1
}

func population(p search.Place) int64 {
	if p.Population == nil {
		return -1
	}
	return *p.Population
}

func adminCodes(p search.Place) [schema.MaxAdminLevel]string {
	return [schema.MaxAdminLevel]string{
		p.Admin1Code, p.Admin2Code, p.Admin3Code, p.Admin4Code, p.Admin5Code,
	}
}
