package iosearch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/gnames/gngeo/pkg/search"
)

const (
	orderPopulation = "p.population DESC NULLS LAST, p.name ASC, p.id ASC"
	orderRank       = "rank DESC, " + orderPopulation
	orderDistance   = "distance ASC, " + orderPopulation
)

// query collects parts of one SELECT over places. Arguments of the
// select list precede arguments of the WHERE clause.
type query struct {
	dialect db.Dialect
	cols    []string
	colArgs []any
	joins   []string
	where   []string
	args    []any
	order   string
	limit   int
}

// newQuery starts a query of non-deleted places narrowed by options.
func newQuery(d db.Dialect, opts search.Options) *query {
	q := &query{
		dialect: d,
		cols:    []string{search.SelectColumns("p")},
		order:   orderPopulation,
		limit:   opts.Limit,
	}
	q.and("p.is_deleted = ?", false)

	if opts.WithAdminNames {
		q.adminNames()
	}
	if len(opts.Countries) > 0 {
		q.in("p.country_code", opts.Countries)
	}
	if len(opts.FeatureClasses) > 0 {
		q.in("p.feature_class", opts.FeatureClasses)
	}
	if len(opts.FeatureCodes) > 0 {
		q.in("p.feature_code", opts.FeatureCodes)
	}
	if opts.Admin1Code != "" {
		q.and("p.admin1_code = ?", opts.Admin1Code)
	}
	if opts.ID > 0 {
		q.and("p.id = ?", opts.ID)
	}
	if opts.MinPopulation > 0 {
		q.and("p.population >= ?", opts.MinPopulation)
	}
	return q
}

func (q *query) and(cond string, args ...any) {
	q.where = append(q.where, cond)
	q.args = append(q.args, args...)
}

// in restricts col to one of vals.
func (q *query) in(col string, vals []string) {
	cond, args := q.dialect.InStrings(col, vals)
	q.and(cond, args...)
}

// or adds conditions joined by OR, in parentheses.
func (q *query) or(conds []string, args ...any) {
	q.and("("+strings.Join(conds, " OR ")+")", args...)
}

func (q *query) column(expr string, args ...any) {
	q.cols = append(q.cols, expr)
	q.colArgs = append(q.colArgs, args...)
}

// adminNames joins the admin unit of every level. A join matches the
// country and all code components up to its level, bare codes repeat
// across countries and regions.
func (q *query) adminNames() {
	for _, l := range schema.AdminLevels() {
		alias := "a" + strconv.Itoa(int(l))
		conds := []string{alias + ".country_code = p.country_code"}
		for k := 1; k <= int(l); k++ {
			conds = append(conds,
				fmt.Sprintf("%[1]s.admin%[2]d_code = p.admin%[2]d_code", alias, k))
		}
		q.joins = append(q.joins, fmt.Sprintf("LEFT JOIN %s %s ON %s",
			l.TableName(), alias, strings.Join(conds, " AND ")))
		q.column(fmt.Sprintf("%s.name AS admin%d_name", alias, l))
	}
}

// lonRange restricts longitude to [west, east]. When west is greater
// than east the range wraps around the antimeridian.
func (q *query) lonRange(west, east float64) {
	if west > east {
		q.and("(p.longitude >= ? OR p.longitude <= ?)", west, east)
		return
	}
	q.and("p.longitude BETWEEN ? AND ?", west, east)
}

func (q *query) sql() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(schema.Place{}.TableName())
	b.WriteString(" p")
	for _, j := range q.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	if q.order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.order)
	}
	args := append(append([]any{}, q.colArgs...), q.args...)
	if q.limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE metacharacters of s literal. Patterns are used
// with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
