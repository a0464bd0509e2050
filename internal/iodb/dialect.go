package iodb

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gnames/gngeo/pkg/db"
	"github.com/lib/pq"
)

const (
	// pgMaxParams is the PostgreSQL wire-protocol limit of bind
	// parameters in one statement.
	pgMaxParams = 65535

	// sqliteMaxParams is SQLITE_MAX_VARIABLE_NUMBER of modern builds.
	sqliteMaxParams = 32766

	earthRadiusKm = 6371.0088
)

var (
	_ db.Dialect = postgresDialect{}
	_ db.Dialect = sqliteDialect{}
)

// postgresDialect implements db.Dialect for PostgreSQL.
type postgresDialect struct{}

func (postgresDialect) Name() string { return "pgx" }

func (postgresDialect) MaxParams() int { return pgMaxParams }

func (postgresDialect) Upsert(
	table string,
	cols []string,
	rows int,
	conflict, update []string,
) string {
	return insertStmt(table, cols, rows) + onConflictUpdate(conflict, update)
}

func (postgresDialect) InsertIgnore(
	table string,
	cols []string,
	rows int,
) string {
	return insertStmt(table, cols, rows) + " ON CONFLICT DO NOTHING"
}

// CaseUpdate casts every value to the column type, PostgreSQL would
// otherwise resolve untyped CASE branches to text.
func (d postgresDialect) CaseUpdate(
	table, key string,
	cols, types []string,
	keys []int64,
	values [][]any,
) (string, []any) {
	where, whereArgs := d.InIDs(key, keys)
	return caseUpdate(table, key, cols, keys, values, where, whereArgs,
		func(i int) string { return "CAST(? AS " + types[i] + ")" })
}

// InIDs binds the whole set as one array parameter.
func (postgresDialect) InIDs(col string, ids []int64) (string, []any) {
	return col + " = ANY(?)", []any{pq.Array(ids)}
}

func (postgresDialect) InStrings(col string, vals []string) (string, []any) {
	return col + " = ANY(?)", []any{pq.Array(vals)}
}

func (postgresDialect) FullText(cols []string) (string, string, bool) {
	doc := tsDocument(cols)
	match := doc + " @@ to_tsquery('simple', ?)"
	rank := "ts_rank(" + doc + ", to_tsquery('simple', ?))"
	return match, rank, true
}

// FullTextQuery turns every word of the term into a prefix lexeme.
func (postgresDialect) FullTextQuery(term string) string {
	words := strings.FieldsFunc(term, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i := range words {
		words[i] = strings.ToLower(words[i]) + ":*"
	}
	return strings.Join(words, " & ")
}

func (postgresDialect) FullTextIndex(
	table string,
	cols []string,
) (string, bool) {
	stmt := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_%s_fulltext ON %s USING GIN (%s)",
		table, table, tsDocument(cols),
	)
	return stmt, true
}

// Distance is the haversine formula. LEAST guards ASIN from rounding
// errors above 1.
func (postgresDialect) Distance(latCol, lonCol string) (string, bool) {
	expr := fmt.Sprintf(
		"%[3]f * 2 * ASIN(LEAST(1.0, SQRT("+
			"POWER(SIN(RADIANS(%[1]s - ?) / 2), 2) + "+
			"COS(RADIANS(?)) * COS(RADIANS(%[1]s)) * "+
			"POWER(SIN(RADIANS(%[2]s - ?) / 2), 2))))",
		latCol, lonCol, earthRadiusKm,
	)
	return expr, true
}

// sqliteDialect implements db.Dialect for SQLite.
type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) MaxParams() int { return sqliteMaxParams }

func (sqliteDialect) Upsert(
	table string,
	cols []string,
	rows int,
	conflict, update []string,
) string {
	return insertStmt(table, cols, rows) + onConflictUpdate(conflict, update)
}

func (sqliteDialect) InsertIgnore(
	table string,
	cols []string,
	rows int,
) string {
	return insertStmt(table, cols, rows) + " ON CONFLICT DO NOTHING"
}

// CaseUpdate binds values as they are. SQLite column affinity converts
// them on write.
func (d sqliteDialect) CaseUpdate(
	table, key string,
	cols, _ []string,
	keys []int64,
	values [][]any,
) (string, []any) {
	where, whereArgs := d.InIDs(key, keys)
	return caseUpdate(table, key, cols, keys, values, where, whereArgs,
		func(int) string { return "?" })
}

// InIDs expands the set into one placeholder per id.
func (sqliteDialect) InIDs(col string, ids []int64) (string, []any) {
	args := make([]any, len(ids))
	for i := range ids {
		args[i] = ids[i]
	}
	return inList(col, len(ids)), args
}

func (sqliteDialect) InStrings(col string, vals []string) (string, []any) {
	args := make([]any, len(vals))
	for i := range vals {
		args[i] = vals[i]
	}
	return inList(col, len(vals)), args
}

func (sqliteDialect) FullText([]string) (string, string, bool) {
	return "", "", false
}

func (sqliteDialect) FullTextQuery(term string) string {
	return term
}

func (sqliteDialect) FullTextIndex(string, []string) (string, bool) {
	return "", false
}

func (sqliteDialect) Distance(string, string) (string, bool) {
	return "", false
}

func insertStmt(table string, cols []string, rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES ")
	row := "(" + placeholders(len(cols)) + ")"
	for i := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(row)
	}
	return b.String()
}

func caseUpdate(
	table, key string,
	cols []string,
	keys []int64,
	values [][]any,
	where string,
	whereArgs []any,
	param func(col int) string,
) (string, []any) {
	args := make([]any, 0, len(cols)*len(keys)*2+len(whereArgs))
	sets := make([]string, len(cols))
	for i, col := range cols {
		var b strings.Builder
		b.WriteString(col)
		b.WriteString(" = CASE ")
		b.WriteString(key)
		p := param(i)
		for j := range keys {
			b.WriteString(" WHEN ? THEN ")
			b.WriteString(p)
			args = append(args, keys[j], values[j][i])
		}
		b.WriteString(" END")
		sets[i] = b.String()
	}
	args = append(args, whereArgs...)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		table, strings.Join(sets, ", "), where)
	return q, args
}

func onConflictUpdate(conflict, update []string) string {
	if len(update) == 0 {
		return fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING",
			strings.Join(conflict, ", "))
	}
	sets := make([]string, len(update))
	for i, c := range update {
		sets[i] = c + " = excluded." + c
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(conflict, ", "), strings.Join(sets, ", "))
}

func inList(col string, n int) string {
	if n == 0 {
		return "1 = 0"
	}
	return col + " IN (" + placeholders(n) + ")"
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func tsDocument(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = "COALESCE(" + c + ", '')"
	}
	return "to_tsvector('simple', " + strings.Join(parts, " || ' ' || ") + ")"
}
