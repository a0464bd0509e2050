package db

// UpsertStatement builds multi-row write statements. All statements use
// '?' placeholders, rows are laid out one after another in column order.
type UpsertStatement interface {
	// Upsert returns an INSERT of rows rows that, on a conflict over the
	// conflict columns, overwrites the update columns with the new values.
	Upsert(
		table string,
		cols []string,
		rows int,
		conflict []string,
		update []string,
	) string

	// InsertIgnore returns an INSERT of rows rows that silently skips rows
	// violating a uniqueness constraint.
	InsertIgnore(table string, cols []string, rows int) string

	// CaseUpdate returns one UPDATE that sets every column of cols for
	// every key with "col = CASE key WHEN ? THEN ? ... END", and its
	// arguments. types are SQL types of cols, values[i] holds the values
	// of cols for keys[i].
	CaseUpdate(
		table, key string,
		cols, types []string,
		keys []int64,
		values [][]any,
	) (string, []any)

	// MaxParams is the number of bind parameters a single statement
	// can carry.
	MaxParams() int
}

// Dialect collects everything that differs between store backends.
type Dialect interface {
	UpsertStatement

	// Name is the sqlx driver name of the backend.
	Name() string

	// InIDs returns a predicate that is true when col is one of ids,
	// and the arguments it binds.
	InIDs(col string, ids []int64) (string, []any)

	// InStrings is InIDs for text columns.
	InStrings(col string, vals []string) (string, []any)

	// FullText returns a predicate that matches a prefix query against
	// the document made of cols, and a relevance expression. Each of them
	// binds the value returned by FullTextQuery once.
	// ok is false when the backend has no native full-text search.
	FullText(cols []string) (match, rank string, ok bool)

	// FullTextQuery converts a search term to the query bound by
	// FullText.
	FullTextQuery(term string) string

	// FullTextIndex returns a statement that indexes the same document
	// FullText matches. ok is false when the backend has no native
	// full-text search.
	FullTextIndex(table string, cols []string) (stmt string, ok bool)

	// Distance returns an expression of great-circle distance in
	// kilometers between the point in latCol/lonCol and a point bound as
	// (lat, lat, lon) arguments. ok is false when the backend cannot
	// compute it, callers then rank candidates themselves.
	Distance(latCol, lonCol string) (expr string, ok bool)
}
