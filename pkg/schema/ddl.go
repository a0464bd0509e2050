package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// MaxAdminLevel is the deepest synthesized administrative level.
const MaxAdminLevel = 5

// FullTextColumns make the full-text document of a place.
var FullTextColumns = []string{"name", "ascii_name", "alternate_names"}

// generateDDL creates a CREATE TABLE statement from struct tags.
// Constraints are appended after the column definitions.
func generateDDL(model any, tableName string, constraints ...string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}
	for _, c := range constraints {
		columns = append(columns, "    "+c)
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Columns returns column names of a model in field order.
func Columns(model any) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var res []string
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("db"); tag != "" && tag != "-" {
			res = append(res, tag)
		}
	}
	return res
}

// ColumnTypes returns SQL types of columns in the order of Columns().
// The type is the ddl tag without constraints.
func ColumnTypes(model any) []string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var res []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if tag := f.Tag.Get("db"); tag == "" || tag == "-" {
			continue
		}
		res = append(res, sqlType(f.Tag.Get("ddl")))
	}
	return res
}

func sqlType(ddl string) string {
	for _, kw := range []string{" NOT NULL", " PRIMARY KEY", " DEFAULT", " NULL"} {
		if i := strings.Index(ddl, kw); i >= 0 {
			ddl = ddl[:i]
		}
	}
	return strings.TrimSpace(ddl)
}

func index(table, suffix string, cols ...string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s);",
		table, suffix, table, strings.Join(cols, ", "),
	)
}

// Place DDL methods
func (p Place) TableDDL() string {
	return generateDDL(p, p.TableName())
}

func (p Place) IndexDDL() []string {
	t := p.TableName()
	return []string{
		index(t, "name", "name"),
		index(t, "ascii_name", "ascii_name"),
		index(t, "country_fcode", "country_code", "feature_code"),
		index(t, "admin", "country_code", "admin1_code", "admin2_code",
			"admin3_code", "admin4_code"),
		index(t, "coords", "latitude", "longitude"),
		index(t, "population", "population"),
		index(t, "is_deleted", "is_deleted"),
	}
}

func (p Place) TableName() string {
	return "geo_places"
}

// AdminLevel selects one of the admin unit tables.
type AdminLevel int

// AdminLevel DDL methods
func (l AdminLevel) TableDDL() string {
	return generateDDL(AdminUnit{}, l.TableName())
}

func (l AdminLevel) IndexDDL() []string {
	t := l.TableName()
	cols := []string{"country_code"}
	for i := 1; i <= int(l) && i <= MaxAdminLevel; i++ {
		cols = append(cols, fmt.Sprintf("admin%d_code", i))
	}
	return []string{
		index(t, "path", cols...),
		index(t, "place_id", "place_id"),
	}
}

func (l AdminLevel) TableName() string {
	return fmt.Sprintf("geo_admin%d", l)
}

// AdminLevels returns levels 1 to MaxAdminLevel.
func AdminLevels() []AdminLevel {
	res := make([]AdminLevel, MaxAdminLevel)
	for i := range res {
		res[i] = AdminLevel(i + 1)
	}
	return res
}

// HierarchyEdge DDL methods
func (e HierarchyEdge) TableDDL() string {
	return generateDDL(e, e.TableName(),
		"PRIMARY KEY (parent_id, child_id, type)")
}

func (e HierarchyEdge) IndexDDL() []string {
	return []string{
		index(e.TableName(), "child", "child_id"),
	}
}

func (e HierarchyEdge) TableName() string {
	return "geo_hierarchy"
}

// Country DDL methods
func (c Country) TableDDL() string {
	return generateDDL(c, c.TableName())
}

func (c Country) IndexDDL() []string {
	return []string{
		index(c.TableName(), "enabled", "is_enabled"),
	}
}

func (c Country) TableName() string {
	return "geo_countries"
}

// ImportRun DDL methods
func (r ImportRun) TableDDL() string {
	return generateDDL(r, r.TableName())
}

func (r ImportRun) IndexDDL() []string {
	return []string{
		index(r.TableName(), "started_at", "started_at"),
	}
}

func (r ImportRun) TableName() string {
	return "geo_imports"
}

// AlternateName DDL methods
func (a AlternateName) TableDDL() string {
	return generateDDL(a, a.TableName())
}

func (a AlternateName) IndexDDL() []string {
	t := a.TableName()
	return []string{
		index(t, "place", "place_id"),
		index(t, "lang", "iso_language", "name"),
	}
}

func (a AlternateName) TableName() string {
	return "geo_alternate_names"
}
