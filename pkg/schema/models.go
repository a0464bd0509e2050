// Package schema provides database schema models for gngeo.
// Models are aligned with the GeoNames dump layout. Every model carries
// three tag sets: db (sqlx column names), ddl (portable CREATE TABLE
// fragments) and gorm (PostgreSQL AutoMigrate).
package schema

import (
	"database/sql"
	"strings"
	"time"
)

// DDLGenerator defines how Go models generate DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Record is a row keyed by a GeoNames integer id. Records are written by
// the reconciler in bulk.
type Record interface {
	DDLGenerator

	// Key returns the unique id of the record.
	Key() int64

	// Country returns the ISO country code used by country filters.
	// Records without a country return an empty string.
	Country() string

	// Values returns column values in the order of Columns().
	Values() []any
}

// Place is a geographic feature from the main GeoNames dump.
type Place struct {
	// ID is the GeoNames id.
	ID int64 `db:"id" ddl:"BIGINT PRIMARY KEY" gorm:"column:id;primaryKey;autoIncrement:false"`

	// Name is the name of the place in UTF-8.
	Name string `db:"name" ddl:"VARCHAR(200) NOT NULL DEFAULT ''" gorm:"column:name;type:varchar(200);not null;default:''"`

	// ASCIIName is the name in plain ASCII characters.
	ASCIIName string `db:"ascii_name" ddl:"VARCHAR(200) NOT NULL DEFAULT ''" gorm:"column:ascii_name;type:varchar(200);not null;default:''"`

	// AlternateNames is a comma-separated list of other names.
	AlternateNames string `db:"alternate_names" ddl:"TEXT NOT NULL DEFAULT ''" gorm:"column:alternate_names;type:text;not null;default:''"`

	Latitude  float64 `db:"latitude" ddl:"DOUBLE PRECISION NOT NULL DEFAULT 0" gorm:"column:latitude;not null;default:0"`
	Longitude float64 `db:"longitude" ddl:"DOUBLE PRECISION NOT NULL DEFAULT 0" gorm:"column:longitude;not null;default:0"`

	// FeatureClass is one of A, H, L, P, R, S, T, U, V.
	FeatureClass string `db:"feature_class" ddl:"VARCHAR(1) NOT NULL DEFAULT ''" gorm:"column:feature_class;type:varchar(1);not null;default:''"`

	// FeatureCode is a refinement of the class, for example PPLA or ADM1.
	FeatureCode string `db:"feature_code" ddl:"VARCHAR(10) NOT NULL DEFAULT ''" gorm:"column:feature_code;type:varchar(10);not null;default:''"`

	// CountryCode is ISO-3166 2-letter country code in upper case.
	CountryCode string `db:"country_code" ddl:"VARCHAR(2) NOT NULL DEFAULT ''" gorm:"column:country_code;type:varchar(2);not null;default:''"`

	Admin1Code string `db:"admin1_code" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:admin1_code;type:varchar(20);not null;default:''"`
	Admin2Code string `db:"admin2_code" ddl:"VARCHAR(80) NOT NULL DEFAULT ''" gorm:"column:admin2_code;type:varchar(80);not null;default:''"`
	Admin3Code string `db:"admin3_code" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:admin3_code;type:varchar(20);not null;default:''"`
	Admin4Code string `db:"admin4_code" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:admin4_code;type:varchar(20);not null;default:''"`

	// Admin5Code is not a part of the dump rows, it is kept for admin
	// units of the fifth level.
	Admin5Code string `db:"admin5_code" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:admin5_code;type:varchar(20);not null;default:''"`

	// Population is NULL when the dump has no value.
	Population sql.NullInt64 `db:"population" ddl:"BIGINT" gorm:"column:population"`

	// Elevation in meters, NULL when unknown.
	Elevation sql.NullInt32 `db:"elevation" ddl:"INTEGER" gorm:"column:elevation"`

	// Timezone is the IANA timezone id.
	Timezone string `db:"timezone" ddl:"VARCHAR(40) NOT NULL DEFAULT ''" gorm:"column:timezone;type:varchar(40);not null;default:''"`

	// ModificationDate is the date of the last change in GeoNames.
	ModificationDate sql.NullTime `db:"modification_date" ddl:"DATE" gorm:"column:modification_date;type:date"`

	// IsDeleted marks places removed by a deletion feed. Such places are
	// invisible to every read.
	IsDeleted bool `db:"is_deleted" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:is_deleted;not null;default:false"`
}

// AdminUnit is a synthesized administrative division. The same model is
// stored in one table per level (geo_admin1 ... geo_admin5). Codes deeper
// than the level are empty strings.
type AdminUnit struct {
	// Code is the dot-joined path, for example "IT.09.TO".
	Code string `db:"code" ddl:"VARCHAR(200) PRIMARY KEY" gorm:"column:code;primaryKey;type:varchar(200)"`

	CountryCode string `db:"country_code" ddl:"VARCHAR(2) NOT NULL DEFAULT ''" gorm:"column:country_code;type:varchar(2);not null;default:''"`
	Admin1Code  string `db:"admin1_code" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:admin1_code;type:varchar(20);not null;default:''"`
	Admin2Code  string `db:"admin2_code" ddl:"VARCHAR(80) NOT NULL DEFAULT ''" gorm:"column:admin2_code;type:varchar(80);not null;default:''"`
	Admin3Code  string `db:"admin3_code" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:admin3_code;type:varchar(20);not null;default:''"`
	Admin4Code  string `db:"admin4_code" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:admin4_code;type:varchar(20);not null;default:''"`
	Admin5Code  string `db:"admin5_code" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:admin5_code;type:varchar(20);not null;default:''"`

	Name      string `db:"name" ddl:"VARCHAR(200) NOT NULL DEFAULT ''" gorm:"column:name;type:varchar(200);not null;default:''"`
	ASCIIName string `db:"ascii_name" ddl:"VARCHAR(200) NOT NULL DEFAULT ''" gorm:"column:ascii_name;type:varchar(200);not null;default:''"`

	// PlaceID is the id of the ADMn place the unit was built from.
	// Zero for units loaded from admin code files without an id.
	PlaceID int64 `db:"place_id" ddl:"BIGINT NOT NULL DEFAULT 0" gorm:"column:place_id;not null;default:0"`
}

// HierarchyEdge is an explicit parent-child relation between places.
type HierarchyEdge struct {
	ParentID int64 `db:"parent_id" ddl:"BIGINT NOT NULL" gorm:"column:parent_id;primaryKey;autoIncrement:false"`
	ChildID  int64 `db:"child_id" ddl:"BIGINT NOT NULL" gorm:"column:child_id;primaryKey;autoIncrement:false"`

	// Type is the relation type, "ADM" for administrative ones.
	Type string `db:"type" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:type;primaryKey;type:varchar(20);default:''"`
}

// Country is an entry of the country registry.
type Country struct {
	// Code is ISO-3166 2-letter code.
	Code string `db:"code" ddl:"VARCHAR(2) PRIMARY KEY" gorm:"column:code;primaryKey;type:varchar(2)"`

	Name string `db:"name" ddl:"VARCHAR(200) NOT NULL DEFAULT ''" gorm:"column:name;type:varchar(200);not null;default:''"`

	// Continent is a 2-letter continent code (EU, NA, SA, AS, AF, OC).
	Continent string `db:"continent" ddl:"VARCHAR(2) NOT NULL DEFAULT ''" gorm:"column:continent;type:varchar(2);not null;default:''"`

	// IsEnabled selects the country for synchronization.
	IsEnabled bool `db:"is_enabled" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:is_enabled;not null;default:false"`

	// LastImportedAt is NULL until the first successful import.
	LastImportedAt sql.NullTime `db:"last_imported_at" ddl:"TIMESTAMP" gorm:"column:last_imported_at;type:timestamptz"`
}

// ImportRun is one tracked import operation.
type ImportRun struct {
	// ID is a UUID v4 string.
	ID string `db:"id" ddl:"VARCHAR(36) PRIMARY KEY" gorm:"column:id;primaryKey;type:varchar(36)"`

	// Type names the feed, for example "full" or "daily_delete".
	Type string `db:"type" ddl:"VARCHAR(100) NOT NULL DEFAULT ''" gorm:"column:type;type:varchar(100);not null;default:''"`

	// Status is one of "running", "completed", "failed".
	Status string `db:"status" ddl:"VARCHAR(20) NOT NULL DEFAULT ''" gorm:"column:status;type:varchar(20);not null;default:''"`

	StartedAt time.Time    `db:"started_at" ddl:"TIMESTAMP NOT NULL" gorm:"column:started_at;type:timestamptz;not null"`
	EndedAt   sql.NullTime `db:"ended_at" ddl:"TIMESTAMP" gorm:"column:ended_at;type:timestamptz"`

	RecordsProcessed int64 `db:"records_processed" ddl:"BIGINT NOT NULL DEFAULT 0" gorm:"column:records_processed;not null;default:0"`

	ErrorMessage sql.NullString `db:"error_message" ddl:"TEXT" gorm:"column:error_message;type:text"`

	// Details keeps free-form information such as the source location.
	Details string `db:"details" ddl:"TEXT NOT NULL DEFAULT ''" gorm:"column:details;type:text;not null;default:''"`
}

// AlternateName is a name of a place in some language.
type AlternateName struct {
	ID      int64 `db:"id" ddl:"BIGINT PRIMARY KEY" gorm:"column:id;primaryKey;autoIncrement:false"`
	PlaceID int64 `db:"place_id" ddl:"BIGINT NOT NULL" gorm:"column:place_id;not null"`

	// ISOLanguage is an ISO 639 code or a pseudo code like "post" or "link".
	ISOLanguage string `db:"iso_language" ddl:"VARCHAR(7) NOT NULL DEFAULT ''" gorm:"column:iso_language;type:varchar(7);not null;default:''"`

	Name string `db:"name" ddl:"VARCHAR(400) NOT NULL DEFAULT ''" gorm:"column:name;type:varchar(400);not null;default:''"`

	IsPreferred  bool `db:"is_preferred" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:is_preferred;not null;default:false"`
	IsShort      bool `db:"is_short" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:is_short;not null;default:false"`
	IsColloquial bool `db:"is_colloquial" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:is_colloquial;not null;default:false"`
	IsHistoric   bool `db:"is_historic" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"column:is_historic;not null;default:false"`
}

// Key implements Record.
func (p Place) Key() int64 { return p.ID }

// Country implements Record.
func (p Place) Country() string { return p.CountryCode }

// Values implements Record.
func (p Place) Values() []any {
	return []any{
		p.ID, p.Name, p.ASCIIName, p.AlternateNames,
		p.Latitude, p.Longitude,
		p.FeatureClass, p.FeatureCode, p.CountryCode,
		p.Admin1Code, p.Admin2Code, p.Admin3Code, p.Admin4Code, p.Admin5Code,
		p.Population, p.Elevation, p.Timezone, p.ModificationDate,
		p.IsDeleted,
	}
}

// Key implements Record.
func (a AlternateName) Key() int64 { return a.ID }

// Country implements Record. Alternate names are never country-filtered.
func (a AlternateName) Country() string { return "" }

// Values implements Record.
func (a AlternateName) Values() []any {
	return []any{
		a.ID, a.PlaceID, a.ISOLanguage, a.Name,
		a.IsPreferred, a.IsShort, a.IsColloquial, a.IsHistoric,
	}
}

// Values returns column values in the order of Columns().
func (a AdminUnit) Values() []any {
	return []any{
		a.Code, a.CountryCode,
		a.Admin1Code, a.Admin2Code, a.Admin3Code, a.Admin4Code, a.Admin5Code,
		a.Name, a.ASCIIName, a.PlaceID,
	}
}

// Values returns column values in the order of Columns().
func (e HierarchyEdge) Values() []any {
	return []any{e.ParentID, e.ChildID, e.Type}
}

// AdminCodes returns admin1 to admin5 codes of the place.
func (p Place) AdminCodes() [MaxAdminLevel]string {
	return [MaxAdminLevel]string{
		p.Admin1Code, p.Admin2Code, p.Admin3Code, p.Admin4Code, p.Admin5Code,
	}
}

// AdminLevel returns the level of ADM1..ADM5 places.
func (p Place) AdminLevel() (AdminLevel, bool) {
	fc := p.FeatureCode
	if len(fc) != 4 || !strings.HasPrefix(fc, "ADM") {
		return 0, false
	}
	l := int(fc[3] - '0')
	if l < 1 || l > MaxAdminLevel {
		return 0, false
	}
	return AdminLevel(l), true
}

// Level is the number of admin components in the unit code.
func (a AdminUnit) Level() AdminLevel {
	return AdminLevel(strings.Count(a.Code, "."))
}
