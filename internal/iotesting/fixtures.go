package iotesting

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/stretchr/testify/require"
)

// Ids of fixture places.
const (
	ItalyID      int64 = 3175395
	PiemonteID   int64 = 3170831
	TorinoID     int64 = 3165523
	TurinID      int64 = 3165524
	MoncalieriID int64 = 3173331
	LombardiaID  int64 = 3174618
	MilanoID     int64 = 3173434
	MilanID      int64 = 3173435
	ParisID      int64 = 2988507
	SuvaID       int64 = 2198148
	ApiaID       int64 = 4035413

	// CircoscrizioneID is a sub-municipal unit reachable only through
	// hierarchy edges.
	CircoscrizioneID int64 = 9000001
)

func pop(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

// ItalyPlaces returns a small gazetteer around Turin with a few places
// elsewhere for geographic and country filters.
func ItalyPlaces() []schema.Place {
	return []schema.Place{
		{
			ID: ItalyID, Name: "Italy", ASCIIName: "Italy",
			AlternateNames: "Italia,Italie,Italien",
			Latitude:       42.83333, Longitude: 12.83333,
			FeatureClass: "A", FeatureCode: "PCLI", CountryCode: "IT",
			Population: pop(60_340_328), Timezone: "Europe/Rome",
		},
		{
			ID: PiemonteID, Name: "Piemonte", ASCIIName: "Piemonte",
			AlternateNames: "Piedmont,Piemont",
			Latitude:       45.0, Longitude: 8.0,
			FeatureClass: "A", FeatureCode: "ADM1", CountryCode: "IT",
			Admin1Code: "09", Population: pop(4_400_000),
			Timezone: "Europe/Rome",
		},
		{
			ID: TorinoID, Name: "Torino", ASCIIName: "Torino",
			AlternateNames: "Provincia di Torino,Turin",
			Latitude:       45.13333, Longitude: 7.36667,
			FeatureClass: "A", FeatureCode: "ADM2", CountryCode: "IT",
			Admin1Code: "09", Admin2Code: "TO", Population: pop(2_200_000),
			Timezone: "Europe/Rome",
		},
		{
			ID: TurinID, Name: "Turin", ASCIIName: "Turin",
			AlternateNames: "Torino,Turijn,Turim",
			Latitude:       45.07049, Longitude: 7.68682,
			FeatureClass: "P", FeatureCode: "PPLA", CountryCode: "IT",
			Admin1Code: "09", Admin2Code: "TO", Admin3Code: "001272",
			Population: pop(870_456), Timezone: "Europe/Rome",
		},
		{
			ID: MoncalieriID, Name: "Moncalieri", ASCIIName: "Moncalieri",
			Latitude: 44.99958, Longitude: 7.68392,
			FeatureClass: "P", FeatureCode: "PPL", CountryCode: "IT",
			Admin1Code: "09", Admin2Code: "TO", Admin3Code: "001156",
			Population: pop(57_000), Timezone: "Europe/Rome",
		},
		{
			ID: LombardiaID, Name: "Lombardia", ASCIIName: "Lombardia",
			AlternateNames: "Lombardy",
			Latitude:       45.66667, Longitude: 9.5,
			FeatureClass: "A", FeatureCode: "ADM1", CountryCode: "IT",
			Admin1Code: "10", Population: pop(10_000_000),
			Timezone: "Europe/Rome",
		},
		{
			ID: MilanoID, Name: "Milano", ASCIIName: "Milano",
			Latitude: 45.46, Longitude: 9.19,
			FeatureClass: "A", FeatureCode: "ADM2", CountryCode: "IT",
			Admin1Code: "10", Admin2Code: "MI", Timezone: "Europe/Rome",
		},
		{
			ID: MilanID, Name: "Milan", ASCIIName: "Milan",
			AlternateNames: "Milano,Mailand",
			Latitude:       45.46427, Longitude: 9.18951,
			FeatureClass: "P", FeatureCode: "PPLA", CountryCode: "IT",
			Admin1Code: "10", Admin2Code: "MI", Admin3Code: "015146",
			Population: pop(1_371_498), Timezone: "Europe/Rome",
		},
		{
			ID: ParisID, Name: "Paris", ASCIIName: "Paris",
			AlternateNames: "Parigi,Parijs",
			Latitude:       48.85341, Longitude: 2.3488,
			FeatureClass: "P", FeatureCode: "PPLC", CountryCode: "FR",
			Admin1Code: "11", Admin2Code: "75",
			Population: pop(2_138_551), Timezone: "Europe/Paris",
		},
		{
			ID: SuvaID, Name: "Suva", ASCIIName: "Suva",
			Latitude: -18.14161, Longitude: 178.44149,
			FeatureClass: "P", FeatureCode: "PPLC", CountryCode: "FJ",
			Admin1Code: "01", Population: pop(77_366),
			Timezone: "Pacific/Fiji",
		},
		{
			ID: ApiaID, Name: "Apia", ASCIIName: "Apia",
			Latitude: -13.83333, Longitude: -171.76666,
			FeatureClass: "P", FeatureCode: "PPLC", CountryCode: "WS",
			Admin1Code: "11", Population: pop(40_407),
			Timezone: "Pacific/Apia",
		},
		{
			ID: CircoscrizioneID, Name: "Circoscrizione 1",
			ASCIIName: "Circoscrizione 1",
			Latitude:  45.07, Longitude: 7.68,
			FeatureClass: "A", FeatureCode: "ADM5", CountryCode: "IT",
			Admin1Code: "09", Admin2Code: "TO", Admin3Code: "001272",
			Admin5Code: "1", Timezone: "Europe/Rome",
		},
	}
}

// ItalyEdges links fixture places from the country down to the
// sub-municipal unit.
func ItalyEdges() []schema.HierarchyEdge {
	return []schema.HierarchyEdge{
		{ParentID: ItalyID, ChildID: PiemonteID, Type: "ADM"},
		{ParentID: PiemonteID, ChildID: TorinoID, Type: "ADM"},
		{ParentID: TorinoID, ChildID: TurinID, Type: "ADM"},
		{ParentID: TurinID, ChildID: CircoscrizioneID, Type: "ADM"},
	}
}

// InsertPlaces writes places row by row, bypassing the reconciler.
func InsertPlaces(t *testing.T, op db.Operator, places []schema.Place) {
	t.Helper()
	insertNamed(t, op, schema.Place{}.TableName(), schema.Columns(schema.Place{}), places)
}

// InsertEdges writes hierarchy edges row by row.
func InsertEdges(t *testing.T, op db.Operator, edges []schema.HierarchyEdge) {
	t.Helper()
	insertNamed(t, op, schema.HierarchyEdge{}.TableName(),
		schema.Columns(schema.HierarchyEdge{}), edges)
}

// InsertAdminUnits writes admin units of a level row by row.
func InsertAdminUnits(
	t *testing.T,
	op db.Operator,
	level schema.AdminLevel,
	units []schema.AdminUnit,
) {
	t.Helper()
	insertNamed(t, op, level.TableName(), schema.Columns(schema.AdminUnit{}), units)
}

func insertNamed[T any](
	t *testing.T,
	op db.Operator,
	table string,
	cols []string,
	rows []T,
) {
	t.Helper()
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)",
		table, strings.Join(cols, ", "), strings.Join(cols, ", :"))
	for _, r := range rows {
		_, err := op.DB().NamedExecContext(context.Background(), q, r)
		require.NoError(t, err)
	}
}
