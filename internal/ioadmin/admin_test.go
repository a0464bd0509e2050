package ioadmin_test

import (
	"context"
	"testing"

	"github.com/gnames/gngeo/internal/ioadmin"
	"github.com/gnames/gngeo/internal/iotesting"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (db.Operator, *ioadmin.Synthesizer) {
	t.Helper()
	op := iotesting.NewSQLite(t)
	cfg := config.DatabaseConfig{ChunkSize: 2, BatchSize: 3}
	return op, ioadmin.New(op, &cfg)
}

func units(t *testing.T, op db.Operator, l schema.AdminLevel) []schema.AdminUnit {
	t.Helper()
	var res []schema.AdminUnit
	require.NoError(t, op.DB().Select(&res,
		"SELECT * FROM "+l.TableName()+" ORDER BY code"))
	return res
}

func unitByCode(t *testing.T, us []schema.AdminUnit, code string) schema.AdminUnit {
	t.Helper()
	for _, u := range us {
		if u.Code == code {
			return u
		}
	}
	t.Fatalf("admin unit %s not found", code)
	return schema.AdminUnit{}
}

func TestUnitFromPlace(t *testing.T) {
	places := iotesting.ItalyPlaces()
	tests := []struct {
		msg   string
		place schema.Place
		code  string
		level schema.AdminLevel
		ok    bool
	}{
		{"ADM1", places[1], "IT.09", 1, true},
		{"ADM2", places[2], "IT.09.TO", 2, true},
		{"populated place", places[3], "", 0, false},
		{"country", places[0], "", 0, false},
		{"missing component", schema.Place{
			CountryCode: "IT", FeatureCode: "ADM2", Admin2Code: "TO"},
			"", 0, false},
		{"deleted", schema.Place{
			CountryCode: "IT", FeatureCode: "ADM1", Admin1Code: "09",
			IsDeleted: true},
			"", 0, false},
	}

	for _, tt := range tests {
		u, l, ok := ioadmin.UnitFromPlace(tt.place)
		assert.Equal(t, tt.ok, ok, tt.msg)
		assert.Equal(t, tt.level, l, tt.msg)
		assert.Equal(t, tt.code, u.Code, tt.msg)
	}

	u, _, _ := ioadmin.UnitFromPlace(places[2])
	assert.Equal(t, "IT", u.CountryCode)
	assert.Equal(t, "09", u.Admin1Code)
	assert.Equal(t, "TO", u.Admin2Code)
	assert.Empty(t, u.Admin3Code)
	assert.Equal(t, "Torino", u.Name)
	assert.Equal(t, iotesting.TorinoID, u.PlaceID)
}

func TestSyncFromBatch(t *testing.T) {
	ctx := context.Background()
	op, s := setup(t)

	n, err := s.SyncFromBatch(ctx, iotesting.ItalyPlaces())
	require.NoError(t, err)
	// Piemonte, Lombardia, Torino, Milano, Circoscrizione 1 is ADM5 but
	// lacks admin4
	assert.Equal(t, 4, n)

	adm2 := units(t, op, 2)
	require.Len(t, adm2, 2)
	assert.Equal(t, "Torino", unitByCode(t, adm2, "IT.09.TO").Name)
	assert.Equal(t, "Milano", unitByCode(t, adm2, "IT.10.MI").Name)

	// the last place per code wins
	p := iotesting.ItalyPlaces()[2]
	renamed := p
	renamed.Name = "Città metropolitana di Torino"
	_, err = s.SyncFromBatch(ctx, []schema.Place{p, renamed})
	require.NoError(t, err)
	adm2 = units(t, op, 2)
	require.Len(t, adm2, 2)
	assert.Equal(t, renamed.Name, unitByCode(t, adm2, "IT.09.TO").Name)
}

func TestSyncFromStoreMatchesBatch(t *testing.T) {
	ctx := context.Background()
	places := iotesting.ItalyPlaces()

	opBatch, batch := setup(t)
	_, err := batch.SyncFromBatch(ctx, places)
	require.NoError(t, err)

	opStore, store := setup(t)
	iotesting.InsertPlaces(t, opStore, places)
	n, err := store.SyncFromStore(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, l := range schema.AdminLevels() {
		assert.Equal(t, units(t, opBatch, l), units(t, opStore, l), l.TableName())
	}
}

func TestSyncFromStoreFilters(t *testing.T) {
	ctx := context.Background()
	op, s := setup(t)
	places := iotesting.ItalyPlaces()
	places[5].IsDeleted = true // Lombardia
	iotesting.InsertPlaces(t, op, places)

	n, err := s.SyncFromStore(ctx, []string{"FR"})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.SyncFromStore(ctx, []string{"IT"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	adm1 := units(t, op, 1)
	require.Len(t, adm1, 1)
	assert.Equal(t, "IT.09", adm1[0].Code)
}

func TestImportAdminCodes(t *testing.T) {
	ctx := context.Background()
	op, s := setup(t)
	in := []schema.AdminUnit{
		{Code: "IT.09", CountryCode: "IT", Admin1Code: "09", Name: "Piedmont",
			ASCIIName: "Piedmont", PlaceID: iotesting.PiemonteID},
		{Code: "IT.09.TO", CountryCode: "IT", Admin1Code: "09",
			Admin2Code: "TO", Name: "Turin", ASCIIName: "Turin"},
		{Code: "IT", CountryCode: "IT"},
	}
	n, err := s.ImportAdminCodes(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, in[:1], units(t, op, 1))
	assert.Equal(t, in[1:2], units(t, op, 2))
}
