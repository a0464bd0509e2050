package ioreconcile_test

import (
	"context"
	"testing"

	"github.com/gnames/gngeo/internal/ioreconcile"
	"github.com/gnames/gngeo/internal/iotesting"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, chunk int) (db.Operator, *ioreconcile.Reconciler) {
	t.Helper()
	op := iotesting.NewSQLite(t)
	r := ioreconcile.New(op, &config.DatabaseConfig{ChunkSize: chunk})
	return op, r
}

func count(t *testing.T, op db.Operator, q string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, op.DB().Get(&n, op.DB().Rebind(q), args...))
	return n
}

func TestReconcileInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	op, r := setup(t, 3)
	places := iotesting.ItalyPlaces()

	res, err := r.Reconcile(ctx, places, nil)
	require.NoError(t, err)
	assert.Equal(t, len(places), res.Inserted)
	assert.Zero(t, res.Updated)
	assert.Equal(t, len(places), res.Total())
	assert.Equal(t, len(places), count(t, op, "SELECT count(*) FROM geo_places"))

	// the same batch again changes nothing but is counted as updates
	res, err = r.Reconcile(ctx, places, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Inserted)
	assert.Equal(t, len(places), res.Updated)
	assert.Equal(t, len(places), count(t, op, "SELECT count(*) FROM geo_places"))

	places[3].Name = "Torino"
	places[3].Population.Int64 = 848_885
	res, err = r.Reconcile(ctx, places[3:4], nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	var got schema.Place
	require.NoError(t, op.DB().Get(&got,
		op.DB().Rebind("SELECT * FROM geo_places WHERE id = ?"), iotesting.TurinID))
	assert.Equal(t, "Torino", got.Name)
	assert.Equal(t, int64(848_885), got.Population.Int64)
	assert.Equal(t, "001272", got.Admin3Code)
}

func TestReconcileAccounting(t *testing.T) {
	ctx := context.Background()
	_, r := setup(t, 2)
	places := iotesting.ItalyPlaces()

	_, err := r.Reconcile(ctx, places[:4], nil)
	require.NoError(t, err)

	batch := append(places, places[5]) // duplicate id
	res, err := r.Reconcile(ctx, batch, []string{"IT"})
	require.NoError(t, err)
	assert.Equal(t, len(batch), res.Total())
	assert.Equal(t, 4, res.Updated)

	var foreign int
	for _, p := range batch {
		if p.CountryCode != "IT" {
			foreign++
		}
	}
	assert.Equal(t, foreign+1, res.Skipped)
	assert.Equal(t, len(batch)-4-foreign-1, res.Inserted)
}

func TestReconcileLastWins(t *testing.T) {
	ctx := context.Background()
	op, r := setup(t, 500)
	p := iotesting.ItalyPlaces()[3]
	first, last := p, p
	first.Name = "First"
	last.Name = "Last"

	res, err := r.Reconcile(ctx, []schema.Place{first, last}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Skipped)

	var name string
	require.NoError(t, op.DB().Get(&name,
		op.DB().Rebind("SELECT name FROM geo_places WHERE id = ?"), p.ID))
	assert.Equal(t, "Last", name)
}

func TestReconcileCountryFilter(t *testing.T) {
	ctx := context.Background()
	op, r := setup(t, 500)

	res, err := r.Reconcile(ctx, iotesting.ItalyPlaces(), []string{"FR"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, count(t, op,
		"SELECT count(*) FROM geo_places WHERE country_code = ?", "FR"))
	assert.Equal(t, 0, count(t, op,
		"SELECT count(*) FROM geo_places WHERE country_code = ?", "IT"))
}

func TestReconcileEmpty(t *testing.T) {
	_, r := setup(t, 500)
	res, err := r.Reconcile(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Total())
}

func TestProcessDeletes(t *testing.T) {
	ctx := context.Background()
	op, r := setup(t, 2)
	places := iotesting.ItalyPlaces()
	_, err := r.Reconcile(ctx, places, nil)
	require.NoError(t, err)

	ids := []int64{iotesting.TurinID, iotesting.MilanID, iotesting.TurinID, 42}
	n, err := r.ProcessDeletes(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, count(t, op,
		"SELECT count(*) FROM geo_places WHERE is_deleted = ?", true))
	assert.Equal(t, "Turin", nameOf(t, op, iotesting.TurinID))

	// a re-imported place is restored
	_, err = r.Reconcile(ctx, places[3:4], nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, op,
		"SELECT count(*) FROM geo_places WHERE is_deleted = ?", true))
}

func TestHardDelete(t *testing.T) {
	ctx := context.Background()
	op, r := setup(t, 500)
	places := iotesting.ItalyPlaces()
	_, err := r.Reconcile(ctx, places, nil)
	require.NoError(t, err)

	n, err := r.HardDelete(ctx, []int64{iotesting.ParisID, 7})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, len(places)-1, count(t, op, "SELECT count(*) FROM geo_places"))

	n, err = r.HardDelete(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAlternateNames(t *testing.T) {
	ctx := context.Background()
	op, r := setup(t, 500)
	names := []schema.AlternateName{
		{ID: 1, PlaceID: iotesting.TurinID, ISOLanguage: "it", Name: "Torino",
			IsPreferred: true},
		{ID: 2, PlaceID: iotesting.TurinID, ISOLanguage: "nl", Name: "Turijn"},
	}
	res, err := r.ReconcileAlternateNames(ctx, names)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	names[1].Name = "Turijn (stad)"
	res, err = r.ReconcileAlternateNames(ctx, names[1:])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	n, err := r.DeleteAlternateNames(ctx, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, count(t, op, "SELECT count(*) FROM geo_alternate_names"))
}

func TestInsertEdges(t *testing.T) {
	ctx := context.Background()
	op, r := setup(t, 2)
	edges := iotesting.ItalyEdges()

	n, err := r.InsertEdges(ctx, edges)
	require.NoError(t, err)
	assert.Equal(t, len(edges), n)

	n, err = r.InsertEdges(ctx, edges)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, len(edges), count(t, op, "SELECT count(*) FROM geo_hierarchy"))
}

func nameOf(t *testing.T, op db.Operator, id int64) string {
	t.Helper()
	var name string
	require.NoError(t, op.DB().Get(&name,
		op.DB().Rebind("SELECT name FROM geo_places WHERE id = ?"), id))
	return name
}
