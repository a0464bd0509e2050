package iohierarchy_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iohierarchy"
	"github.com/gnames/gngeo/internal/iotesting"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...config.Option) (db.Operator, *iohierarchy.Resolver) {
	t.Helper()
	op := iotesting.NewSQLite(t)
	iotesting.InsertPlaces(t, op, iotesting.ItalyPlaces())
	iotesting.InsertEdges(t, op, iotesting.ItalyEdges())
	cfg := iotesting.Config(t)
	cfg.Update(opts)
	return op, iohierarchy.New(op, cfg)
}

func names(places []search.Place) []string {
	res := make([]string, len(places))
	for i, p := range places {
		res[i] = p.Name
	}
	return res
}

func TestAncestors(t *testing.T) {
	_, r := setup(t)
	ctx := context.Background()

	tests := []struct {
		msg  string
		id   int64
		self bool
		res  []string
	}{
		{"populated place", iotesting.TurinID, false,
			[]string{"Italy", "Piemonte", "Torino"}},
		{"populated place with self", iotesting.MoncalieriID, true,
			[]string{"Italy", "Piemonte", "Torino", "Moncalieri"}},
		{"adm2", iotesting.TorinoID, false, []string{"Italy", "Piemonte"}},
		{"adm1", iotesting.LombardiaID, false, []string{"Italy"}},
		{"country", iotesting.ItalyID, false, []string{}},
		{"country with self", iotesting.ItalyID, true, []string{"Italy"}},
		{"sub-municipal unit by edges", iotesting.CircoscrizioneID, false,
			[]string{"Italy", "Piemonte", "Torino", "Turin"}},
		{"no ancestors stored", iotesting.ParisID, false, []string{}},
	}

	for _, v := range tests {
		res, err := r.Ancestors(ctx, v.id, v.self)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.res, names(res), v.msg)
	}
}

func TestAncestorsMaxDepth(t *testing.T) {
	_, r := setup(t, config.OptHierarchyMaxDepth(2))
	res, err := r.Ancestors(context.Background(), iotesting.CircoscrizioneID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Torino", "Turin"}, names(res))
}

func TestAncestorsDeleted(t *testing.T) {
	op, r := setup(t)
	ctx := context.Background()

	_, err := op.DB().Exec(
		"UPDATE geo_places SET is_deleted = ? WHERE id IN (?, ?)",
		true, iotesting.PiemonteID, iotesting.MilanID,
	)
	require.NoError(t, err)

	res, err := r.Ancestors(ctx, iotesting.TurinID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Italy", "Torino"}, names(res))

	res, err = r.Ancestors(ctx, iotesting.CircoscrizioneID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Italy", "Torino", "Turin"}, names(res))

	for _, id := range []int64{iotesting.MilanID, 42} {
		_, err = r.Ancestors(ctx, id, false)
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr)
		assert.ErrorIs(t, gnErr.Err, iohierarchy.ErrPlaceNotFound)
	}
}

func TestChildren(t *testing.T) {
	_, r := setup(t)
	ctx := context.Background()

	tests := []struct {
		msg   string
		id    int64
		class string
		limit int
		res   []string
	}{
		{"country", iotesting.ItalyID, "", 0,
			[]string{"Milan", "Turin", "Moncalieri"}},
		{"adm1", iotesting.PiemonteID, "p", 0,
			[]string{"Turin", "Moncalieri"}},
		{"adm2 divisions", iotesting.TorinoID, "A", 0,
			[]string{"Circoscrizione 1"}},
		{"place by edges", iotesting.TurinID, "A", 0,
			[]string{"Circoscrizione 1"}},
		{"limit", iotesting.ItalyID, "P", 1, []string{"Milan"}},
		{"nothing", iotesting.ParisID, "", 0, []string{}},
	}

	for _, v := range tests {
		res, err := r.Children(ctx, v.id, v.class, v.limit)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.res, names(res), v.msg)
	}

	_, err := r.Children(ctx, 42, "", 0)
	assert.Error(t, err)
}
