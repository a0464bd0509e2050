package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gngeo/internal/iotesting"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useStore points the global config to a fresh SQLite file with the
// schema created.
func useStore(t *testing.T) {
	t.Helper()
	cfg = iotesting.Config(t)
	cfg.Update([]config.Option{
		config.OptDatabaseSQLitePath(filepath.Join(t.TempDir(), "gngeo.db")),
	})
	require.NoError(t, runCreate(true))
}

func placesFile(t *testing.T) string {
	t.Helper()
	var lines []string
	for _, p := range iotesting.ItalyPlaces() {
		pop := ""
		if p.Population.Valid {
			pop = fmt.Sprint(p.Population.Int64)
		}
		f := []string{
			fmt.Sprint(p.ID), p.Name, p.ASCIIName, p.AlternateNames,
			fmt.Sprint(p.Latitude), fmt.Sprint(p.Longitude),
			p.FeatureClass, p.FeatureCode, p.CountryCode, "",
			p.Admin1Code, p.Admin2Code, p.Admin3Code, p.Admin4Code,
			pop, "", "", p.Timezone, "2026-10-01",
		}
		lines = append(lines, strings.Join(f, "\t"))
	}
	path := filepath.Join(t.TempDir(), "IT.txt")
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), args)
	return buf.String()
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var res T
	require.NoError(t, gnfmt.GNjson{}.Decode([]byte(s), &res))
	return res
}

func placeNames(places []search.Place) []string {
	res := make([]string, len(places))
	for i, p := range places {
		res[i] = p.Name
	}
	return res
}

func TestCreateAndMigrate(t *testing.T) {
	useStore(t)
	ctx := context.Background()

	op, err := connectSchema(ctx)
	require.NoError(t, err)
	op.Close()

	require.NoError(t, runCreate(true))
	require.NoError(t, runMigrate())
}

func TestConnectSchemaEmpty(t *testing.T) {
	cfg = iotesting.Config(t)
	cfg.Update([]config.Option{
		config.OptDatabaseSQLitePath(filepath.Join(t.TempDir(), "empty.db")),
	})
	_, err := connectSchema(context.Background())
	assert.Error(t, err)
}

func TestCountriesCommands(t *testing.T) {
	useStore(t)

	require.NoError(t, runCountriesEnable([]string{"it", "FR"}, ""))
	require.NoError(t, runCountriesDisable([]string{"FR"}))
	assert.Error(t, runCountriesEnable([]string{"XX"}, ""))
	assert.Error(t, runCountriesEnable(nil, ""))

	out := execute(t, getCountriesListCmd(), "--enabled")
	countries := decode[[]countryView](t, out)
	require.Len(t, countries, 1)
	assert.Equal(t, "IT", countries[0].Code)
	assert.Equal(t, "Italy", countries[0].Name)
	assert.Equal(t, "EU", countries[0].Continent)
	assert.Nil(t, countries[0].LastImportedAt)

	out = execute(t, getCountriesListCmd())
	assert.Len(t, decode[[]countryView](t, out), 2)

	require.NoError(t, runCountriesEnable(nil, "oc"))
	out = execute(t, getCountriesListCmd(), "-e")
	codes := decode[[]countryView](t, out)
	assert.Greater(t, len(codes), 10)
}

func TestImportAndQueryCommands(t *testing.T) {
	useStore(t)

	out := execute(t, getImportCmd(), "places", placesFile(t), "--countries", "IT")
	stats := decode[statsView](t, out)
	total := int64(len(iotesting.ItalyPlaces()))
	assert.Equal(t, total, stats.Processed)
	assert.Equal(t, total-3, stats.Inserted)
	assert.Equal(t, int64(3), stats.Skipped)

	out = execute(t, getSearchCmd(), "Monc", "--countries", "IT")
	assert.Equal(t, []string{"Moncalieri"},
		placeNames(decode[[]search.Place](t, out)))

	out = execute(t, getSearchCmd(), "--near", "45.07,7.68", "--classes", "P", "-l", "2")
	near := decode[[]search.Place](t, out)
	assert.Equal(t, []string{"Turin", "Moncalieri"}, placeNames(near))
	require.NotNil(t, near[0].DistanceKm)

	out = execute(t, getSearchCmd(), "--children", "IT.09.TO", "--classes", "P")
	assert.Equal(t, []string{"Turin", "Moncalieri"},
		placeNames(decode[[]search.Place](t, out)))

	out = execute(t, getSearchCmd(), "--bbox", "45.2,7.8,44.9,7.5", "--classes", "P")
	assert.Equal(t, []string{"Turin", "Moncalieri"},
		placeNames(decode[[]search.Place](t, out)))

	out = execute(t, getSearchCmd(), "--id", strconv.FormatInt(iotesting.TurinID, 10))
	assert.Equal(t, "Turin", decode[search.Place](t, out).Name)

	out = execute(t, getAncestorsCmd(), strconv.FormatInt(iotesting.TurinID, 10), "--self")
	assert.Equal(t, []string{"Italy", "Piemonte", "Torino", "Turin"},
		placeNames(decode[[]search.Place](t, out)))

	out = execute(t, getImportsCmd(), "--limit", "5")
	runs := decode[[]runView](t, out)
	require.Len(t, runs, 1)
	assert.Equal(t, "full", runs[0].Type)
	assert.Equal(t, "completed", runs[0].Status)
	assert.Equal(t, total, runs[0].RecordsProcessed)
	assert.NotNil(t, runs[0].EndedAt)

	require.NoError(t, runAdminRebuild([]string{"IT"}))
}

func TestRemoveCommand(t *testing.T) {
	useStore(t)
	execute(t, getImportCmd(), "places", placesFile(t))
	require.NoError(t, runCountriesEnable([]string{"IT"}, ""))

	require.NoError(t, runRemove("IT", false, true))
	out := execute(t, getSearchCmd(), "Turin", "--countries", "IT")
	assert.Empty(t, decode[[]search.Place](t, out))

	require.NoError(t, runRemove("IT", true, true))
	op, err := connect(context.Background())
	require.NoError(t, err)
	var n int
	require.NoError(t, op.DB().Get(&n,
		op.DB().Rebind("SELECT count(*) FROM "+schema.Place{}.TableName()+
			" WHERE country_code = ?"), "IT"))
	assert.Zero(t, n)
	require.NoError(t, op.Close())

	assert.Error(t, runRemove("XX", false, true))
	require.NoError(t, runOptimize())
}

func TestViews(t *testing.T) {
	c := newCountryView(schema.Country{Code: "IT", Name: "Italy", IsEnabled: true})
	assert.Nil(t, c.LastImportedAt)
	assert.True(t, c.Enabled)

	r := newRunView(schema.ImportRun{ID: "1", Type: "full", Status: "running"})
	assert.Nil(t, r.EndedAt)
	assert.Empty(t, r.Error)
}
