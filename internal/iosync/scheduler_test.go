package iosync_test

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gnames/gngeo/internal/iocountry"
	"github.com/gnames/gngeo/internal/iosync"
	"github.com/gnames/gngeo/internal/iotesting"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 18, 10, 30, 0, 0, time.UTC)

func stamp(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

// fakeImporter records imported sources and fails locations listed in
// fail.
type fakeImporter struct {
	mu      sync.Mutex
	sources []lifecycle.Source
	filters [][]string
	fail    map[string]bool
}

func (f *fakeImporter) record(src lifecycle.Source, filter []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, src)
	f.filters = append(f.filters, filter)
	if f.fail[src.Location] {
		return errors.New("fetch failed")
	}
	return nil
}

func (f *fakeImporter) locations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]string, len(f.sources))
	for i, s := range f.sources {
		res[i] = s.Location
	}
	slices.Sort(res)
	return res
}

func (f *fakeImporter) ImportPlaces(
	_ context.Context, src lifecycle.Source, countries []string,
) (lifecycle.ImportStats, error) {
	return lifecycle.ImportStats{}, f.record(src, countries)
}

func (f *fakeImporter) ImportDeletes(
	_ context.Context, src lifecycle.Source,
) (lifecycle.ImportStats, error) {
	return lifecycle.ImportStats{}, f.record(src, nil)
}

func (f *fakeImporter) ImportAlternateNames(
	_ context.Context, src lifecycle.Source, languages []string,
) (lifecycle.ImportStats, error) {
	return lifecycle.ImportStats{}, f.record(src, languages)
}

func (f *fakeImporter) ImportAlternateDeletes(
	_ context.Context, src lifecycle.Source,
) (lifecycle.ImportStats, error) {
	return lifecycle.ImportStats{}, f.record(src, nil)
}

func (f *fakeImporter) ImportHierarchy(
	_ context.Context, src lifecycle.Source,
) (lifecycle.ImportStats, error) {
	return lifecycle.ImportStats{}, f.record(src, nil)
}

func (f *fakeImporter) ImportAdminCodes(
	_ context.Context, src lifecycle.Source,
) (lifecycle.ImportStats, error) {
	return lifecycle.ImportStats{}, f.record(src, nil)
}

type fakeCache struct{ invalidated int }

func (c *fakeCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (c *fakeCache) Set(context.Context, string, any, time.Duration) error { return nil }

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidated++
	return nil
}

func TestPlan(t *testing.T) {
	s := iosync.New(config.New(), nil, nil)
	local := time.FixedZone("UTC+9", 9*3600)

	countries := []schema.Country{
		{Code: "AA", IsEnabled: true},
		{Code: "BB", IsEnabled: true, LastImportedAt: stamp(now.AddDate(0, 0, -2))},
		{Code: "CC", IsEnabled: true, LastImportedAt: stamp(now)},
		{Code: "DD", IsEnabled: true, LastImportedAt: stamp(now.AddDate(0, 0, -1))},
		// 23:59 two days ago is still two days ago
		{Code: "EE", IsEnabled: true, LastImportedAt: stamp(
			time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC))},
		// the same instant is already the 17th in UTC+9
		{Code: "FF", IsEnabled: true, LastImportedAt: stamp(
			time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC).In(local))},
		{Code: "GG", IsEnabled: false},
	}

	plan := s.Plan(countries, now)
	assert.Equal(t, map[string]lifecycle.SyncMode{
		"AA": lifecycle.NeedsFull,
		"BB": lifecycle.NeedsFull,
		"CC": lifecycle.NeedsDaily,
		"DD": lifecycle.NeedsDaily,
		"EE": lifecycle.NeedsFull,
		"FF": lifecycle.NeedsDaily,
	}, plan)
	assert.Equal(t, "NEEDS_FULL", lifecycle.NeedsFull.String())
	assert.Equal(t, "NEEDS_DAILY", lifecycle.NeedsDaily.String())
}

func setup(t *testing.T, alternates bool) (
	*config.Config, *iocountry.Registry, *fakeImporter, *fakeCache, *iosync.Scheduler,
) {
	t.Helper()
	cfg := iotesting.Config(t)
	cfg.Update([]config.Option{
		config.OptImportBaseURL("https://example.org/dump"),
		config.OptImportAlternateNames(alternates),
		config.OptImportLanguages([]string{"it"}),
	})
	reg, err := iocountry.New(iotesting.NewSQLite(t))
	require.NoError(t, err)
	im := &fakeImporter{fail: make(map[string]bool)}
	cache := &fakeCache{}
	s := iosync.New(cfg, reg, im,
		iosync.OptCache(cache),
		iosync.OptClock(func() time.Time { return now }))
	return cfg, reg, im, cache, s
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	_, reg, im, cache, s := setup(t, true)

	_, err := reg.Enable(ctx, []string{"IT", "FR", "FJ"})
	require.NoError(t, err)
	require.NoError(t, reg.Stamp(ctx, []string{"FJ"}, now.AddDate(0, 0, -1)))
	im.fail["https://example.org/dump/FR.zip"] = true

	report, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"IT"}, report.Full)
	assert.Equal(t, []string{"FJ"}, report.Daily)
	require.Len(t, report.Failed, 1)
	assert.Error(t, report.Failed["FR"])
	assert.Equal(t, 1, cache.invalidated)

	assert.Equal(t, []string{
		"https://example.org/dump/FR.zip",
		"https://example.org/dump/IT.zip",
		"https://example.org/dump/alternateNamesDeletes-2026-10-17.txt",
		"https://example.org/dump/alternateNamesModifications-2026-10-17.txt",
		"https://example.org/dump/deletes-2026-10-17.txt",
		"https://example.org/dump/modifications-2026-10-17.txt",
	}, im.locations())

	list, err := reg.List(ctx, true)
	require.NoError(t, err)
	stamps := make(map[string]sql.NullTime)
	for _, c := range list {
		stamps[c.Code] = c.LastImportedAt
	}
	assert.False(t, stamps["FR"].Valid)
	assert.True(t, now.Equal(stamps["IT"].Time))
	assert.True(t, now.Equal(stamps["FJ"].Time))

	// FR still needs a full import, the others are fresh
	assert.Equal(t, map[string]lifecycle.SyncMode{
		"FR": lifecycle.NeedsFull,
		"IT": lifecycle.NeedsDaily,
		"FJ": lifecycle.NeedsDaily,
	}, s.Plan(list, now))
}

func TestRunDailyFailure(t *testing.T) {
	ctx := context.Background()
	_, reg, im, cache, s := setup(t, false)

	_, err := reg.Enable(ctx, []string{"IT", "FR"})
	require.NoError(t, err)
	require.NoError(t, reg.Stamp(ctx, []string{"IT", "FR"}, now))
	im.fail["https://example.org/dump/deletes-2026-10-17.txt"] = true

	report, err := s.Run(ctx)
	require.Error(t, err)
	assert.Empty(t, report.Daily)
	assert.Len(t, report.Failed, 2)
	assert.Zero(t, cache.invalidated)
	assert.Equal(t, []string{
		"https://example.org/dump/deletes-2026-10-17.txt",
	}, im.locations())
}

func TestRunNothingEnabled(t *testing.T) {
	_, _, im, _, s := setup(t, false)
	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Full)
	assert.Empty(t, im.locations())
}

func TestNextRun(t *testing.T) {
	assert.Equal(t,
		time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC), iosync.NextRun(now, 3))
	assert.Equal(t,
		time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC), iosync.NextRun(now, 23))
}

func TestRunEveryStops(t *testing.T) {
	_, _, _, _, s := setup(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.RunEvery(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
}
