// Package iosync keeps enabled countries fresh.
//
// A country whose last import is older than yesterday, or that was never
// imported, is re-imported from its full dump. Other countries only need
// yesterday's diff feeds. Full imports run concurrently, one worker per
// country, and a failure of one country never stops the others.
package iosync

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

// DateFormat is the date layout of daily feed names.
const DateFormat = "2006-01-02"

// Scheduler implements lifecycle.Scheduler.
type Scheduler struct {
	cfg      *config.Config
	registry lifecycle.CountryRegistry
	importer lifecycle.Importer
	cache    lifecycle.SearchCache
	now      func() time.Time
}

var _ lifecycle.Scheduler = (*Scheduler)(nil)

// Option customizes a Scheduler.
type Option func(*Scheduler)

// OptCache sets the search cache invalidated after a sync.
func OptCache(c lifecycle.SearchCache) Option {
	return func(s *Scheduler) {
		s.cache = c
	}
}

// OptClock replaces time.Now.
func OptClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New creates a Scheduler.
func New(
	cfg *config.Config,
	registry lifecycle.CountryRegistry,
	importer lifecycle.Importer,
	opts ...Option,
) *Scheduler {
	res := &Scheduler{
		cfg:      cfg,
		registry: registry,
		importer: importer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Plan classifies enabled countries. Dates are compared as calendar
// dates, the stamp in its own location.
func (s *Scheduler) Plan(
	countries []schema.Country,
	now time.Time,
) map[string]lifecycle.SyncMode {
	res := make(map[string]lifecycle.SyncMode, len(countries))
	yesterday := dateOf(now.AddDate(0, 0, -1))
	for _, c := range countries {
		if !c.IsEnabled {
			continue
		}
		if !c.LastImportedAt.Valid || dateOf(c.LastImportedAt.Time) < yesterday {
			res[c.Code] = lifecycle.NeedsFull
			continue
		}
		res[c.Code] = lifecycle.NeedsDaily
	}
	return res
}

// dateOf encodes the calendar date as a comparable number.
func dateOf(t time.Time) int {
	y, m, d := t.Date()
	return y*10_000 + int(m)*100 + d
}

// Run synchronizes all enabled countries once.
func (s *Scheduler) Run(ctx context.Context) (lifecycle.SyncReport, error) {
	report := lifecycle.SyncReport{Failed: make(map[string]error)}
	start := s.now()

	countries, err := s.registry.List(ctx, true)
	if err != nil {
		return report, CountriesError(err)
	}
	if len(countries) == 0 {
		gn.Warn("No countries are enabled, use 'gngeo countries enable'")
		return report, nil
	}

	var full, daily []string
	for code, mode := range s.Plan(countries, start) {
		if mode == lifecycle.NeedsFull {
			full = append(full, code)
		} else {
			daily = append(daily, code)
		}
	}
	slices.Sort(full)
	slices.Sort(daily)
	slog.Info("Sync planned", "full", full, "daily", daily)

	report.Full = s.runFull(ctx, full, start, report.Failed)
	report.Daily = s.runDaily(ctx, daily, start, report.Failed)

	if len(report.Full)+len(report.Daily) > 0 && s.cache != nil {
		if err = s.cache.Invalidate(ctx); err != nil {
			slog.Warn("Cannot invalidate search cache", "error", err)
		}
	}

	dur := time.Since(start).Seconds()
	slog.Info("Sync finished",
		"full", len(report.Full),
		"daily", len(report.Daily),
		"failed", len(report.Failed),
		"duration", gnfmt.TimeString(dur),
	)

	if len(report.Failed) == len(countries) {
		return report, AllCountriesFailedError(len(countries))
	}
	return report, nil
}

// runFull imports full dumps with a bounded pool of workers. Returns
// countries imported and stamped.
func (s *Scheduler) runFull(
	ctx context.Context,
	codes []string,
	now time.Time,
	failed map[string]error,
) []string {
	if len(codes) == 0 {
		return nil
	}

	var mu sync.Mutex
	var done []string
	fail := func(code string, err error) {
		slog.Error("Country sync failed", "country", code, "error", err)
		mu.Lock()
		failed[code] = err
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(max(1, s.cfg.JobsNumber))
	for _, code := range codes {
		g.Go(func() error {
			src := lifecycle.Source{
				Type:     lifecycle.ImportFull,
				Location: s.cfg.Import.BaseURL + code + ".zip",
			}
			if _, err := s.importer.ImportPlaces(ctx, src, []string{code}); err != nil {
				fail(code, err)
				return nil
			}
			if err := s.registry.Stamp(ctx, []string{code}, now); err != nil {
				fail(code, StampError([]string{code}, err))
				return nil
			}
			mu.Lock()
			done = append(done, code)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(done)
	return done
}

// runDaily applies yesterday's diff feeds to all daily countries at once.
// A failed feed fails every daily country and nothing is stamped.
func (s *Scheduler) runDaily(
	ctx context.Context,
	codes []string,
	now time.Time,
	failed map[string]error,
) []string {
	if len(codes) == 0 {
		return nil
	}

	err := s.applyDaily(ctx, codes, now.AddDate(0, 0, -1).Format(DateFormat))
	if err == nil {
		if err = s.registry.Stamp(ctx, codes, now); err != nil {
			err = StampError(codes, err)
		}
	}
	if err != nil {
		slog.Error("Daily sync failed", "countries", codes, "error", err)
		for _, c := range codes {
			failed[c] = err
		}
		return nil
	}
	return codes
}

func (s *Scheduler) applyDaily(ctx context.Context, codes []string, date string) error {
	base := s.cfg.Import.BaseURL
	src := func(typ lifecycle.ImportType, name string) lifecycle.Source {
		return lifecycle.Source{Type: typ, Location: base + name + "-" + date + ".txt"}
	}

	feed := src(lifecycle.ImportDailyDelete, "deletes")
	if _, err := s.importer.ImportDeletes(ctx, feed); err != nil {
		return DailyError(feed.Location, err)
	}

	feed = src(lifecycle.ImportDailyModification, "modifications")
	if _, err := s.importer.ImportPlaces(ctx, feed, codes); err != nil {
		return DailyError(feed.Location, err)
	}

	if !s.cfg.Import.AlternateNames {
		return nil
	}

	feed = src(lifecycle.ImportDailyAlternateModification, "alternateNamesModifications")
	_, err := s.importer.ImportAlternateNames(ctx, feed, s.cfg.Import.Languages)
	if err != nil {
		return DailyError(feed.Location, err)
	}

	feed = src(lifecycle.ImportDailyAlternateDelete, "alternateNamesDeletes")
	if _, err = s.importer.ImportAlternateDeletes(ctx, feed); err != nil {
		return DailyError(feed.Location, err)
	}
	return nil
}

// RunEvery runs a sync every day at hour until ctx is cancelled. Errors
// of a run are logged and do not stop the schedule.
func (s *Scheduler) RunEvery(ctx context.Context, hour int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := s.now()
		next := NextRun(now, hour)
		slog.Info("Next sync scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		report, err := s.Run(ctx)
		if err != nil {
			slog.Error("Scheduled sync failed", "error", err)
			continue
		}
		gn.Info("Synchronized %d countries, %d failed",
			len(report.Full)+len(report.Daily), len(report.Failed))
	}
}

// NextRun returns the first moment after now at the given hour.
func NextRun(now time.Time, hour int) time.Time {
	y, m, d := now.Date()
	res := time.Date(y, m, d, hour, 0, 0, 0, now.Location())
	if !res.After(now) {
		res = res.AddDate(0, 0, 1)
	}
	return res
}
