// Package ioimport runs GeoNames sources through fetch, parse,
// reconcile, synthesis and tracking.
//
// Batches of one import are processed strictly one after another: the
// probe and the writes of a batch finish before the next batch is read.
// Every import is recorded as an import run that ends either completed
// or failed.
package ioimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/ioadmin"
	"github.com/gnames/gngeo/internal/iofetch"
	"github.com/gnames/gngeo/internal/ioparse"
	"github.com/gnames/gngeo/internal/ioreconcile"
	"github.com/gnames/gngeo/internal/iotrack"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/gnames/gnfmt"
)

// Importer implements lifecycle.Importer.
type Importer struct {
	fetcher  *iofetch.Fetcher
	rec      lifecycle.Reconciler
	admin    lifecycle.AdminSynthesizer
	tracker  lifecycle.Tracker
	batch    int
	gcEvery  int
	progress bool
}

var _ lifecycle.Importer = (*Importer)(nil)

// Option customizes an Importer.
type Option func(*Importer)

// OptProgress toggles progress bars on stderr.
func OptProgress(b bool) Option {
	return func(im *Importer) {
		im.progress = b
	}
}

// OptFetcher replaces the default fetcher.
func OptFetcher(f *iofetch.Fetcher) Option {
	return func(im *Importer) {
		im.fetcher = f
	}
}

// New creates an Importer that writes through the operator.
func New(cfg *config.Config, op db.Operator, opts ...Option) *Importer {
	res := &Importer{
		fetcher:  iofetch.New(cfg.TempDir()),
		rec:      ioreconcile.New(op, &cfg.Database),
		admin:    ioadmin.New(op, &cfg.Database),
		tracker:  iotrack.New(op),
		batch:    cfg.Database.BatchSize,
		gcEvery:  cfg.Import.GCEvery,
		progress: true,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Tracker returns the tracker that records import runs.
func (im *Importer) Tracker() lifecycle.Tracker {
	return im.tracker
}

// batchFunc handles one batch of rows and updates the stats.
type batchFunc func(
	ctx context.Context,
	rows []ioparse.Row,
	stats *lifecycle.ImportStats,
) error

// run is the frame shared by all imports: start the run, fetch the
// payload, feed batches to fn, close the run.
func (im *Importer) run(
	ctx context.Context,
	src lifecycle.Source,
	fn batchFunc,
) (lifecycle.ImportStats, error) {
	var stats lifecycle.ImportStats
	start := time.Now()
	typ := string(src.Type)

	run, err := im.tracker.Start(ctx, src.Type, src.Location)
	if err != nil {
		return stats, err
	}

	err = im.process(ctx, src, fn, run, &stats)
	stats.Elapsed = time.Since(start)

	// terminal states are written even when ctx is cancelled
	closeCtx := context.WithoutCancel(ctx)
	if err != nil {
		if ferr := im.tracker.Fail(closeCtx, run, err); ferr != nil {
			slog.Error("Cannot close import run", "id", run.ID, "error", ferr)
		}
		if ctx.Err() != nil {
			return stats, CancelledError(typ, ctx.Err())
		}
		return stats, FailedError(typ, src.Location, err)
	}

	if err = im.tracker.Complete(closeCtx, run, stats.Processed); err != nil {
		return stats, err
	}

	if im.progress {
		gn.Info("%s import: %s in <em>%s</em>", typ, describe(stats),
			gnfmt.TimeString(stats.Elapsed.Seconds()))
	}
	slog.Info("Import finished",
		"type", typ,
		"source", src.Location,
		"processed", stats.Processed,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"deleted", stats.Deleted,
		"skipped", stats.Skipped,
		"duration", gnfmt.TimeString(stats.Elapsed.Seconds()),
	)
	return stats, nil
}

func (im *Importer) process(
	ctx context.Context,
	src lifecycle.Source,
	fn batchFunc,
	run *schema.ImportRun,
	stats *lifecycle.ImportStats,
) error {
	payload, err := im.fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := payload.Close(); cerr != nil {
			slog.Warn("Cannot remove temporary files", "error", cerr)
		}
	}()

	bar := im.newBar(string(src.Type))
	defer bar.Finish()

	rs := ioparse.NewRowSource(payload.Path, im.batch)
	var batches int
	for rows, err := range rs.Batches(ctx) {
		if err != nil {
			return err
		}
		stats.Processed += int64(len(rows))
		if err = fn(ctx, rows, stats); err != nil {
			return err
		}
		if err = im.tracker.Progress(ctx, run, stats.Processed); err != nil {
			return err
		}
		bar.Add(len(rows))

		batches++
		if im.gcEvery > 0 && batches%im.gcEvery == 0 {
			runtime.GC()
		}
	}

	if im.progress {
		gn.Info("Processed <em>%s</em> rows of %s",
			humanize.Comma(stats.Processed), src.Location)
	}
	return nil
}

// newBar creates a row counter. The total size of a dump is unknown
// until it is read.
func (im *Importer) newBar(prefix string) *pb.ProgressBar {
	tmpl := `{{string . "prefix"}} {{counters . }} {{speed . "%s rows/s"}} {{etime .}}`
	bar := pb.ProgressBarTemplate(tmpl).New(0)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	if !im.progress {
		bar.SetWriter(io.Discard)
	}
	return bar.Start()
}

// skip counts a row that cannot be mapped.
func skip(stats *lifecycle.ImportStats, typ string, err error) {
	stats.Skipped++
	if errors.Is(err, ioparse.ErrShortRow) {
		slog.Debug("Skipping short row", "type", typ, "error", err)
		return
	}
	slog.Debug("Skipping malformed row", "type", typ, "error", err)
}

func countryFilter(countries []string) func(string) bool {
	if len(countries) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		set[c] = struct{}{}
	}
	return func(cc string) bool {
		_, ok := set[cc]
		return ok
	}
}

func describe(stats lifecycle.ImportStats) string {
	return fmt.Sprintf("processed %s, inserted %s, updated %s, deleted %s, skipped %s",
		humanize.Comma(stats.Processed),
		humanize.Comma(stats.Inserted),
		humanize.Comma(stats.Updated),
		humanize.Comma(stats.Deleted),
		humanize.Comma(stats.Skipped),
	)
}
