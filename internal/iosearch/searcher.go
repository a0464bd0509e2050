// Package iosearch answers read queries over reconciled places.
//
// Terms match names and ASCII names by prefix. Alternate names are
// matched by native full text when the store supports it and it is
// enabled, otherwise by substring. Deleted places are never returned.
package iosearch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gngeo/internal/iocache"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/jmoiron/sqlx"
)

// Searcher implements lifecycle.Searcher.
type Searcher struct {
	db           *sqlx.DB
	dialect      db.Dialect
	fullText     bool
	defaultLimit int
	cache        lifecycle.SearchCache
	ttl          time.Duration
}

var _ lifecycle.Searcher = (*Searcher)(nil)

// Option customizes a Searcher.
type Option func(*Searcher)

// OptCache sets a cache for search results.
func OptCache(c lifecycle.SearchCache) Option {
	return func(s *Searcher) {
		s.cache = c
	}
}

// New creates a Searcher.
func New(op db.Operator, cfg *config.Config, opts ...Option) *Searcher {
	res := &Searcher{
		db:           op.DB(),
		dialect:      op.Dialect(),
		fullText:     cfg.Search.UseFullText,
		defaultLimit: cfg.Search.DefaultLimit,
		ttl:          time.Duration(cfg.Cache.TTLSec) * time.Second,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Search matches a term against names and alternate names. Terms shorter
// than search.MinTermLen give no results unless options have an ID,
// Countries or Admin1Code constraint.
func (s *Searcher) Search(
	ctx context.Context,
	term string,
	opts search.Options,
) ([]search.Place, error) {
	opts, err := s.prepare(opts)
	if err != nil {
		return nil, err
	}

	term = strings.TrimSpace(term)
	termLen := utf8.RuneCountInString(term)
	if termLen < search.MinTermLen && !opts.HasConstraint() {
		return []search.Place{}, nil
	}

	fp := fingerprint(term, opts)
	return s.cached(ctx, "search", fp, func() ([]search.Place, error) {
		q := newQuery(s.dialect, opts)
		s.match(q, term, termLen, opts.OrderBy)
		return s.selectPlaces(ctx, "search", q)
	})
}

// match adds the term condition. A relevance rank is selected when full
// text is used and results are ordered by relevance.
func (s *Searcher) match(q *query, term string, termLen int, order search.OrderBy) {
	lower := escapeLike(strings.ToLower(term))
	conds := []string{
		`LOWER(p.name) LIKE ? ESCAPE '\'`,
		`LOWER(p.ascii_name) LIKE ? ESCAPE '\'`,
	}
	args := []any{lower + "%", lower + "%"}

	if s.fullText && termLen >= search.MinTermLen {
		cols := make([]string, len(schema.FullTextColumns))
		for i, c := range schema.FullTextColumns {
			cols[i] = "p." + c
		}
		match, rank, ok := s.dialect.FullText(cols)
		tsq := s.dialect.FullTextQuery(term)
		if ok && tsq != "" {
			q.or(append(conds, match), append(args, tsq)...)
			if order == search.OrderRelevance {
				q.column(rank+" AS rank", tsq)
				q.order = orderRank
			}
			return
		}
	}

	conds = append(conds, `LOWER(p.alternate_names) LIKE ? ESCAPE '\'`)
	args = append(args, "%"+lower+"%")
	q.or(conds, args...)
}

// GetByID returns a non-deleted place or nil. Only WithAdminNames of the
// options is used.
func (s *Searcher) GetByID(
	ctx context.Context,
	id int64,
	opts search.Options,
) (*search.Place, error) {
	q := newQuery(s.dialect, search.Options{
		WithAdminNames: opts.WithAdminNames,
		ID:             id,
		Limit:          1,
	})
	res, err := s.selectPlaces(ctx, "get by id", q)
	if err != nil || len(res) == 0 {
		return nil, err
	}
	return &res[0], nil
}

// FindNearest returns places closest to the point, nearest first.
func (s *Searcher) FindNearest(
	ctx context.Context,
	pt search.Point,
	opts search.Options,
) ([]search.Place, error) {
	if err := pt.Validate(); err != nil {
		return nil, OptionsError(err)
	}
	opts, err := s.prepare(opts)
	if err != nil {
		return nil, err
	}

	fp := geohashOf(pt) + "|" + fingerprint("", opts)
	return s.cached(ctx, "nearest", fp, func() ([]search.Place, error) {
		expr, ok := s.dialect.Distance("p.latitude", "p.longitude")
		if !ok {
			return s.nearestByCaps(ctx, pt, opts)
		}
		q := newQuery(s.dialect, opts)
		q.column(expr+" AS distance", pt.Lat, pt.Lat, pt.Lon)
		q.order = orderDistance
		return s.selectPlaces(ctx, "nearest", q)
	})
}

// FindInBoundingBox returns places inside the box, borders included.
func (s *Searcher) FindInBoundingBox(
	ctx context.Context,
	box search.BBox,
	opts search.Options,
) ([]search.Place, error) {
	if err := box.Validate(); err != nil {
		return nil, OptionsError(err)
	}
	opts, err := s.prepare(opts)
	if err != nil {
		return nil, err
	}

	fp := fmt.Sprintf("%v|%s", box, fingerprint("", opts))
	return s.cached(ctx, "bbox", fp, func() ([]search.Place, error) {
		q := newQuery(s.dialect, opts)
		q.and("p.latitude BETWEEN ? AND ?", box.South, box.North)
		q.lonRange(box.West, box.East)
		return s.selectPlaces(ctx, "bounding box", q)
	})
}

// GetChildren returns places under an administrative code path. The
// division that owns the path is not included.
func (s *Searcher) GetChildren(
	ctx context.Context,
	countryCode string,
	parentCodes []string,
	opts search.Options,
) ([]search.Place, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if len(countryCode) != 2 {
		return nil, OptionsError(fmt.Errorf("country code %q", countryCode))
	}
	if len(parentCodes) > schema.MaxAdminLevel {
		return nil, OptionsError(
			fmt.Errorf("more than %d admin codes", schema.MaxAdminLevel))
	}
	opts, err := s.prepare(opts)
	if err != nil {
		return nil, err
	}

	fp := countryCode + "." + strings.Join(parentCodes, ".") +
		"|" + fingerprint("", opts)
	return s.cached(ctx, "children", fp, func() ([]search.Place, error) {
		q := newQuery(s.dialect, opts)
		q.and("p.country_code = ?", countryCode)
		for i, c := range parentCodes {
			q.and(fmt.Sprintf("p.admin%d_code = ?", i+1), strings.TrimSpace(c))
		}
		if n := len(parentCodes); n > 0 {
			q.and("p.feature_code <> ?", fmt.Sprintf("ADM%d", n))
		} else {
			cc, args := s.dialect.InStrings("p.feature_code", search.CountryFeatureCodes)
			q.and("NOT "+cc, args...)
		}
		return s.selectPlaces(ctx, "children", q)
	})
}

func (s *Searcher) prepare(opts search.Options) (search.Options, error) {
	if err := opts.Validate(); err != nil {
		return opts, OptionsError(err)
	}
	return opts.Normalize(s.defaultLimit), nil
}

func (s *Searcher) selectPlaces(
	ctx context.Context,
	op string,
	q *query,
) ([]search.Place, error) {
	stmt, args := q.sql()
	res := []search.Place{}
	if err := s.db.SelectContext(ctx, &res, s.db.Rebind(stmt), args...); err != nil {
		return nil, QueryError(op, err)
	}
	return res, nil
}

// cached runs fn through the cache when one is set. Cache failures are
// logged and never fail a query.
func (s *Searcher) cached(
	ctx context.Context,
	op, fp string,
	fn func() ([]search.Place, error),
) ([]search.Place, error) {
	if s.cache == nil {
		return fn()
	}

	key := iocache.Key(op, fp)
	var res []search.Place
	ok, err := s.cache.Get(ctx, key, &res)
	if err != nil {
		slog.Warn("Cannot read search cache", "key", key, "error", err)
	}
	if ok {
		if res == nil {
			res = []search.Place{}
		}
		return res, nil
	}

	res, err = fn()
	if err != nil {
		return nil, err
	}
	if err = s.cache.Set(ctx, key, res, s.ttl); err != nil {
		slog.Warn("Cannot write search cache", "key", key, "error", err)
	}
	return res, nil
}

// fingerprint describes a query for cache keys.
func fingerprint(term string, opts search.Options) string {
	bs, err := gnfmt.GNjson{}.Encode(struct {
		Term string
		Opts search.Options
	}{term, opts})
	if err != nil {
		return fmt.Sprintf("%s|%+v", term, opts)
	}
	return string(bs)
}
