package iosearch

import (
	"cmp"
	"context"
	"math"
	"slices"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	earthRadiusKm = 6371.0088

	// startRadiusKm is the first search radius of nearest queries
	// ranked in Go. It grows by radiusStep until enough places are found.
	startRadiusKm = 25.0
	radiusStep    = 4.0

	// geohashPrecision buckets query points of the cache, 12 characters
	// are a few centimeters.
	geohashPrecision = 12
)

// nearestByCaps serves stores without SQL trigonometry. Candidates are
// prefiltered by the bounding rectangle of a spherical cap, ranked by
// great-circle distance and the cap widens until the limit is reached
// or the whole globe is covered. Only the best opts.Limit candidates are
// kept while rows are read.
func (s *Searcher) nearestByCaps(
	ctx context.Context,
	pt search.Point,
	opts search.Options,
) ([]search.Place, error) {
	center := s2.LatLngFromDegrees(pt.Lat, pt.Lon)
	for radius := startRadiusKm; ; radius *= radiusStep {
		angle := s1.Angle(radius / earthRadiusKm)
		global := angle >= math.Pi

		q := newQuery(s.dialect, opts)
		q.order, q.limit = "", 0
		if !global {
			capRect(q, s2.CapFromCenterAngle(s2.PointFromLatLng(center), angle))
		}

		res, err := s.closest(ctx, q, center, angle, global, opts.Limit)
		if err != nil {
			return nil, err
		}
		if len(res) == opts.Limit || global {
			return res, nil
		}
	}
}

// closest reads candidates of q and returns up to limit of them inside
// the cap, nearest first.
func (s *Searcher) closest(
	ctx context.Context,
	q *query,
	center s2.LatLng,
	angle s1.Angle,
	global bool,
	limit int,
) ([]search.Place, error) {
	stmt, args := q.sql()
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(stmt), args...)
	if err != nil {
		return nil, QueryError("nearest", err)
	}
	defer rows.Close()

	res := make([]search.Place, 0, limit+1)
	for rows.Next() {
		var p search.Place
		if err = rows.StructScan(&p); err != nil {
			return nil, QueryError("nearest", err)
		}
		d := center.Distance(s2.LatLngFromDegrees(p.Latitude, p.Longitude))
		if !global && d > angle {
			continue
		}
		km := d.Radians() * earthRadiusKm
		p.DistanceKm = &km

		i, _ := slices.BinarySearchFunc(res, p, byDistance)
		if i == limit {
			continue
		}
		res = slices.Insert(res, i, p)
		if len(res) > limit {
			res = res[:limit]
		}
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError("nearest", err)
	}
	return res, nil
}

func byDistance(a, b search.Place) int {
	if c := cmp.Compare(*a.DistanceKm, *b.DistanceKm); c != 0 {
		return c
	}
	if c := cmp.Compare(population(b), population(a)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// capRect restricts the query to the bounding rectangle of the cap.
func capRect(q *query, c s2.Cap) {
	rect := c.RectBound()
	lo, hi := rect.Lo(), rect.Hi()
	q.and("p.latitude BETWEEN ? AND ?", lo.Lat.Degrees(), hi.Lat.Degrees())
	if rect.Lng.IsFull() {
		return
	}
	q.lonRange(lo.Lng.Degrees(), hi.Lng.Degrees())
}

func geohashOf(pt search.Point) string {
	return geohash.EncodeWithPrecision(pt.Lat, pt.Lon, geohashPrecision)
}

func population(p search.Place) int64 {
	if p.Population == nil {
		return -1
	}
	return *p.Population
}
