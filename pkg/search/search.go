// Package search contains query options and result types shared by the
// search engine, the hierarchy resolver and the command line.
package search

import (
	"strings"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/go-playground/validator/v10"
)

// OrderBy selects how results are ranked.
type OrderBy string

const (
	// OrderPopulation sorts by population, largest first, then by name.
	OrderPopulation OrderBy = "population"

	// OrderRelevance sorts by full-text rank when full text is active,
	// otherwise it falls back to OrderPopulation.
	OrderRelevance OrderBy = "relevance"

	// OrderDistance sorts by distance from the query point.
	OrderDistance OrderBy = "distance"
)

// MinTermLen is the shortest term that is matched on its own. Shorter
// terms need an additional ID, Countries or Admin1Code constraint.
const MinTermLen = 3

// Options narrow and shape a query.
type Options struct {
	// Countries limits results to these ISO-3166 codes.
	Countries []string `validate:"dive,len=2,alpha"`

	// FeatureClasses limits results to these one-letter classes.
	FeatureClasses []string `validate:"dive,len=1,alpha"`

	// FeatureCodes limits results to these codes, for example PPLC.
	FeatureCodes []string `validate:"dive,min=1,max=10"`

	// Admin1Code limits results to one first-level division.
	Admin1Code string `validate:"max=20"`

	// ID finds one place by its GeoNames id.
	ID int64 `validate:"gte=0"`

	// MinPopulation drops places with smaller or unknown population.
	MinPopulation int64 `validate:"gte=0"`

	// Limit is clamped to [1, config.MaxSearchLimit]. Zero means the
	// configured default.
	Limit int

	// WithAdminNames adds names of the administrative divisions.
	WithAdminNames bool

	OrderBy OrderBy `validate:"omitempty,oneof=population relevance distance"`
}

// Point is a query location.
type Point struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

// BBox is an inclusive bounding box. West greater than East means the
// box crosses the antimeridian.
type BBox struct {
	North float64 `validate:"latitude,gtefield=South"`
	East  float64 `validate:"longitude"`
	South float64 `validate:"latitude"`
	West  float64 `validate:"longitude"`
}

// CrossesAntimeridian reports if the box wraps around 180°.
func (b BBox) CrossesAntimeridian() bool {
	return b.West > b.East
}

// Place is a search or hierarchy result.
type Place struct {
	ID           int64   `json:"id"                   db:"id"`
	Name         string  `json:"name"                 db:"name"`
	ASCIIName    string  `json:"asciiName,omitempty"  db:"ascii_name"`
	Latitude     float64 `json:"latitude"             db:"latitude"`
	Longitude    float64 `json:"longitude"            db:"longitude"`
	FeatureClass string  `json:"featureClass"         db:"feature_class"`
	FeatureCode  string  `json:"featureCode"          db:"feature_code"`
	CountryCode  string  `json:"countryCode"          db:"country_code"`
	Admin1Code   string  `json:"admin1Code,omitempty" db:"admin1_code"`
	Admin2Code   string  `json:"admin2Code,omitempty" db:"admin2_code"`
	Admin3Code   string  `json:"admin3Code,omitempty" db:"admin3_code"`
	Admin4Code   string  `json:"admin4Code,omitempty" db:"admin4_code"`
	Admin5Code   string  `json:"admin5Code,omitempty" db:"admin5_code"`
	Population   *int64  `json:"population,omitempty" db:"population"`
	Timezone     string  `json:"timezone,omitempty"   db:"timezone"`

	Admin1Name *string `json:"admin1Name,omitempty" db:"admin1_name"`
	Admin2Name *string `json:"admin2Name,omitempty" db:"admin2_name"`
	Admin3Name *string `json:"admin3Name,omitempty" db:"admin3_name"`
	Admin4Name *string `json:"admin4Name,omitempty" db:"admin4_name"`
	Admin5Name *string `json:"admin5Name,omitempty" db:"admin5_name"`

	// DistanceKm is set by nearest-place queries.
	DistanceKm *float64 `json:"distanceKm,omitempty" db:"distance"`

	// Rank is set when results are ordered by full-text relevance.
	Rank *float64 `json:"rank,omitempty" db:"rank"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks options against their constraints.
func (o Options) Validate() error {
	return validate.Struct(o)
}

// Validate checks that the point is on the globe.
func (p Point) Validate() error {
	return validate.Struct(p)
}

// Validate checks coordinates of the box. North must not be south of
// South.
func (b BBox) Validate() error {
	return validate.Struct(b)
}

// Normalize upper-cases codes and resolves the limit. A zero limit takes
// defaultLimit, the result is always within [1, config.MaxSearchLimit].
func (o Options) Normalize(defaultLimit int) Options {
	o.Countries = upper(o.Countries)
	o.FeatureClasses = upper(o.FeatureClasses)
	o.FeatureCodes = upper(o.FeatureCodes)
	o.Admin1Code = strings.TrimSpace(o.Admin1Code)
	if o.OrderBy == "" {
		o.OrderBy = OrderPopulation
	}
	if o.Limit == 0 {
		o.Limit = defaultLimit
	}
	o.Limit = max(1, min(o.Limit, config.MaxSearchLimit))
	return o
}

// HasConstraint is true when a short term may still be searched.
func (o Options) HasConstraint() bool {
	return o.ID > 0 || len(o.Countries) > 0 || o.Admin1Code != ""
}

func upper(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	res := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}
