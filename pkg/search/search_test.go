package search_test

import (
	"testing"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		msg  string
		opts search.Options
		ok   bool
	}{
		{"empty", search.Options{}, true},
		{"country", search.Options{Countries: []string{"IT", "fr"}}, true},
		{"long country", search.Options{Countries: []string{"ITA"}}, false},
		{"digit country", search.Options{Countries: []string{"I1"}}, false},
		{"class", search.Options{FeatureClasses: []string{"P"}}, true},
		{"bad class", search.Options{FeatureClasses: []string{"PP"}}, false},
		{"order", search.Options{OrderBy: search.OrderRelevance}, true},
		{"bad order", search.Options{OrderBy: "alphabet"}, false},
		{"negative id", search.Options{ID: -1}, false},
	}

	for _, v := range tests {
		err := v.opts.Validate()
		if v.ok {
			assert.NoError(t, err, v.msg)
		} else {
			assert.Error(t, err, v.msg)
		}
	}
}

func TestPointValidate(t *testing.T) {
	tests := []struct {
		msg string
		pt  search.Point
		ok  bool
	}{
		{"turin", search.Point{Lat: 45.07, Lon: 7.68}, true},
		{"pole", search.Point{Lat: 90, Lon: 180}, true},
		{"lat", search.Point{Lat: 90.5, Lon: 0}, false},
		{"lon", search.Point{Lat: 0, Lon: -180.1}, false},
	}

	for _, v := range tests {
		err := v.pt.Validate()
		if v.ok {
			assert.NoError(t, err, v.msg)
		} else {
			assert.Error(t, err, v.msg)
		}
	}
}

func TestBBox(t *testing.T) {
	b := search.BBox{North: 46, East: 8, South: 44, West: 7}
	assert.NoError(t, b.Validate())
	assert.False(t, b.CrossesAntimeridian())

	b = search.BBox{North: 10, East: -170, South: -10, West: 170}
	assert.NoError(t, b.Validate())
	assert.True(t, b.CrossesAntimeridian())

	b = search.BBox{North: 10, East: 8, South: 20, West: 7}
	assert.Error(t, b.Validate())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		msg   string
		limit int
		res   int
	}{
		{"default", 0, 10},
		{"negative", -5, 1},
		{"inside", 50, 50},
		{"above maximum", 5000, config.MaxSearchLimit},
	}

	for _, v := range tests {
		o := search.Options{Limit: v.limit}.Normalize(10)
		assert.Equal(t, v.res, o.Limit, v.msg)
		assert.Equal(t, search.OrderPopulation, o.OrderBy, v.msg)
	}

	o := search.Options{
		Countries:      []string{" it", ""},
		FeatureClasses: []string{"p"},
	}.Normalize(10)
	assert.Equal(t, []string{"IT"}, o.Countries)
	assert.Equal(t, []string{"P"}, o.FeatureClasses)
}

func TestHasConstraint(t *testing.T) {
	assert.False(t, search.Options{}.HasConstraint())
	assert.True(t, search.Options{ID: 1}.HasConstraint())
	assert.True(t, search.Options{Countries: []string{"IT"}}.HasConstraint())
	assert.True(t, search.Options{Admin1Code: "09"}.HasConstraint())
	assert.False(t, search.Options{MinPopulation: 10}.HasConstraint())
}
