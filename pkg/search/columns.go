package search

import (
	"slices"
	"strings"
)

// PlaceColumns are the columns of geo_places that are scanned into Place.
var PlaceColumns = []string{
	"id", "name", "ascii_name", "latitude", "longitude",
	"feature_class", "feature_code", "country_code",
	"admin1_code", "admin2_code", "admin3_code", "admin4_code", "admin5_code",
	"population", "timezone",
}

// SelectColumns returns PlaceColumns qualified with a table alias, ready
// for a SELECT list.
func SelectColumns(alias string) string {
	if alias == "" {
		return strings.Join(PlaceColumns, ", ")
	}
	res := make([]string, len(PlaceColumns))
	for i, c := range PlaceColumns {
		res[i] = alias + "." + c
	}
	return strings.Join(res, ", ")
}

// CountryFeatureCodes mark places that stand for a whole country.
var CountryFeatureCodes = []string{"PCLI", "PCLD", "PCLF", "PCLS", "PCLIX", "PCL"}

// IsCountry reports if a feature code is a country-level code.
func IsCountry(featureCode string) bool {
	return slices.Contains(CountryFeatureCodes, featureCode)
}
