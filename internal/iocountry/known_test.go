package iocountry

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnown(t *testing.T) {
	res, err := parseKnown([]byte("countries:\n  - code: IT\n    name: Italy\n    continent: EU\n"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Code: "IT", Name: "Italy", Continent: "EU"}}, res)

	_, err = parseKnown([]byte("countries: [code: IT"))
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CountriesDataError, gnErr.Code)
	assert.Equal(t, []any{"countries.yaml"}, gnErr.Vars)
}
