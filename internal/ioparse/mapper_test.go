package ioparse_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gnames/gngeo/internal/ioparse"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeRow() ioparse.Row {
	return ioparse.Row{
		"3165524", "Turin", "Turin", "Torino,Turijn",
		"45.07049", "7.68682", "P", "PPLA", "it", "",
		"09", "TO", "001272", "",
		"870456", "239", "245", "Europe/Rome", "2023-01-15",
	}
}

func TestRowToPlace(t *testing.T) {
	p, err := ioparse.RowToPlace(placeRow())
	require.NoError(t, err)

	assert.Equal(t, int64(3165524), p.ID)
	assert.Equal(t, "Turin", p.Name)
	assert.Equal(t, "Torino,Turijn", p.AlternateNames)
	assert.InDelta(t, 45.07049, p.Latitude, 1e-9)
	assert.Equal(t, "IT", p.CountryCode)
	assert.Equal(t, "09", p.Admin1Code)
	assert.Equal(t, "TO", p.Admin2Code)
	assert.Equal(t, "", p.Admin4Code)
	assert.Equal(t, "", p.Admin5Code)
	assert.True(t, p.Population.Valid)
	assert.Equal(t, int64(870456), p.Population.Int64)
	assert.Equal(t, int32(239), p.Elevation.Int32)
	assert.Equal(t, "Europe/Rome", p.Timezone)
	require.True(t, p.ModificationDate.Valid)
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		p.ModificationDate.Time)
	assert.False(t, p.IsDeleted)
}

func TestRowToPlaceNullsAndWideNumbers(t *testing.T) {
	row := placeRow()
	row[14] = "9999999999999"
	row[15] = ""
	row[18] = "15/01/2023"
	p, err := ioparse.RowToPlace(row)
	require.NoError(t, err)
	assert.Equal(t, int64(9_999_999_999_999), p.Population.Int64)
	assert.False(t, p.Elevation.Valid)
	assert.False(t, p.ModificationDate.Valid)

	row[14] = ""
	p, err = ioparse.RowToPlace(row)
	require.NoError(t, err)
	assert.False(t, p.Population.Valid)
}

func TestRowToPlaceClamps(t *testing.T) {
	row := placeRow()
	row[1] = strings.Repeat("é", 250)
	row[3] = strings.Repeat("a", 10_500)
	row[11] = strings.Repeat("b", 100)
	row[17] = strings.Repeat("c", 50)

	p, err := ioparse.RowToPlace(row)
	require.NoError(t, err)
	assert.Equal(t, 200, utf8.RuneCountInString(p.Name))
	assert.Equal(t, 400, len(p.Name), "clamped by code points, not bytes")
	assert.Len(t, p.AlternateNames, 10_000)
	assert.Len(t, p.Admin2Code, 80)
	assert.Len(t, p.Timezone, 40)
}

func TestRowToPlaceASCIIName(t *testing.T) {
	tests := []struct {
		msg, name, ascii string
	}{
		{"diacritics", "Ŝão Tomé", "Sao Tome"},
		{"no-break space", "Ŝão Tomé\u00a0Øst", "Sao Tome st"},
		{"ideographic space", "Saint\u3000Étienne", "Saint Etienne"},
		{"non-latin", "東京", ""},
	}

	for _, v := range tests {
		row := placeRow()
		row[1] = v.name
		row[2] = ""
		p, err := ioparse.RowToPlace(row)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.ascii, p.ASCIIName, v.msg)
	}
}

func TestRowToPlaceMalformed(t *testing.T) {
	_, err := ioparse.RowToPlace(ioparse.Row{"1", "a"})
	assert.ErrorIs(t, err, ioparse.ErrShortRow)

	row := placeRow()
	row[0] = "abc"
	_, err = ioparse.RowToPlace(row)
	assert.ErrorIs(t, err, ioparse.ErrBadID)

	row = placeRow()
	row[4] = "north"
	_, err = ioparse.RowToPlace(row)
	assert.ErrorIs(t, err, ioparse.ErrBadCoordinate)
}

func TestRowToAlternateName(t *testing.T) {
	row := ioparse.Row{"1630", "3165524", "it", "Torino", "1", "", "0", "1"}
	an, err := ioparse.RowToAlternateName(row)
	require.NoError(t, err)
	assert.Equal(t, schema.AlternateName{
		ID: 1630, PlaceID: 3165524, ISOLanguage: "it", Name: "Torino",
		IsPreferred: true, IsHistoric: true,
	}, an)

	an, err = ioparse.RowToAlternateName(ioparse.Row{"1", "2", "verylonglang", "x"})
	require.NoError(t, err)
	assert.Equal(t, "verylon", an.ISOLanguage)
	assert.False(t, an.IsPreferred)

	_, err = ioparse.RowToAlternateName(ioparse.Row{"1", "2", "it"})
	assert.ErrorIs(t, err, ioparse.ErrShortRow)
}

func TestRowToEdge(t *testing.T) {
	e, err := ioparse.RowToEdge(ioparse.Row{"3175395", "3170831", "ADM"})
	require.NoError(t, err)
	assert.Equal(t, schema.HierarchyEdge{
		ParentID: 3175395, ChildID: 3170831, Type: "ADM",
	}, e)

	e, err = ioparse.RowToEdge(ioparse.Row{"1", "2"})
	require.NoError(t, err)
	assert.Empty(t, e.Type)

	_, err = ioparse.RowToEdge(ioparse.Row{"1"})
	assert.ErrorIs(t, err, ioparse.ErrShortRow)
}

func TestRowToAdminCode(t *testing.T) {
	tests := []struct {
		msg   string
		row   ioparse.Row
		code  string
		level schema.AdminLevel
		a2    string
		err   error
	}{
		{"admin1", ioparse.Row{"IT.09", "Piedmont", "Piedmont", "3170831"},
			"IT.09", 1, "", nil},
		{"admin2", ioparse.Row{"it.09.TO", "Turin", "Turin", "3165523"},
			"IT.09.TO", 2, "TO", nil},
		{"no components", ioparse.Row{"IT", "Italy", "Italy", "1"},
			"", 0, "", ioparse.ErrBadAdminCode},
		{"empty component", ioparse.Row{"IT..TO", "x", "x", "1"},
			"", 0, "", ioparse.ErrBadAdminCode},
		{"short", ioparse.Row{"IT.09", "x"},
			"", 0, "", ioparse.ErrShortRow},
	}

	for _, v := range tests {
		u, level, err := ioparse.RowToAdminCode(v.row)
		if v.err != nil {
			assert.ErrorIs(t, err, v.err, v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.code, u.Code, v.msg)
		assert.Equal(t, v.level, level, v.msg)
		assert.Equal(t, "IT", u.CountryCode, v.msg)
		assert.Equal(t, "09", u.Admin1Code, v.msg)
		assert.Equal(t, v.a2, u.Admin2Code, v.msg)
	}
}

func TestRowToDeletedID(t *testing.T) {
	id, err := ioparse.RowToDeletedID(ioparse.Row{"123", "Old", "duplicate"})
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	_, err = ioparse.RowToDeletedID(ioparse.Row{"x"})
	assert.ErrorIs(t, err, ioparse.ErrBadID)
}
