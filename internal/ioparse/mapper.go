package ioparse

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gnames/gngeo/pkg/schema"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field limits in code points.
const (
	nameLen        = 200
	altNamesLen    = 10_000
	featureCodeLen = 10
	admin1Len      = 20
	admin2Len      = 80
	admin3Len      = 20
	admin4Len      = 20
	timezoneLen    = 40
	languageLen    = 7
	altNameLen     = 400
	edgeTypeLen    = 20
)

// Number of fields of a row of every format.
const (
	placeFields     = 19
	altNameFields   = 4
	edgeFields      = 2
	adminCodeFields = 4
)

// dateLayout is the format of modification dates.
const dateLayout = "2006-01-02"

// ErrBadCoordinate is returned when latitude or longitude are not numbers.
var ErrBadCoordinate = errors.New("coordinate is not a number")

// RowToPlace maps a row of the main dump to a Place. Rows shorter than
// 19 fields return ErrShortRow.
func RowToPlace(row Row) (schema.Place, error) {
	var res schema.Place
	if len(row) < placeFields {
		return res, shortRow(placeFields, len(row))
	}

	id, err := parseID(row[0])
	if err != nil {
		return res, err
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err1 != nil || err2 != nil {
		return res, fmt.Errorf("%w: %q, %q", ErrBadCoordinate, row[4], row[5])
	}

	name := clamp(row[1], nameLen)
	ascii := strings.TrimSpace(row[2])
	if ascii == "" {
		ascii = ToASCII(name)
	}

	res = schema.Place{
		ID:             id,
		Name:           name,
		ASCIIName:      clamp(ascii, nameLen),
		AlternateNames: clamp(row[3], altNamesLen),
		Latitude:       lat,
		Longitude:      lon,
		FeatureClass:   clamp(strings.TrimSpace(row[6]), 1),
		FeatureCode:    clamp(strings.TrimSpace(row[7]), featureCodeLen),
		CountryCode:    strings.ToUpper(strings.TrimSpace(row[8])),
		Admin1Code:     clamp(strings.TrimSpace(row[10]), admin1Len),
		Admin2Code:     clamp(strings.TrimSpace(row[11]), admin2Len),
		Admin3Code:     clamp(strings.TrimSpace(row[12]), admin3Len),
		Admin4Code:     clamp(strings.TrimSpace(row[13]), admin4Len),
		Population:     parsePopulation(row[14]),
		Elevation:      parseElevation(row[15]),
		Timezone:       clamp(strings.TrimSpace(row[17]), timezoneLen),
	}
	res.ModificationDate = parseDate(row[18])
	return res, nil
}

// RowToAlternateName maps a row of an alternate names file. Boolean flags
// are true when the field is "1".
func RowToAlternateName(row Row) (schema.AlternateName, error) {
	var res schema.AlternateName
	if len(row) < altNameFields {
		return res, shortRow(altNameFields, len(row))
	}
	id, err := parseID(row[0])
	if err != nil {
		return res, err
	}
	placeID, err := parseID(row[1])
	if err != nil {
		return res, err
	}

	res = schema.AlternateName{
		ID:           id,
		PlaceID:      placeID,
		ISOLanguage:  clamp(strings.TrimSpace(row[2]), languageLen),
		Name:         clamp(row[3], altNameLen),
		IsPreferred:  flag(row, 4),
		IsShort:      flag(row, 5),
		IsColloquial: flag(row, 6),
		IsHistoric:   flag(row, 7),
	}
	return res, nil
}

// RowToEdge maps a row of the hierarchy file.
func RowToEdge(row Row) (schema.HierarchyEdge, error) {
	var res schema.HierarchyEdge
	if len(row) < edgeFields {
		return res, shortRow(edgeFields, len(row))
	}
	parent, err := parseID(row[0])
	if err != nil {
		return res, err
	}
	child, err := parseID(row[1])
	if err != nil {
		return res, err
	}
	res = schema.HierarchyEdge{ParentID: parent, ChildID: child}
	if len(row) > 2 {
		res.Type = clamp(strings.TrimSpace(row[2]), edgeTypeLen)
	}
	return res, nil
}

// RowToAdminCode maps a row of admin1CodesASCII.txt or admin2Codes.txt.
// The first field is "CC.A1[.A2...]", its number of components is the
// level of the unit.
func RowToAdminCode(row Row) (schema.AdminUnit, schema.AdminLevel, error) {
	var res schema.AdminUnit
	if len(row) < adminCodeFields {
		return res, 0, shortRow(adminCodeFields, len(row))
	}

	parts := strings.Split(strings.TrimSpace(row[0]), ".")
	level := len(parts) - 1
	if level < 1 || level > schema.MaxAdminLevel || len(parts[0]) != 2 {
		return res, 0, fmt.Errorf("%w: %q", ErrBadAdminCode, row[0])
	}
	for _, p := range parts[1:] {
		if p == "" {
			return res, 0, fmt.Errorf("%w: %q", ErrBadAdminCode, row[0])
		}
	}
	parts[0] = strings.ToUpper(parts[0])

	var placeID int64
	if s := strings.TrimSpace(row[3]); s != "" {
		id, err := parseID(s)
		if err != nil {
			return res, 0, err
		}
		placeID = id
	}

	name := clamp(row[1], nameLen)
	ascii := strings.TrimSpace(row[2])
	if ascii == "" {
		ascii = ToASCII(name)
	}

	codes := make([]string, schema.MaxAdminLevel)
	copy(codes, parts[1:])
	res = schema.AdminUnit{
		Code:        strings.Join(parts, "."),
		CountryCode: parts[0],
		Admin1Code:  codes[0],
		Admin2Code:  codes[1],
		Admin3Code:  codes[2],
		Admin4Code:  codes[3],
		Admin5Code:  codes[4],
		Name:        name,
		ASCIIName:   clamp(ascii, nameLen),
		PlaceID:     placeID,
	}
	return res, schema.AdminLevel(level), nil
}

// RowToDeletedID returns the id from a row of a deletes feed.
func RowToDeletedID(row Row) (int64, error) {
	if len(row) < 1 {
		return 0, shortRow(1, len(row))
	}
	return parseID(row[0])
}

var asciiTransform = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// ToASCII removes diacritics, turns Unicode spaces into ' ' and drops
// every other character that is not printable ASCII.
func ToASCII(s string) string {
	res, _, err := transform.String(asciiTransform, s)
	if err != nil {
		res = s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, res)
}

// clamp cuts s to at most n code points.
func clamp(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	var count int
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadID, s)
	}
	return id, nil
}

func parsePopulation(s string) sql.NullInt64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullInt64{}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

func parseElevation(s string) sql.NullInt32 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullInt32{}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(n), Valid: true}
}

func parseDate(s string) sql.NullTime {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func flag(row Row, i int) bool {
	return len(row) > i && strings.TrimSpace(row[i]) == "1"
}
