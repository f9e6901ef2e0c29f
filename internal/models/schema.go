package models

import (
	"encoding/json"
	"strings"
)

// Column identifies a column of the village road sheet
type Column int

// Column constants
const (
	ColumnRegion Column = iota
	ColumnSubRegion
	ColumnSettlement
	ColumnRoadName
	ColumnPavement
	ColumnLengthGood
	ColumnLengthLightDamage
	ColumnLengthModerateDamage
	ColumnLengthSevereDamage
	ColumnStartLat
	ColumnStartLon
	ColumnEndLat
	ColumnEndLon
	ColumnTotalLength

	columnCount
)

var columnHeaders = [columnCount]string{
	ColumnRegion:               "KABUPATEN",
	ColumnSubRegion:            "KECAMATAN",
	ColumnSettlement:           "DESA",
	ColumnRoadName:             "NAMA RUAS JALAN DESA",
	ColumnPavement:             "JENIS PERKERASAN",
	ColumnLengthGood:           "BAIK (meter)",
	ColumnLengthLightDamage:    "RUSAK RINGAN (meter)",
	ColumnLengthModerateDamage: "RUSAK SEDANG (meter)",
	ColumnLengthSevereDamage:   "RUSAK BERAT (meter)",
	ColumnStartLat:             "LAT AWAL",
	ColumnStartLon:             "LNG AWAL",
	ColumnEndLat:               "LAT AKHIR",
	ColumnEndLon:               "LNG AKHIR",
	ColumnTotalLength:          "TOTAL PANJANG JALAN (meter)",
}

var columnKeys = [columnCount]string{
	ColumnRegion:               "region",
	ColumnSubRegion:            "sub_region",
	ColumnSettlement:           "settlement",
	ColumnRoadName:             "road_name",
	ColumnPavement:             "pavement",
	ColumnLengthGood:           "length_good",
	ColumnLengthLightDamage:    "length_light_damage",
	ColumnLengthModerateDamage: "length_moderate_damage",
	ColumnLengthSevereDamage:   "length_severe_damage",
	ColumnStartLat:             "start_lat",
	ColumnStartLon:             "start_lon",
	ColumnEndLat:               "end_lat",
	ColumnEndLon:               "end_lon",
	ColumnTotalLength:          "total_length",
}

// ConditionColumns lists the condition length columns in display order
var ConditionColumns = []Column{
	ColumnLengthGood,
	ColumnLengthLightDamage,
	ColumnLengthModerateDamage,
	ColumnLengthSevereDamage,
}

// CoordinateColumns lists the columns needed to draw a segment on the map
var CoordinateColumns = []Column{ColumnStartLat, ColumnStartLon, ColumnEndLat, ColumnEndLon}

// AllColumns returns every known column in sheet order
func AllColumns() []Column {
	cols := make([]Column, 0, columnCount)
	for c := Column(0); c < columnCount; c++ {
		cols = append(cols, c)
	}
	return cols
}

// Header returns the column header used in the source sheet
func (c Column) Header() string {
	if c < 0 || c >= columnCount {
		return ""
	}
	return columnHeaders[c]
}

// Key returns the snake_case name used in the API
func (c Column) Key() string {
	if c < 0 || c >= columnCount {
		return ""
	}
	return columnKeys[c]
}

// String implements fmt.Stringer
func (c Column) String() string {
	return c.Key()
}

// IsText reports whether the column holds text values
func (c Column) IsText() bool {
	return c >= ColumnRegion && c <= ColumnPavement
}

// MarshalText encodes the column by its API key
func (c Column) MarshalText() ([]byte, error) {
	return []byte(c.Key()), nil
}

// ColumnByHeader resolves a sheet header, ignoring case and repeated whitespace.
func ColumnByHeader(header string) (Column, bool) {
	h := normalizeHeader(header)
	for c := Column(0); c < columnCount; c++ {
		if normalizeHeader(columnHeaders[c]) == h {
			return c, true
		}
	}
	return 0, false
}

func normalizeHeader(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// Schema is the set of columns present in the source header.
// A column absent from the schema is different from a column whose values are all missing.
type Schema uint32

// NewSchema builds a schema from the given columns
func NewSchema(cols ...Column) Schema {
	var s Schema
	for _, c := range cols {
		s = s.With(c)
	}
	return s
}

// FullSchema contains every known column
func FullSchema() Schema {
	return NewSchema(AllColumns()...)
}

// With returns a copy of the schema including c
func (s Schema) With(c Column) Schema {
	if c < 0 || c >= columnCount {
		return s
	}
	return s | 1<<uint(c)
}

// Has reports whether the column is present
func (s Schema) Has(c Column) bool {
	if c < 0 || c >= columnCount {
		return false
	}
	return s&(1<<uint(c)) != 0
}

// HasAll reports whether every given column is present
func (s Schema) HasAll(cols ...Column) bool {
	for _, c := range cols {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// Columns returns the present columns in sheet order
func (s Schema) Columns() []Column {
	var cols []Column
	for c := Column(0); c < columnCount; c++ {
		if s.Has(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Missing returns the known columns absent from the schema
func (s Schema) Missing() []Column {
	var cols []Column
	for c := Column(0); c < columnCount; c++ {
		if !s.Has(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// MarshalJSON encodes the schema as present and missing column headers
func (s Schema) MarshalJSON() ([]byte, error) {
	headers := func(cols []Column) []string {
		out := make([]string, 0, len(cols))
		for _, c := range cols {
			out = append(out, c.Header())
		}
		return out
	}
	return json.Marshal(struct {
		Present []string `json:"present"`
		Missing []string `json:"missing"`
	}{
		Present: headers(s.Columns()),
		Missing: headers(s.Missing()),
	})
}
