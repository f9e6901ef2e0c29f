package models

import "time"

// RoadSegment represents one row of the village road sheet.
// A nil field means the cell was empty or could not be coerced.
type RoadSegment struct {
	Row int `json:"row"` // 1-based row number in the source sheet

	// Administrative divisions
	Region     *string `json:"region"`     // KABUPATEN
	SubRegion  *string `json:"sub_region"` // KECAMATAN
	Settlement *string `json:"settlement"` // DESA
	RoadName   *string `json:"road_name"`  // NAMA RUAS JALAN DESA
	Pavement   *string `json:"pavement"`   // JENIS PERKERASAN

	// Condition lengths in meters
	LengthGood           *float64 `json:"length_good"`
	LengthLightDamage    *float64 `json:"length_light_damage"`
	LengthModerateDamage *float64 `json:"length_moderate_damage"`
	LengthSevereDamage   *float64 `json:"length_severe_damage"`

	// Surveyed line endpoints
	StartLat *float64 `json:"start_lat"`
	StartLon *float64 `json:"start_lon"`
	EndLat   *float64 `json:"end_lat"`
	EndLon   *float64 `json:"end_lon"`

	// Informational, not reconciled with the condition lengths
	TotalLength *float64 `json:"total_length"`
}

// Text returns the value of a text column.
func (r RoadSegment) Text(c Column) (string, bool) {
	var p *string
	switch c {
	case ColumnRegion:
		p = r.Region
	case ColumnSubRegion:
		p = r.SubRegion
	case ColumnSettlement:
		p = r.Settlement
	case ColumnRoadName:
		p = r.RoadName
	case ColumnPavement:
		p = r.Pavement
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

// Number returns the value of a numeric column.
func (r RoadSegment) Number(c Column) (float64, bool) {
	p := r.numberField(c)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// SetText sets a text column. Used by loaders before a table is sealed.
func (r *RoadSegment) SetText(c Column, v string) {
	switch c {
	case ColumnRegion:
		r.Region = &v
	case ColumnSubRegion:
		r.SubRegion = &v
	case ColumnSettlement:
		r.Settlement = &v
	case ColumnRoadName:
		r.RoadName = &v
	case ColumnPavement:
		r.Pavement = &v
	}
}

// SetNumber sets a numeric column. Used by loaders before a table is sealed.
func (r *RoadSegment) SetNumber(c Column, v float64) {
	if p := r.numberField(c); p != nil {
		*p = &v
	}
}

func (r *RoadSegment) numberField(c Column) **float64 {
	switch c {
	case ColumnLengthGood:
		return &r.LengthGood
	case ColumnLengthLightDamage:
		return &r.LengthLightDamage
	case ColumnLengthModerateDamage:
		return &r.LengthModerateDamage
	case ColumnLengthSevereDamage:
		return &r.LengthSevereDamage
	case ColumnStartLat:
		return &r.StartLat
	case ColumnStartLon:
		return &r.StartLon
	case ColumnEndLat:
		return &r.EndLat
	case ColumnEndLon:
		return &r.EndLon
	case ColumnTotalLength:
		return &r.TotalLength
	}
	return nil
}

// Conditions returns the four condition lengths with missing values as zero.
func (r RoadSegment) Conditions() ConditionLengths {
	return ConditionLengths{
		Good:           deref(r.LengthGood),
		LightDamage:    deref(r.LengthLightDamage),
		ModerateDamage: deref(r.LengthModerateDamage),
		SevereDamage:   deref(r.LengthSevereDamage),
	}
}

// Line returns the surveyed endpoints if all four coordinates are present.
func (r RoadSegment) Line() (LineCoordinates, bool) {
	if r.StartLat == nil || r.StartLon == nil || r.EndLat == nil || r.EndLon == nil {
		return LineCoordinates{}, false
	}
	return LineCoordinates{
		StartLat: *r.StartLat,
		StartLon: *r.StartLon,
		EndLat:   *r.EndLat,
		EndLon:   *r.EndLon,
	}, true
}

// LineCoordinates holds the endpoints of a surveyed road segment
type LineCoordinates struct {
	StartLat float64 `json:"start_lat"`
	StartLon float64 `json:"start_lon"`
	EndLat   float64 `json:"end_lat"`
	EndLon   float64 `json:"end_lon"`
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Table is the loaded record store content. It is never modified after loading.
type Table struct {
	Source   string        `json:"source"`
	LoadedAt time.Time     `json:"loaded_at"`
	Schema   Schema        `json:"schema"`
	Records  []RoadSegment `json:"-"`
}

// Len returns the number of records
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}
