package spatial

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/roads-dashboard-go/internal/models"
	"github.com/jengzang/roads-dashboard-go/internal/testutil"
)

func TestDirectionsURL(t *testing.T) {
	url := DirectionsURL(models.LineCoordinates{StartLat: -6.9175, StartLon: 107.6191, EndLat: -6.92, EndLon: 107.6})
	assert.Equal(t, "https://www.google.com/maps/dir/-6.9175,107.6191/-6.92,107.6", url)
}

func TestBuildRoadMap(t *testing.T) {
	rows := []models.RoadSegment{
		{
			Row:         2,
			Settlement:  testutil.Str("MEKARSARI"),
			RoadName:    testutil.Str("JL. DESA 1"),
			TotalLength: testutil.Num(150),
			StartLat:    testutil.Num(-6.0),
			StartLon:    testutil.Num(107.0),
			EndLat:      testutil.Num(-6.001),
			EndLon:      testutil.Num(107.0),
		},
		{
			Row:      3,
			StartLat: testutil.Num(-8.0),
			StartLon: testutil.Num(109.0),
			EndLat:   testutil.Num(-8.0),
			EndLon:   testutil.Num(109.5),
		},
		{Row: 4, StartLat: testutil.Num(1), StartLon: testutil.Num(1)},
	}

	m, err := BuildRoadMap(models.FullSchema(), rows)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Segments)
	assert.Equal(t, DefaultZoom, m.Zoom)
	assert.InDelta(t, -7.0, m.Center.Lat(), 1e-9)
	assert.InDelta(t, 108.0, m.Center.Lon(), 1e-9)
	assert.Equal(t, orb.Point{107.0, -8.0}, m.Bound.Min)
	assert.Equal(t, orb.Point{109.5, -6.0}, m.Bound.Max)

	f := m.Features.Features[0]
	assert.Equal(t, "MEKARSARI", f.Properties["settlement"])
	assert.Equal(t, "", f.Properties["pavement"])
	assert.Equal(t, 150.0, f.Properties["total_length"])
	assert.InDelta(t, 111.2, f.Properties["surveyed_length_m"].(float64), 0.5)
	assert.Equal(t, "https://www.google.com/maps/dir/-6,107/-6.001,107", f.Properties["directions_url"])
	anchor := f.Properties["popup_anchor"].(orb.Point)
	assert.InDelta(t, 107.0, anchor.Lon(), 1e-6)
	assert.InDelta(t, -6.0005, anchor.Lat(), 1e-6)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"FeatureCollection"`)
	assert.Contains(t, string(data), `"LineString"`)
}

func TestBuildRoadMapSignals(t *testing.T) {
	schema := models.NewSchema(models.ColumnStartLat, models.ColumnStartLon, models.ColumnEndLat)
	_, err := BuildRoadMap(schema, testutil.Hierarchy().Records)
	assert.ErrorIs(t, err, ErrNoCoordinateColumns)

	_, err = BuildRoadMap(models.FullSchema(), []models.RoadSegment{{Row: 2}})
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = BuildRoadMap(models.FullSchema(), nil)
	assert.ErrorIs(t, err, ErrNoGeometry)
}

func TestSurveyedLength(t *testing.T) {
	oneDegree := models.LineCoordinates{StartLat: 0, StartLon: 0, EndLat: 1, EndLon: 0}
	assert.InDelta(t, 111195, SurveyedLength(oneDegree), 10)

	point := models.LineCoordinates{StartLat: -6.9, StartLon: 107.6, EndLat: -6.9, EndLon: 107.6}
	assert.Equal(t, 0.0, SurveyedLength(point))
}

func TestAnchor(t *testing.T) {
	a := Anchor(models.LineCoordinates{StartLat: 0, StartLon: 0, EndLat: 0, EndLon: 2})
	assert.InDelta(t, 1, a.Lon(), 1e-9)
	assert.InDelta(t, 0, a.Lat(), 1e-9)
}
