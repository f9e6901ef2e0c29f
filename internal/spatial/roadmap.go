package spatial

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/roads-dashboard-go/internal/models"
)

var (
	// ErrNoCoordinateColumns means the source lacks at least one of the four coordinate columns.
	// It indicates an incompatible sheet and is shown as a warning.
	ErrNoCoordinateColumns = errors.New("source has no start/end coordinate columns")

	// ErrNoGeometry means the columns exist but no selected row has all four coordinates.
	ErrNoGeometry = errors.New("no road segment with coordinates in selection")
)

// DefaultZoom is the initial zoom level of the road map
const DefaultZoom = 11

// DirectionsURL builds a Google Maps route link between the segment endpoints
func DirectionsURL(l models.LineCoordinates) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/%s,%s/%s,%s",
		formatCoord(l.StartLat), formatCoord(l.StartLon),
		formatCoord(l.EndLat), formatCoord(l.EndLon))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// earthRadius is the mean Earth radius in meters
const earthRadius = 6371000.0

func endpoints(l models.LineCoordinates) (s2.LatLng, s2.LatLng) {
	return s2.LatLngFromDegrees(l.StartLat, l.StartLon), s2.LatLngFromDegrees(l.EndLat, l.EndLon)
}

// SurveyedLength returns the great-circle distance between the segment endpoints in meters
func SurveyedLength(l models.LineCoordinates) float64 {
	a, b := endpoints(l)
	return a.Distance(b).Radians() * earthRadius
}

// Anchor returns the point halfway along the segment, where its popup opens
func Anchor(l models.LineCoordinates) orb.Point {
	a, b := endpoints(l)
	mid := s2.LatLngFromPoint(s2.Interpolate(0.5, s2.PointFromLatLng(a), s2.PointFromLatLng(b)))
	return orb.Point{mid.Lng.Degrees(), mid.Lat.Degrees()}
}

// RoadMap is the map view of a filtered subset
type RoadMap struct {
	Center   orb.Point                  `json:"center"` // [lon, lat]
	Zoom     int                        `json:"zoom"`
	Bound    orb.Bound                  `json:"bound"`
	Segments int                        `json:"segments"`
	Features *geojson.FeatureCollection `json:"features"`
}

// BuildRoadMap draws one line per record with all four coordinates.
// The center is the mean of the start points.
func BuildRoadMap(schema models.Schema, rows []models.RoadSegment) (*RoadMap, error) {
	if !schema.HasAll(models.CoordinateColumns...) {
		return nil, ErrNoCoordinateColumns
	}

	fc := geojson.NewFeatureCollection()
	var sumLat, sumLon float64
	var bound orb.Bound

	for _, r := range rows {
		line, ok := r.Line()
		if !ok {
			continue
		}

		ls := orb.LineString{
			{line.StartLon, line.StartLat},
			{line.EndLon, line.EndLat},
		}
		if len(fc.Features) == 0 {
			bound = ls.Bound()
		} else {
			bound = bound.Union(ls.Bound())
		}

		f := geojson.NewFeature(ls)
		f.Properties["row"] = r.Row
		f.Properties["settlement"] = textOrEmpty(r, models.ColumnSettlement)
		f.Properties["road_name"] = textOrEmpty(r, models.ColumnRoadName)
		f.Properties["pavement"] = textOrEmpty(r, models.ColumnPavement)
		if r.TotalLength != nil {
			f.Properties["total_length"] = *r.TotalLength
		} else {
			f.Properties["total_length"] = nil
		}
		f.Properties["surveyed_length_m"] = SurveyedLength(line)
		f.Properties["directions_url"] = DirectionsURL(line)
		f.Properties["popup_anchor"] = Anchor(line)
		fc.Append(f)

		sumLat += line.StartLat
		sumLon += line.StartLon
	}

	n := len(fc.Features)
	if n == 0 {
		return nil, ErrNoGeometry
	}

	return &RoadMap{
		Center:   orb.Point{sumLon / float64(n), sumLat / float64(n)},
		Zoom:     DefaultZoom,
		Bound:    bound,
		Segments: n,
		Features: fc,
	}, nil
}

func textOrEmpty(r models.RoadSegment, c models.Column) string {
	v, _ := r.Text(c)
	return v
}
