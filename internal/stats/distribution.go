package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/roads-dashboard-go/internal/models"
)

// SegmentLengths describes the spread of surveyed lengths across named segments.
// A segment's length is the sum of its four condition lengths.
func SegmentLengths(rows []models.RoadSegment) models.Distribution {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.RoadName == nil {
			continue
		}
		values = append(values, r.Conditions().Total())
	}
	return Distribution(values)
}

// Distribution returns the five-number summary of values. Quartiles are empirical,
// so each one is a value that occurs in the data.
func Distribution(values []float64) models.Distribution {
	if len(values) == 0 {
		return models.Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	d := models.Distribution{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
	}

	lower, upper := OutlierBounds(d)
	for _, v := range sorted {
		if v < lower || v > upper {
			d.Outliers++
		}
	}
	return d
}

// OutlierBounds returns the Tukey fences Q1 - 1.5*IQR and Q3 + 1.5*IQR
func OutlierBounds(d models.Distribution) (lower, upper float64) {
	iqr := d.Q3 - d.Q1
	return d.Q1 - 1.5*iqr, d.Q3 + 1.5*iqr
}
