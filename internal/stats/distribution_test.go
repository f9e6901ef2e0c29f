package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/roads-dashboard-go/internal/models"
	"github.com/jengzang/roads-dashboard-go/internal/testutil"
)

func TestDistribution(t *testing.T) {
	d := Distribution([]float64{5, 1, 4, 2, 3})

	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 2.0, d.Q1)
	assert.Equal(t, 3.0, d.Median)
	assert.Equal(t, 4.0, d.Q3)
	assert.Equal(t, 5.0, d.Max)
	assert.InDelta(t, 3.0, d.Mean, 1e-9)
	assert.Zero(t, d.Outliers)
}

func TestDistributionOutliers(t *testing.T) {
	d := Distribution([]float64{10, 11, 12, 13, 14, 15, 16, 500})
	assert.Equal(t, 1, d.Outliers)

	lower, upper := OutlierBounds(d)
	assert.Less(t, lower, d.Min)
	assert.Less(t, upper, 500.0)
}

func TestDistributionEmpty(t *testing.T) {
	assert.Equal(t, models.Distribution{}, Distribution(nil))
}

func TestSegmentLengthsSkipsUnnamed(t *testing.T) {
	rows := []models.RoadSegment{
		testutil.Segment("A", "A1", "D1", "J1", "ASPAL", 100, 0, 0, 0),
		testutil.Segment("A", "A1", "D1", "J2", "ASPAL", 50, 25, 25, 0),
		{Region: testutil.Str("A"), LengthGood: testutil.Num(900)},
	}

	d := SegmentLengths(rows)
	assert.Equal(t, 2, d.Count)
	assert.Equal(t, 100.0, d.Max)
	assert.Equal(t, 100.0, d.Min)
}
