package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jengzang/roads-dashboard-go/internal/models"
)

// ErrInsufficientData is returned when a grouping cannot be built for the current subset.
// Callers show a placeholder instead of a chart.
var ErrInsufficientData = errors.New("insufficient data for grouping")

// Percent returns part/total*100, or 0 when total is not positive
func Percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// Round1 rounds to one decimal place for display
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// DisplayPercentages rounds percentages to one decimal with the largest remainder method,
// so the rounded values add up to the rounded total (100.0 for a non-empty subset).
func DisplayPercentages(p models.ConditionLengths) models.ConditionLengths {
	values := p.Values()
	var sum, floorSum float64
	tenths := make([]float64, len(values))
	order := make([]int, len(values))
	for i, v := range values {
		sum += v
		tenths[i] = math.Floor(v * 10)
		floorSum += tenths[i]
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		ra := values[order[a]]*10 - tenths[order[a]]
		rb := values[order[b]]*10 - tenths[order[b]]
		return ra > rb
	})
	missing := int(math.Round(sum*10) - floorSum)
	for i := 0; i < missing && i < len(order); i++ {
		tenths[order[i]]++
	}

	return models.ConditionLengths{
		Good:           tenths[0] / 10,
		LightDamage:    tenths[1] / 10,
		ModerateDamage: tenths[2] / 10,
		SevereDamage:   tenths[3] / 10,
	}
}

// Percentages returns each condition as a share of the lengths' own total
func Percentages(c models.ConditionLengths) models.ConditionLengths {
	total := c.Total()
	return models.ConditionLengths{
		Good:           Percent(c.Good, total),
		LightDamage:    Percent(c.LightDamage, total),
		ModerateDamage: Percent(c.ModerateDamage, total),
		SevereDamage:   Percent(c.SevereDamage, total),
	}
}

// Totals computes the top-line summary of a filtered subset
func Totals(rows []models.RoadSegment) models.Summary {
	var sum models.ConditionLengths
	segments := 0
	for _, r := range rows {
		sum = sum.Add(r.Conditions())
		if r.RoadName != nil {
			segments++
		}
	}

	s := models.Summary{
		Totals:       sum,
		Percentages:  Percentages(sum),
		TotalDamaged: sum.Damaged(),
		TotalLength:  sum.Total(),
		SegmentCount: segments,
		RowCount:     len(rows),
	}
	if s.TotalLength > 0 {
		s.DamagedPercent = 100 - s.Percentages.Good
	}
	return s
}

// GroupingFor picks the grouping column from the selection's specificity:
// settlement pinned groups by road, sub-region by settlement, region by sub-region,
// otherwise by region.
func GroupingFor(sel models.Selection) models.Column {
	switch {
	case pinned(sel, models.ColumnSettlement):
		return models.ColumnRoadName
	case pinned(sel, models.ColumnSubRegion):
		return models.ColumnSettlement
	case pinned(sel, models.ColumnRegion):
		return models.ColumnSubRegion
	default:
		return models.ColumnRegion
	}
}

func pinned(sel models.Selection, c models.Column) bool {
	_, ok := sel.Pinned(c)
	return ok
}

// Group sums the condition lengths per distinct key value, sorted by key.
// Rows with a missing key are left out. Each row's percentages use the row's own total.
func Group(rows []models.RoadSegment, schema models.Schema, key models.Column) (*models.Grouping, error) {
	if !key.IsText() {
		return nil, fmt.Errorf("cannot group by numeric column %s", key.Header())
	}
	if !schema.Has(key) {
		return nil, fmt.Errorf("%w: column %q not in source", ErrInsufficientData, key.Header())
	}

	sums := make(map[string]models.ConditionLengths)
	for _, r := range rows {
		k, ok := r.Text(key)
		if !ok {
			continue
		}
		sums[k] = sums[k].Add(r.Conditions())
	}
	if len(sums) == 0 {
		return nil, fmt.Errorf("%w: no %s values in selection", ErrInsufficientData, key.Header())
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	g := &models.Grouping{
		Column: key,
		Label:  key.Header(),
		Rows:   make([]models.AggregateRow, 0, len(keys)),
	}
	for _, k := range keys {
		lengths := sums[k]
		g.Rows = append(g.Rows, models.AggregateRow{
			Key:         k,
			Lengths:     lengths,
			Total:       lengths.Total(),
			Percentages: Percentages(lengths),
		})
	}
	return g, nil
}
