package stats

import (
	"errors"
	"fmt"

	"github.com/jengzang/roads-dashboard-go/internal/models"
	"github.com/jengzang/roads-dashboard-go/internal/pipeline"
)

// Result is everything the dashboard renders for one selection
type Result struct {
	Selection    models.Selection     `json:"selection"`
	Options      pipeline.Options     `json:"options"`
	Summary      models.Summary       `json:"summary"`
	Lengths      models.Distribution  `json:"segment_lengths"`
	GroupBy      models.Column        `json:"group_by"`
	Grouping     *models.Grouping     `json:"grouping,omitempty"`
	Insufficient bool                 `json:"insufficient"`
	Warnings     []string             `json:"warnings,omitempty"`
	Schema       models.Schema        `json:"-"`
	Rows         []models.RoadSegment `json:"-"`
}

// Compute runs the filter pipeline and aggregates the result. It never fails:
// an ungroupable subset is reported through Insufficient.
func Compute(t *models.Table, sel models.Selection) Result {
	sel = sel.Normalize()
	filtered := pipeline.Apply(t, sel)

	res := Result{
		Selection: sel,
		Options:   filtered.Options,
		Summary:   Totals(filtered.Rows),
		Lengths:   SegmentLengths(filtered.Rows),
		GroupBy:   GroupingFor(sel),
		Rows:      filtered.Rows,
	}
	if t != nil {
		res.Schema = t.Schema
		res.Warnings = SchemaWarnings(t.Schema)
	}

	g, err := Group(filtered.Rows, res.Schema, res.GroupBy)
	if err != nil {
		res.Insufficient = true
		return res
	}
	res.Grouping = g
	return res
}

// SchemaWarnings describes expected columns missing from the source.
func SchemaWarnings(schema models.Schema) []string {
	var warnings []string
	for _, c := range schema.Missing() {
		warnings = append(warnings, fmt.Sprintf("kolom %q tidak ditemukan pada sumber data", c.Header()))
	}
	return warnings
}

// IsInsufficient reports whether err marks an ungroupable subset
func IsInsufficient(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
