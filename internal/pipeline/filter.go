// Package pipeline narrows the record store by a dashboard selection.
package pipeline

import (
	"sort"

	"github.com/jengzang/roads-dashboard-go/internal/models"
)

// Options holds the choice lists for each selection level. Every list is drawn
// from the output of the level above it.
type Options struct {
	Regions       []string `json:"regions"`
	SubRegions    []string `json:"sub_regions"`
	Settlements   []string `json:"settlements"`
	PavementTypes []string `json:"pavement_types"`
}

// Result is the output of Apply
type Result struct {
	Rows    []models.RoadSegment
	Options Options

	// PavementFiltered reports whether the pavement membership stage removed anything
	PavementFiltered bool
}

// Apply runs the hierarchical filter: region, sub-region, settlement, then pavement type.
// The table is never modified; Rows is a fresh slice.
func Apply(t *models.Table, sel models.Selection) Result {
	var res Result
	if t == nil {
		return res
	}
	sel = sel.Normalize()

	rows := t.Records
	res.Options.Regions = Distinct(rows, models.ColumnRegion)

	if v, ok := sel.Pinned(models.ColumnRegion); ok {
		rows = Equal(rows, models.ColumnRegion, v)
	}
	res.Options.SubRegions = Distinct(rows, models.ColumnSubRegion)

	if v, ok := sel.Pinned(models.ColumnSubRegion); ok {
		rows = Equal(rows, models.ColumnSubRegion, v)
	}
	res.Options.Settlements = Distinct(rows, models.ColumnSettlement)

	if v, ok := sel.Pinned(models.ColumnSettlement); ok {
		rows = Equal(rows, models.ColumnSettlement, v)
	}

	if t.Schema.Has(models.ColumnPavement) {
		res.Options.PavementTypes = Distinct(rows, models.ColumnPavement)
		if !sel.AllPavement() && !sameSet(sel.PavementTypes, res.Options.PavementTypes) {
			rows = In(rows, models.ColumnPavement, sel.PavementTypes)
			res.PavementFiltered = true
		}
	}

	res.Rows = make([]models.RoadSegment, len(rows))
	copy(res.Rows, rows)
	return res
}

// Equal keeps rows whose column equals v. Rows with a missing value never match.
func Equal(rows []models.RoadSegment, c models.Column, v string) []models.RoadSegment {
	out := make([]models.RoadSegment, 0, len(rows))
	for _, r := range rows {
		if got, ok := r.Text(c); ok && got == v {
			out = append(out, r)
		}
	}
	return out
}

// In keeps rows whose column is one of values
func In(rows []models.RoadSegment, c models.Column, values []string) []models.RoadSegment {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	out := make([]models.RoadSegment, 0, len(rows))
	for _, r := range rows {
		got, ok := r.Text(c)
		if !ok {
			continue
		}
		if _, hit := set[got]; hit {
			out = append(out, r)
		}
	}
	return out
}

// Distinct returns the sorted distinct non-missing values of a text column
func Distinct(rows []models.RoadSegment, c models.Column) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		v, ok := r.Text(c)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sameSet(selected, all []string) bool {
	set := make(map[string]struct{}, len(selected))
	for _, v := range selected {
		set[v] = struct{}{}
	}
	if len(set) != len(all) {
		return false
	}
	for _, v := range all {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
