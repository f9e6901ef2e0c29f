package loader

import (
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/roads-dashboard-go/internal/models"
)

// ParseNumber coerces a cell to a number. Blank or unparseable cells are missing, never an error.
func ParseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Header maps sheet column positions to known columns
type Header struct {
	Schema  models.Schema
	index   map[models.Column]int
	Unknown []string // headers that match no known column
}

// ParseHeader resolves the header row. When a header appears twice the first occurrence wins.
func ParseHeader(cells []string) Header {
	h := Header{index: make(map[models.Column]int)}
	for i, cell := range cells {
		col, ok := models.ColumnByHeader(cell)
		if !ok {
			if strings.TrimSpace(cell) != "" {
				h.Unknown = append(h.Unknown, cell)
			}
			continue
		}
		if _, dup := h.index[col]; dup {
			continue
		}
		h.index[col] = i
		h.Schema = h.Schema.With(col)
	}
	return h
}

// Decode converts one data row into a record. It reports false for rows with no content at all.
func (h Header) Decode(rowNum int, cells []string) (models.RoadSegment, bool) {
	rec := models.RoadSegment{Row: rowNum}
	if isBlank(cells) {
		return rec, false
	}

	for col, i := range h.index {
		if i >= len(cells) {
			continue
		}
		cell := strings.TrimSpace(cells[i])
		if cell == "" {
			continue
		}
		if col.IsText() {
			rec.SetText(col, cell)
			continue
		}
		if v, ok := ParseNumber(cell); ok {
			rec.SetNumber(col, v)
		}
	}
	return rec, true
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
