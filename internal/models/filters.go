package models

import "strings"

// AllOption is the choice-list entry meaning "no restriction"
const AllOption = "Semua"

// Selection represents the filter parameters of one dashboard interaction.
// Empty, "Semua" or "all" leaves a level unrestricted. A nil PavementTypes means every
// pavement type; a non-nil empty slice selects none.
type Selection struct {
	Region        string   `form:"region" json:"region"`         // KABUPATEN
	SubRegion     string   `form:"subRegion" json:"sub_region"`  // KECAMATAN
	Settlement    string   `form:"settlement" json:"settlement"` // DESA
	PavementTypes []string `form:"pavement" json:"pavement_types"`
}

// IsAll reports whether a selection value means "no restriction"
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllOption) || strings.EqualFold(v, "all")
}

// Pinned returns the concrete value chosen for an administrative level
func (s Selection) Pinned(c Column) (string, bool) {
	var v string
	switch c {
	case ColumnRegion:
		v = s.Region
	case ColumnSubRegion:
		v = s.SubRegion
	case ColumnSettlement:
		v = s.Settlement
	default:
		return "", false
	}
	if IsAll(v) {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// AllPavement reports whether every pavement type is selected
func (s Selection) AllPavement() bool {
	return s.PavementTypes == nil
}

// Normalize trims values and drops blank pavement entries, keeping a non-nil set non-nil.
func (s Selection) Normalize() Selection {
	out := Selection{
		Region:     strings.TrimSpace(s.Region),
		SubRegion:  strings.TrimSpace(s.SubRegion),
		Settlement: strings.TrimSpace(s.Settlement),
	}
	if s.PavementTypes != nil {
		out.PavementTypes = make([]string, 0, len(s.PavementTypes))
		for _, p := range s.PavementTypes {
			if p = strings.TrimSpace(p); p != "" {
				out.PavementTypes = append(out.PavementTypes, p)
			}
		}
	}
	return out
}
