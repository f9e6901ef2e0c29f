// Package testutil builds record tables for tests.
package testutil

import (
	"fmt"
	"time"

	"github.com/jengzang/roads-dashboard-go/internal/models"
)

// Str returns a pointer to s
func Str(s string) *string { return &s }

// Num returns a pointer to v
func Num(v float64) *float64 { return &v }

// Segment builds a fully populated record
func Segment(region, subRegion, settlement, road, pavement string, good, light, moderate, severe float64) models.RoadSegment {
	return models.RoadSegment{
		Region:               Str(region),
		SubRegion:            Str(subRegion),
		Settlement:           Str(settlement),
		RoadName:             Str(road),
		Pavement:             Str(pavement),
		LengthGood:           Num(good),
		LengthLightDamage:    Num(light),
		LengthModerateDamage: Num(moderate),
		LengthSevereDamage:   Num(severe),
		TotalLength:          Num(good + light + moderate + severe),
	}
}

// Table wraps records in a table with the given schema, numbering rows from 2
func Table(schema models.Schema, records ...models.RoadSegment) *models.Table {
	for i := range records {
		records[i].Row = i + 2
	}
	return &models.Table{
		Source:   "fixture",
		LoadedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Schema:   schema,
		Records:  records,
	}
}

// Hierarchy builds 3 regions x 2 sub-regions x 2 settlements x 2 roads.
// Region Rn, sub-region Rn-Km, settlement Rn-Km-Dk, road Rn-Km-Dk-Jj.
// Road j=1 is ASPAL with good=100*n, light=10; road j=2 is BETON with moderate=5*m, severe=k.
// Every road has coordinates around (-6.9, 107.6).
func Hierarchy() *models.Table {
	var records []models.RoadSegment
	for n := 1; n <= 3; n++ {
		for m := 1; m <= 2; m++ {
			for k := 1; k <= 2; k++ {
				region := fmt.Sprintf("R%d", n)
				sub := fmt.Sprintf("%s-K%d", region, m)
				desa := fmt.Sprintf("%s-D%d", sub, k)

				a := Segment(region, sub, desa, desa+"-J1", "ASPAL", float64(100*n), 10, 0, 0)
				b := Segment(region, sub, desa, desa+"-J2", "BETON", 0, 0, float64(5*m), float64(k))

				base := -6.9 - float64(n)/100
				for i, r := range []*models.RoadSegment{&a, &b} {
					r.StartLat = Num(base)
					r.StartLon = Num(107.6 + float64(m)/100)
					r.EndLat = Num(base - 0.001*float64(i+1))
					r.EndLon = Num(107.6 + float64(m)/100 + 0.001*float64(k))
				}
				records = append(records, a, b)
			}
		}
	}
	return Table(models.FullSchema(), records...)
}
