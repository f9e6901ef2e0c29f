package models

// ConditionLengths holds one value per condition category
type ConditionLengths struct {
	Good           float64 `json:"good"`
	LightDamage    float64 `json:"light_damage"`
	ModerateDamage float64 `json:"moderate_damage"`
	SevereDamage   float64 `json:"severe_damage"`
}

// Add returns the element-wise sum
func (c ConditionLengths) Add(o ConditionLengths) ConditionLengths {
	return ConditionLengths{
		Good:           c.Good + o.Good,
		LightDamage:    c.LightDamage + o.LightDamage,
		ModerateDamage: c.ModerateDamage + o.ModerateDamage,
		SevereDamage:   c.SevereDamage + o.SevereDamage,
	}
}

// Damaged returns light + moderate + severe
func (c ConditionLengths) Damaged() float64 {
	return c.LightDamage + c.ModerateDamage + c.SevereDamage
}

// Total returns good + damaged
func (c ConditionLengths) Total() float64 {
	return c.Good + c.Damaged()
}

// Values returns the categories in ConditionColumns order
func (c ConditionLengths) Values() []float64 {
	return []float64{c.Good, c.LightDamage, c.ModerateDamage, c.SevereDamage}
}

// Summary represents the top-line totals of a filtered subset
type Summary struct {
	Totals         ConditionLengths `json:"totals"`      // meters
	Percentages    ConditionLengths `json:"percentages"` // of TotalLength
	TotalDamaged   float64          `json:"total_damaged"`
	TotalLength    float64          `json:"total_length"`
	DamagedPercent float64          `json:"damaged_percent"`
	SegmentCount   int              `json:"segment_count"` // rows with a road name
	RowCount       int              `json:"row_count"`
}

// AggregateRow represents one bar of the grouped chart
type AggregateRow struct {
	Key         string           `json:"key"`
	Lengths     ConditionLengths `json:"lengths"`
	Total       float64          `json:"total"`
	Percentages ConditionLengths `json:"percentages"` // of this row's own total
}

// Grouping represents grouped aggregates for the current filter specificity
type Grouping struct {
	Column Column         `json:"column"`
	Label  string         `json:"label"`
	Rows   []AggregateRow `json:"rows"`
}

// Distribution summarizes a set of segment lengths in meters
type Distribution struct {
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Outliers int     `json:"outliers"` // outside the Tukey fences
}
