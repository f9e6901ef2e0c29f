package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/roads-dashboard-go/internal/models"
	"github.com/jengzang/roads-dashboard-go/internal/testutil"
)

func threeRows() *models.Table {
	schema := models.NewSchema(models.ColumnRegion, models.ColumnSubRegion,
		models.ColumnLengthGood, models.ColumnLengthLightDamage,
		models.ColumnLengthModerateDamage, models.ColumnLengthSevereDamage)

	row := func(region, sub string, good, light float64) models.RoadSegment {
		return models.RoadSegment{
			Region:               testutil.Str(region),
			SubRegion:            testutil.Str(sub),
			LengthGood:           testutil.Num(good),
			LengthLightDamage:    testutil.Num(light),
			LengthModerateDamage: testutil.Num(0),
			LengthSevereDamage:   testutil.Num(0),
		}
	}
	return testutil.Table(schema,
		row("A", "A1", 100, 0),
		row("A", "A2", 0, 50),
		row("B", "B1", 200, 0),
	)
}

func TestComputeWorkedExample(t *testing.T) {
	res := Compute(threeRows(), models.Selection{})

	s := res.Summary
	assert.Equal(t, models.ConditionLengths{Good: 300, LightDamage: 50}, s.Totals)
	assert.Equal(t, 350.0, s.TotalLength)
	assert.Equal(t, 50.0, s.TotalDamaged)
	assert.Equal(t, 85.7, Round1(s.Percentages.Good))
	assert.Equal(t, 14.3, Round1(s.Percentages.LightDamage))
	assert.Equal(t, 0, s.SegmentCount, "no road names in this sheet")
	assert.Equal(t, 3, s.RowCount)

	assert.Equal(t, models.ColumnRegion, res.GroupBy)
	require.False(t, res.Insufficient)
	require.Len(t, res.Grouping.Rows, 2)

	a, b := res.Grouping.Rows[0], res.Grouping.Rows[1]
	assert.Equal(t, "A", a.Key)
	assert.Equal(t, models.ConditionLengths{Good: 100, LightDamage: 50}, a.Lengths)
	assert.Equal(t, 150.0, a.Total)
	assert.Equal(t, "B", b.Key)
	assert.Equal(t, models.ConditionLengths{Good: 200}, b.Lengths)
	assert.Equal(t, 200.0, b.Total)
	assert.Equal(t, 100.0, b.Percentages.Good)
}

func TestComputeRegionPinned(t *testing.T) {
	res := Compute(threeRows(), models.Selection{Region: "B"})

	assert.Len(t, res.Rows, 1)
	assert.Equal(t, 200.0, res.Summary.Totals.Good)
	assert.Equal(t, 200.0, res.Summary.TotalLength)
	assert.Equal(t, 100.0, Round1(res.Summary.Percentages.Good))
	assert.Equal(t, 0.0, res.Summary.DamagedPercent)

	assert.Equal(t, models.ColumnSubRegion, res.GroupBy)
	require.NotNil(t, res.Grouping)
	require.Len(t, res.Grouping.Rows, 1)
	assert.Equal(t, "B1", res.Grouping.Rows[0].Key)
}

func TestAllNullConditionsContributeZero(t *testing.T) {
	table := testutil.Table(models.FullSchema(),
		models.RoadSegment{Region: testutil.Str("A"), RoadName: testutil.Str("J1")},
		models.RoadSegment{Region: testutil.Str("A"), LengthGood: testutil.Num(40)},
	)

	res := Compute(table, models.Selection{})

	assert.Equal(t, 40.0, res.Summary.TotalLength)
	assert.Equal(t, 1, res.Summary.SegmentCount)
	require.Len(t, res.Grouping.Rows, 1)
	assert.Equal(t, 40.0, res.Grouping.Rows[0].Total)
}

func TestEmptySubset(t *testing.T) {
	res := Compute(testutil.Hierarchy(), models.Selection{Region: "NOWHERE"})

	assert.Equal(t, models.Summary{}, res.Summary)
	assert.True(t, res.Insufficient)
	assert.Nil(t, res.Grouping)
}

func TestGroupZeroTotalRow(t *testing.T) {
	rows := []models.RoadSegment{
		{Region: testutil.Str("A")},
		{Region: testutil.Str("B"), LengthSevereDamage: testutil.Num(3)},
	}

	g, err := Group(rows, models.FullSchema(), models.ColumnRegion)
	require.NoError(t, err)
	require.Len(t, g.Rows, 2)
	assert.Equal(t, models.ConditionLengths{}, g.Rows[0].Percentages)
	assert.Equal(t, 100.0, g.Rows[1].Percentages.SevereDamage)
}

func TestGroupMissingColumn(t *testing.T) {
	schema := models.NewSchema(models.ColumnRegion, models.ColumnSettlement)
	rows := []models.RoadSegment{{Region: testutil.Str("A"), Settlement: testutil.Str("D")}}

	_, err := Group(rows, schema, models.ColumnRoadName)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.True(t, IsInsufficient(err))

	res := Compute(testutil.Table(schema, rows...), models.Selection{Region: "A", SubRegion: "Semua", Settlement: "D"})
	assert.True(t, res.Insufficient)
	assert.Equal(t, models.ColumnRoadName, res.GroupBy)
	assert.NotEmpty(t, res.Warnings)
}

func TestGroupSkipsMissingKeys(t *testing.T) {
	rows := []models.RoadSegment{
		{Region: testutil.Str("A"), LengthGood: testutil.Num(1)},
		{LengthGood: testutil.Num(7)},
	}

	g, err := Group(rows, models.FullSchema(), models.ColumnRegion)
	require.NoError(t, err)
	require.Len(t, g.Rows, 1)
	assert.Equal(t, 1.0, g.Rows[0].Total)

	_, err = Group(rows[1:], models.FullSchema(), models.ColumnRegion)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestGroupRejectsNumericKey(t *testing.T) {
	_, err := Group(nil, models.FullSchema(), models.ColumnLengthGood)
	assert.Error(t, err)
	assert.False(t, IsInsufficient(err))
}

func TestGroupingEscalates(t *testing.T) {
	cases := []struct {
		sel  models.Selection
		want models.Column
	}{
		{models.Selection{}, models.ColumnRegion},
		{models.Selection{Region: "R1"}, models.ColumnSubRegion},
		{models.Selection{Region: "R1", SubRegion: "R1-K1"}, models.ColumnSettlement},
		{models.Selection{Region: "R1", SubRegion: "R1-K1", Settlement: "R1-K1-D1"}, models.ColumnRoadName},
		{models.Selection{Settlement: "R1-K1-D1"}, models.ColumnRoadName},
		{models.Selection{Region: "Semua", SubRegion: "R1-K2"}, models.ColumnSettlement},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GroupingFor(tc.sel), "%+v", tc.sel)
	}

	table := testutil.Hierarchy()

	res := Compute(table, models.Selection{})
	require.Len(t, res.Grouping.Rows, 3)
	assert.Equal(t, "R1", res.Grouping.Rows[0].Key)

	res = Compute(table, models.Selection{Region: "R1", SubRegion: "R1-K2", Settlement: "R1-K2-D1"})
	require.Len(t, res.Grouping.Rows, 2)
	assert.Equal(t, "R1-K2-D1-J1", res.Grouping.Rows[0].Key)
	assert.Equal(t, "R1-K2-D1-J2", res.Grouping.Rows[1].Key)
	assert.Equal(t, models.ConditionLengths{ModerateDamage: 10, SevereDamage: 1}, res.Grouping.Rows[1].Lengths)
}

func TestTotalsProperties(t *testing.T) {
	table := testutil.Hierarchy()
	selections := []models.Selection{
		{},
		{Region: "R2"},
		{Region: "R3", SubRegion: "R3-K1"},
		{Region: "R1", SubRegion: "R1-K2", Settlement: "R1-K2-D2"},
		{PavementTypes: []string{"BETON"}},
	}

	for _, sel := range selections {
		res := Compute(table, sel)
		s := res.Summary
		require.NotZero(t, s.RowCount)

		assert.Equal(t, s.Totals.Good+s.Totals.LightDamage+s.Totals.ModerateDamage+s.Totals.SevereDamage, s.TotalLength)

		p := s.Percentages
		d := DisplayPercentages(p)
		assert.InDelta(t, 100, d.Good+d.LightDamage+d.ModerateDamage+d.SevereDamage, 1e-9, "%+v", sel)
		assert.InDelta(t, 100, p.Good+p.LightDamage+p.ModerateDamage+p.SevereDamage, 1e-9)

		var groupTotal float64
		for _, row := range res.Grouping.Rows {
			groupTotal += row.Total
		}
		assert.InDelta(t, s.TotalLength, groupTotal, 1e-9)
	}
}

func TestComputeDoesNotMutateTable(t *testing.T) {
	table := testutil.Hierarchy()
	before := make([]models.RoadSegment, len(table.Records))
	copy(before, table.Records)

	Compute(table, models.Selection{Region: "R1", PavementTypes: []string{"ASPAL"}})

	assert.Equal(t, before, table.Records)
}

func TestPercentAndRound(t *testing.T) {
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 0.0, Percent(5, -1))
	assert.Equal(t, 50.0, Percent(5, 10))
	assert.Equal(t, 14.3, Round1(14.2857))
	assert.Equal(t, 85.7, Round1(85.7142))
}

func TestDisplayPercentages(t *testing.T) {
	tests := []struct {
		name string
		in   models.ConditionLengths
		want models.ConditionLengths
	}{
		{
			name: "independent rounding would give 100.1",
			in:   models.ConditionLengths{Good: 12.46, LightDamage: 12.46, ModerateDamage: 12.46, SevereDamage: 62.62},
			want: models.ConditionLengths{Good: 12.5, LightDamage: 12.5, ModerateDamage: 12.4, SevereDamage: 62.6},
		},
		{
			name: "thirds",
			in:   Percentages(models.ConditionLengths{Good: 1, LightDamage: 1, ModerateDamage: 1}),
			want: models.ConditionLengths{Good: 33.4, LightDamage: 33.3, ModerateDamage: 33.3},
		},
		{
			name: "worked example",
			in:   Percentages(models.ConditionLengths{Good: 300, LightDamage: 50}),
			want: models.ConditionLengths{Good: 85.7, LightDamage: 14.3},
		},
		{
			name: "empty",
			in:   models.ConditionLengths{},
			want: models.ConditionLengths{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayPercentages(tt.in)
			assert.InDeltaSlice(t, tt.want.Values(), got.Values(), 1e-9)

			var sum float64
			for _, v := range got.Values() {
				sum += v
			}
			if tt.in.Total() > 0 {
				assert.InDelta(t, 100, sum, 1e-9)
			}
		})
	}
}

func TestDisplayPercentagesHalfTenths(t *testing.T) {
	in := models.ConditionLengths{Good: 12.45, LightDamage: 12.45, ModerateDamage: 12.45, SevereDamage: 62.65}
	got := DisplayPercentages(in)

	var sum float64
	for i, v := range got.Values() {
		assert.InDelta(t, in.Values()[i], v, 0.1)
		sum += v
	}
	assert.InDelta(t, 100, sum, 1e-9)
}
