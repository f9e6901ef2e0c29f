// Package chart renders grouped condition lengths as stacked bar charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jengzang/roads-dashboard-go/internal/models"
)

// Kind selects absolute lengths or per-group percentages
type Kind string

// Kind constants
const (
	KindAbsolute Kind = "absolute"
	KindPercent  Kind = "percent"
)

// ErrUnknownKind is returned for a Kind other than absolute or percent
var ErrUnknownKind = errors.New("unknown chart kind")

// ParseKind validates a chart kind from a request path
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAbsolute, KindPercent:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ConditionLabels are the legend entries, one per condition category
var ConditionLabels = []string{
	models.ColumnLengthGood.Header(),
	models.ColumnLengthLightDamage.Header(),
	models.ColumnLengthModerateDamage.Header(),
	models.ColumnLengthSevereDamage.Header(),
}

// palette follows the qualitative Set2 scheme
var palette = []color.Color{
	color.RGBA{R: 0x66, G: 0xc2, B: 0xa5, A: 0xff},
	color.RGBA{R: 0xfc, G: 0x8d, B: 0x62, A: 0xff},
	color.RGBA{R: 0x8d, G: 0xa0, B: 0xcb, A: 0xff},
	color.RGBA{R: 0xe7, G: 0x8a, B: 0xc3, A: 0xff},
}

// Size returns a canvas size that leaves room for n bars
func Size(n int) (vg.Length, vg.Length) {
	w := vg.Length(math.Max(8, 0.6*float64(n)+3)) * vg.Inch
	return w, 6 * vg.Inch
}

// Render draws one stacked bar per group, one layer per condition, and encodes it as PNG
func Render(g *models.Grouping, kind Kind) ([]byte, error) {
	if g == nil || len(g.Rows) == 0 {
		return nil, errors.New("no groups to draw")
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = g.Label
	if kind == KindPercent {
		p.Title.Text = fmt.Sprintf("Persentase Kondisi Jalan per %s", g.Label)
		p.Y.Label.Text = "Persentase (%)"
	} else {
		p.Title.Text = fmt.Sprintf("Panjang Jalan Berdasarkan Kondisi per %s", g.Label)
		p.Y.Label.Text = "Panjang Jalan (m)"
	}

	layers := make([]plotter.Values, len(ConditionLabels))
	names := make([]string, len(g.Rows))
	peak := 0.0
	for i, row := range g.Rows {
		names[i] = row.Key
		values := row.Lengths.Values()
		if kind == KindPercent {
			values = row.Percentages.Values()
		}
		stack := 0.0
		for c, v := range values {
			layers[c] = append(layers[c], v)
			stack += v
		}
		peak = math.Max(peak, stack)
	}

	barWidth := vg.Points(20)
	var below *plotter.BarChart
	for c, values := range layers {
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s bars: %w", ConditionLabels[c], err)
		}
		bars.Color = palette[c]
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(ConditionLabels[c], bars)
		below = bars
	}

	p.Legend.Top = true
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	p.Y.Min = 0
	switch {
	case kind == KindPercent:
		p.Y.Max = 100
	case peak > 0:
		p.Y.Max = peak * 1.1
	default:
		p.Y.Max = 1
	}
	p.Add(plotter.NewGrid())

	w, h := Size(len(names))
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
