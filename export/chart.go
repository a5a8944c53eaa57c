package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/shoaibsidiki/deltaT-calculator/result"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

// ErrTooFewPoints is returned for a curve with fewer than two valid samples.
var ErrTooFewPoints = errors.New("too few valid samples to plot")

const (
	chartWidth  = 800
	chartHeight = 480
)

// RenderCurvePNG draws the valid samples of a sensitivity curve as a line chart.
func RenderCurvePNG(w io.Writer, c sweep.Curve) error {
	xs := make([]float64, 0, len(c.Points))
	ys := make([]float64, 0, len(c.Points))
	for _, p := range c.Points {
		if p.Valid() {
			xs = append(xs, p.Value)
			ys = append(ys, p.DeltaTc)
		}
	}
	if len(xs) < 2 {
		return fmt.Errorf("chart %s: %w (%d)", c.Field, ErrTooFewPoints, len(xs))
	}

	graph := chart.Chart{
		Title:  "ΔTc vs " + c.Field.String(),
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{Name: c.Field.Label()},
		YAxis: chart.YAxis{Name: result.DeltaTLabel},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "ΔTc",
				XValues: xs,
				YValues: ys,
			},
		},
	}
	// go-chart refuses an empty range, e.g. a flat curve at mu = 0
	if r := flatRange(xs); r != nil {
		graph.XAxis.Range = r
	}
	if r := flatRange(ys); r != nil {
		graph.YAxis.Range = r
	}
	return graph.Render(chart.PNG, w)
}

func flatRange(vs []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi > lo {
		return nil
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
