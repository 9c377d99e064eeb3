package loglog

import (
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
)

// Chart renders figures with go-chart. go-chart has no robust log axis, so
// values are plotted as their base-10 logarithm on a linear axis whose ticks
// sit on whole decades and carry the untransformed value as their label.
type Chart struct {
	Width  int
	Height int
}

func (c Chart) Render(f *Figure, w io.Writer) error {
	lines, _ := f.positiveLines()

	series := make([]chart.Series, 0, len(lines))
	for _, l := range lines {
		series = append(series, chart.ContinuousSeries{
			XValues: log10Slice(l.X),
			YValues: log10Slice(l.Y),
		})
	}

	// go-chart refuses to render without a visible series. An empty one draws
	// nothing but keeps the axes.
	if len(series) == 0 {
		series = append(series, chart.ContinuousSeries{XValues: []float64{}, YValues: []float64{}})
	}

	xLo, xHi := decadeExponents(lines, xValues)
	yLo, yHi := decadeExponents(lines, yValues)

	graph := chart.Chart{
		Width:  c.Width,
		Height: c.Height,
		XAxis: chart.XAxis{
			Name:  f.XLabel(),
			Ticks: decadeTicks(xLo, xHi),
		},
		YAxis: chart.YAxis{
			Name:  f.YLabel(),
			Ticks: decadeTicks(yLo, yHi),
		},
		Series: series,
	}

	return graph.Render(chart.PNG, w)
}

func log10Slice(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Log10(v)
	}

	return out
}

func decadeTicks(lo, hi int) []chart.Tick {
	ticks := make([]chart.Tick, 0, hi-lo+1)
	for exp := lo; exp <= hi; exp++ {
		ticks = append(ticks, chart.Tick{
			Value: float64(exp),
			Label: strconv.FormatFloat(math.Pow10(exp), 'g', -1, 64),
		})
	}

	return ticks
}
