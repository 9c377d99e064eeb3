package loglog

import (
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Gonum renders figures with gonum.org/v1/plot.
type Gonum struct {
	Width  vg.Length
	Height vg.Length
}

// NewGonum returns a Gonum renderer producing images of the given size in
// pixels, at vgimg's default resolution.
func NewGonum(widthPx, heightPx int) Gonum {
	return Gonum{
		Width:  vg.Length(widthPx) * vg.Inch / vgimg.DefaultDPI,
		Height: vg.Length(heightPx) * vg.Inch / vgimg.DefaultDPI,
	}
}

func (g Gonum) Render(f *Figure, w io.Writer) error {
	lines, _ := f.positiveLines()

	p := plot.New()
	p.X.Label.Text = f.XLabel()
	p.Y.Label.Text = f.YLabel()

	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	for _, l := range lines {
		pts := make(plotter.XYs, len(l.X))
		for i := range pts {
			pts[i].X = l.X[i]
			pts[i].Y = l.Y[i]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		p.Add(line)
	}

	// The axes are pinned to whole decades so that an empty figure, or one
	// holding a single distinct value, still has a positive, non-empty range.
	xLo, xHi := decadeExponents(lines, xValues)
	yLo, yHi := decadeExponents(lines, yValues)
	p.X.Min, p.X.Max = math.Pow10(xLo), math.Pow10(xHi)
	p.Y.Min, p.Y.Max = math.Pow10(yLo), math.Pow10(yHi)

	canvas := vgimg.PngCanvas{Canvas: vgimg.New(g.Width, g.Height)}
	p.Draw(draw.New(canvas))

	_, err := canvas.WriteTo(w)
	return err
}
