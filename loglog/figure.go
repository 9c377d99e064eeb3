// Package loglog draws integer series on log-log axes and writes the result
// as a PNG.
//
// A Figure is an explicit plot context. Nothing is global: callers fill a
// Figure, save it, and Clear it before drawing the next dataset.
package loglog

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Line is one series on a Figure, in data coordinates.
type Line struct {
	X []float64
	Y []float64
}

// Figure holds axis labels and the lines drawn so far.
type Figure struct {
	xLabel string
	yLabel string
	lines  []Line
}

func New() *Figure {
	return &Figure{}
}

func (f *Figure) SetXLabel(label string) { f.xLabel = label }
func (f *Figure) SetYLabel(label string) { f.yLabel = label }
func (f *Figure) XLabel() string         { return f.xLabel }
func (f *Figure) YLabel() string         { return f.yLabel }

// Lines returns a copy of the lines drawn on the figure.
func (f *Figure) Lines() []Line {
	out := make([]Line, len(f.lines))
	copy(out, f.lines)
	return out
}

// LogLog adds a line through the points (xs[i], ys[i]).
func (f *Figure) LogLog(xs, ys []int) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("x has %d values but y has %d", len(xs), len(ys))
	}

	line := Line{X: make([]float64, len(xs)), Y: make([]float64, len(ys))}
	for i := range xs {
		line.X[i] = float64(xs[i])
		line.Y[i] = float64(ys[i])
	}
	f.lines = append(f.lines, line)

	return nil
}

// Clear resets the figure to a blank canvas: no labels and no lines.
func (f *Figure) Clear() {
	f.xLabel = ""
	f.yLabel = ""
	f.lines = nil
}

// Render draws the figure with r and returns the encoded image.
func (f *Figure) Render(r Renderer) ([]byte, error) {
	var buffer bytes.Buffer
	if err := r.Render(f, &buffer); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// Save renders the figure and writes it to path, replacing any existing file.
// path is only touched once the whole image has been written, so a failure
// leaves neither a partial image nor a damaged copy of the previous one.
func (f *Figure) Save(path string, r Renderer) error {
	img, err := f.Render(r)
	if err != nil {
		return pfx.Err(fmt.Errorf("rendering %s: %w", path, err))
	}

	if err := writeFileAtomic(path, bytes.NewReader(img)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// writeFileAtomic copies src into a temporary file beside path and renames it
// onto path. The temporary file is removed on any error.
func writeFileAtomic(path string, src io.Reader) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, src); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err = tmp.Chmod(0644); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return os.Rename(tmp.Name(), path)
}

// positiveLines returns the lines with every point that cannot be placed on a
// log axis removed, along with how many points were removed.
func (f *Figure) positiveLines() ([]Line, int) {
	out := make([]Line, 0, len(f.lines))
	dropped := 0

	for _, l := range f.lines {
		kept := Line{X: make([]float64, 0, len(l.X)), Y: make([]float64, 0, len(l.Y))}
		for i := range l.X {
			if l.X[i] <= 0 || l.Y[i] <= 0 {
				dropped++
				continue
			}
			kept.X = append(kept.X, l.X[i])
			kept.Y = append(kept.Y, l.Y[i])
		}
		if len(kept.X) > 0 {
			out = append(out, kept)
		}
	}

	if dropped > 0 {
		log.Printf("Dropped %d point(s) with a non-positive coordinate from the log-log plot of %q\n", dropped, f.xLabel)
	}

	return out, dropped
}

// decadeExponents returns the powers of ten that enclose every value. With no
// values, the range is [10^0, 10^1]. The two exponents always differ.
func decadeExponents(lines []Line, axis func(Line) []float64) (lo, hi int) {
	vMin, vMax := math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		for _, v := range axis(l) {
			vMin = math.Min(vMin, v)
			vMax = math.Max(vMax, v)
		}
	}

	if math.IsInf(vMin, 1) {
		return 0, 1
	}

	lo = int(math.Floor(math.Log10(vMin)))
	hi = int(math.Ceil(math.Log10(vMax)))
	if hi <= lo {
		hi = lo + 1
	}

	return lo, hi
}

func xValues(l Line) []float64 { return l.X }
func yValues(l Line) []float64 { return l.Y }

// Renderer encodes a Figure as an image.
type Renderer interface {
	Render(f *Figure, w io.Writer) error
}

// RendererByName returns the renderer called name ("gonum" or "chart") that
// produces images of the given pixel dimensions.
func RendererByName(name string, width, height int) (Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image dimensions must be positive, got %dx%d", width, height)
	}

	switch strings.ToLower(name) {
	case "", "gonum":
		return NewGonum(width, height), nil
	case "chart":
		return Chart{Width: width, Height: height}, nil
	}

	return nil, fmt.Errorf("unknown renderer %q; expected 'gonum' or 'chart'", name)
}
