// Package series reads two-column integer series, such as size/frequency
// tables, out of comma-delimited files.
package series

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/freqplot"
)

const (
	XColumn = 0
	YColumn = 1
)

// ErrShortRow is wrapped by a RowError when a data row has fewer than two
// fields.
var ErrShortRow = errors.New("row has fewer than two fields")

// Dataset is the name of one table. It determines the input file, the output
// image and the x-axis label.
type Dataset string

func (d Dataset) Input() string  { return string(d) + ".csv" }
func (d Dataset) Output() string { return string(d) + "_plot.png" }
func (d Dataset) XLabel() string { return string(d) + "size" }

// Pair holds the first (X) and second (Y) column of every data row, in file
// order. X and Y always have the same length.
type Pair struct {
	X []int
	Y []int
}

func (p Pair) Len() int {
	return len(p.X)
}

// RowError describes a data row that could not be parsed.
type RowError struct {
	// Line is the 1-based line of the file holding the row
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type config struct {
	skipMalformed bool
	logf          func(format string, args ...interface{})
}

type Option func(*config)

// SkipMalformed makes Read report malformed rows through logf and carry on,
// rather than abort on the first one.
func SkipMalformed(logf func(format string, args ...interface{})) Option {
	return func(c *config) {
		c.skipMalformed = true
		c.logf = logf
	}
}

// Read discards the first line of r as a header and splits every remaining
// line on commas, parsing the first two fields as integers. Fields beyond the
// second are ignored. An empty line is a malformed row.
func Read(r io.Reader, opts ...Option) (Pair, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := Pair{X: make([]int, 0), Y: make([]int, 0)}

	br := bufio.NewReader(r)

	for line := 1; ; line++ {
		text, err := br.ReadString('\n')
		if err == io.EOF && text == "" {
			break
		} else if err != nil && err != io.EOF {
			return Pair{}, fmt.Errorf("line %d: %w", line, err)
		}
		atEOF := err == io.EOF

		// Header
		if line == 1 {
			if atEOF {
				break
			}
			continue
		}

		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")

		x, y, err := parseRow(strings.Split(text, ","))
		if err != nil {
			rowErr := &RowError{Line: line, Err: err}
			if !cfg.skipMalformed {
				return Pair{}, rowErr
			}
			if cfg.logf != nil {
				cfg.logf("Skipping %v\n", rowErr)
			}
		} else {
			out.X = append(out.X, x)
			out.Y = append(out.Y, y)
		}

		if atEOF {
			break
		}
	}

	return out, nil
}

func parseRow(row []string) (x, y int, err error) {
	if len(row) < 2 {
		return 0, 0, ErrShortRow
	}

	if x, err = strconv.Atoi(strings.TrimSpace(row[XColumn])); err != nil {
		return 0, 0, err
	}

	if y, err = strconv.Atoi(strings.TrimSpace(row[YColumn])); err != nil {
		return 0, 0, err
	}

	return x, y, nil
}

// Load opens path, which may be local, gs://, and/or compressed, and reads it
// with Read. The client is only consulted for gs:// paths and may be nil
// otherwise.
func Load(ctx context.Context, path string, client *storage.Client, opts ...Option) (Pair, error) {
	f, err := freqplot.Open(ctx, path, client)
	if err != nil {
		return Pair{}, err
	}
	defer f.Close()

	out, err := Read(f, opts...)
	if err != nil {
		return Pair{}, fmt.Errorf("%s: %w", path, err)
	}

	return out, nil
}
