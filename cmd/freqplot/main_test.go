package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/carbocation/freqplot/loglog"
	"github.com/carbocation/freqplot/series"
)

func defaultOptions(dir string) options {
	return options{
		inDir:    dir,
		outDir:   dir,
		datasets: parseDatasets(defaultDatasets),
		renderer: "gonum",
		width:    loglog.DefaultWidth,
		height:   loglog.DefaultHeight,
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	if _, err := png.Decode(bytes.NewReader(contents)); err != nil {
		t.Errorf("%s is not a PNG: %v", path, err)
	}
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected %s not to exist, got %v", path, err)
	}
}

func TestParseDatasets(t *testing.T) {
	got := parseDatasets(" subtree, ,duplen,")
	expected := []series.Dataset{"subtree", "duplen"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestDefaults(t *testing.T) {
	expected := []series.Dataset{"subtree", "duplen"}
	if got := parseDatasets(defaultDatasets); !reflect.DeepEqual(got, expected) {
		t.Errorf("default datasets %v, expected %v", got, expected)
	}
	if yLabel != "frequency" {
		t.Errorf("y label %q, expected %q", yLabel, "frequency")
	}
}

func TestRunWritesBothPlots(t *testing.T) {
	for _, renderer := range []string{"gonum", "chart"} {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "subtree.csv"), "a,b\n1,10\n2,5\n4,2\n")
		writeFile(t, filepath.Join(dir, "duplen.csv"), "len,count\n")

		opts := defaultOptions(dir)
		opts.renderer = renderer
		if err := run(context.Background(), opts); err != nil {
			t.Fatalf("%s: %v", renderer, err)
		}

		requirePNG(t, filepath.Join(dir, "subtree_plot.png"))
		requirePNG(t, filepath.Join(dir, "duplen_plot.png"))
	}
}

func TestRunIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "subtree.csv"), "a,b\n1,10\n2,5\n4,2\n")
	writeFile(t, filepath.Join(dir, "duplen.csv"), "a,b\n3,300\n30,3\n")

	var images [2][]byte
	for i := range images {
		if err := run(context.Background(), defaultOptions(dir)); err != nil {
			t.Fatal(err)
		}
		var err error
		images[i], err = os.ReadFile(filepath.Join(dir, "duplen_plot.png"))
		if err != nil {
			t.Fatal(err)
		}
	}

	if !bytes.Equal(images[0], images[1]) {
		t.Error("running twice on unchanged input produced different images")
	}
}

func TestRunMalformedFirstDatasetAborts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "subtree.csv"), "a,b\n1,10\nx,5\n")
	writeFile(t, filepath.Join(dir, "duplen.csv"), "a,b\n1,1\n")

	err := run(context.Background(), defaultOptions(dir))
	var rowErr *series.RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected a row error, got %v", err)
	}

	requireMissing(t, filepath.Join(dir, "subtree_plot.png"))
	requireMissing(t, filepath.Join(dir, "duplen_plot.png"))
}

func TestRunMalformedSecondDatasetKeepsFirstPlot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "subtree.csv"), "a,b\n1,10\n")
	writeFile(t, filepath.Join(dir, "duplen.csv"), "a,b\n7\n")

	if err := run(context.Background(), defaultOptions(dir)); !errors.Is(err, series.ErrShortRow) {
		t.Fatalf("expected a short row error, got %v", err)
	}

	requirePNG(t, filepath.Join(dir, "subtree_plot.png"))
	requireMissing(t, filepath.Join(dir, "duplen_plot.png"))
}

func TestRunSkipMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "subtree.csv"), "a,b\n1,10\nx,5\n4,2\n")
	writeFile(t, filepath.Join(dir, "duplen.csv"), "a,b\n1,1\n")

	opts := defaultOptions(dir)
	opts.skipMalformed = true
	if err := run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	requirePNG(t, filepath.Join(dir, "subtree_plot.png"))
	requirePNG(t, filepath.Join(dir, "duplen_plot.png"))
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "duplen.csv"), "a,b\n1,1\n")

	if err := run(context.Background(), defaultOptions(dir)); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}

	requireMissing(t, filepath.Join(dir, "duplen_plot.png"))
}

func TestRunRejectsBadOptions(t *testing.T) {
	dir := t.TempDir()

	opts := defaultOptions(dir)
	opts.datasets = nil
	if err := run(context.Background(), opts); err == nil {
		t.Error("expected an error with no datasets")
	}

	opts = defaultOptions(dir)
	opts.renderer = "ascii"
	if err := run(context.Background(), opts); err == nil {
		t.Error("expected an error for an unknown renderer")
	}

	opts = defaultOptions(dir)
	opts.outDir = "gs://bucket/plots"
	if err := run(context.Background(), opts); err == nil {
		t.Error("expected an error for a gs:// output directory")
	}
}
