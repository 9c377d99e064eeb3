package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/freqplot"
	_ "github.com/carbocation/freqplot/compileinfoprint"
	"github.com/carbocation/freqplot/loglog"
	"github.com/carbocation/freqplot/series"
	"github.com/carbocation/pfx"
)

const (
	defaultDatasets = "subtree,duplen"
	yLabel          = "frequency"
)

type options struct {
	inDir         string
	outDir        string
	datasets      []series.Dataset
	renderer      string
	width         int
	height        int
	skipMalformed bool
}

func main() {
	var datasets string
	opts := options{}

	flag.StringVar(&opts.inDir, "dir", ".", "Directory (or gs://bucket/prefix) holding the <dataset>.csv files")
	flag.StringVar(&opts.outDir, "out", ".", "Local directory into which <dataset>_plot.png files are written")
	flag.StringVar(&datasets, "datasets", defaultDatasets, "Comma-separated dataset names, processed in order")
	flag.StringVar(&opts.renderer, "renderer", "gonum", "Plotting backend: 'gonum' or 'chart'")
	flag.IntVar(&opts.width, "width", loglog.DefaultWidth, "(Optional) Pixel width of each plot")
	flag.IntVar(&opts.height, "height", loglog.DefaultHeight, "(Optional) Pixel height of each plot")
	flag.BoolVar(&opts.skipMalformed, "skip-malformed", false, "Log and skip rows that cannot be parsed, rather than stopping")
	flag.Parse()

	opts.datasets = parseDatasets(datasets)

	if err := run(context.Background(), opts); err != nil {
		log.Fatalln(err)
	}
}

func parseDatasets(list string) []series.Dataset {
	out := make([]series.Dataset, 0)
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, series.Dataset(name))
		}
	}

	return out
}

func run(ctx context.Context, opts options) error {
	if len(opts.datasets) == 0 {
		return fmt.Errorf("no datasets were named")
	}

	inDir, err := freqplot.ExpandHome(opts.inDir)
	if err != nil {
		return err
	}

	outDir, err := freqplot.ExpandHome(opts.outDir)
	if err != nil {
		return err
	}
	if freqplot.IsGoogleStoragePath(outDir) {
		return fmt.Errorf("output directory %s must be local", outDir)
	}

	renderer, err := loglog.RendererByName(opts.renderer, opts.width, opts.height)
	if err != nil {
		return err
	}

	var client *storage.Client
	if freqplot.IsGoogleStoragePath(inDir) {
		client, err = storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
	}

	var loadOpts []series.Option
	if opts.skipMalformed {
		loadOpts = append(loadOpts, series.SkipMalformed(log.Printf))
	}

	fig := loglog.New()

	for _, dataset := range opts.datasets {
		if err := plotDataset(ctx, fig, renderer, client, dataset, inDir, outDir, loadOpts...); err != nil {
			return err
		}
	}

	return nil
}

// plotDataset draws one dataset onto fig, saves it, and leaves fig blank for
// the next one.
func plotDataset(ctx context.Context, fig *loglog.Figure, renderer loglog.Renderer, client *storage.Client, dataset series.Dataset, inDir, outDir string, loadOpts ...series.Option) error {
	defer fig.Clear()

	inPath := freqplot.JoinPath(inDir, dataset.Input())
	pair, err := series.Load(ctx, inPath, client, loadOpts...)
	if err != nil {
		return err
	}
	log.Printf("Read %d rows from %s\n", pair.Len(), inPath)

	fig.SetXLabel(dataset.XLabel())
	fig.SetYLabel(yLabel)
	if err := fig.LogLog(pair.X, pair.Y); err != nil {
		return pfx.Err(err)
	}

	outPath := freqplot.JoinPath(outDir, dataset.Output())
	if err := fig.Save(outPath, renderer); err != nil {
		return err
	}
	log.Printf("Wrote %s\n", outPath)

	return nil
}
