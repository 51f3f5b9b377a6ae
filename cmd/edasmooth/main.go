// Command edasmooth denoises a scalar sensor series with the particle
// filtering stage. Without an input file it simulates a noisy random
// walk, which makes it a self-contained demonstration of the filter.
//
// Input and output are two-column CSV (timestamp, value). An optional
// plot compares the raw and the smoothed series.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/EdwinMarteZorrilla/flirt"
	"github.com/EdwinMarteZorrilla/flirt/signal"
	"github.com/EdwinMarteZorrilla/flirt/simulate"
	"github.com/EdwinMarteZorrilla/flirt/ssm"
)

func main() {
	var (
		inPath    = flag.String("in", "", "input CSV file (timestamp,value); empty simulates a series")
		outPath   = flag.String("out", "", "output CSV file; empty writes to stdout")
		plotPath  = flag.String("plot", "", "optional PNG plot of raw vs smoothed series")
		samples   = flag.Int("samples", 240, "number of simulated samples when no input file is given")
		frequency = flag.Float64("frequency", 4, "sampling frequency in Hz for simulated series")
		particles = flag.Int("particles", 80, "number of filtering particles")
		smoothers = flag.Int("smoothers", 40, "number of backward smoothing trajectories")
		p0        = flag.Float64("p0", 0.02, "initial state variance")
		q         = flag.Float64("q", 0.02, "process noise variance")
		r         = flag.Float64("r", 0.06, "measurement noise variance")
		seed      = flag.Uint64("seed", 1, "random seed")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg := flirt.Config{
		NumParticles: *particles,
		NumSmoothers: *smoothers,
		P0Variance:   *p0,
		QVariance:    *q,
		RVariance:    *r,
		Seed:         *seed,
	}
	stage, err := flirt.NewParticleFilter(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var raw signal.TimeSeries
	if *inPath != "" {
		raw, err = readSeries(*inPath)
	} else {
		raw, err = simulateSeries(cfg, *samples, *frequency)
	}
	if err != nil {
		log.Fatal(err)
	}

	smoothed, err := stage.Process(raw)
	if err != nil {
		log.Fatal(err)
	}

	if err := writeSeries(*outPath, smoothed); err != nil {
		log.Fatal(err)
	}
	if *plotPath != "" {
		if err := plotSeries(*plotPath, raw, smoothed); err != nil {
			log.Fatal(err)
		}
	}
}

func simulateSeries(cfg flirt.Config, n int, frequency float64) (signal.TimeSeries, error) {
	model, err := ssm.NewRandomWalk(cfg.P0Variance, cfg.QVariance, cfg.RVariance)
	if err != nil {
		return signal.TimeSeries{}, err
	}
	tr, err := simulate.Run(model, n, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return signal.TimeSeries{}, err
	}
	return signal.Uniform(tr.Observations, frequency)
}

func readSeries(path string) (signal.TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return signal.TimeSeries{}, err
	}
	defer f.Close()

	var timestamps, values []float64
	reader := csv.NewReader(f)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return signal.TimeSeries{}, err
		}
		if len(record) != 2 {
			return signal.TimeSeries{}, fmt.Errorf("expected two columns, got %d", len(record))
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return signal.TimeSeries{}, err
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return signal.TimeSeries{}, err
		}
		timestamps = append(timestamps, t)
		values = append(values, v)
	}
	return signal.New(timestamps, values)
}

func writeSeries(path string, s signal.TimeSeries) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	writer := csv.NewWriter(out)
	defer writer.Flush()
	for i := range s.Values {
		record := []string{
			strconv.FormatFloat(s.Timestamps[i], 'g', -1, 64),
			strconv.FormatFloat(s.Values[i], 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func plotSeries(path string, raw, smoothed signal.TimeSeries) error {
	p := plot.New()
	p.Title.Text = "Particle filter denoising"
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = "signal"

	err := plotutil.AddLinePoints(p,
		"Raw", points(raw),
		"Smoothed", points(smoothed),
	)
	if err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func points(s signal.TimeSeries) plotter.XYs {
	pts := make(plotter.XYs, s.Len())
	for i := range pts {
		pts[i].X = s.Timestamps[i]
		pts[i].Y = s.Values[i]
	}
	return pts
}
