// Package main provides the pointcluster command: generate or load a 2D
// point set, cluster it with each configured method, and report the result.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TrevorS/pointcluster"
	"github.com/TrevorS/pointcluster/internal/config"
	"github.com/TrevorS/pointcluster/internal/dataset"
	"github.com/TrevorS/pointcluster/internal/plot"
	"github.com/TrevorS/pointcluster/internal/report"
	"github.com/TrevorS/pointcluster/internal/synth"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "pointcluster.yaml", "YAML settings file (optional)")
	k := flag.Int("k", 0, "Number of clusters (overrides config)")
	total := flag.Int("points", 0, "Number of points to generate (overrides config)")
	seed := flag.Uint64("seed", 0, "Random seed (overrides config)")
	method := flag.String("method", "", "centroids, medoids or all (overrides config)")
	input := flag.String("input", "", "CSV file with x,y columns to cluster instead of generating points")
	output := flag.String("output", "", "Write a JSON report to this file")
	plotDir := flag.String("plot-dir", "", "Write HTML scatter charts to this directory")
	savePoints := flag.String("save-points", "", "Write the clustered point set to this CSV file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().Str("run", uuid.NewString()).Logger()

	// A missing file already yields the defaults; anything else is fatal.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load config")
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "k":
			cfg.K = *k
		case "points":
			cfg.Points.Total = *total
		case "seed":
			cfg.Seed = *seed
		case "method":
			cfg.Method = *method
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "plot-dir":
			cfg.PlotDir = *plotDir
		case "save-points":
			cfg.SavePoints = *savePoints
		}
	})

	log.Info().Str("version", Version).Int("k", cfg.K).Str("method", cfg.Method).Msg("Starting pointcluster")
	if err := run(cfg, log.Logger, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Run failed")
	}
}

// run clusters the configured point set with every selected method and
// prints a one-line summary per method to stdout.
func run(cfg config.Config, logger zerolog.Logger, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	methods, err := cfg.Methods()
	if err != nil {
		return err
	}

	points, err := loadPoints(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.SavePoints != "" {
		if err := savePointsCSV(cfg.SavePoints, points); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.SavePoints).Int("points", len(points)).Msg("Saved points")
	}

	if cfg.PlotDir != "" {
		if err := os.MkdirAll(cfg.PlotDir, 0o755); err != nil {
			return fmt.Errorf("create plot dir: %w", err)
		}
		path := filepath.Join(cfg.PlotDir, "points.html")
		if err := plot.WriteFile(path, func(w io.Writer) error {
			return plot.Points(w, "Input points", points)
		}); err != nil {
			return err
		}
	}

	reports := make([]report.Report, 0, len(methods))
	for _, m := range methods {
		cc := cfg.Cluster(m)
		cc.Logger = logger.With().Str("method", string(m)).Logger()

		start := time.Now()
		res, err := pointcluster.Cluster(points, cc)
		if err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}
		elapsed := time.Since(start)

		rep := report.New(res, elapsed, cfg.MaxDistance, cfg.Output != "")
		reports = append(reports, rep)

		event := logger.Info()
		if !rep.Passed {
			event = logger.Warn()
		}
		event.Str("method", rep.Method).
			Int("groups", rep.Groups).
			Dur("elapsed", elapsed).
			Bool("converged", rep.Converged).
			Bool("passed", rep.Passed).
			Msg("Clustering finished")
		fmt.Fprintf(stdout, "%-9s groups=%d points=%d elapsed=%s mean-distance-check=%s\n",
			rep.Method, rep.Groups, rep.Points, elapsed.Round(time.Microsecond), verdict(rep.Passed))

		if cfg.PlotDir != "" {
			path := filepath.Join(cfg.PlotDir, string(m)+".html")
			title := fmt.Sprintf("%s (k=%d)", m, cfg.K)
			if err := plot.WriteFile(path, func(w io.Writer) error {
				return plot.Clusters(w, title, points, res.Clusters)
			}); err != nil {
				return err
			}
			logger.Debug().Str("path", path).Msg("Wrote plot")
		}
	}

	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		if err := report.Write(f, reports); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.Output).Msg("Wrote report")
	}
	return nil
}

func loadPoints(cfg config.Config, logger zerolog.Logger) ([]pointcluster.Point, error) {
	if cfg.Input != "" {
		points, err := dataset.ReadFile(cfg.Input)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("input", cfg.Input).Int("points", len(points)).Msg("Loaded points")
		return points, nil
	}
	start := time.Now()
	points, err := synth.Generate(cfg.Points, rand.NewPCG(cfg.Seed, ^cfg.Seed))
	if err != nil {
		return nil, err
	}
	logger.Info().Int("points", len(points)).Dur("elapsed", time.Since(start)).Msg("Generated points")
	return points, nil
}

func savePointsCSV(path string, points []pointcluster.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create points file: %w", err)
	}
	if err := dataset.WriteCSV(f, points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func verdict(passed bool) string {
	if passed {
		return "pass"
	}
	return "FAIL"
}
