// Package runner wires rainfall input, the water balance and result output
// into one invocation.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/model"
	"github.com/verte-zerg/soilwb/internal/observability"
	"github.com/verte-zerg/soilwb/internal/rainfall"
	"github.com/verte-zerg/soilwb/internal/writers"
)

// StdoutOutput is the Output value of results written to standard output.
const StdoutOutput = "-"

// RunStore persists completed runs.
type RunStore interface {
	InsertRun(ctx context.Context, stats model.RunStats, days []balance.DailyRecord) (int64, error)
}

// Result is the outcome of simulating one soil.
type Result struct {
	Soil    balance.Soil
	Records []balance.DailyRecord
	Summary balance.Summary
	Output  string
	// RunID is zero when history is disabled or saving failed.
	RunID int64
}

// Runner executes simulation runs.
type Runner struct {
	sim     *balance.Simulator
	store   RunStore
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	stdout  io.Writer
}

// New creates a Runner. store may be nil when history is not kept.
func New(sim *balance.Simulator, store RunStore, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, stdout io.Writer) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = observability.Discard()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Runner{
		sim:     sim,
		store:   store,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		stdout:  stdout,
	}
}

// Run validates cfg, loads the rainfall series once and simulates every
// requested soil. Nothing is written unless all inputs are valid.
func (r *Runner) Run(ctx context.Context, cfg model.Config) ([]Result, error) {
	start := r.clock.Now()

	if len(cfg.Soils) == 0 {
		return nil, fmt.Errorf("%w: none given", balance.ErrInvalidSoilType)
	}
	for _, soil := range cfg.Soils {
		if _, err := r.sim.Params().Profile(soil); err != nil {
			return nil, err
		}
	}
	if cfg.Stdout && len(cfg.Soils) != 1 {
		return nil, fmt.Errorf("--stdout needs exactly one soil, got %d", len(cfg.Soils))
	}

	series, err := rainfall.LoadSeries(cfg.Input, cfg.Column)
	if err != nil {
		return nil, err
	}
	r.logger.Info("rainfall loaded", "path", cfg.Input, "days", len(series))

	results, err := r.simulate(ctx, cfg.Soils, series)
	if err != nil {
		return nil, err
	}

	if err := r.writeOutputs(cfg, results); err != nil {
		return nil, err
	}

	if cfg.History && r.store != nil {
		r.saveHistory(ctx, cfg, results)
	}

	for _, res := range results {
		r.metrics.ObserveRun(res.Soil, res.Summary)
	}
	r.metrics.RunDuration.Observe(r.clock.Since(start).Seconds())
	if cfg.MetricsFile != "" {
		if err := r.metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return results, fmt.Errorf("failed to write metrics file: %w", err)
		}
	}
	return results, nil
}

// simulate runs each soil on its own goroutine. Soils share only the
// read-only parameters.
func (r *Runner) simulate(ctx context.Context, soils []balance.Soil, series []float64) ([]Result, error) {
	results := make([]Result, len(soils))
	g, gctx := errgroup.WithContext(ctx)
	for i, soil := range soils {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := r.sim.Simulate(soil, series)
			if err != nil {
				return err
			}
			sum := balance.Summarize(records, r.sim.Params().CropUptake)
			results[i] = Result{Soil: soil, Records: records, Summary: sum}
			r.logger.Debug("simulation complete",
				"soil", soil,
				"days", sum.Days,
				"final_soil_moisture", sum.FinalSoilMoisture,
				"stress_days", sum.StressDays,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) writeOutputs(cfg model.Config, results []Result) error {
	if cfg.Stdout {
		results[0].Output = StdoutOutput
		err := writers.WriteDailyCSV(r.stdout, results[0].Records, cfg.Precision)
		if err != nil && !writers.IsBrokenPipe(err) {
			return fmt.Errorf("failed to write results: %w", err)
		}
		return nil
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "."
	}
	written := make([]string, 0, len(results))
	for i := range results {
		path := filepath.Join(outDir, writers.OutputName(results[i].Soil))
		records := results[i].Records
		err := writers.WriteFileAtomic(path, func(w io.Writer) error {
			return writers.WriteDailyCSV(w, records, cfg.Precision)
		})
		if err != nil {
			for _, p := range written {
				if rerr := os.Remove(p); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
					r.logger.Warn("failed to remove partial output", "path", p, "error", rerr)
				}
			}
			return err
		}
		written = append(written, path)
		results[i].Output = path
		r.logger.Info("results written", "soil", results[i].Soil, "path", path)
	}
	return nil
}

func (r *Runner) saveHistory(ctx context.Context, cfg model.Config, results []Result) {
	createdAt := r.clock.Now()
	for i := range results {
		stats := model.RunStats{
			CreatedAt: createdAt,
			Soil:      results[i].Soil,
			Source:    cfg.Input,
			Output:    results[i].Output,
			Summary:   results[i].Summary,
		}
		id, err := r.store.InsertRun(ctx, stats, results[i].Records)
		if err != nil {
			r.logger.Warn("failed to save run history", "soil", results[i].Soil, "error", err)
			continue
		}
		results[i].RunID = id
	}
}
