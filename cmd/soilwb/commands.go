package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/config"
	"github.com/verte-zerg/soilwb/internal/historyui"
	"github.com/verte-zerg/soilwb/internal/model"
	"github.com/verte-zerg/soilwb/internal/rainfall"
	"github.com/verte-zerg/soilwb/internal/stats"
	"github.com/verte-zerg/soilwb/internal/store"
	"github.com/verte-zerg/soilwb/internal/writers"
)

const (
	defaultGenDays      = 122
	defaultGenWetProb   = 0.45
	defaultGenMeanDepth = 12.0
	defaultGenOut       = "synthetic_rainfall.csv"
)

var (
	genDays      int
	genSeed      int64
	genWetProb   float64
	genMeanDepth float64
	genOut       string

	historySoil   string
	historySince  string
	historyLast   int
	historyPlain  bool
	historyRun    int64
	historyDelete int64
)

func newSoilsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "soils",
		Short: "List soil profiles and runoff bands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := stats.RenderSoils(cmd.OutOrStdout(), balance.DefaultParams()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic daily rainfall CSV",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	cmd.Flags().IntVar(&genDays, "days", defaultGenDays, "number of days")
	cmd.Flags().Int64Var(&genSeed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&genWetProb, "wet-prob", defaultGenWetProb, "probability of a wet day (0-1)")
	cmd.Flags().Float64Var(&genMeanDepth, "mean-depth", defaultGenMeanDepth, "mean rainfall of a wet day in mm")
	cmd.Flags().StringVar(&genOut, "out", defaultGenOut, "output CSV path ('-' for stdout)")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	if genDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	if genWetProb < 0 || genWetProb > 1 {
		return fmt.Errorf("--wet-prob must be between 0 and 1")
	}
	if genMeanDepth < 0 {
		return fmt.Errorf("--mean-depth must be >= 0")
	}
	series := rainfall.NewGenerator(genSeed).Generate(genDays, genWetProb, genMeanDepth)
	write := func(w io.Writer) error {
		return writers.WriteSeriesCSV(w, rainfall.DefaultColumn, series)
	}
	if genOut == "-" {
		if err := write(cmd.OutOrStdout()); err != nil && !writers.IsBrokenPipe(err) {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := writers.WriteFileAtomic(genOut, write); err != nil {
		return fmt.Errorf("failed to write %s: %w", genOut, err)
	}
	logErrf("Wrote %d days to %s\n", len(series), genOut)
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySoil, "soil", "", "soil filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of the interactive browser")
	cmd.Flags().Int64Var(&historyRun, "run", 0, "print the daily rows of one run")
	cmd.Flags().Int64Var(&historyDelete, "delete", 0, "delete one run")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	soilFilter := ""
	if strings.TrimSpace(historySoil) != "" {
		soil, err := balance.ParseSoil(historySoil)
		if err != nil {
			return userError(err, "", "")
		}
		soilFilter = string(soil)
	}

	cfg := model.HistoryConfig{
		Soil:  soilFilter,
		Since: sinceTime,
		Last:  historyLast,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	switch {
	case historyDelete > 0:
		if err := st.DeleteRun(ctx, historyDelete); err != nil {
			return fmt.Errorf("failed to delete run %d: %w", historyDelete, err)
		}
		logErrf("Deleted run %d\n", historyDelete)
		return nil
	case historyRun > 0:
		records, err := st.ListRunDays(ctx, historyRun)
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", historyRun, err)
		}
		if len(records) == 0 {
			return fmt.Errorf("run %d not found", historyRun)
		}
		return stats.RenderDayTable(out, records, 2)
	}

	if historyPlain || !isTerminal(out) {
		report, err := stats.BuildReport(ctx, st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if err := stats.RenderRunTable(out, report.Runs); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		totals := report.Totals()
		for _, soil := range balance.Soils {
			sum, ok := totals[soil]
			if !ok {
				continue
			}
			if _, err := fmt.Fprintln(out); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := stats.RenderSummary(out, soil, sum); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	ui := historyui.NewModel(st, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
