// Package main provides the CLI entrypoint for soilwb.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/soilwb/internal/balance"
	"github.com/verte-zerg/soilwb/internal/config"
	"github.com/verte-zerg/soilwb/internal/model"
	"github.com/verte-zerg/soilwb/internal/observability"
	"github.com/verte-zerg/soilwb/internal/prompt"
	"github.com/verte-zerg/soilwb/internal/rainfall"
	"github.com/verte-zerg/soilwb/internal/runner"
	"github.com/verte-zerg/soilwb/internal/stats"
	"github.com/verte-zerg/soilwb/internal/store"
)

const (
	defaultInput     = "daily_rainfall_jalgaon_chalisgaon_talegaon_2022.csv"
	defaultOutDir    = "."
	defaultPrecision = -1
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
)

var (
	simSoil        string
	simInput       string
	simColumn      string
	simOutDir      string
	simStdout      bool
	simPrecision   int
	simHistory     bool
	simSummary     bool
	simMetricsFile string
	logLevel       string
	logFormat      string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "soilwb",
		Short:         "Daily soil water balance from a rainfall series",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSimulateCmd,
	}

	rootCmd.Flags().StringVar(&simSoil, "soil", "", "soil type: deep, shallow, a comma list or 'all' (prompts when empty)")
	rootCmd.Flags().StringVar(&simInput, "input", defaultInput, "rainfall CSV file")
	rootCmd.Flags().StringVar(&simColumn, "column", rainfall.DefaultColumn, "rainfall column name")
	rootCmd.Flags().StringVar(&simOutDir, "out-dir", defaultOutDir, "directory for result files")
	rootCmd.Flags().BoolVar(&simStdout, "stdout", false, "write the result table to stdout instead of a file")
	rootCmd.Flags().IntVar(&simPrecision, "precision", defaultPrecision, "decimal places in the result table (-1: full precision)")
	rootCmd.Flags().BoolVar(&simHistory, "history", true, "save the run to the history database")
	rootCmd.Flags().BoolVar(&simSummary, "summary", true, "print the season summary")
	rootCmd.Flags().StringVar(&simMetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaultLogFormat, "log format: text or json")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSoilsCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "soil", &simSoil, fileCfg.Simulate.Soil)
	applyStringConfig(cmd, "input", &simInput, fileCfg.Simulate.Input)
	applyStringConfig(cmd, "column", &simColumn, fileCfg.Simulate.Column)
	applyStringConfig(cmd, "out-dir", &simOutDir, fileCfg.Simulate.OutDir)
	applyIntConfig(cmd, "precision", &simPrecision, fileCfg.Simulate.Precision)
	applyBoolConfig(cmd, "history", &simHistory, fileCfg.Simulate.History)
	applyBoolConfig(cmd, "summary", &simSummary, fileCfg.Simulate.Summary)
	applyStringConfig(cmd, "metrics-file", &simMetricsFile, fileCfg.Simulate.MetricsFile)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)

	logger, err := observability.NewLogger(cmd.ErrOrStderr(), logLevel, logFormat)
	if err != nil {
		return err
	}

	// Messages go to stderr when stdout carries the result table.
	msgOut := cmd.OutOrStdout()
	if simStdout {
		msgOut = cmd.ErrOrStderr()
	}

	params := balance.DefaultParams()
	soils, err := resolveSoils(cmd, msgOut, params)
	if err != nil {
		return userError(err, simInput, simColumn)
	}

	cfg := model.Config{
		Soils:       soils,
		Input:       simInput,
		Column:      simColumn,
		OutDir:      simOutDir,
		Stdout:      simStdout,
		Precision:   simPrecision,
		History:     simHistory,
		MetricsFile: simMetricsFile,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	var runStore runner.RunStore
	if cfg.History {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			logger.Warn("run history disabled", "error", err)
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logger.Warn("failed to close db", "error", cerr)
				}
			}()
			runStore = st
		}
	}

	run := runner.New(balance.New(params), runStore, clockwork.NewRealClock(), logger, observability.NewMetrics(), cmd.OutOrStdout())
	results, err := run.Run(cmd.Context(), cfg)
	if err != nil {
		return userError(err, cfg.Input, cfg.Column)
	}

	for _, res := range results {
		if simSummary {
			if err := stats.RenderSummary(msgOut, res.Soil, res.Summary); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if cfg.Stdout {
			continue
		}
		if _, err := fmt.Fprintf(msgOut, "Water balance calculation complete. Results saved to %s.\n", res.Output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// resolveSoils parses --soil, or asks for a single soil when it is empty.
func resolveSoils(cmd *cobra.Command, out io.Writer, params *balance.Params) ([]balance.Soil, error) {
	if strings.TrimSpace(simSoil) != "" {
		return balance.ParseSoilList(simSoil)
	}
	var (
		soil balance.Soil
		err  error
	)
	if in, ok := cmd.InOrStdin().(*os.File); ok {
		soil, err = prompt.SelectSoil(in, out, params)
	} else {
		soil, err = prompt.ReadSoil(cmd.InOrStdin(), out)
	}
	if err != nil {
		return nil, err
	}
	return []balance.Soil{soil}, nil
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Input) == "" {
		return fmt.Errorf("--input must not be empty")
	}
	if strings.TrimSpace(cfg.Column) == "" {
		return fmt.Errorf("--column must not be empty")
	}
	if cfg.Precision < -1 {
		return fmt.Errorf("--precision must be >= -1")
	}
	return nil
}

// actionableError replaces a sentinel's text with a message for the user
// while keeping it matchable with errors.Is.
type actionableError struct {
	msg string
	err error
}

func (e *actionableError) Error() string { return e.msg }

func (e *actionableError) Unwrap() error { return e.err }

func userError(err error, input, column string) error {
	switch {
	case errors.Is(err, balance.ErrInvalidSoilType):
		return &actionableError{msg: "Invalid soil type. Please enter either 'deep' or 'shallow'.", err: err}
	case errors.Is(err, rainfall.ErrDataSourceNotFound):
		return &actionableError{msg: fmt.Sprintf("The file was not found: %s", input), err: err}
	case errors.Is(err, rainfall.ErrColumnNotFound):
		return &actionableError{msg: fmt.Sprintf("Column %q not found in %s. Pick the rainfall column with --column.", column, input), err: err}
	case errors.Is(err, prompt.ErrCancelled):
		return &actionableError{msg: "No soil type selected.", err: err}
	default:
		return err
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# soilwb configuration
# Uncomment a value to enable it. CLI flags override config values.

[simulate]
# soil = "deep"           # deep, shallow, a comma list or "all"
# input = %q
# column = %q       # Rainfall column name
# out-dir = %q             # Directory for result files
# precision = %d           # Decimal places (-1: full precision)
# history = true           # Save runs to the history database
# summary = true           # Print the season summary
# metrics-file = ""        # Prometheus textfile path

[log]
# level = %q            # debug, info, warn, error
# format = %q          # text or json
`,
		defaultInput,
		rainfall.DefaultColumn,
		defaultOutDir,
		defaultPrecision,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
