// Package main provides the pushmetrics command-line tool for validating,
// summarizing and exporting mobile-push marketing CSV exports.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pushmetrics/internal/config"
	"pushmetrics/internal/dataset"
	"pushmetrics/internal/loader"
	"pushmetrics/internal/logger"
	"pushmetrics/internal/normalizer"
	"pushmetrics/internal/summary"
)

// ErrInvalidData is returned when required exports are missing or fail
// normalization.
var ErrInvalidData = errors.New("input data is incomplete or invalid")

// app carries state shared by every subcommand.
type app struct {
	out io.Writer
	err io.Writer

	configPath string
	logLevel   string
	dir        string
	preset     string
	from       string
	to         string

	cfg *config.Config
	reg *dataset.Registry
	log *logger.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, err: errOut}

	root := &cobra.Command{
		Use:   "pushmetrics",
		Short: "Validate and summarize mobile-push marketing exports",
		Long: `pushmetrics loads the seven CSV exports of a mobile-push marketing tool,
normalizes them against per-dataset schemas, and reports summary metrics,
campaign performance and filtered exports.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Path to YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVarP(&a.dir, "dir", "d", "", "Directory holding the CSV exports")
	pf.StringVar(&a.preset, "preset", "", "Date range preset: 7d, 30d, 90d, all")
	pf.StringVar(&a.from, "from", "", "Range start date (YYYY-MM-DD)")
	pf.StringVar(&a.to, "to", "", "Range end date (YYYY-MM-DD)")

	root.AddCommand(
		a.validateCmd(),
		a.summaryCmd(),
		a.campaignsCmd(),
		a.exportCmd(),
		a.verifyCmd(),
		a.sampleCmd(),
	)

	return root
}

// setup resolves configuration in order: defaults, config file, dotenv and
// environment, then flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()

	if a.configPath != "" {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	cfg.ApplyEnv(".env")

	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	if a.dir != "" {
		cfg.Input.Dir = a.dir
	}

	if a.preset != "" {
		cfg.Filter.Preset = a.preset
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.reg = reg
	a.log = logger.New(a.err, cfg.Logging.Level, cfg.Logging.Format)
	a.log.Debug("configuration loaded", "config", cfg.String(), "command", cmd.Name())

	return nil
}

// load reads the input directory. Per-file failures are logged and returned
// alongside whatever loaded.
func (a *app) load() (*loader.Bundle, error) {
	l := loader.New(normalizer.NewProcessor(a.reg), a.log)
	return l.LoadDir(a.cfg.Input.Dir, a.cfg.Input.Required)
}

// dateRange resolves --from/--to, falling back to the configured preset
// measured from the latest timestamp in tables.
func (a *app) dateRange(b *loader.Bundle) (summary.Range, error) {
	if a.from != "" || a.to != "" {
		return summary.DayRange(a.from, a.to)
	}

	preset := a.cfg.Preset()
	if preset == summary.AllTime {
		return summary.Range{}, nil
	}

	minTS, maxTS, err := summary.Span(b.Tables, a.reg)
	if err != nil {
		return summary.Range{}, err
	}

	return summary.PresetRange(preset, minTS, maxTS), nil
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
