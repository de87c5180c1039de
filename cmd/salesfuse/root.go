package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/config"
	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/JonMunkholm/salesfuse/internal/logging"
	"github.com/JonMunkholm/salesfuse/internal/runner"
	"github.com/JonMunkholm/salesfuse/internal/source"
	"github.com/spf13/cobra"
)

// globalFlags override configuration for every subcommand.
type globalFlags struct {
	logLevel       string
	logFormat      string
	sourceDir      string
	sourceEncoding string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "salesfuse",
		Short: "Fuse sales exports into one reporting table",
		Long: `salesfuse reads the transactions, products, customers, stores and
exchange-rate exports, joins them into one row per sale line with revenue,
local-currency revenue and customer age, and publishes the result to a CSV
file and a MySQL or PostgreSQL table.

Settings come from the environment (and a .env file); flags override them.

Example Usage:
  salesfuse run                       # load, transform, write file and table
  salesfuse run --skip-db --preview 10
  salesfuse check                     # load and transform only`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "override LOG_FORMAT (text, json)")
	root.PersistentFlags().StringVar(&flags.sourceDir, "source-dir", "", "override SOURCE_DIR")
	root.PersistentFlags().StringVar(&flags.sourceEncoding, "source-encoding", "", "override SOURCE_ENCODING")

	root.AddCommand(newRunCmd(&flags), newCheckCmd(&flags), newVersionCmd())
	return root
}

func (g *globalFlags) apply(cfg *config.Config) {
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Logging.Format = g.logFormat
	}
	if g.sourceDir != "" {
		cfg.Sources.Dir = g.sourceDir
	}
	if g.sourceEncoding != "" {
		cfg.Sources.Encoding = g.sourceEncoding
	}
}

// loadConfig loads and validates configuration with flag overrides applied,
// then sets up logging on logTo.
func loadConfig(g *globalFlags, logTo io.Writer, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(append([]func(*config.Config){g.apply}, overrides...)...)
	if err != nil {
		return nil, err
	}

	logging.SetupWriter(logTo, cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())
	return cfg, nil
}

// newRunner builds a runner without sinks from validated configuration.
func newRunner(cfg *config.Config) (*runner.Runner, error) {
	enc, err := source.ParseEncoding(cfg.Sources.Encoding)
	if err != nil {
		return nil, err
	}
	rounding, err := core.ParseRoundingMode(cfg.Pipeline.Rounding)
	if err != nil {
		return nil, err
	}

	return &runner.Runner{
		Paths:    cfg.Sources.Paths(),
		Encoding: enc,
		Options: core.Options{
			Strict:   cfg.Pipeline.StrictJoins,
			Rounding: rounding,
		},
	}, nil
}

func printSummary(w io.Writer, s *runner.Summary) {
	if s == nil {
		return
	}
	fmt.Fprintf(w, "run %s: %d rows in %s\n", s.RunID, s.Rows, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  %s\n", s.Stats)
	for _, rep := range s.Reports {
		fmt.Fprintf(w, "  %s\n", rep)
	}
}
