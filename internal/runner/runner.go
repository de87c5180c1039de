// Package runner wires one pipeline run end to end: load the five source
// tables, fuse them in core, then hand the published rows to every sink.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/salesfuse/internal/core"
	"github.com/JonMunkholm/salesfuse/internal/logging"
	"github.com/JonMunkholm/salesfuse/internal/sink"
	"github.com/JonMunkholm/salesfuse/internal/source"
	"github.com/google/uuid"
)

// LoadFunc reads the raw source tables.
type LoadFunc func(ctx context.Context, paths source.Paths, enc source.Encoding) (core.RawTables, error)

// Runner executes pipeline runs. The zero value of Load reads files with
// source.LoadAll.
type Runner struct {
	Paths    source.Paths
	Encoding source.Encoding
	Options  core.Options
	Sinks    []sink.Sink

	// Preview rows are written to PreviewTo before the sinks run.
	Preview   int
	PreviewTo io.Writer

	Load LoadFunc
}

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Sources  map[string]int
	Stats    core.FuseStats
	Rows     int
	Reports  []sink.Report
	Duration time.Duration

	started time.Time
}

// Failed returns the reports of sinks that did not commit.
func (s *Summary) Failed() []sink.Report {
	var failed []sink.Report
	for _, r := range s.Reports {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Run loads, transforms and publishes. Every sink is attempted even when an
// earlier one fails; the returned error joins all sink failures. A load or
// transform error stops the run before any sink is touched.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary, res, err := r.prepare(ctx)
	if err != nil {
		return summary, err
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.FromContext(ctx)

	if r.Preview > 0 && r.PreviewTo != nil {
		n := min(r.Preview, len(res.Records))
		if err := sink.WriteCSV(ctx, r.PreviewTo, res.Records[:n]); err != nil {
			logger.Warn("preview failed", "error", err)
		}
	}

	var errs []error
	for _, s := range r.Sinks {
		rep := s.Write(ctx, res.Records)
		summary.Reports = append(summary.Reports, rep)
		if rep.Err != nil {
			errs = append(errs, rep.Err)
		}
	}

	summary.Duration = time.Since(summary.started)
	logger.Info("run finished",
		"rows", summary.Rows,
		"sinks", len(summary.Reports),
		"failed_sinks", len(errs),
	)

	return summary, errors.Join(errs...)
}

// Check loads and transforms without writing anywhere.
func (r *Runner) Check(ctx context.Context) (*Summary, error) {
	summary, _, err := r.prepare(ctx)
	return summary, err
}

func (r *Runner) prepare(ctx context.Context) (*Summary, *core.Result, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.New().String(), started: start}

	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.FromContext(ctx)
	logger.Info("run started", "encoding", string(r.Encoding), "strict", r.Options.Strict)

	load := r.Load
	if load == nil {
		load = source.LoadAll
	}

	raw, err := load(ctx, r.Paths, r.Encoding)
	if err != nil {
		logger.Error("load failed", "error", err)
		return summary, nil, fmt.Errorf("load sources: %w", err)
	}
	summary.Sources = source.Count(raw)
	logger.Info("sources loaded", "rows", summary.Sources)

	opts := r.Options
	if opts.Today.IsZero() {
		opts.Today = start
	}
	res, err := core.Run(raw, opts)
	if err != nil {
		logger.Error("transform failed", "error", err)
		return summary, nil, fmt.Errorf("transform: %w", err)
	}

	summary.Stats = res.Stats
	summary.Rows = len(res.Records)
	summary.Duration = time.Since(start)
	logger.Info("transform complete",
		"transactions", res.Stats.Transactions,
		"dropped_no_product", res.Stats.DroppedNoProduct,
		"unmatched_customer", res.Stats.UnmatchedCustomer,
		"unmatched_store", res.Stats.UnmatchedStore,
		"unmatched_rate", res.Stats.UnmatchedRate,
		"rows", res.Stats.Rows,
	)

	return summary, res, nil
}
