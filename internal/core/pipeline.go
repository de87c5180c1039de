package core

import "time"

// Options configures a pipeline run.
type Options struct {
	Strict   bool
	Rounding RoundingMode

	// Today resolves 2-digit years in source dates. Zero reads the clock.
	Today time.Time
}

// Result is the output of a successful run.
type Result struct {
	Records []OutputRecord
	Stats   FuseStats
}

// Run normalizes, joins, reconciles, derives and projects the raw tables.
// On any error no records are returned.
func Run(raw RawTables, opts Options) (*Result, error) {
	tables, err := NormalizeTables(raw, NormalizeOptions{Today: opts.Today})
	if err != nil {
		return nil, err
	}

	joined, stats, err := Fuse(tables, FuseOptions{Strict: opts.Strict})
	if err != nil {
		return nil, err
	}

	derived, err := Derive(Reconcile(joined))
	if err != nil {
		return nil, err
	}

	return &Result{
		Records: Project(derived, ProjectOptions{Rounding: opts.Rounding}),
		Stats:   stats,
	}, nil
}
