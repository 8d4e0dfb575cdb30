package preflight

import (
	"context"

	"cassprep/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional marks checks whose failure does not block a run, such as a
	// destination the run will create.
	Optional bool
	Detail   string

	missing bool
}

// RunAll executes every applicable check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if cfg.Paths.InputDir != "" {
		results = append(results, CheckDirectoryAccess("Input directory", cfg.Paths.InputDir, ReadOnly))
	} else {
		results = append(results, Result{Name: "Input directory", Detail: "not configured (set paths.input_dir or --input)"})
	}
	results = append(results, optionalDestination(CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, ReadWrite)))
	results = append(results, optionalDestination(CheckDirectoryAccess("Split directory", cfg.Paths.SplitDir, ReadWrite)))
	results = append(results, optionalDestination(CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, ReadWrite)))

	if cfg.Ledger.Enabled {
		results = append(results, CheckLedger(ctx, cfg.Paths.LedgerPath))
	}

	return results
}

// Failed reports whether any non-optional check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

// optionalDestination downgrades a missing destination, which the next run
// creates, to an optional failure.
func optionalDestination(r Result) Result {
	if !r.Passed && r.missing {
		r.Optional = true
	}
	return r
}
