package preflight

import (
	"context"
	"path/filepath"

	"dcl/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if cfg.Dir != "" {
		results = append(results, CheckDirectoryAccess("Config directory", cfg.Dir))
	}
	cacheDir := filepath.Dir(cfg.CachePath)
	if cacheDir != filepath.Clean(cfg.Dir) {
		results = append(results, CheckDirectoryAccess("Cache directory", cacheDir))
	}
	results = append(results, CheckCache(ctx, cfg.CachePath))
	results = append(results, CheckBuckets(cfg))
	results = append(results, CheckClockify(ctx, cfg))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}
