package preflight

import (
	"podcut/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the workspace dir.
func RunAll(cfg *config.Config, dir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Workspace (always checked)
	results = append(results, CheckDirectoryAccess("Workspace", dir))

	// Log directory receives podcut.log
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	// Snapshot database directory
	if cfg.Store.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}

	// Lexicon overlay
	if cfg.Lexicon.Path != "" {
		results = append(results, CheckLexicon(cfg.Lexicon.Path))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
