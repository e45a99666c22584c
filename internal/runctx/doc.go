// Package runctx carries per-run metadata through context values and defines
// the error markers stages use to classify failures.
//
// The pipeline runner stamps each context with a run identifier, the active
// stage and the workspace being processed; the logging package reads those
// values back so every log line emitted during a run is correlated without
// threading loggers through every call. Stage errors are wrapped with Wrap so
// the CLI can tell missing inputs and invalid data apart from audit failures.
package runctx
