// Package preflight provides readiness checks for the directories and files
// podcut depends on.
//
// These checks run in two contexts:
//   - The pipeline runner calls RunAll before the first stage of a run. If
//     any check fails, the run stops before touching the workspace.
//   - The CLI "podcut check" command prints every result as a table.
//
// Each check is gated by its config toggle: the state directory is only
// checked when the snapshot store is enabled and the lexicon overlay only
// when one is configured.
package preflight
