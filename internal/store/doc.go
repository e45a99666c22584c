// Package store keeps immutable, versioned snapshots of workspace artifacts in
// SQLite.
//
// Every stage output written during a run is also recorded here under the
// workspace path and artifact name with a version one higher than the last.
// Rows are only ever inserted, so any earlier edit list, segment list or
// report can be read back after later runs overwrite the workspace files.
// Runs are recorded alongside so each snapshot can be traced to the run and
// stage that produced it.
package store
