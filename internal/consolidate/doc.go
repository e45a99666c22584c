// Package consolidate merges the rule layer and external suggestions into one
// edit list in which no two edits of the same sentence overlap in time.
//
// Conflicts are settled by an interval.Set: the longer edit wins, exact ties
// prefer the rule layer, then the earlier start, then the edit seen first.
// A candidate must beat every member it conflicts with. Candidates are fed to
// the set in start order, so the result does not depend on the order of the
// input streams.
package consolidate
