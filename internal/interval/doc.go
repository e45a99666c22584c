// Package interval provides the half-open time interval algebra shared by the
// detection, consolidation and audit stages.
//
// Interval is a plain [Start, End) pair in seconds. Set keeps an ordered
// collection of values that occupy intervals and resolves conflicts between
// them with a caller supplied predicate and ordering, which is how the edit
// consolidator enforces "largest coverage wins". Index answers overlap and
// containment queries over a sorted interval list with binary search, and
// Union merges intervals into disjoint ascending runs.
//
// All values are immutable once built; callers rebuild an Index whenever the
// underlying interval list changes.
package interval
