package interval

import (
	"fmt"
	"math"
	"sort"
)

// Interval is a half-open time range [Start, End) in seconds.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// New returns an interval with its bounds ordered.
func New(start, end float64) Interval {
	if end < start {
		start, end = end, start
	}
	return Interval{Start: start, End: end}
}

// Duration returns the length of the interval, never negative.
func (iv Interval) Duration() float64 {
	return math.Max(0, iv.End-iv.Start)
}

// Empty reports whether the interval has no length.
func (iv Interval) Empty() bool {
	return iv.End <= iv.Start
}

// Overlaps reports whether the two intervals share any positive-length time.
func (iv Interval) Overlaps(other Interval) bool {
	return math.Max(iv.Start, other.Start) < math.Min(iv.End, other.End)
}

// Overlap returns the length of the shared portion of both intervals.
func (iv Interval) Overlap(other Interval) float64 {
	return math.Max(0, math.Min(iv.End, other.End)-math.Max(iv.Start, other.Start))
}

// Contains reports whether other lies within iv, allowing eps slack on both ends.
func (iv Interval) Contains(other Interval, eps float64) bool {
	return other.Start >= iv.Start-eps && other.End <= iv.End+eps
}

// Near reports whether both bounds differ by at most eps.
func (iv Interval) Near(other Interval, eps float64) bool {
	return math.Abs(iv.Start-other.Start) <= eps && math.Abs(iv.End-other.End) <= eps
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%.2f, %.2f)", iv.Start, iv.End)
}

// Sort orders intervals by start, then end.
func Sort(intervals []Interval) {
	sort.SliceStable(intervals, func(i, j int) bool {
		if intervals[i].Start != intervals[j].Start {
			return intervals[i].Start < intervals[j].Start
		}
		return intervals[i].End < intervals[j].End
	})
}

// Union merges intervals whose gap is at most joinGap into disjoint ascending
// intervals. Empty intervals are dropped. The input slice is not modified.
func Union(intervals []Interval, joinGap float64) []Interval {
	return UnionFunc(intervals, func(prev, next Interval) bool {
		return next.Start-prev.End <= joinGap
	})
}

// UnionFunc merges overlapping intervals and additionally joins neighbours for
// which join returns true. join is only consulted for disjoint neighbours.
func UnionFunc(intervals []Interval, join func(prev, next Interval) bool) []Interval {
	sorted := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.Empty() {
			sorted = append(sorted, iv)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	Sort(sorted)

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End || (join != nil && join(*last, iv)) {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Total returns the summed duration of the intervals.
func Total(intervals []Interval) float64 {
	var total float64
	for _, iv := range intervals {
		total += iv.Duration()
	}
	return total
}
