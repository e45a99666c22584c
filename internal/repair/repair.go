package repair

import (
	"fmt"
	"math"

	"podcut/internal/audit"
	"podcut/internal/interval"
)

// boundEpsilon is the slack when matching issue bounds to segment bounds.
const boundEpsilon = 0.05

// Kind classifies a change.
type Kind string

const (
	KindRemoved  Kind = "removed"
	KindExtended Kind = "extended"
	KindInserted Kind = "inserted"
)

// Change records one modification of the segment list.
type Change struct {
	Kind   Kind               `json:"kind"`
	Issue  string             `json:"issue"`
	Before *interval.Interval `json:"before,omitempty"`
	After  *interval.Interval `json:"after,omitempty"`
}

func (c Change) String() string {
	switch c.Kind {
	case KindRemoved:
		return fmt.Sprintf("removed %s (%s)", c.Before, c.Issue)
	case KindExtended:
		return fmt.Sprintf("extended %s to %s (%s)", c.Before, c.After, c.Issue)
	default:
		return fmt.Sprintf("inserted %s (%s)", c.After, c.Issue)
	}
}

// Result is the repaired segment list and what changed.
type Result struct {
	Segments []interval.Interval `json:"segments"`
	Changes  []Change            `json:"changes"`
	Removed  int                 `json:"removed"`
	Extended int                 `json:"extended"`
	Inserted int                 `json:"inserted"`
	// Manual counts open issues that need a human to act on.
	Manual int `json:"manual"`
}

// Changed reports whether the segment list was modified.
func (r Result) Changed() bool {
	return len(r.Changes) > 0
}

// Apply fixes the mechanical audit findings: segments that cut into a
// restored sentence are dropped and silent gaps between cuts are absorbed
// into a neighbouring segment. Acknowledged issues are left alone. The
// returned segments are sorted and disjoint; applying the same report again
// changes nothing.
func Apply(segs []interval.Interval, report audit.Report) Result {
	res := Result{Changes: []Change{}}
	work := append([]interval.Interval(nil), segs...)

	remove := make(map[[2]int64]bool)
	for _, is := range report.Checks.RestoredSentences.Issues {
		if is.Acknowledged || is.Range == nil {
			continue
		}
		remove[key(*is.Range)] = true
	}
	if len(remove) > 0 {
		kept := work[:0]
		for _, seg := range work {
			if remove[key(seg)] {
				before := seg
				res.Changes = append(res.Changes, Change{Kind: KindRemoved, Issue: audit.TypeRestoredWordCovered, Before: &before})
				res.Removed++
				continue
			}
			kept = append(kept, seg)
		}
		work = kept
	}

	for _, is := range report.Checks.CutPointSilences.Issues {
		if is.Acknowledged || is.Fix == nil {
			continue
		}
		gap := *is.Fix
		if covered(work, gap) {
			continue
		}
		if i := indexOf(work, func(s interval.Interval) bool { return math.Abs(s.End-gap.Start) < boundEpsilon }); i >= 0 {
			before := work[i]
			work[i].End = math.Max(work[i].End, gap.End)
			after := work[i]
			res.Changes = append(res.Changes, Change{Kind: KindExtended, Issue: audit.TypeSilenceGap, Before: &before, After: &after})
			res.Extended++
			continue
		}
		if i := indexOf(work, func(s interval.Interval) bool { return math.Abs(s.Start-gap.End) < boundEpsilon }); i >= 0 {
			before := work[i]
			work[i].Start = math.Min(work[i].Start, gap.Start)
			after := work[i]
			res.Changes = append(res.Changes, Change{Kind: KindExtended, Issue: audit.TypeSilenceGap, Before: &before, After: &after})
			res.Extended++
			continue
		}
		work = append(work, gap)
		res.Changes = append(res.Changes, Change{Kind: KindInserted, Issue: audit.TypeSilenceGap, After: &gap})
		res.Inserted++
	}

	res.Segments = interval.Union(work, 0)
	if res.Segments == nil {
		res.Segments = []interval.Interval{}
	}
	res.Manual = report.Checks.ManualDeletions.Open()
	return res
}

// key identifies a segment to the centisecond.
func key(iv interval.Interval) [2]int64 {
	return [2]int64{int64(math.Round(iv.Start * 100)), int64(math.Round(iv.End * 100))}
}

func covered(segs []interval.Interval, q interval.Interval) bool {
	for _, s := range segs {
		if s.Contains(q, boundEpsilon) {
			return true
		}
	}
	return false
}

func indexOf(segs []interval.Interval, match func(interval.Interval) bool) int {
	for i, s := range segs {
		if match(s) {
			return i
		}
	}
	return -1
}
