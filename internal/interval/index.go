package interval

import "sort"

// Index answers overlap and containment queries over a fixed interval list.
// Intervals are kept sorted by start together with a running maximum of end
// times so that a query only walks the candidates that can still intersect it.
type Index struct {
	items  []Interval
	maxEnd []float64
}

// NewIndex builds an index over a copy of intervals.
func NewIndex(intervals []Interval) *Index {
	items := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.Empty() {
			items = append(items, iv)
		}
	}
	Sort(items)
	maxEnd := make([]float64, len(items))
	for i, iv := range items {
		maxEnd[i] = iv.End
		if i > 0 && maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}
	return &Index{items: items, maxEnd: maxEnd}
}

// Len returns the number of indexed intervals.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.items)
}

// Intervals returns the indexed intervals in ascending order.
func (x *Index) Intervals() []Interval {
	if x == nil {
		return nil
	}
	out := make([]Interval, len(x.items))
	copy(out, x.items)
	return out
}

// Overlapping returns every indexed interval sharing positive-length time
// with q, in ascending order.
func (x *Index) Overlapping(q Interval) []Interval {
	if x.Len() == 0 {
		return nil
	}
	// Candidates start strictly before q.End.
	hi := sort.Search(len(x.items), func(i int) bool { return x.items[i].Start >= q.End })
	var out []Interval
	for i := hi - 1; i >= 0 && x.maxEnd[i] > q.Start; i-- {
		if x.items[i].Overlaps(q) {
			out = append(out, x.items[i])
		}
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// Intersects reports whether any indexed interval overlaps q.
func (x *Index) Intersects(q Interval) bool {
	if x.Len() == 0 {
		return false
	}
	hi := sort.Search(len(x.items), func(i int) bool { return x.items[i].Start >= q.End })
	for i := hi - 1; i >= 0 && x.maxEnd[i] > q.Start; i-- {
		if x.items[i].Overlaps(q) {
			return true
		}
	}
	return false
}

// Covers reports whether a single indexed interval contains q with eps slack.
func (x *Index) Covers(q Interval, eps float64) bool {
	if x.Len() == 0 {
		return false
	}
	hi := sort.Search(len(x.items), func(i int) bool { return x.items[i].Start > q.Start+eps })
	for i := hi - 1; i >= 0 && x.maxEnd[i] >= q.End-eps; i-- {
		if x.items[i].Contains(q, eps) {
			return true
		}
	}
	return false
}

// OverlapWith returns the total time q shares with the indexed intervals.
// Overlapping indexed intervals are counted once per interval.
func (x *Index) OverlapWith(q Interval) float64 {
	var total float64
	for _, iv := range x.Overlapping(q) {
		total += iv.Overlap(q)
	}
	return total
}
