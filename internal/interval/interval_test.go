package interval

import (
	"math"
	"testing"
)

func TestUnion(t *testing.T) {
	tests := []struct {
		name    string
		in      []Interval
		joinGap float64
		want    []Interval
	}{
		{name: "empty", in: nil, want: nil},
		{
			name: "overlapping merged",
			in:   []Interval{{Start: 2, End: 4}, {Start: 1, End: 3}},
			want: []Interval{{Start: 1, End: 4}},
		},
		{
			name:    "join gap",
			in:      []Interval{{Start: 0, End: 1}, {Start: 1.2, End: 2}, {Start: 3, End: 4}},
			joinGap: 0.3,
			want:    []Interval{{Start: 0, End: 2}, {Start: 3, End: 4}},
		},
		{
			name: "empty intervals dropped",
			in:   []Interval{{Start: 5, End: 5}, {Start: 1, End: 2}},
			want: []Interval{{Start: 1, End: 2}},
		},
		{
			name: "contained interval absorbed",
			in:   []Interval{{Start: 0, End: 10}, {Start: 2, End: 3}},
			want: []Interval{{Start: 0, End: 10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Union(tt.in, tt.joinGap)
			if len(got) != len(tt.want) {
				t.Fatalf("Union() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Union()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestUnionIsDisjointAndSorted(t *testing.T) {
	in := []Interval{{9, 12}, {0, 1}, {0.5, 3}, {2.9, 4}, {20, 21}, {11, 15}}
	got := Union(in, 0)
	for i := 1; i < len(got); i++ {
		if got[i-1].End >= got[i].Start {
			t.Fatalf("Union() not disjoint at %d: %v", i, got)
		}
	}
	if math.Abs(Total(got)-(4+6+1)) > 1e-9 {
		t.Fatalf("Total() = %v, want 11", Total(got))
	}
}

func TestIndexQueries(t *testing.T) {
	idx := NewIndex([]Interval{{Start: 10, End: 20}, {Start: 0, End: 2}, {Start: 1, End: 30}, {Start: 40, End: 41}})

	if got := idx.Overlapping(Interval{Start: 25, End: 35}); len(got) != 1 || got[0].Start != 1 {
		t.Fatalf("Overlapping() = %v, want the long interval only", got)
	}
	if got := idx.Overlapping(Interval{Start: 1.5, End: 10.5}); len(got) != 3 {
		t.Fatalf("Overlapping() = %v, want three intervals", got)
	}
	if idx.Intersects(Interval{Start: 30, End: 40}) {
		t.Fatal("Intersects() = true for touching bounds, want false")
	}
	if !idx.Covers(Interval{Start: 12, End: 29.995}, 0.01) {
		t.Fatal("Covers() = false, want true")
	}
	if !idx.Covers(Interval{Start: 40.005, End: 41.005}, 0.01) {
		t.Fatal("Covers() with slack = false, want true")
	}
	if idx.Covers(Interval{Start: 39, End: 41}, 0.01) {
		t.Fatal("Covers() = true for a partial overlap, want false")
	}
	if got := idx.OverlapWith(Interval{Start: 40.5, End: 50}); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("OverlapWith() = %v, want 0.5", got)
	}
	var empty *Index
	if empty.Intersects(Interval{Start: 0, End: 1}) || empty.Covers(Interval{Start: 0, End: 1}, 0) {
		t.Fatal("nil index should answer false")
	}
}

type span struct {
	id    string
	group int
	iv    Interval
}

func newSpanSet() *Set[span] {
	return NewSet(SetOptions[span]{
		Span:      func(s span) Interval { return s.iv },
		Conflicts: func(a, b span) bool { return a.group == b.group },
		Better: func(a, b span) bool {
			if a.iv.Duration() != b.iv.Duration() {
				return a.iv.Duration() > b.iv.Duration()
			}
			return a.iv.Start < b.iv.Start
		},
	})
}

func TestSetInsertOrReplace(t *testing.T) {
	set := newSpanSet()

	if got, _ := set.InsertOrReplace(span{id: "a", iv: Interval{1, 2}}); got != Inserted {
		t.Fatalf("first insert = %v, want inserted", got)
	}
	if got, _ := set.InsertOrReplace(span{id: "b", iv: Interval{1.5, 1.8}}); got != Rejected {
		t.Fatalf("smaller overlapping insert = %v, want rejected", got)
	}
	if got, _ := set.InsertOrReplace(span{id: "c", iv: Interval{3, 4}}); got != Inserted {
		t.Fatalf("disjoint insert = %v, want inserted", got)
	}
	got, displaced := set.InsertOrReplace(span{id: "d", iv: Interval{0.5, 3.5}})
	if got != Replaced || len(displaced) != 2 {
		t.Fatalf("spanning insert = %v (%d displaced), want replaced 2", got, len(displaced))
	}
	if got, _ := set.InsertOrReplace(span{id: "e", group: 1, iv: Interval{1, 1.2}}); got != Inserted {
		t.Fatalf("other group insert = %v, want inserted", got)
	}

	items := set.Items()
	if len(items) != 2 || items[0].id != "d" || items[1].id != "e" {
		t.Fatalf("Items() = %+v, want d then e", items)
	}
}

func TestSetOrderIndependent(t *testing.T) {
	spans := []span{
		{id: "a", iv: Interval{0, 1}},
		{id: "b", iv: Interval{0.5, 2}},
		{id: "c", iv: Interval{1.8, 2.2}},
		{id: "d", iv: Interval{5, 6}},
	}
	forward := newSpanSet()
	for _, s := range spans {
		forward.InsertOrReplace(s)
	}
	backward := newSpanSet()
	for i := len(spans) - 1; i >= 0; i-- {
		backward.InsertOrReplace(spans[i])
	}
	f, b := forward.Items(), backward.Items()
	if len(f) != len(b) {
		t.Fatalf("forward %+v backward %+v", f, b)
	}
	for i := range f {
		if f[i].id != b[i].id {
			t.Fatalf("forward %+v backward %+v", f, b)
		}
	}
}
