package interval

import "sort"

// Outcome describes what InsertOrReplace did with a candidate.
type Outcome int

const (
	// Inserted means the candidate had no conflicts and was added.
	Inserted Outcome = iota
	// Replaced means the candidate beat every conflicting member and took their place.
	Replaced
	// Rejected means a conflicting member won and the candidate was dropped.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	default:
		return "rejected"
	}
}

// SetOptions configures a Set.
type SetOptions[T any] struct {
	// Span returns the interval a value occupies.
	Span func(T) Interval
	// Conflicts reports whether two overlapping values compete. When nil every
	// time overlap is a conflict.
	Conflicts func(a, b T) bool
	// Better reports whether a should survive over b. It must be a strict
	// ordering.
	Better func(a, b T) bool
}

// Set is an ordered collection of interval-bearing values in which no two
// conflicting members overlap.
type Set[T any] struct {
	opts  SetOptions[T]
	items []T
}

// NewSet constructs an empty set.
func NewSet[T any](opts SetOptions[T]) *Set[T] {
	return &Set[T]{opts: opts}
}

// InsertOrReplace adds v unless it conflicts with a member that is better.
// When v beats every conflicting member those members are removed. The
// returned slice holds the members that were displaced.
func (s *Set[T]) InsertOrReplace(v T) (Outcome, []T) {
	span := s.opts.Span(v)
	var conflicting []int
	for i, member := range s.items {
		other := s.opts.Span(member)
		if other.Start >= span.End {
			break
		}
		if !other.Overlaps(span) {
			continue
		}
		if s.opts.Conflicts != nil && !s.opts.Conflicts(v, member) {
			continue
		}
		if !s.opts.Better(v, member) {
			return Rejected, nil
		}
		conflicting = append(conflicting, i)
	}

	var displaced []T
	if len(conflicting) > 0 {
		kept := s.items[:0:0]
		next := 0
		for i, member := range s.items {
			if next < len(conflicting) && conflicting[next] == i {
				displaced = append(displaced, member)
				next++
				continue
			}
			kept = append(kept, member)
		}
		s.items = kept
	}

	pos := sort.Search(len(s.items), func(i int) bool {
		return s.opts.Span(s.items[i]).Start > span.Start
	})
	s.items = append(s.items, v)
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = v

	if len(displaced) > 0 {
		return Replaced, displaced
	}
	return Inserted, nil
}

// Items returns the members ordered by start.
func (s *Set[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of members.
func (s *Set[T]) Len() int {
	return len(s.items)
}
