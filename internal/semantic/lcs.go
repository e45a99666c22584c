package semantic

import "slices"

// pair links an expected position to an actual position.
type pair struct {
	expected int
	actual   int
}

// align returns a longest common subsequence of a and b as ascending index
// pairs. Common prefixes and suffixes are matched directly; the remainder is
// split with Hirschberg's method so memory stays linear in len(b).
func align(a, b []string) []pair {
	var out []pair
	var rec func(aOff, bOff int, a, b []string)
	rec = func(aOff, bOff int, a, b []string) {
		for len(a) > 0 && len(b) > 0 && a[0] == b[0] {
			out = append(out, pair{aOff, bOff})
			a, b = a[1:], b[1:]
			aOff++
			bOff++
		}
		var tail []pair
		for len(a) > 0 && len(b) > 0 && a[len(a)-1] == b[len(b)-1] {
			tail = append(tail, pair{aOff + len(a) - 1, bOff + len(b) - 1})
			a, b = a[:len(a)-1], b[:len(b)-1]
		}

		switch {
		case len(a) == 0 || len(b) == 0:
		case len(a) == 1:
			if j := slices.Index(b, a[0]); j >= 0 {
				out = append(out, pair{aOff, bOff + j})
			}
		default:
			mid := len(a) / 2
			fwd := lcsRow(a[:mid], b)
			bwd := lcsRow(reversed(a[mid:]), reversed(b))
			best, split := -1, 0
			for j := 0; j <= len(b); j++ {
				if v := fwd[j] + bwd[len(b)-j]; v > best {
					best, split = v, j
				}
			}
			rec(aOff, bOff, a[:mid], b[:split])
			rec(aOff+mid, bOff+split, a[mid:], b[split:])
		}

		for i := len(tail) - 1; i >= 0; i-- {
			out = append(out, tail[i])
		}
	}
	rec(0, 0, a, b)
	return out
}

// lcsRow returns, for every prefix length j of b, the LCS length of a and b[:j].
func lcsRow(a, b []string) []int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for _, x := range a {
		cur[0] = 0
		for j := 1; j <= len(b); j++ {
			switch {
			case x == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev
}

func reversed(s []string) []string {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}
