package textutil

// CharOverlap returns the fraction of runes in a that also occur anywhere in b.
// It returns 0 when a is empty.
func CharOverlap(a, b string) float64 {
	present := make(map[rune]struct{})
	for _, r := range b {
		present[r] = struct{}{}
	}
	total, hits := 0, 0
	for _, r := range a {
		total++
		if _, ok := present[r]; ok {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
