package semantic

import (
	"math/rand/v2"
	"testing"
)

// lcsLength is the textbook full-table dynamic program.
func lcsLength(a, b []string) int {
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}
	return dp[len(a)][len(b)]
}

func checkAlignment(t *testing.T, a, b []string) {
	t.Helper()
	pairs := align(a, b)
	if want := lcsLength(a, b); len(pairs) != want {
		t.Fatalf("align(%v, %v) matched %d, want %d", a, b, len(pairs), want)
	}
	for i, p := range pairs {
		if a[p.expected] != b[p.actual] {
			t.Fatalf("pair %d links %q to %q", i, a[p.expected], b[p.actual])
		}
		if i > 0 && (p.expected <= pairs[i-1].expected || p.actual <= pairs[i-1].actual) {
			t.Fatalf("pairs not strictly ascending: %v", pairs)
		}
	}
}

func TestAlignFixedCases(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
	}{
		{name: "empty", a: nil, b: nil},
		{name: "one side empty", a: []string{"我"}, b: nil},
		{name: "identical", a: []string{"今天", "我们", "聊聊"}, b: []string{"今天", "我们", "聊聊"}},
		{name: "insertion", a: []string{"a", "x", "y", "b"}, b: []string{"a", "b"}},
		{name: "crossing", a: []string{"a", "b", "c", "d"}, b: []string{"b", "a", "d", "c"}},
		{name: "repeats", a: []string{"对", "对", "对", "好"}, b: []string{"对", "好", "对"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkAlignment(t, tt.a, tt.b)
		})
	}
}

func TestAlignMatchesFullTable(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	alphabet := []string{"我", "你", "他", "好", "的"}
	gen := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = alphabet[rng.IntN(len(alphabet))]
		}
		return out
	}
	for range 200 {
		checkAlignment(t, gen(rng.IntN(30)), gen(rng.IntN(30)))
	}
}
