package pipeline

import (
	"fmt"
	"strings"
)

// Select returns the contiguous slice of stages from..to, inclusive. Empty
// bounds default to the first and last stage.
func Select(stages []Stage, from, to string) ([]Stage, error) {
	if len(stages) == 0 {
		return nil, nil
	}
	start, end := 0, len(stages)-1
	if from = strings.TrimSpace(from); from != "" {
		idx := indexOf(stages, from)
		if idx < 0 {
			return nil, fmt.Errorf("unknown stage %q (valid: %s)", from, strings.Join(Names(stages), ", "))
		}
		start = idx
	}
	if to = strings.TrimSpace(to); to != "" {
		idx := indexOf(stages, to)
		if idx < 0 {
			return nil, fmt.Errorf("unknown stage %q (valid: %s)", to, strings.Join(Names(stages), ", "))
		}
		end = idx
	}
	if start > end {
		return nil, fmt.Errorf("stage %q runs after %q", from, to)
	}
	return stages[start : end+1], nil
}

// Names lists stage names in order.
func Names(stages []Stage) []string {
	out := make([]string, len(stages))
	for i, st := range stages {
		out[i] = st.Name()
	}
	return out
}

func indexOf(stages []Stage, name string) int {
	for i, st := range stages {
		if strings.EqualFold(st.Name(), name) {
			return i
		}
	}
	return -1
}
