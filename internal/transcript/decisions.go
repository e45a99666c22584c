package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ActionDelete marks a sentence removed as a whole upstream.
const ActionDelete = "delete"

// Decision is an upstream verdict on one sentence.
type Decision struct {
	SentenceIndex int    `json:"sentenceIdx"`
	Action        string `json:"action"`
	Reason        string `json:"reason,omitempty"`
}

// Decisions is the sentence decision file.
type Decisions struct {
	Sentences []Decision `json:"sentences"`
}

// LoadDecisions reads a sentence decision file.
func LoadDecisions(path string) (Decisions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Decisions{}, err
	}
	var d Decisions
	if err := json.Unmarshal(data, &d); err != nil {
		return Decisions{}, fmt.Errorf("%s: decode decisions: %w", filepath.Base(path), err)
	}
	return d, nil
}

// Deleted returns the sorted, unique indices of sentences marked for deletion.
func (d Decisions) Deleted() []int {
	var out []int
	for _, dec := range d.Sentences {
		if strings.EqualFold(strings.TrimSpace(dec.Action), ActionDelete) {
			out = append(out, dec.SentenceIndex)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// IndexSet converts sentence indices to a lookup set.
func IndexSet(indices []int) map[int]bool {
	set := make(map[int]bool, len(indices))
	for _, idx := range indices {
		set[idx] = true
	}
	return set
}
