package feedback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Reviewer status markers.
const (
	StatusOK      = "ok"
	StatusFlagged = "flagged"
)

// markerEpsilon is the time slack when matching a marker to an issue.
const markerEpsilon = 0.05

// Restore records a sentence the reviewer brought back.
type Restore struct {
	SentenceIndex int    `json:"sentenceIdx"`
	Text          string `json:"text,omitempty"`
}

// Corrections are the reviewer's edits to the whole-sentence deletions.
type Corrections struct {
	AddedDeletions   []int `json:"added_deletions,omitempty"`
	RemovedDeletions []int `json:"removed_deletions,omitempty"`
}

// Timestamp is an optional time range attached to a missed catch.
type Timestamp struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// MissedCatch is a deletion the reviewer says was missed.
type MissedCatch struct {
	SentenceIndex int        `json:"sentenceIdx"`
	SelectedText  string     `json:"selectedText,omitempty"`
	Type          string     `json:"type,omitempty"`
	TypeLabel     string     `json:"typeLabel,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Timestamp     *Timestamp `json:"timestamp,omitempty"`
}

// Timed reports whether the catch carries a usable time range.
func (m MissedCatch) Timed() bool {
	return m.Timestamp != nil && m.Timestamp.Start != nil && m.Timestamp.End != nil
}

// Bounds returns the time range of a timed catch.
func (m MissedCatch) Bounds() (float64, float64) {
	if !m.Timed() {
		return 0, 0
	}
	return *m.Timestamp.Start, *m.Timestamp.End
}

// Label returns the display label, falling back to the raw type.
func (m MissedCatch) Label() string {
	if strings.TrimSpace(m.TypeLabel) != "" {
		return m.TypeLabel
	}
	return m.Type
}

// Marker is a reviewer verdict on an issue category, optionally pinned to
// one time anchor.
type Marker struct {
	Type   string   `json:"type"`
	Status string   `json:"status"`
	Time   *float64 `json:"time,omitempty"`
	Note   string   `json:"note,omitempty"`
}

// Feedback is the reviewer input consumed by the audit.
type Feedback struct {
	Restores        []Restore     `json:"restore_feedback,omitempty"`
	RestoredIndices []int         `json:"all_restored_sentence_indices,omitempty"`
	Corrections     Corrections   `json:"user_corrections"`
	MissedCatches   []MissedCatch `json:"missed_catches,omitempty"`
	Markers         []Marker      `json:"issues,omitempty"`
}

// Decode parses a feedback document. Empty input yields an empty Feedback.
func Decode(data []byte) (*Feedback, error) {
	fb := &Feedback{}
	if len(bytes.TrimSpace(data)) == 0 {
		return fb, nil
	}
	if err := json.Unmarshal(data, fb); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	for i, m := range fb.Markers {
		switch strings.ToLower(strings.TrimSpace(m.Status)) {
		case StatusOK, StatusFlagged, "", "pending":
		default:
			return nil, fmt.Errorf("marker %d: unknown status %q", i, m.Status)
		}
	}
	return fb, nil
}

// Load reads a feedback file.
func Load(path string) (*Feedback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fb, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return fb, nil
}

// Restored returns the sorted, unique indices of sentences the reviewer wants
// kept. An explicit restored index list takes precedence over the individual
// restore entries; removed deletions always count as restored.
func (f *Feedback) Restored() []int {
	if f == nil {
		return nil
	}
	var out []int
	if len(f.RestoredIndices) > 0 {
		out = append(out, f.RestoredIndices...)
	} else {
		for _, r := range f.Restores {
			out = append(out, r.SentenceIndex)
		}
	}
	out = append(out, f.Corrections.RemovedDeletions...)
	return sortedUnique(out)
}

// AddedDeletions returns the sorted, unique indices of sentences the reviewer
// deleted by hand.
func (f *Feedback) AddedDeletions() []int {
	if f == nil {
		return nil
	}
	return sortedUnique(append([]int(nil), f.Corrections.AddedDeletions...))
}

// TimedMisses returns the missed catches that carry a time range.
func (f *Feedback) TimedMisses() []MissedCatch {
	if f == nil {
		return nil
	}
	var out []MissedCatch
	for _, m := range f.MissedCatches {
		if m.Timed() {
			out = append(out, m)
		}
	}
	return out
}

// Status returns the reviewer status for an issue of the given type anchored
// at t, or "" when no marker applies. A marker pinned to the anchor wins over
// a category-wide one; flagged wins over ok at the same specificity.
func (f *Feedback) Status(issueType string, t float64) string {
	if f == nil {
		return ""
	}
	var pinned, general string
	for _, m := range f.Markers {
		if m.Type != issueType {
			continue
		}
		status := strings.ToLower(strings.TrimSpace(m.Status))
		if status != StatusOK && status != StatusFlagged {
			continue
		}
		if m.Time == nil {
			general = stronger(general, status)
			continue
		}
		if math.Abs(*m.Time-t) <= markerEpsilon {
			pinned = stronger(pinned, status)
		}
	}
	if pinned != "" {
		return pinned
	}
	return general
}

// Acknowledged reports whether the reviewer marked the issue ok.
func (f *Feedback) Acknowledged(issueType string, t float64) bool {
	return f.Status(issueType, t) == StatusOK
}

func stronger(current, next string) string {
	if current == StatusFlagged || next == "" {
		return current
	}
	return next
}

func sortedUnique(values []int) []int {
	slices.Sort(values)
	return slices.Compact(values)
}
