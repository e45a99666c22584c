package edit

import (
	"fmt"
	"math"
)

// Sources counts edits by provenance.
type Sources struct {
	Rules               int `json:"rules"`
	External            int `json:"llm"`
	SelfCorrectionRules int `json:"selfCorrectionRules"`
	AfterDedup          int `json:"afterDedup"`
	SilenceMerged       int `json:"silenceMerged"`
	MappingFailures     int `json:"mappingFailures,omitempty"`
}

// Summary describes an edit list.
type Summary struct {
	TotalEdits         int              `json:"totalEdits"`
	NeedsReview        int              `json:"needsReview"`
	ByType             map[Category]int `json:"byType"`
	EstimatedTimeSaved string           `json:"estimatedTimeSaved"`
	TimeSavedSeconds   float64          `json:"timeSavedSeconds"`
	Sources            *Sources         `json:"sources,omitempty"`
}

// Summarize counts edits by category and estimates the time they remove.
// Overlapping edits are counted once.
func Summarize(edits []Edit) Summary {
	s := Summary{TotalEdits: len(edits), ByType: make(map[Category]int)}
	for _, e := range edits {
		s.ByType[e.Type]++
		if e.NeedsReview {
			s.NeedsReview++
		}
	}
	saved := 0.0
	for _, iv := range unionSpans(edits) {
		saved += iv.Duration()
	}
	s.TimeSavedSeconds = math.Round(saved*100) / 100
	s.EstimatedTimeSaved = FormatClock(saved)
	return s
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
