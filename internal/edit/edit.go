package edit

import (
	"math"
	"sort"

	"podcut/internal/interval"
)

// Category classifies an edit.
type Category string

const (
	CategorySilence             Category = "silence"
	CategorySilenceMerged       Category = "silence_merged"
	CategoryStutter             Category = "stutter"
	CategorySelfCorrection      Category = "self_correction"
	CategorySelfCorrectionRules Category = "self_correction_rules"
	CategoryResidualSentence    Category = "residual_sentence"
	CategoryRepeatedSentence    Category = "repeated_sentence"
	CategorySingleFiller        Category = "single_filler"
	CategoryFiller              Category = "filler"
	CategoryExternal            Category = "llm_edit"
)

// Source records which detector produced an edit.
type Source string

const (
	SourceRules          Source = "rules"
	SourceExternal       Source = "llm"
	SourceSelfCorrection Source = "self_correction"
	SourceGapCleanup     Source = "gap_cleanup"
)

// Rank orders sources for tie-breaks; lower wins.
func (s Source) Rank() int {
	switch s {
	case SourceRules:
		return 0
	case SourceExternal:
		return 1
	case SourceSelfCorrection:
		return 2
	case SourceGapCleanup:
		return 3
	default:
		return 4
	}
}

// Confidence levels reported by the self-correction scanner.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
)

// Edit is a proposed deletion.
type Edit struct {
	Index         int      `json:"idx"`
	SentenceIndex int      `json:"sentenceIdx"`
	Type          Category `json:"type"`
	Rule          string   `json:"rule,omitempty"`
	WordRange     *[2]int  `json:"wordRange,omitempty"`
	DeleteText    string   `json:"deleteText,omitempty"`
	KeepText      string   `json:"keepText,omitempty"`
	DeleteStart   float64  `json:"deleteStart"`
	DeleteEnd     float64  `json:"deleteEnd"`
	Reason        string   `json:"reason,omitempty"`
	Source        Source   `json:"source,omitempty"`
	WholeSentence bool     `json:"wholeSentence,omitempty"`

	NeedsReview     bool    `json:"needsReview,omitempty"`
	ReviewHint      string  `json:"reviewHint,omitempty"`
	Confidence      float64 `json:"confidence,omitempty"`
	ConfidenceLevel string  `json:"confidenceLevel,omitempty"`

	// KeepDuration is the pause retained by silence edits.
	KeepDuration float64 `json:"keepDuration,omitempty"`

	// PrefixLength and PrefixWords describe the repeated prefix of a
	// same-prefix expansion.
	PrefixLength int `json:"prefixLength,omitempty"`
	PrefixWords  int `json:"prefixWords,omitempty"`
}

// Span returns the deletion interval.
func (e Edit) Span() interval.Interval {
	return interval.New(e.DeleteStart, e.DeleteEnd)
}

// Duration returns the deleted time in seconds.
func (e Edit) Duration() float64 {
	return e.Span().Duration()
}

// Words sets the global word range covered by the edit.
func Words(first, last int) *[2]int {
	return &[2]int{first, last}
}

// SortByStart orders edits by start time, then end time, and renumbers them.
func SortByStart(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].DeleteStart != edits[j].DeleteStart {
			return edits[i].DeleteStart < edits[j].DeleteStart
		}
		return edits[i].DeleteEnd < edits[j].DeleteEnd
	})
	for i := range edits {
		edits[i].Index = i
	}
}

// Spans returns the deletion intervals of edits.
func Spans(edits []Edit) []interval.Interval {
	out := make([]interval.Interval, 0, len(edits))
	for _, e := range edits {
		out = append(out, e.Span())
	}
	return out
}

// Applied returns the edits that turn into cuts. Edits flagged for review
// are left for a human unless includeReview is set.
func Applied(edits []Edit, includeReview bool) []Edit {
	if includeReview {
		return edits
	}
	out := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if !e.NeedsReview {
			out = append(out, e)
		}
	}
	return out
}

// RoundTime rounds a computed time offset to milliseconds.
func RoundTime(t float64) float64 {
	return math.Round(t*1000) / 1000
}
