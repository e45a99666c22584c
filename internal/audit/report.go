package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"podcut/internal/interval"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Issue types.
const (
	TypeRestoredWordCovered = "restored_word_covered"
	TypeManualNotDeleted    = "manual_sentence_not_deleted"
	TypeMissedNotCovered    = "missed_catch_not_covered"
	TypeSilenceGap          = "silence_gap"
	TypeLargeDeletion       = "large_deletion"
)

// Issue is one audit finding. Time anchors the issue on the source timeline
// and is what reviewer markers are matched against.
type Issue struct {
	Type          string             `json:"type"`
	Severity      Severity           `json:"severity"`
	Time          float64            `json:"time"`
	SentenceIndex *int               `json:"sentenceIdx,omitempty"`
	Range         *interval.Interval `json:"timeRange,omitempty"`
	Duration      float64            `json:"duration,omitempty"`
	Text          string             `json:"text,omitempty"`
	WordCount     int                `json:"wordCount,omitempty"`
	SentenceText  string             `json:"sentenceText,omitempty"`
	Category      string             `json:"category,omitempty"`
	BeforeText    string             `json:"beforeText,omitempty"`
	AfterText     string             `json:"afterText,omitempty"`
	Fix           *interval.Interval `json:"suggestedFix,omitempty"`
	Note          string             `json:"note,omitempty"`
	NeedsReview   bool               `json:"needsReview,omitempty"`
	Acknowledged  bool               `json:"acknowledged,omitempty"`
}

// Section holds the outcome of one check.
type Section struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
	Summary string  `json:"summary"`
}

// Open counts issues the reviewer has not acknowledged.
func (s Section) Open() int {
	n := 0
	for _, is := range s.Issues {
		if !is.Acknowledged {
			n++
		}
	}
	return n
}

// Checks groups the four audit sections.
type Checks struct {
	RestoredSentences Section `json:"restoredSentences"`
	ManualDeletions   Section `json:"manualDeletions"`
	CutPointSilences  Section `json:"cutPointSilences"`
	LargeDeletions    Section `json:"largeDeletions"`
}

// Report is the audit_report.json document.
type Report struct {
	GeneratedAt   time.Time `json:"timestamp"`
	Workspace     string    `json:"workspace,omitempty"`
	TotalSegments int       `json:"totalSegments"`
	Checks        Checks    `json:"checks"`
	Failures      int       `json:"failures"`
	Acknowledged  int       `json:"acknowledged"`
	Passed        bool      `json:"passed"`
	Summary       string    `json:"summary"`
}

// Issues returns every issue in section order.
func (r Report) Issues() []Issue {
	var out []Issue
	for _, sec := range []Section{r.Checks.RestoredSentences, r.Checks.ManualDeletions, r.Checks.CutPointSilences, r.Checks.LargeDeletions} {
		out = append(out, sec.Issues...)
	}
	return out
}

// finalize counts failures and renders the overall summary. Large deletions
// are review notices and never fail the audit.
func (r *Report) finalize() {
	failing := []Section{r.Checks.RestoredSentences, r.Checks.ManualDeletions, r.Checks.CutPointSilences}
	r.Failures = 0
	r.Acknowledged = 0
	for _, sec := range failing {
		open := sec.Open()
		r.Failures += open
		r.Acknowledged += len(sec.Issues) - open
	}
	r.Passed = r.Failures == 0

	large := len(r.Checks.LargeDeletions.Issues)
	if r.Passed {
		r.Summary = fmt.Sprintf("audit passed; %d large deletion(s) need a continuity check", large)
		return
	}
	var parts []string
	if n := r.Checks.RestoredSentences.Open(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d restored sentence(s) covered", n))
	}
	if n := r.Checks.ManualDeletions.Open(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d manual deletion(s) not applied", n))
	}
	if n := r.Checks.CutPointSilences.Open(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d silence gap(s) at cut points", n))
	}
	r.Summary = fmt.Sprintf("%d issue(s) to fix: %s; %d large deletion(s) need a continuity check",
		r.Failures, strings.Join(parts, ", "), large)
}

// LoadReport reads an audit report.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("%s: decode audit report: %w", filepath.Base(path), err)
	}
	return r, nil
}
