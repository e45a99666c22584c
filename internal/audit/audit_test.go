package audit_test

import (
	"encoding/json"
	"testing"
	"time"

	"podcut/internal/audit"
	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/feedback"
	"podcut/internal/interval"
	"podcut/internal/testsupport"
	"podcut/internal/transcript"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine() *audit.Engine {
	opts := audit.OptionsFromConfig(config.Default().Audit, nil, nil)
	opts.Now = func() time.Time { return fixedNow }
	return audit.New(opts)
}

func mustFeedback(t *testing.T, raw string) *feedback.Feedback {
	t.Helper()
	fb, err := feedback.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	return fb
}

// threeSentences builds:
//
//	s0 今天 我们 聊聊      0.00-0.75
//	s1 我 我 觉得 不错     1.75-2.75
//	s2 这个 话题 很 有意思 3.75-4.75
func threeSentences(t *testing.T) (*transcript.Transcript, []transcript.Sentence) {
	t.Helper()
	return testsupport.NewTranscript().
		Say("今天", "我们", "聊聊").End().
		Pause(1.0).
		Say("我", "我", "觉得", "不错").End().
		Pause(1.0).
		Say("这个", "话题", "很", "有意思").
		Build(t)
}

func stutterEdit(start, end float64) edit.Edit {
	return edit.Edit{SentenceIndex: 1, Type: edit.CategoryStutter, DeleteStart: start, DeleteEnd: end, Source: edit.SourceRules}
}

func TestRestoredSentenceOwnStutterIsNotReported(t *testing.T) {
	tr, sentences := threeSentences(t)
	in := audit.Input{
		Transcript: tr,
		Sentences:  sentences,
		Segments:   []interval.Interval{{Start: 1.75, End: 2.0}},
		Edits:      []edit.Edit{stutterEdit(1.75, 2.0)},
		Feedback:   mustFeedback(t, `{"restore_feedback":[{"sentenceIdx":1}]}`),
	}
	report := newEngine().Run(in)
	sec := report.Checks.RestoredSentences
	if sec.Checked != 1 {
		t.Fatalf("expected one restored sentence checked, got %d", sec.Checked)
	}
	if len(sec.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", sec.Issues)
	}
	if !report.Passed {
		t.Fatalf("expected audit to pass: %s", report.Summary)
	}
}

func TestRestoredSentenceCoverage(t *testing.T) {
	tests := []struct {
		name      string
		segment   interval.Interval
		edits     []edit.Edit
		wantIssue bool
		wantText  string
	}{
		{name: "unexplained segment", segment: interval.New(1.75, 2.5), wantIssue: true, wantText: "我我觉得"},
		{name: "edit covers most of segment", segment: interval.New(1.75, 2.0), edits: []edit.Edit{stutterEdit(1.8, 2.0)}},
		{name: "absolute overlap above limit", segment: interval.New(1.75, 3.0), edits: []edit.Edit{stutterEdit(1.75, 2.1)}},
		{name: "small overlap is not enough", segment: interval.New(1.75, 3.0), edits: []edit.Edit{stutterEdit(1.75, 2.0)}, wantIssue: true, wantText: "我我觉得不错"},
		{name: "edit of another sentence explains it", segment: interval.New(1.5, 2.0), edits: []edit.Edit{{SentenceIndex: 0, DeleteStart: 1.0, DeleteEnd: 2.0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, sentences := threeSentences(t)
			report := newEngine().Run(audit.Input{
				Transcript: tr,
				Sentences:  sentences,
				Segments:   []interval.Interval{tt.segment},
				Edits:      tt.edits,
				Feedback:   mustFeedback(t, `{"all_restored_sentence_indices":[1]}`),
			})
			issues := report.Checks.RestoredSentences.Issues
			if !tt.wantIssue {
				if len(issues) != 0 {
					t.Fatalf("expected no issues, got %+v", issues)
				}
				return
			}
			if len(issues) != 1 {
				t.Fatalf("expected one issue, got %+v", issues)
			}
			is := issues[0]
			if is.Type != audit.TypeRestoredWordCovered || is.Severity != audit.SeverityHigh {
				t.Fatalf("unexpected issue classification %+v", is)
			}
			if is.Text != tt.wantText {
				t.Fatalf("covered text = %q, want %q", is.Text, tt.wantText)
			}
			if is.SentenceIndex == nil || *is.SentenceIndex != 1 {
				t.Fatalf("unexpected sentence index %v", is.SentenceIndex)
			}
			if is.Range == nil || *is.Range != tt.segment {
				t.Fatalf("unexpected covering segment %v", is.Range)
			}
			if report.Passed {
				t.Fatal("expected audit to fail")
			}
		})
	}
}

func TestManualDeletions(t *testing.T) {
	tr, sentences := threeSentences(t)
	fb := mustFeedback(t, `{
		"user_corrections": {"added_deletions": [0, 2]},
		"missed_catches": [
			{"sentenceIdx": 1, "selectedText": "我我", "typeLabel": "卡顿", "timestamp": {"start": 1.75, "end": 2.0}},
			{"sentenceIdx": 2, "selectedText": "很", "type": "filler", "timestamp": {"start": 4.25, "end": 4.5}},
			{"sentenceIdx": 2, "selectedText": "话题"}
		]
	}`)
	report := newEngine().Run(audit.Input{
		Transcript: tr,
		Sentences:  sentences,
		Segments:   []interval.Interval{{Start: 0, End: 0.75}, {Start: 1.75, End: 2.0}},
		Feedback:   fb,
	})
	sec := report.Checks.ManualDeletions
	if sec.Checked != 4 {
		t.Fatalf("expected 4 checked items, got %d", sec.Checked)
	}
	if len(sec.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", sec.Issues)
	}
	first, second := sec.Issues[0], sec.Issues[1]
	if first.Type != audit.TypeManualNotDeleted || *first.SentenceIndex != 2 || first.Severity != audit.SeverityHigh {
		t.Fatalf("unexpected manual issue %+v", first)
	}
	if first.SentenceText != "这个话题很有意思" {
		t.Fatalf("unexpected sentence text %q", first.SentenceText)
	}
	if second.Type != audit.TypeMissedNotCovered || second.Severity != audit.SeverityMedium || second.Category != "filler" {
		t.Fatalf("unexpected missed-catch issue %+v", second)
	}
}

func TestManualDeletionsWithoutFeedback(t *testing.T) {
	tr, sentences := threeSentences(t)
	report := newEngine().Run(audit.Input{Transcript: tr, Sentences: sentences})
	if report.Checks.ManualDeletions.Checked != 0 || len(report.Checks.ManualDeletions.Issues) != 0 {
		t.Fatalf("expected empty section, got %+v", report.Checks.ManualDeletions)
	}
	if !report.Passed {
		t.Fatal("expected pass without segments or feedback")
	}
}

// gapTranscript places 嗯 at 1.0-2.0 and 那个 at 2.5-3.0 with silence between.
func gapTranscript(t *testing.T, inGap string) (*transcript.Transcript, []transcript.Sentence) {
	t.Helper()
	b := testsupport.NewTranscript().
		Say("我们", "开始").
		Pause(0.5).
		Word("嗯", 1.0)
	if inGap != "" {
		b.Pause(0.2).Word(inGap, 0.1).Pause(0.2)
	} else {
		b.Pause(0.5)
	}
	return b.Word("那个", 0.5).Say("继续", "说").Build(t)
}

func TestCutPointSilences(t *testing.T) {
	tests := []struct {
		name     string
		inGap    string
		segments []interval.Interval
		want     int
	}{
		{name: "silent gap", segments: []interval.Interval{{Start: 1.0, End: 2.0}, {Start: 2.5, End: 3.0}}, want: 1},
		{name: "punctuation only", inGap: "，", segments: []interval.Interval{{Start: 1.0, End: 2.0}, {Start: 2.5, End: 3.0}}, want: 1},
		{name: "speech in gap", inGap: "对", segments: []interval.Interval{{Start: 1.0, End: 2.0}, {Start: 2.5, End: 3.0}}},
		{name: "gap too short", segments: []interval.Interval{{Start: 1.0, End: 2.0}, {Start: 2.2, End: 2.4}}},
		{name: "kept speech between", segments: []interval.Interval{{Start: 1.0, End: 2.0}, {Start: 3.0, End: 3.25}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, sentences := gapTranscript(t, tt.inGap)
			report := newEngine().Run(audit.Input{Transcript: tr, Sentences: sentences, Segments: tt.segments})
			issues := report.Checks.CutPointSilences.Issues
			if len(issues) != tt.want {
				t.Fatalf("expected %d silence issues, got %+v", tt.want, issues)
			}
			if tt.want == 0 {
				return
			}
			is := issues[0]
			if is.Fix == nil || *is.Fix != interval.New(2.0, 2.5) {
				t.Fatalf("unexpected suggested fix %v", is.Fix)
			}
			if is.Duration != 0.5 {
				t.Fatalf("unexpected duration %v", is.Duration)
			}
			if is.BeforeText != "我们开始嗯" || is.AfterText != "继续说" {
				t.Fatalf("unexpected context %q -> %q", is.BeforeText, is.AfterText)
			}
		})
	}
}

func TestAcknowledgedIssuesDoNotFail(t *testing.T) {
	tr, sentences := gapTranscript(t, "")
	report := newEngine().Run(audit.Input{
		Transcript: tr,
		Sentences:  sentences,
		Segments:   []interval.Interval{{Start: 1.0, End: 2.0}, {Start: 2.5, End: 3.0}},
		Feedback:   mustFeedback(t, `{"issues":[{"type":"silence_gap","status":"ok","time":2.0}]}`),
	})
	issues := report.Checks.CutPointSilences.Issues
	if len(issues) != 1 || !issues[0].Acknowledged {
		t.Fatalf("expected one acknowledged issue, got %+v", issues)
	}
	if report.Failures != 0 || report.Acknowledged != 1 || !report.Passed {
		t.Fatalf("unexpected totals failures=%d acknowledged=%d passed=%v", report.Failures, report.Acknowledged, report.Passed)
	}
}

func TestLargeDeletionsNeverFail(t *testing.T) {
	tr, sentences := threeSentences(t)
	report := newEngine().Run(audit.Input{
		Transcript: tr,
		Sentences:  sentences,
		Segments:   []interval.Interval{{Start: 0, End: 0.5}, {Start: 0.75, End: 6.0}},
	})
	large := report.Checks.LargeDeletions.Issues
	if len(large) != 1 {
		t.Fatalf("expected one large deletion, got %+v", large)
	}
	if !large[0].NeedsReview || large[0].Severity != audit.SeverityLow || large[0].Duration != 5.25 {
		t.Fatalf("unexpected large deletion %+v", large[0])
	}
	if large[0].BeforeText != "今天我们聊聊" {
		t.Fatalf("unexpected before text %q", large[0].BeforeText)
	}
	if !report.Passed || report.Failures != 0 {
		t.Fatalf("large deletions must not fail the audit: %s", report.Summary)
	}
}

func TestReportJSONShape(t *testing.T) {
	tr, sentences := threeSentences(t)
	report := newEngine().Run(audit.Input{Transcript: tr, Sentences: sentences})
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	checks, ok := raw["checks"].(map[string]any)
	if !ok {
		t.Fatalf("missing checks: %s", data)
	}
	for _, key := range []string{"restoredSentences", "manualDeletions", "cutPointSilences", "largeDeletions"} {
		sec, ok := checks[key].(map[string]any)
		if !ok {
			t.Fatalf("missing section %s", key)
		}
		if _, ok := sec["issues"].([]any); !ok {
			t.Fatalf("section %s issues should be an array: %s", key, data)
		}
	}
	if raw["timestamp"] != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp %v", raw["timestamp"])
	}
}
