package detect_test

import (
	"math"
	"testing"

	"podcut/internal/config"
	"podcut/internal/detect"
	"podcut/internal/edit"
	"podcut/internal/testsupport"
	"podcut/internal/transcript"
)

func newDetector() *detect.Detector {
	cfg := config.Default()
	return detect.New(detect.OptionsFromConfig(cfg.Detect, nil, nil))
}

func byRule(edits []edit.Edit, rule string) []edit.Edit {
	var out []edit.Edit
	for _, e := range edits {
		if e.Rule == rule {
			out = append(out, e)
		}
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestExactStutter(t *testing.T) {
	tests := []struct {
		name       string
		words      []string
		wantEdits  int
		wantReview bool
		wantDelete string
	}{
		{name: "reduplication tokens", words: []string{"我", "奶奶", "奶奶", "来了"}},
		{name: "reduplication characters", words: []string{"奶", "奶", "来了"}},
		{name: "numeral", words: []string{"三", "三", "年"}},
		{name: "abb compound", words: []string{"粉", "嘟", "嘟", "的"}},
		{name: "single char review tier", words: []string{"我", "我", "觉得", "很好"}, wantEdits: 1, wantReview: true, wantDelete: "我"},
		{name: "phrase review tier", words: []string{"他", "就是", "就是", "不来"}, wantEdits: 1, wantReview: true, wantDelete: "就是"},
		{name: "triple repeat", words: []string{"这个", "这个", "这个", "问题"}, wantEdits: 1, wantDelete: "这个这个"},
		{name: "punctuation ignored", words: []string{"东西，", "东西", "很好"}, wantEdits: 1, wantDelete: "东西"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, sentences := testsupport.NewTranscript().Say(tt.words...).Build(t)
			res := newDetector().Detect(tr, sentences, nil)
			got := byRule(res.Edits, detect.RuleStutterExact)
			if len(got) != tt.wantEdits {
				t.Fatalf("expected %d exact stutters, got %+v", tt.wantEdits, got)
			}
			if tt.wantEdits == 0 {
				return
			}
			e := got[0]
			if e.NeedsReview != tt.wantReview {
				t.Fatalf("needsReview = %v, want %v", e.NeedsReview, tt.wantReview)
			}
			if tt.wantReview && e.Confidence != 0.7 {
				t.Fatalf("confidence = %v, want 0.7", e.Confidence)
			}
			if e.DeleteText != tt.wantDelete {
				t.Fatalf("deleteText = %q, want %q", e.DeleteText, tt.wantDelete)
			}
			if e.Type != edit.CategoryStutter || e.Source != edit.SourceRules {
				t.Fatalf("unexpected classification %+v", e)
			}
		})
	}
}

func TestExactStutterKeepsLastOccurrence(t *testing.T) {
	tr, sentences := testsupport.NewTranscript().Say("这个", "这个", "这个", "问题").Build(t)
	res := newDetector().Detect(tr, sentences, nil)
	if len(res.Edits) != 1 {
		t.Fatalf("expected one edit, got %+v", res.Edits)
	}
	e := res.Edits[0]
	if *e.WordRange != [2]int{0, 1} {
		t.Fatalf("wordRange = %v", *e.WordRange)
	}
	speech := tr.Speech()
	if e.DeleteStart != speech[0].Start || e.DeleteEnd != speech[1].End {
		t.Fatalf("unexpected bounds [%v, %v)", e.DeleteStart, e.DeleteEnd)
	}
}

func TestSuffixStutter(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  int
	}{
		{name: "tokenizer boundary", words: []string{"我们", "在这个", "这个", "地方"}, want: 1},
		{name: "latin words", words: []string{"OPEN", "EN", "the", "door"}},
		{name: "single char suffix", words: []string{"我们", "好的", "的", "地方"}},
		{name: "not a suffix", words: []string{"我们", "这个人", "这个", "地方"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, sentences := testsupport.NewTranscript().Say(tt.words...).Build(t)
			res := newDetector().Detect(tr, sentences, nil)
			got := byRule(res.Edits, detect.RuleStutterSuffix)
			if len(got) != tt.want {
				t.Fatalf("expected %d suffix stutters, got %+v", tt.want, got)
			}
			if tt.want == 1 {
				if !got[0].NeedsReview || got[0].Confidence != 0.8 || got[0].DeleteText != "这个" {
					t.Fatalf("unexpected suffix edit %+v", got[0])
				}
				if *got[0].WordRange != [2]int{2, 2} {
					t.Fatalf("wordRange = %v", *got[0].WordRange)
				}
			}
		})
	}
}

func TestRestartCue(t *testing.T) {
	tr, sentences := testsupport.NewTranscript().
		Say("我们", "今天", "聊", "不对", "我们", "今天", "聊", "电影").
		Build(t)
	res := newDetector().Detect(tr, sentences, nil)
	got := byRule(res.Edits, detect.RuleRestartCue)
	if len(got) != 1 {
		t.Fatalf("expected one restart edit, got %+v", res.Edits)
	}
	e := got[0]
	if *e.WordRange != [2]int{0, 3} {
		t.Fatalf("wordRange = %v", *e.WordRange)
	}
	if e.DeleteText != "我们今天聊不对" || e.KeepText != "我们今天聊电影" {
		t.Fatalf("unexpected texts %q / %q", e.DeleteText, e.KeepText)
	}
	if e.Type != edit.CategorySelfCorrection {
		t.Fatalf("type = %q", e.Type)
	}
}

func TestRestartCueRequiresSimilarText(t *testing.T) {
	tr, sentences := testsupport.NewTranscript().
		Say("天气", "很好", "不对", "你们", "吃饭", "了吗").
		Build(t)
	res := newDetector().Detect(tr, sentences, nil)
	if got := byRule(res.Edits, detect.RuleRestartCue); len(got) != 0 {
		t.Fatalf("expected no restart, got %+v", got)
	}
}

func TestRestartTwoWordCue(t *testing.T) {
	tr, sentences := testsupport.NewTranscript().
		Say("这个", "方案", "说错", "了", "这个", "方案", "可行").
		Build(t)
	res := newDetector().Detect(tr, sentences, nil)
	got := byRule(res.Edits, detect.RuleRestartCue)
	if len(got) != 1 || *got[0].WordRange != [2]int{0, 3} {
		t.Fatalf("expected restart through the two-word cue, got %+v", got)
	}
}

func TestSilence(t *testing.T) {
	b := testsupport.NewTranscript().
		Say("大家", "好。").End().
		Gap(2.0).
		Say("今天", "聊聊").End().
		Gap(0.85).
		Say("电影", "吧").End()
	tr, sentences := b.Build(t)

	res := newDetector().Detect(tr, sentences, nil)
	got := byRule(res.Edits, detect.RuleSilence)
	if len(got) != 1 {
		t.Fatalf("expected one silence edit, got %+v", got)
	}
	e := got[0]
	gap := tr.Gaps()[0]
	if !approx(e.DeleteStart, gap.Start) || !approx(e.DeleteEnd, gap.End-0.8) {
		t.Fatalf("unexpected silence bounds [%v, %v) for gap %v", e.DeleteStart, e.DeleteEnd, gap.Span())
	}
	if e.SentenceIndex != 0 || e.KeepDuration != 0.8 {
		t.Fatalf("unexpected silence edit %+v", e)
	}
}

func TestSilenceSkipsDeletedSentence(t *testing.T) {
	tr, sentences := testsupport.NewTranscript().
		Say("大家", "好。").End().
		Gap(2.0).
		Say("今天", "聊聊").End().
		Build(t)

	res := newDetector().Detect(tr, sentences, []int{0})
	if got := byRule(res.Edits, detect.RuleSilence); len(got) != 0 {
		t.Fatalf("expected no silence edit for a deleted sentence, got %+v", got)
	}
}

func TestDeletedSentencesSkipWordRules(t *testing.T) {
	tr, sentences := testsupport.NewTranscript().
		Say("这个", "这个", "问题").End().
		Say("那个", "那个", "答案").End().
		Build(t)

	res := newDetector().Detect(tr, sentences, []int{1})
	if len(res.Edits) != 1 || res.Edits[0].SentenceIndex != 0 {
		t.Fatalf("expected only sentence 0 edits, got %+v", res.Edits)
	}
}

func TestDetectIsDeterministicAndSorted(t *testing.T) {
	tr, sentences := testsupport.NewTranscript().
		Say("我", "我", "觉得").End().
		Gap(1.5).
		Say("这个", "这个", "问题", "不对", "这个", "问题", "很好").End().
		Build(t)

	d := newDetector()
	first := d.Detect(tr, sentences, nil)
	second := d.Detect(tr, sentences, nil)
	if len(first.Edits) != len(second.Edits) {
		t.Fatalf("detector not deterministic: %d vs %d", len(first.Edits), len(second.Edits))
	}
	for i := range first.Edits {
		if first.Edits[i].Index != i {
			t.Fatalf("edit %d has index %d", i, first.Edits[i].Index)
		}
		if i > 0 && first.Edits[i].DeleteStart < first.Edits[i-1].DeleteStart {
			t.Fatalf("edits not sorted: %+v", first.Edits)
		}
		if first.Edits[i].DeleteStart != second.Edits[i].DeleteStart || first.Edits[i].Rule != second.Edits[i].Rule {
			t.Fatalf("edit %d differs between runs", i)
		}
	}
	if first.Summary.TotalEdits != len(first.Edits) || first.Summary.NeedsReview != 1 {
		t.Fatalf("unexpected summary %+v", first.Summary)
	}
}

func TestMalformedSentencesDoNotPanic(t *testing.T) {
	tr := transcript.New([]transcript.Word{{Text: "", Start: 1, End: 0.5}, {Text: "", Start: 2, End: 2}})
	sentences, err := transcript.Attach(tr, []transcript.Sentence{{Index: 0, WordStart: 0, WordEnd: 1}})
	if err != nil {
		t.Fatal(err)
	}
	res := newDetector().Detect(tr, sentences, nil)
	if len(res.Edits) != 0 {
		t.Fatalf("expected no edits, got %+v", res.Edits)
	}
}
