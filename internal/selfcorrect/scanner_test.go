package selfcorrect_test

import (
	"testing"

	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/selfcorrect"
	"podcut/internal/testsupport"
)

func newScanner() *selfcorrect.Scanner {
	cfg := config.Default()
	return selfcorrect.New(selfcorrect.OptionsFromConfig(cfg.SelfCorrection, nil, nil))
}

func TestScanFindsSamePrefixExpansion(t *testing.T) {
	_, sentences := testsupport.NewTranscript().
		Say("我", "觉得", "这个", "嗯", "我", "觉得", "这个", "方案", "很好").
		Build(t)

	got := newScanner().Scan(sentences, nil)
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %+v", got)
	}
	e := got[0]
	if *e.WordRange != [2]int{0, 3} {
		t.Fatalf("wordRange = %v", *e.WordRange)
	}
	if e.DeleteText != "我觉得这个嗯" || e.KeepText != "我觉得这个方案很好..." {
		t.Fatalf("unexpected texts %q / %q", e.DeleteText, e.KeepText)
	}
	if e.ConfidenceLevel != edit.LevelHigh || e.PrefixWords != 3 || e.PrefixLength != 5 {
		t.Fatalf("unexpected confidence %+v", e)
	}
	if e.Type != edit.CategorySelfCorrectionRules || e.Source != edit.SourceSelfCorrection {
		t.Fatalf("unexpected classification %+v", e)
	}
}

func TestScanMediumConfidenceForShortPrefix(t *testing.T) {
	_, sentences := testsupport.NewTranscript().
		Say("我", "们", "去", "我", "们", "去", "北京").
		Build(t)

	got := newScanner().Scan(sentences, nil)
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %+v", got)
	}
	if got[0].ConfidenceLevel != edit.LevelMedium || got[0].PrefixLength != 3 {
		t.Fatalf("unexpected candidate %+v", got[0])
	}
}

func TestScanSkipsParallelStructures(t *testing.T) {
	tests := []struct {
		name  string
		words []string
	}{
		{name: "either or split", words: []string{"要么", "就", "fight", "要么", "就", "flee", "要么", "就", "僵住"}},
		{name: "either or joined", words: []string{"要么fight", "要么flee", "要么僵住"}},
		{name: "either or tokens", words: []string{"要么", "fight", "要么", "flee", "要么", "僵住"}},
		{name: "can still eat", words: []string{"还能", "吃", "巧克力", "还能", "吃", "番茄"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sentences := testsupport.NewTranscript().Say(tt.words...).Build(t)
			if got := newScanner().Scan(sentences, nil); len(got) != 0 {
				t.Fatalf("expected no candidates, got %+v", got)
			}
		})
	}
}

func TestScanRequiresExpansionWord(t *testing.T) {
	_, sentences := testsupport.NewTranscript().
		Say("我们", "去", "北京", "我们", "去").
		Build(t)
	if got := newScanner().Scan(sentences, nil); len(got) != 0 {
		t.Fatalf("second occurrence at sentence end must not match, got %+v", got)
	}
}

func TestScanIgnoresCoveredWordsAndDropsOverlaps(t *testing.T) {
	_, sentences := testsupport.NewTranscript().
		Say("我", "觉得", "这个", "嗯", "我", "觉得", "这个", "方案", "很好").
		Build(t)
	words := sentences[0].Words

	// An accepted edit of the same sentence over the hesitation word overlaps
	// the candidate, so it must be dropped.
	accepted := []edit.Edit{{
		SentenceIndex: 0,
		Type:          edit.CategoryFiller,
		DeleteStart:   words[3].Start + 0.05,
		DeleteEnd:     words[3].End - 0.05,
	}}
	if got := newScanner().Scan(sentences, accepted); len(got) != 0 {
		t.Fatalf("expected overlapping candidate to be dropped, got %+v", got)
	}

	// Covering the whole first attempt leaves nothing to find.
	accepted = []edit.Edit{{
		SentenceIndex: 0,
		Type:          edit.CategorySelfCorrection,
		DeleteStart:   words[0].Start,
		DeleteEnd:     words[3].End,
	}}
	if got := newScanner().Scan(sentences, accepted); len(got) != 0 {
		t.Fatalf("expected no candidates once the attempt is covered, got %+v", got)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	_, sentences := testsupport.NewTranscript().
		Say("我", "觉得", "这个", "嗯", "我", "觉得", "这个", "方案", "很好").End().
		Say("我们", "下周", "呃", "我们", "下周", "去", "北京").End().
		Build(t)

	s := newScanner()
	first := s.Scan(sentences, nil)
	if len(first) != 2 {
		t.Fatalf("expected two candidates, got %+v", first)
	}
	second := s.Scan(sentences, first)
	if len(second) != 0 {
		t.Fatalf("re-scan with accepted candidates must find nothing, got %+v", second)
	}
}

func TestScanSkipsShortSentences(t *testing.T) {
	_, sentences := testsupport.NewTranscript().Say("我们", "我们", "去").Build(t)
	if got := newScanner().Scan(sentences, nil); len(got) != 0 {
		t.Fatalf("expected nothing for a three-word sentence, got %+v", got)
	}
}
