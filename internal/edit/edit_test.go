package edit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppliedHoldsBackReviewEdits(t *testing.T) {
	edits := []Edit{
		{Type: CategorySilence, DeleteStart: 1, DeleteEnd: 2},
		{Type: CategoryStutter, DeleteStart: 3, DeleteEnd: 3.25, NeedsReview: true},
	}
	if got := Applied(edits, false); len(got) != 1 || got[0].Type != CategorySilence {
		t.Fatalf("Applied(false) = %+v", got)
	}
	if got := Applied(edits, true); len(got) != 2 {
		t.Fatalf("Applied(true) = %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	edits := []Edit{
		{Type: CategorySilence, DeleteStart: 10, DeleteEnd: 11.5},
		{Type: CategoryStutter, DeleteStart: 20, DeleteEnd: 20.5, NeedsReview: true, Confidence: 0.7},
		{Type: CategoryStutter, DeleteStart: 20.2, DeleteEnd: 21},
		{Type: CategorySelfCorrection, DeleteStart: 60, DeleteEnd: 120},
	}
	s := Summarize(edits)
	if s.TotalEdits != 4 || s.NeedsReview != 1 {
		t.Fatalf("Summarize() = %+v", s)
	}
	if s.ByType[CategoryStutter] != 2 || s.ByType[CategorySilence] != 1 {
		t.Fatalf("ByType = %v", s.ByType)
	}
	if s.TimeSavedSeconds != 62.5 {
		t.Fatalf("TimeSavedSeconds = %v, want 62.5", s.TimeSavedSeconds)
	}
	if s.EstimatedTimeSaved != "1:02" {
		t.Fatalf("EstimatedTimeSaved = %q, want 1:02", s.EstimatedTimeSaved)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{61, "1:01"},
		{-3, "0:00"},
		{3725, "62:05"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortByStartRenumbers(t *testing.T) {
	edits := []Edit{
		{Index: 7, DeleteStart: 3, DeleteEnd: 4},
		{Index: 8, DeleteStart: 1, DeleteEnd: 3},
		{Index: 9, DeleteStart: 1, DeleteEnd: 2},
	}
	SortByStart(edits)
	if edits[0].DeleteEnd != 2 || edits[1].DeleteEnd != 3 || edits[2].DeleteStart != 3 {
		t.Fatalf("SortByStart() order = %+v", edits)
	}
	for i, e := range edits {
		if e.Index != i {
			t.Fatalf("edit %d has index %d", i, e.Index)
		}
	}
}

func TestDecodeDocument(t *testing.T) {
	bare := `[{"sentenceIdx":1,"type":"stutter","deleteStart":2,"deleteEnd":2.5},{"sentenceIdx":0,"type":"silence","deleteStart":1,"deleteEnd":1.2}]`
	doc, err := DecodeDocument([]byte(bare))
	if err != nil {
		t.Fatalf("DecodeDocument(bare): %v", err)
	}
	if len(doc.Edits) != 2 || doc.Edits[0].Type != CategorySilence || doc.Summary.TotalEdits != 2 {
		t.Fatalf("DecodeDocument(bare) = %+v", doc)
	}

	full := `{"edits":[{"sentenceIdx":0,"type":"filler","deleteStart":1,"deleteEnd":1.3,"wordRange":[4,5]}],"summary":{"totalEdits":1}}`
	doc, err = DecodeDocument([]byte(full))
	if err != nil {
		t.Fatalf("DecodeDocument(full): %v", err)
	}
	if doc.Edits[0].WordRange == nil || doc.Edits[0].WordRange[1] != 5 {
		t.Fatalf("wordRange not decoded: %+v", doc.Edits[0])
	}

	if _, err := DecodeDocument([]byte(`{"edits":[{"deleteStart":3,"deleteEnd":1}]}`)); err == nil {
		t.Fatal("DecodeDocument() accepted an inverted edit")
	}
	if _, err := DecodeDocument([]byte("  ")); err == nil {
		t.Fatal("DecodeDocument() accepted empty input")
	}
}

func TestLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.json")
	if err := os.WriteFile(path, []byte(`{"edits":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadDocument(path)
	if err != nil || len(doc.Edits) != 0 {
		t.Fatalf("LoadDocument() = %+v, %v", doc, err)
	}
}

func TestSourceRank(t *testing.T) {
	if SourceRules.Rank() >= SourceExternal.Rank() {
		t.Fatal("rules should outrank external suggestions")
	}
	if Source("other").Rank() <= SourceGapCleanup.Rank() {
		t.Fatal("unknown sources should rank last")
	}
}
