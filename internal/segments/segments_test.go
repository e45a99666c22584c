package segments_test

import (
	"path/filepath"
	"testing"

	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/interval"
	"podcut/internal/segments"
	"podcut/internal/testsupport"
)

func opts() segments.Options {
	return segments.OptionsFromConfig(config.Default().Segments)
}

func TestBuildJoinsOnlyAcrossSilence(t *testing.T) {
	// 甲 and 乙 are separated by a short pause; 乙 and 丙 by a kept filler.
	tr, _ := testsupport.NewTranscript().
		Pause(6).
		Say("甲").Gap(0.2).Say("乙").Word("啊", 0.1).Say("丙").
		Build(t)
	speech := tr.Speech()

	edits := []edit.Edit{
		{DeleteStart: speech[0].Start, DeleteEnd: speech[0].End},
		{DeleteStart: speech[1].Start, DeleteEnd: speech[1].End},
		{DeleteStart: speech[3].Start, DeleteEnd: speech[3].End},
	}
	got := segments.Build(edits, nil, tr, opts())
	want := []interval.Interval{
		{Start: speech[0].Start, End: speech[1].End},
		{Start: speech[3].Start, End: speech[3].End},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuildLeadInSnap(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		wantStart float64
	}{
		{name: "inside lead-in", start: 3.0, wantStart: 0},
		{name: "after lead-in", start: 6.0, wantStart: 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := testsupport.NewTranscript().Pause(tt.start).Say("嗯", "开始").Build(t)
			speech := tr.Speech()
			got := segments.Build([]edit.Edit{{DeleteStart: speech[0].Start, DeleteEnd: speech[0].End}}, nil, tr, opts())
			if len(got) != 1 || got[0].Start != tt.wantStart {
				t.Fatalf("unexpected segments %v", got)
			}
		})
	}
}

func TestBuildLeadInKeepsOpeningSpeech(t *testing.T) {
	tr, _ := testsupport.NewTranscript().
		Say("今天", "我们", "来", "聊聊", "播客。").Gap(1.2).
		Say("这个", "节目").
		Build(t)
	silence := edit.Edit{Type: edit.CategorySilence, DeleteStart: 1.25, DeleteEnd: 1.65}

	got := segments.Build([]edit.Edit{silence}, nil, tr, opts())
	if len(got) != 1 || got[0] != (interval.Interval{Start: 1.25, End: 1.65}) {
		t.Fatalf("opening sentence must survive, got %v", got)
	}
	for _, w := range tr.Speech()[:5] {
		if interval.NewIndex(got).Intersects(w.Span()) {
			t.Fatalf("word %q at %v is cut by %v", w.Text, w.Span(), got)
		}
	}
}

func TestBuildLeavesReviewEditsToReviewer(t *testing.T) {
	tr, _ := testsupport.NewTranscript().Pause(10).Say("我", "我", "觉得").Build(t)
	speech := tr.Speech()
	stutter := edit.Edit{
		Type:        edit.CategoryStutter,
		DeleteStart: speech[0].Start,
		DeleteEnd:   speech[0].End,
		NeedsReview: true,
		Confidence:  0.7,
	}

	if got := segments.Build([]edit.Edit{stutter}, nil, tr, opts()); len(got) != 0 {
		t.Fatalf("edit awaiting review must not be cut, got %v", got)
	}

	withReview := opts()
	withReview.IncludeNeedsReview = true
	got := segments.Build([]edit.Edit{stutter}, nil, tr, withReview)
	if len(got) != 1 || got[0] != stutter.Span() {
		t.Fatalf("expected the confirmed stutter to be cut, got %v", got)
	}
}

func TestBuildCoversEveryEditAndIsDisjoint(t *testing.T) {
	b := testsupport.NewTranscript().Pause(10)
	for i := 0; i < 6; i++ {
		b.Say("一", "二", "三", "四").End().Gap(0.9)
	}
	tr, sentences := b.Build(t)
	speech := tr.Speech()

	var edits []edit.Edit
	for i := 0; i+1 < len(speech); i += 3 {
		edits = append(edits, edit.Edit{DeleteStart: speech[i].Start, DeleteEnd: speech[i+1].End})
	}
	for _, gap := range tr.Gaps() {
		edits = append(edits, edit.Edit{DeleteStart: gap.Start, DeleteEnd: gap.End - 0.8})
	}
	deletes := segments.SentenceDeletions([]int{2, 3}, sentences, opts().SentenceGroupGap)

	got := segments.Build(edits, deletes, tr, opts())
	for i := 1; i < len(got); i++ {
		if got[i].Start <= got[i-1].End {
			t.Fatalf("segments not disjoint and ascending: %v", got)
		}
	}
	covered := interval.NewIndex(got)
	for _, e := range edits {
		if !covered.Covers(e.Span(), 0) {
			t.Fatalf("edit %v not covered by %v", e.Span(), got)
		}
	}
	for _, d := range deletes {
		if !covered.Covers(d, 0) {
			t.Fatalf("sentence deletion %v not covered by %v", d, got)
		}
	}
}

func TestSentenceDeletions(t *testing.T) {
	tr := testsupport.NewTranscript()
	tr.Say("零").End().Gap(0.5)
	tr.Say("一").End().Gap(0.5)
	tr.Say("二").End().Gap(2.0)
	tr.Say("三").End().Gap(0.5)
	tr.Say("四").End().Gap(0.5)
	tr.Say("五").End()
	_, sentences := tr.Build(t)

	got := segments.SentenceDeletions([]int{5, 1, 2, 4, 42}, sentences, 1.0)
	want := []interval.Interval{
		{Start: sentences[1].Start, End: sentences[2].End},
		{Start: sentences[4].Start, End: sentences[5].End},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interval %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{name: "bare", data: `[{"start":1,"end":2}]`, want: 1},
		{name: "segments key", data: `{"segments":[{"start":1,"end":2},{"start":3,"end":4}]}`, want: 2},
		{name: "delete_segments key", data: `{"delete_segments":[{"start":1,"end":2}]}`, want: 1},
		{name: "inverted", data: `[{"start":2,"end":1}]`, wantErr: true},
		{name: "empty", data: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := segments.Decode([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d segments, got %v", tt.want, got)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delete_segments.json")
	segs := []interval.Interval{{Start: 0, End: 1.5}, {Start: 3.25, End: 4}}
	if _, err := segments.Save(path, segs); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := segments.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 2 || got[1] != segs[1] {
		t.Fatalf("unexpected segments %v", got)
	}

	st := segments.Summarize(got)
	if st.Segments != 2 || st.DeletedTime != 2.25 || st.DeletedClock != "0:02" || st.LongestLength != 1.5 {
		t.Fatalf("unexpected stats %+v", st)
	}
}
