package suggest_test

import (
	"path/filepath"
	"testing"

	"podcut/internal/spanmap"
	"podcut/internal/suggest"
	"podcut/internal/testsupport"
)

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{name: "bare list", data: `[{"s":1,"text":"嗯","type":"filler"}]`, want: 1},
		{name: "wrapped", data: `{"edits":[{"sentenceIdx":2,"text":"那个"},{"s":3,"text":"对"}]}`, want: 2},
		{name: "empty", data: "  ", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := suggest.Decode([]byte(tt.data))
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if len(items) != tt.want {
				t.Fatalf("expected %d items, got %+v", tt.want, items)
			}
		})
	}
}

func TestDecodeAlias(t *testing.T) {
	items, err := suggest.Decode([]byte(`[{"sentenceIdx":7,"text":"然后","keepText":"","reason":"filler"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if items[0].SentenceIndex != 7 || items[0].Reason != "filler" {
		t.Fatalf("unexpected item %+v", items[0])
	}
}

func TestDecodeRejectsMissingSentence(t *testing.T) {
	if _, err := suggest.Decode([]byte(`[{"text":"嗯"}]`)); err == nil {
		t.Fatal("expected error for item without sentence index")
	}
}

func TestLoadAndResolve(t *testing.T) {
	_, sentences := testsupport.NewTranscript().
		Say("嗯", "我们", "开始").End().
		Say("今天", "天气", "不错").End().
		Build(t)

	dir := t.TempDir()
	testsupport.WriteText(t, dir, "suggestions.json", `{"edits":[
		{"s":0,"text":"嗯","type":"filler","reason":"opening"},
		{"s":1,"text":"下雨","type":"filler"},
		{"s":9,"text":"嗯","type":"filler"},
		{"s":1,"text":"","type":"residual_sentence"}
	]}`)
	items, err := suggest.Load(filepath.Join(dir, "suggestions.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	out := suggest.Resolve(items, sentences, spanmap.New(nil), nil)
	if len(out.Edits) != 2 {
		t.Fatalf("expected 2 mapped edits, got %+v", out.Edits)
	}
	if len(out.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %+v", out.Failures)
	}
	if out.Failures[1].Reason != "sentence 9 not found" {
		t.Fatalf("unexpected failure reason %q", out.Failures[1].Reason)
	}
	if !out.Edits[1].WholeSentence {
		t.Fatalf("expected whole-sentence edit, got %+v", out.Edits[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := suggest.Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error")
	}
}
