package edit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"podcut/internal/interval"
)

// Document is the on-disk form of an edit list.
type Document struct {
	Edits   []Edit  `json:"edits"`
	Summary Summary `json:"summary"`
}

// NewDocument sorts edits, renumbers them and attaches a fresh summary.
func NewDocument(edits []Edit) Document {
	out := append([]Edit(nil), edits...)
	SortByStart(out)
	return Document{Edits: out, Summary: Summarize(out)}
}

// DecodeDocument accepts a full document or a bare edit array.
func DecodeDocument(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, fmt.Errorf("empty edit document")
	}
	if trimmed[0] == '[' {
		var edits []Edit
		if err := json.Unmarshal(trimmed, &edits); err != nil {
			return Document{}, fmt.Errorf("decode edits: %w", err)
		}
		return NewDocument(edits), nil
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, fmt.Errorf("decode edits: %w", err)
	}
	for _, e := range doc.Edits {
		if e.DeleteEnd < e.DeleteStart {
			return Document{}, fmt.Errorf("edit %d: end %.3f before start %.3f", e.Index, e.DeleteEnd, e.DeleteStart)
		}
	}
	return doc, nil
}

// LoadDocument reads an edit document from path.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

func unionSpans(edits []Edit) []interval.Interval {
	return interval.Union(Spans(edits), 0)
}
