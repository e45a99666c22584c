package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"podcut/internal/interval"
)

// Word is an atomic transcript token.
type Word struct {
	Text           string  `json:"text"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	IsGap          bool    `json:"isGap,omitempty"`
	IsSpeakerLabel bool    `json:"isSpeakerLabel,omitempty"`
	Speaker        string  `json:"speaker,omitempty"`
}

// IsSpeech reports whether w is an ordinary speech token.
func (w Word) IsSpeech() bool {
	return !w.IsGap && !w.IsSpeakerLabel
}

// Span returns the time range of the word.
func (w Word) Span() interval.Interval {
	return interval.New(w.Start, w.End)
}

// Duration returns the length of the word in seconds.
func (w Word) Duration() float64 {
	return w.Span().Duration()
}

type wireWord struct {
	Text           *string  `json:"text"`
	Word           *string  `json:"word"`
	Start          *float64 `json:"start"`
	S              *float64 `json:"s"`
	End            *float64 `json:"end"`
	E              *float64 `json:"e"`
	IsGap          bool     `json:"isGap"`
	IsSpeakerLabel bool     `json:"isSpeakerLabel"`
	Speaker        any      `json:"speaker"`
}

// UnmarshalJSON accepts the canonical keys plus the short aliases some
// transcribers emit. Missing timestamps decode as zero.
func (w *Word) UnmarshalJSON(data []byte) error {
	var raw wireWord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Word{IsGap: raw.IsGap, IsSpeakerLabel: raw.IsSpeakerLabel}
	switch {
	case raw.Text != nil:
		w.Text = *raw.Text
	case raw.Word != nil:
		w.Text = *raw.Word
	}
	w.Start = firstFloat(raw.Start, raw.S)
	w.End = firstFloat(raw.End, raw.E)
	switch v := raw.Speaker.(type) {
	case nil:
	case string:
		w.Speaker = v
	default:
		w.Speaker = fmt.Sprint(v)
	}
	return nil
}

func firstFloat(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// DecodeWords parses a word list given either as a bare JSON array or as an
// object with a "words" array.
func DecodeWords(data []byte) ([]Word, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty transcript")
	}
	var words []Word
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &words); err != nil {
			return nil, fmt.Errorf("decode words: %w", err)
		}
		return words, nil
	}
	var wrapped struct {
		Words []Word `json:"words"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}
	if wrapped.Words == nil {
		return nil, fmt.Errorf("decode words: no \"words\" array")
	}
	return wrapped.Words, nil
}

// LoadWords reads and decodes a word list file.
func LoadWords(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	words, err := DecodeWords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return words, nil
}
