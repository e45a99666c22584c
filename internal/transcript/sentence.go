package transcript

import (
	"fmt"
	"strings"

	"podcut/internal/interval"
)

// Sentence is a contiguous run of speech tokens.
type Sentence struct {
	Index     int    `json:"idx"`
	WordStart int    `json:"wordStart"`
	WordEnd   int    `json:"wordEnd"`
	Speaker   string `json:"speaker,omitempty"`
	Text      string `json:"text"`

	// Words, Start and End are resolved by Attach.
	Words []Word  `json:"-"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Span returns the time range of the sentence.
func (s Sentence) Span() interval.Interval {
	return interval.New(s.Start, s.End)
}

// Len returns the number of speech tokens in the sentence.
func (s Sentence) Len() int {
	return s.WordEnd - s.WordStart + 1
}

// Global converts a sentence-local word position to a speech index.
func (s Sentence) Global(local int) int {
	return s.WordStart + local
}

// Attach resolves the words and time span of every sentence against the
// transcript. Ranges must be ordered, in bounds and non-overlapping.
func Attach(t *Transcript, sentences []Sentence) ([]Sentence, error) {
	speech := t.Speech()
	out := make([]Sentence, len(sentences))
	prevEnd := -1
	for i, s := range sentences {
		if s.WordStart < 0 || s.WordEnd < s.WordStart {
			return nil, fmt.Errorf("sentence %d: invalid word range %d-%d", s.Index, s.WordStart, s.WordEnd)
		}
		if s.WordEnd >= len(speech) {
			return nil, fmt.Errorf("sentence %d: word range %d-%d exceeds %d speech words", s.Index, s.WordStart, s.WordEnd, len(speech))
		}
		if s.WordStart <= prevEnd {
			return nil, fmt.Errorf("sentence %d: word range %d-%d overlaps previous sentence", s.Index, s.WordStart, s.WordEnd)
		}
		prevEnd = s.WordEnd
		s.Words = speech[s.WordStart : s.WordEnd+1]
		s.Start = s.Words[0].Start
		s.End = s.Words[len(s.Words)-1].End
		if s.Text == "" {
			s.Text = joinText(s.Words)
		}
		out[i] = s
	}
	return out, nil
}

// BuildSentences splits the speech tokens into sentences. A sentence ends at a
// token containing a rune for which isTerminal returns true, or when a speaker
// marker starts a new turn. Gap tokens are skipped. The returned sentences are
// already attached.
func BuildSentences(t *Transcript, isTerminal func(rune) bool) []Sentence {
	var (
		sentences []Sentence
		current   []Word
		speaker   string
		start     int
		index     int
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		sentences = append(sentences, Sentence{
			Index:     len(sentences),
			WordStart: start,
			WordEnd:   index - 1,
			Speaker:   speaker,
			Text:      joinText(current),
			Words:     current,
			Start:     current[0].Start,
			End:       current[len(current)-1].End,
		})
		current = nil
		start = index
	}

	for _, w := range t.Words() {
		switch {
		case w.IsSpeakerLabel:
			flush()
			speaker = w.Speaker
		case w.IsGap:
		default:
			current = append(current, w)
			index++
			if strings.IndexFunc(w.Text, isTerminal) >= 0 {
				flush()
			}
		}
	}
	flush()
	return sentences
}

func joinText(words []Word) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(w.Text)
	}
	return b.String()
}

// Containing returns the index into sentences of the sentence whose span
// contains t with eps slack, or -1.
func Containing(sentences []Sentence, t, eps float64) int {
	for i, s := range sentences {
		if t >= s.Start-eps && t <= s.End+eps {
			return i
		}
	}
	return -1
}

// ByIndex maps sentence indices to their position in sentences.
func ByIndex(sentences []Sentence) map[int]int {
	out := make(map[int]int, len(sentences))
	for i, s := range sentences {
		out[s.Index] = i
	}
	return out
}
