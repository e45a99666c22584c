package spanmap

import (
	"errors"
	"fmt"
	"strings"

	"podcut/internal/edit"
	"podcut/internal/interval"
	"podcut/internal/lexicon"
	"podcut/internal/transcript"
)

var (
	// ErrEmptyQuery is returned when the quote is empty after cleaning.
	ErrEmptyQuery = errors.New("empty text after cleaning")
	// ErrNoMatch is returned when the quote does not occur in the sentence.
	ErrNoMatch = errors.New("text not found in sentence")
)

// Match is the word and time range a quote covers.
type Match struct {
	// LocalStart and LocalEnd are inclusive positions within the sentence.
	LocalStart int
	LocalEnd   int
	// GlobalStart and GlobalEnd are inclusive speech-token indices.
	GlobalStart int
	GlobalEnd   int
	Start       float64
	End         float64
}

// Span returns the matched time range.
func (m Match) Span() interval.Interval {
	return interval.New(m.Start, m.End)
}

// Mapper maps quotes onto sentence words.
type Mapper struct {
	lex *lexicon.Lexicon
}

// New constructs a Mapper. A nil lexicon selects the built-in tables.
func New(lex *lexicon.Lexicon) *Mapper {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Mapper{lex: lex}
}

// Map finds the first occurrence of text in the sentence.
func (m *Mapper) Map(s transcript.Sentence, text string) (Match, error) {
	query := m.lex.Clean(text)
	if query == "" {
		return Match{}, ErrEmptyQuery
	}
	if len(s.Words) == 0 {
		return Match{}, ErrNoMatch
	}

	var full []rune
	var owner []int
	for i, w := range s.Words {
		for _, r := range m.lex.Clean(w.Text) {
			full = append(full, r)
			owner = append(owner, i)
		}
	}
	pos := strings.Index(string(full), query)
	if pos < 0 {
		return Match{}, ErrNoMatch
	}
	startRune := len([]rune(string(full)[:pos]))
	endRune := startRune + len([]rune(query)) - 1

	first := owner[startRune]
	last := len(s.Words) - 1
	if endRune < len(owner) {
		last = owner[endRune]
	}
	return Match{
		LocalStart:  first,
		LocalEnd:    last,
		GlobalStart: s.Global(first),
		GlobalEnd:   s.Global(last),
		Start:       s.Words[first].Start,
		End:         s.Words[last].End,
	}, nil
}

// Suggestion is a free-form deletion proposal quoted against one sentence.
type Suggestion struct {
	SentenceIndex int
	Text          string
	Type          string
	Reason        string
	KeepText      string
}

// Resolve turns a suggestion into a timed edit. Whole-sentence categories
// take the span of the sentence without matching.
func (m *Mapper) Resolve(s transcript.Sentence, sg Suggestion) (edit.Edit, error) {
	category := edit.Category(strings.TrimSpace(sg.Type))
	if category == "" {
		category = edit.CategoryExternal
	}
	e := edit.Edit{
		SentenceIndex: s.Index,
		Type:          category,
		Rule:          "LLM-" + ruleSuffix(sg.Type),
		DeleteText:    sg.Text,
		KeepText:      sg.KeepText,
		Reason:        sg.Reason,
		Source:        edit.SourceExternal,
	}

	if m.lex.IsWholeSentenceType(string(category)) {
		if len(s.Words) == 0 {
			return edit.Edit{}, fmt.Errorf("sentence %d has no words", s.Index)
		}
		e.WordRange = edit.Words(s.WordStart, s.WordEnd)
		e.DeleteStart = s.Start
		e.DeleteEnd = s.End
		e.WholeSentence = true
		return e, nil
	}

	match, err := m.Map(s, sg.Text)
	if err != nil {
		return edit.Edit{}, err
	}
	e.WordRange = edit.Words(match.GlobalStart, match.GlobalEnd)
	e.DeleteStart = match.Start
	e.DeleteEnd = match.End
	return e, nil
}

func ruleSuffix(kind string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return "edit"
	}
	return kind
}
