package lexicon

import (
	"strings"

	"podcut/internal/textutil"
)

// Tables is the serializable form of a lexicon.
type Tables struct {
	Reduplications     []string `yaml:"reduplications" toml:"reduplications"`
	NumeralChars       string   `yaml:"numeral_chars" toml:"numeral_chars"`
	ReviewWords        []string `yaml:"review_words" toml:"review_words"`
	ReviewPhrases      []string `yaml:"review_phrases" toml:"review_phrases"`
	RestartCues        []string `yaml:"restart_cues" toml:"restart_cues"`
	Hesitations        []string `yaml:"hesitations" toml:"hesitations"`
	ResidualFillers    []string `yaml:"residual_fillers" toml:"residual_fillers"`
	Punctuation        string   `yaml:"punctuation" toml:"punctuation"`
	SentenceTerminals  string   `yaml:"sentence_terminals" toml:"sentence_terminals"`
	WholeSentenceTypes []string `yaml:"whole_sentence_types" toml:"whole_sentence_types"`
}

// Lexicon is the immutable lookup form of Tables.
type Lexicon struct {
	tables         Tables
	reduplications map[string]struct{}
	reviewWords    map[string]struct{}
	reviewPhrases  map[string]struct{}
	restartCues    map[string]struct{}
	hesitations    map[string]struct{}
	fillers        map[string]struct{}
	wholeSentence  map[string]struct{}
	numerals       textutil.RuneSet
	punctuation    textutil.RuneSet
	terminals      textutil.RuneSet
}

// New builds a lexicon from tables.
func New(t Tables) *Lexicon {
	return &Lexicon{
		tables:         t.clone(),
		reduplications: toSet(t.Reduplications),
		reviewWords:    toSet(t.ReviewWords),
		reviewPhrases:  toSet(t.ReviewPhrases),
		restartCues:    toSet(t.RestartCues),
		hesitations:    toSet(t.Hesitations),
		fillers:        toSet(t.ResidualFillers),
		wholeSentence:  toSet(t.WholeSentenceTypes),
		numerals:       textutil.NewRuneSet(t.NumeralChars),
		punctuation:    textutil.NewRuneSet(t.Punctuation),
		terminals:      textutil.NewRuneSet(t.SentenceTerminals),
	}
}

// Tables returns a copy of the tables backing the lexicon.
func (l *Lexicon) Tables() Tables {
	return l.tables.clone()
}

// Clean strips the lexicon punctuation and whitespace from s.
func (l *Lexicon) Clean(s string) string {
	return textutil.Clean(s, l.punctuation)
}

// Punctuation returns the stripped punctuation set.
func (l *Lexicon) Punctuation() textutil.RuneSet {
	return l.punctuation
}

// IsReduplication reports whether s is a whitelisted reduplicated word such as 妈妈.
func (l *Lexicon) IsReduplication(s string) bool {
	return has(l.reduplications, s)
}

// IsNumeral reports whether s consists only of numeral characters or digits.
func (l *Lexicon) IsNumeral(s string) bool {
	return textutil.AllIn(s, l.numerals)
}

// IsReviewWord reports whether s is a high-frequency single character whose
// doubling is often natural speech.
func (l *Lexicon) IsReviewWord(s string) bool {
	return has(l.reviewWords, s)
}

// IsReviewPhrase reports whether s is a short phrase whose doubling is often
// natural speech.
func (l *Lexicon) IsReviewPhrase(s string) bool {
	return has(l.reviewPhrases, s)
}

// IsRestartCue reports whether s is a spoken restart marker.
func (l *Lexicon) IsRestartCue(s string) bool {
	return has(l.restartCues, s)
}

// IsHesitation reports whether s is a hesitation word.
func (l *Lexicon) IsHesitation(s string) bool {
	return has(l.hesitations, s)
}

// IsResidualFiller reports whether s is a filler that should not survive the cut.
func (l *Lexicon) IsResidualFiller(s string) bool {
	return has(l.fillers, s)
}

// IsWholeSentenceType reports whether edits of category c always cover their
// whole sentence.
func (l *Lexicon) IsWholeSentenceType(c string) bool {
	return has(l.wholeSentence, c)
}

// IsSentenceTerminal reports whether r ends a sentence.
func (l *Lexicon) IsSentenceTerminal(r rune) bool {
	return l.terminals.Has(r)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func has(set map[string]struct{}, s string) bool {
	_, ok := set[s]
	return ok
}

func (t Tables) clone() Tables {
	out := t
	out.Reduplications = append([]string(nil), t.Reduplications...)
	out.ReviewWords = append([]string(nil), t.ReviewWords...)
	out.ReviewPhrases = append([]string(nil), t.ReviewPhrases...)
	out.RestartCues = append([]string(nil), t.RestartCues...)
	out.Hesitations = append([]string(nil), t.Hesitations...)
	out.ResidualFillers = append([]string(nil), t.ResidualFillers...)
	out.WholeSentenceTypes = append([]string(nil), t.WholeSentenceTypes...)
	return out
}
