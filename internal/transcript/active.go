package transcript

import "podcut/internal/interval"

// CoverEpsilon is the slack used when deciding whether a word lies inside a
// deletion interval.
const CoverEpsilon = 0.01

// Coverage answers whether a time span is already claimed by an accepted edit.
type Coverage interface {
	Covers(q interval.Interval, eps float64) bool
}

// ActiveWord is a sentence word not yet covered by an accepted edit.
type ActiveWord struct {
	Word
	// Local is the position within the sentence.
	Local int
	// Global is the speech-token index.
	Global int
}

// ActiveWords returns the words of s not fully contained in any interval of
// cov. A nil coverage leaves every word active.
func ActiveWords(s Sentence, cov Coverage) []ActiveWord {
	out := make([]ActiveWord, 0, len(s.Words))
	for i, w := range s.Words {
		if cov != nil && cov.Covers(w.Span(), CoverEpsilon) {
			continue
		}
		out = append(out, ActiveWord{Word: w, Local: i, Global: s.Global(i)})
	}
	return out
}
