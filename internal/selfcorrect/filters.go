package selfcorrect

import "strings"

type verdict int

const (
	pass verdict = iota
	// skipStart abandons every prefix length at the current start position.
	skipStart
	// skipOccurrence moves on to the next occurrence of the same prefix.
	skipOccurrence
)

// window is one pair of prefix occurrences within the active words of a
// sentence: the first at ai, the second at aj, both k words long.
type window struct {
	texts  []string
	ai, aj int
	k      int
	prefix string
}

// gap returns the words between the end of the first occurrence and the
// start of the second.
func (w window) gap() []string {
	return w.texts[w.ai+w.k : w.aj]
}

func (w window) at(i int) string {
	if i < 0 || i >= len(w.texts) {
		return ""
	}
	return w.texts[i]
}

// firstContinuation is the word after the first occurrence, if it lies
// before the second occurrence.
func (w window) firstContinuation() string {
	if w.ai+w.k < w.aj {
		return w.texts[w.ai+w.k]
	}
	return ""
}

func (w window) secondContinuation() string {
	return w.at(w.aj + w.k)
}

type filter struct {
	name  string
	check func(s *Scanner, w window) verdict
}

func defaultFilters() []filter {
	return []filter{
		{name: "parallel_structure", check: parallelStructure},
		{name: "parallel_substantive_gap", check: parallelSubstantiveGap},
		{name: "list_pattern", check: listPattern},
		{name: "verbatim_repeat", check: verbatimRepeat},
	}
}

// continuesDifferently reports whether both occurrences are followed by
// different substantive words.
func (s *Scanner) continuesDifferently(w window) bool {
	a, b := w.firstContinuation(), w.secondContinuation()
	return a != "" && b != "" && a != b && !s.lex.IsHesitation(a) && !s.lex.IsHesitation(b)
}

func parallelStructure(s *Scanner, w window) verdict {
	gap := w.gap()
	if len(gap) == 0 || !s.continuesDifferently(w) {
		return pass
	}
	for _, word := range gap {
		if s.lex.IsHesitation(word) {
			return pass
		}
	}
	return skipStart
}

func parallelSubstantiveGap(s *Scanner, w window) verdict {
	gap := w.gap()
	if len(gap) < 2 || !s.continuesDifferently(w) {
		return pass
	}
	for _, word := range gap {
		if word != "" && !s.lex.IsHesitation(word) {
			return skipStart
		}
	}
	return pass
}

func listPattern(s *Scanner, w window) verdict {
	if !s.continuesDifferently(w) {
		return pass
	}
	count := 0
	for i := 0; i+w.k <= len(w.texts); i++ {
		if strings.Join(w.texts[i:i+w.k], "") == w.prefix {
			count++
		}
	}
	if count >= s.opts.ListOccurrences {
		return skipStart
	}
	return pass
}

func verbatimRepeat(_ *Scanner, w window) verdict {
	first := w.firstContinuation()
	if first == "" || first != w.secondContinuation() {
		return pass
	}
	if w.ai+w.k+1 >= w.aj || w.aj+w.k+1 >= len(w.texts) {
		return pass
	}
	if w.texts[w.ai+w.k+1] == w.texts[w.aj+w.k+1] {
		return skipOccurrence
	}
	return pass
}
