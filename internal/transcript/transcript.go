package transcript

// Transcript is an immutable word stream with its speech-only view.
type Transcript struct {
	words  []Word
	speech []Word
	gaps   []Word
}

// New indexes words. The slice is copied.
func New(words []Word) *Transcript {
	t := &Transcript{words: append([]Word(nil), words...)}
	for _, w := range t.words {
		switch {
		case w.IsGap:
			t.gaps = append(t.gaps, w)
		case w.IsSpeakerLabel:
		default:
			t.speech = append(t.speech, w)
		}
	}
	return t
}

// Words returns the full word stream. Callers must not modify it.
func (t *Transcript) Words() []Word { return t.words }

// Speech returns the speech tokens in order. Sentence word ranges index this
// slice. Callers must not modify it.
func (t *Transcript) Speech() []Word { return t.speech }

// Gaps returns the silence markers in order. Callers must not modify it.
func (t *Transcript) Gaps() []Word { return t.gaps }

// Duration returns the end time of the last word.
func (t *Transcript) Duration() float64 {
	var end float64
	for _, w := range t.words {
		if w.End > end {
			end = w.End
		}
	}
	return end
}
