// Package detect implements the rule layer of disfluency detection.
//
// A Detector runs four rules in priority order: long silences, exact-match
// stutters, suffix-match stutters left behind by tokenizer boundaries, and
// spoken restart cues. Each word rule sees only the active words of a
// sentence, meaning words not already covered by an edit accepted earlier in
// the same pass. The language heuristics come from a lexicon.Lexicon supplied
// at construction.
package detect
