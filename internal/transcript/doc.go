// Package transcript models the word-level timestamped transcript and the
// sentences derived from it.
//
// The full word stream contains ordinary speech tokens, silence ("gap")
// markers and zero-duration speaker-change markers. Sentence word ranges
// index the speech tokens only, so Transcript keeps both views. Sentences are
// either built from the word stream (BuildSentences) or read from a sentence
// index file (ParseSentenceIndex) and then attached to the transcript to
// resolve their words and time span.
//
// ActiveWords is the bookkeeping primitive the detectors share: it returns the
// words of a sentence that are not yet covered by an accepted edit, computed
// fresh against the caller's coverage so nothing is cached between stages.
package transcript
