// Package spanmap resolves a text fragment quoted from a sentence into the
// words and time range it covers.
//
// Matching works on the sentence text with the lexicon punctuation class and
// whitespace removed and fullwidth forms folded, so a quote that differs from
// the transcript only in punctuation still maps. The first occurrence wins.
package spanmap
