// Package textutil provides the rune-level text helpers used to match
// transcript tokens against each other and against free-form text.
//
// Transcripts mix CJK characters, fullwidth punctuation and Latin words, so
// comparisons always run on cleaned text: Unicode width folding first (so
// fullwidth forms compare equal to their ASCII counterparts), then removal of
// a caller-supplied punctuation set and all whitespace. Lengths are counted in
// runes, never bytes.
package textutil
