// Package lexicon holds the language heuristics the detectors consult: the
// reduplication whitelist, numeral characters, the review tier of common
// short words, restart cues, hesitation words, residual fillers and the
// punctuation stripped before matching.
//
// A Lexicon is immutable once built. Default returns the built-in Mandarin
// tables; Load applies an overlay file (YAML or TOML) on top of them so the
// tables can be tuned per show without touching detector code.
package lexicon
