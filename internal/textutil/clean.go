package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// RuneSet is an immutable set of runes.
type RuneSet struct {
	runes map[rune]struct{}
}

// NewRuneSet builds a set from every rune in chars.
func NewRuneSet(chars string) RuneSet {
	set := RuneSet{runes: make(map[rune]struct{}, utf8.RuneCountInString(chars))}
	for _, r := range chars {
		set.runes[r] = struct{}{}
	}
	return set
}

// Has reports whether r belongs to the set.
func (s RuneSet) Has(r rune) bool {
	_, ok := s.runes[r]
	return ok
}

// Len returns the number of distinct runes in the set.
func (s RuneSet) Len() int {
	return len(s.runes)
}

// String returns the set members in no particular order.
func (s RuneSet) String() string {
	var b strings.Builder
	for r := range s.runes {
		b.WriteRune(r)
	}
	return b.String()
}

// Fold maps fullwidth compatibility forms to their narrow equivalents.
func Fold(s string) string {
	return width.Fold.String(s)
}

// Clean folds s and drops whitespace and every rune in strip.
func Clean(s string, strip RuneSet) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) || strip.Has(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// IsLatinWord reports whether s is a non-empty run of ASCII letters.
func IsLatinWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// AllIn reports whether s is non-empty and every rune belongs to set or is an
// ASCII digit.
func AllIn(s string, set RuneSet) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			continue
		}
		if !set.Has(r) {
			return false
		}
	}
	return true
}

// Ternary is a generic conditional helper that returns a if cond is true, b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
