// Package fold holds the case-folding rule shared by query scoring and
// category lookup. Folding is Unicode default lower-casing with no locale
// tailoring, so "İ" and "I" fold the same way regardless of language.
package fold

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower returns s lower-cased. A cases.Caser is stateful, so each call gets
// its own.
func Lower(s string) string {
	if s == "" {
		return s
	}
	return cases.Lower(language.Und).String(s)
}

// Runes returns Lower(s) as code points.
func Runes(s string) []rune {
	return []rune(Lower(s))
}

// Equal reports whether a and b are equal after folding.
func Equal(a, b string) bool {
	return Lower(a) == Lower(b)
}
