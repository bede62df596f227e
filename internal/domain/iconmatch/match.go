// Package iconmatch holds the heuristic name matching shared by the vendor
// tree scanner and the remote icon catalog.
//
// Matching is deliberately loose: after normalization either string may
// contain the other. Short names ("hp", "vs") can therefore match unrelated
// programs. Changing the strictness changes which icon a program receives.
//
// Publisher fallbacks are the one stricter stage: the publisher must contain
// the mapped word as a whole word ("HP Inc." maps, "WHPrint Ltd" does not),
// where a plain substring test would also accept the latter.
package iconmatch

import (
	"strings"
	"unicode"
)

// Normalize lower-cases s and drops everything that is not a letter or digit,
// so "7-Zip", "7 zip" and "7Zip" all become "7zip".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold lower-cases s and collapses whitespace, keeping punctuation.
func Fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Equal reports a case-insensitive, whitespace-insensitive exact match.
func Equal(a, b string) bool {
	fa := Fold(a)
	return fa != "" && fa == Fold(b)
}

// Contains reports whether the normalized forms of a and b contain one
// another. Empty inputs never match.
func Contains(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Words splits s into lower-cased words on whitespace and punctuation other
// than '+', '#' and '.', which are meaningful in product names (notepad++, c#,
// node.js).
func Words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		return r != '+' && r != '#' && r != '.'
	})
}

// WordContains reports whether any word of name longer than minLen is
// contained in keyword, or contains it. Keyword comparison is on folded text.
func WordContains(name, keyword string, minLen int) bool {
	kw := Fold(keyword)
	if kw == "" {
		return false
	}
	for _, w := range Words(name) {
		if len(w) <= minLen {
			continue
		}
		if strings.Contains(kw, w) || strings.Contains(w, kw) {
			return true
		}
	}
	return false
}
