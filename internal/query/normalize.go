package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks applies compatibility decomposition and removes diacritical
// marks, so "Café" and "Cafe" compare equal.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)

// Normalize canonicalizes text for comparison: compatibility-normalized,
// accent-stripped, lower-cased, punctuation and symbols replaced by spaces,
// whitespace collapsed and trimmed. Total and idempotent; scripts without
// case or diacritics (CJK) pass through apart from trimming.
func Normalize(text string) string {
	return canonicalize(text, true)
}

// NormalizePreservingCase is Normalize without the lower-casing step, for
// comparisons where the query's own casing decides case sensitivity.
func NormalizePreservingCase(text string) string {
	return canonicalize(text, false)
}

func canonicalize(text string, fold bool) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		out = text
	}
	if fold {
		out = strings.ToLower(out)
	}
	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
