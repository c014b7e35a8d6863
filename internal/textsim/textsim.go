// Package textsim normalizes and compares short task texts. Similarity is
// the signal the matcher uses to decide whether two phrasings name the same
// task, so normalization is deliberately aggressive: case, accents and
// punctuation never count as differences.
package textsim

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, turning
// "mañana" into "manana" and "café" into "cafe".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, strips diacritics and punctuation, collapses
// whitespace and trims.
func Normalize(text string) string {
	text = strings.ToLower(text)
	if out, _, err := transform.String(stripMarks, text); err == nil {
		text = out
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity returns a score in [0,1] for two strings after normalization.
// 1 means equal after normalization; otherwise the score is derived from
// Levenshtein edit distance: 1 - distance/max(len). Both inputs empty
// yields 1, exactly one empty yields 0. Symmetric by construction.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}

	dist := levenshtein.Distance(na, nb, nil)
	la := len([]rune(na))
	lb := len([]rune(nb))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}

	score := 1 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}
