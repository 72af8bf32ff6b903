package reconcile

// similarity.go scores how alike two strings are.
//
// Scores are derived from Levenshtein distance with unit costs and normalised
// by the longer string's length in runes. No case folding or whitespace
// normalisation is applied; "Acme" and "acme" are different strings.

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// EditDistance returns the Levenshtein distance between a and b.
//
// If either string is empty the result is 0. Callers that need a score should
// use Similarity, which treats an empty string against a non-empty one as 0.0.
func EditDistance(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return levenshtein.ComputeDistance(a, b)
}

// Similarity returns a score in [0, 1] where 1 means identical.
//
// Equal strings score 1.0, including two empty strings. An empty string
// against a non-empty one scores 0.0. Otherwise the score is
// 1 - distance/max(len(a), len(b)).
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1.0 - float64(EditDistance(a, b))/float64(longest)
}

// Flatten joins all fields of r, key included, with a single space.
// This is the string records are compared on.
func Flatten(r Record) string {
	return strings.Join(r, " ")
}
