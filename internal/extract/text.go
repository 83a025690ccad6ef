package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize recomposes diacritics (NFC) so that text produced by PDF
// extractors as base letter + combining mark matches precomposed keywords.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Upper returns the normalized, upper-cased form used for keyword matching
func Upper(text string) string {
	return strings.ToUpper(Normalize(text))
}

// NormalizeTerm prepares an operator-supplied keyword for matching.
// Returns "" for terms that are blank after trimming.
func NormalizeTerm(term string) string {
	return strings.TrimSpace(Upper(term))
}
