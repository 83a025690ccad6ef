// Package extract pulls structured fields out of publication text.
//
// The matchers here are leftmost-first and look at the original-case text;
// isolating one process number and one date per block is the segmenter's job.
package extract

import (
	"regexp"
	"time"
)

// dateLayout is DD/MM/YYYY
const dateLayout = "02/01/2006"

var (
	// CNJ unified numbering: NNNNNNN-DD.AAAA.J.TR.OOOO
	processNumberRe = regexp.MustCompile(`\b\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}\b`)

	dateRe = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)
)

// ProcessNumber returns the first CNJ process number in text, or "" when absent
func ProcessNumber(text string) string {
	return processNumberRe.FindString(text)
}

// PublicationDate returns the first DD/MM/YYYY date in text.
// A first match that is not a calendar date (31/02/2024) yields nil;
// later matches are not consulted.
func PublicationDate(text string) *time.Time {
	match := dateRe.FindString(text)
	if match == "" {
		return nil
	}

	parsed, err := time.Parse(dateLayout, match)
	if err != nil {
		return nil
	}
	return &parsed
}

// AllProcessNumbers returns every distinct process number in document order
func AllProcessNumbers(text string) []string {
	matches := processNumberRe.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	var unique []string
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			unique = append(unique, m)
		}
	}
	return unique
}
