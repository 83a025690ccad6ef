// Package validate checks classified records for inconsistencies an
// operator should review.
package validate

import "regexp"

var processNumberRe = regexp.MustCompile(`^(\d{7})-(\d{2})\.(\d{4})\.(\d)\.(\d{2})\.(\d{4})$`)

type processParts struct {
	sequence string
	check    string
	year     string
	segment  string
	region   string
	origin   string
}

func splitProcessNumber(n string) (processParts, bool) {
	m := processNumberRe.FindStringSubmatch(n)
	if m == nil {
		return processParts{}, false
	}
	return processParts{
		sequence: m[1],
		check:    m[2],
		year:     m[3],
		segment:  m[4],
		region:   m[5],
		origin:   m[6],
	}, true
}

// ProcessNumberCheckDigits reports whether the DD digits of a CNJ
// number NNNNNNN-DD.AAAA.J.TR.OOOO are correct (ISO 7064 mod 97-10).
func ProcessNumberCheckDigits(n string) bool {
	p, ok := splitProcessNumber(n)
	if !ok {
		return false
	}
	digits := p.sequence + p.year + p.segment + p.region + p.origin + p.check
	return mod97(digits) == 1
}

// ComputeCheckDigits returns the DD digits for the given number. The
// existing check digits are ignored; ok is false for malformed input.
func ComputeCheckDigits(n string) (string, bool) {
	p, ok := splitProcessNumber(n)
	if !ok {
		return "", false
	}
	r := mod97(p.sequence + p.year + p.segment + p.region + p.origin + "00")
	dd := 98 - r
	return string([]byte{byte('0' + dd/10), byte('0' + dd%10)}), true
}

func mod97(digits string) int {
	r := 0
	for i := 0; i < len(digits); i++ {
		r = (r*10 + int(digits[i]-'0')) % 97
	}
	return r
}
