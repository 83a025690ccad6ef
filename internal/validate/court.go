package validate

import (
	"fmt"
	"strings"
)

// Judiciary segments (the J digit of a CNJ number)
const (
	SegmentSupremo         = '1'
	SegmentCNJ             = '2'
	SegmentSuperior        = '3'
	SegmentFederal         = '4'
	SegmentTrabalho        = '5'
	SegmentEleitoral       = '6'
	SegmentMilitarUniao    = '7'
	SegmentEstadual        = '8'
	SegmentMilitarEstadual = '9'
)

// stateCodes lists the TR codes of state courts, in CNJ order
var stateCodes = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG", "PA",
	"PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SE", "SP", "TO",
}

// CourtClassifier names the court a process number belongs to
type CourtClassifier struct {
	overrides map[string]string
}

// NewCourtClassifier creates a classifier. overrides maps "J.TR" (for
// example "5.02") to a court name and wins over the built-in naming.
// "J-TR" is accepted too since config keys cannot contain dots.
func NewCourtClassifier(overrides map[string]string) *CourtClassifier {
	m := make(map[string]string, len(overrides))
	for k, v := range overrides {
		m[strings.ReplaceAll(strings.TrimSpace(k), "-", ".")] = v
	}
	return &CourtClassifier{overrides: m}
}

// Classify returns the court for a CNJ process number, or "" when the
// number is malformed or the segment is unknown.
func (c *CourtClassifier) Classify(processNumber string) string {
	parts, ok := splitProcessNumber(processNumber)
	if !ok {
		return ""
	}
	segment, region := parts.segment, parts.region

	if name, ok := c.overrides[segment+"."+region]; ok {
		return name
	}

	n := atoi(region)
	switch segment[0] {
	case SegmentSupremo:
		return "STF"
	case SegmentCNJ:
		return "CNJ"
	case SegmentSuperior:
		return "STJ"
	case SegmentFederal:
		if n == 90 {
			return "CJF"
		}
		if n >= 1 && n <= 6 {
			return fmt.Sprintf("TRF%d", n)
		}
	case SegmentTrabalho:
		if n == 0 {
			return "TST"
		}
		if n == 90 {
			return "CSJT"
		}
		if n >= 1 && n <= 24 {
			return fmt.Sprintf("TRT%d", n)
		}
	case SegmentEleitoral:
		if n == 0 {
			return "TSE"
		}
		if n >= 1 && n <= len(stateCodes) {
			return "TRE-" + stateCodes[n-1]
		}
	case SegmentMilitarUniao:
		if n == 0 {
			return "STM"
		}
		return fmt.Sprintf("CJM%d", n)
	case SegmentEstadual:
		if n >= 1 && n <= len(stateCodes) {
			return "TJ" + stateCodes[n-1]
		}
	case SegmentMilitarEstadual:
		switch region {
		case "13":
			return "TJMMG"
		case "21":
			return "TJMRS"
		case "26":
			return "TJMSP"
		}
	}
	return ""
}

func atoi(digits string) int {
	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
	}
	return n
}
