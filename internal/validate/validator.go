package validate

import (
	"fmt"
	"time"

	"github.com/ppiankov/juridico/internal/extract"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/segment"
)

// Warning messages attached to records
const (
	WarnMissingProcessNumber = "process number not found"
	WarnBadCheckDigits       = "process number check digits do not match"
	WarnMissingDate          = "publication date not found"
	WarnFutureDate           = "publication date is in the future"
	WarnUnresolvedSector     = "sector not resolved"

	WarnSeveralPublications   = "text holds several publications; classify it segmented"
	WarnSeveralProcessNumbers = "text cites more than one process number"
)

// Validator flags records an operator should review
type Validator struct {
	courts *CourtClassifier
	now    func() time.Time
}

// NewValidator creates a validator. courts may be nil.
func NewValidator(courts *CourtClassifier) *Validator {
	if courts == nil {
		courts = NewCourtClassifier(nil)
	}
	return &Validator{
		courts: courts,
		now:    time.Now,
	}
}

// Validate fills doc.Court and appends warnings to doc.Warnings. Failed
// records are left as they are.
func (v *Validator) Validate(doc *model.Document) {
	if doc.Failed() {
		return
	}

	switch {
	case doc.ProcessNumber == "" || doc.ProcessNumber == model.ProcessNumberAbsent:
		doc.Warnings = appendOnce(doc.Warnings, WarnMissingProcessNumber)
	case !ProcessNumberCheckDigits(doc.ProcessNumber):
		doc.Warnings = appendOnce(doc.Warnings, WarnBadCheckDigits)
		doc.Court = v.courts.Classify(doc.ProcessNumber)
	default:
		doc.Court = v.courts.Classify(doc.ProcessNumber)
	}

	if doc.PublicationDate == nil {
		doc.Warnings = appendOnce(doc.Warnings, WarnMissingDate)
	} else if doc.PublicationDate.After(v.now()) {
		doc.Warnings = appendOnce(doc.Warnings, WarnFutureDate)
	}

	if doc.Sector == "" || doc.Sector == model.SectorNotApplicable {
		doc.Warnings = appendOnce(doc.Warnings, WarnUnresolvedSector)
	}
}

// ValidateAll validates every record and returns how many got warnings
func (v *Validator) ValidateAll(docs []model.Document) int {
	flagged := 0
	for i := range docs {
		v.Validate(&docs[i])
		if len(docs[i].Warnings) > 0 {
			flagged++
		}
	}
	return flagged
}

// ValidateWhole flags a record classified from a whole file whose text
// looks like several publications.
func (v *Validator) ValidateWhole(doc *model.Document, text string) {
	if doc.Failed() {
		return
	}
	text = extract.Normalize(text)
	if segment.Count(text) > 1 {
		doc.Warnings = appendOnce(doc.Warnings, WarnSeveralPublications)
	}
	if len(extract.AllProcessNumbers(text)) > 1 {
		doc.Warnings = appendOnce(doc.Warnings, WarnSeveralProcessNumbers)
	}
}

// Summary renders warnings as one line
func Summary(doc model.Document) string {
	switch len(doc.Warnings) {
	case 0:
		return ""
	case 1:
		return doc.Warnings[0]
	default:
		return fmt.Sprintf("%s (+%d more)", doc.Warnings[0], len(doc.Warnings)-1)
	}
}

func appendOnce(list []string, msg string) []string {
	for _, existing := range list {
		if existing == msg {
			return list
		}
	}
	return append(list, msg)
}
