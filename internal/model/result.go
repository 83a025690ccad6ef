package model

import "time"

// ClassificationResult is the outcome for one publication block.
// Results are built once and never mutated afterwards.
type ClassificationResult struct {
	Type              DocumentType `json:"type"`                        // Always set, Outros when nothing matched
	ProcessNumber     string       `json:"processNumber,omitempty"`     // CNJ number, empty when absent
	PublicationDate   *time.Time   `json:"publicationDate,omitempty"`   // nil when absent or not a calendar date
	Sector            string       `json:"sector"`                      // Always set, N/A when nothing matched
	SectorKeywordUsed string       `json:"sectorKeywordUsed,omitempty"` // Term that decided the sector
	Confidence        float64      `json:"confidence"`                  // matched / total keywords of the winning type
}

// Resolved reports whether a sector was assigned
func (r ClassificationResult) Resolved() bool {
	return r.Sector != "" && r.Sector != SectorNotApplicable
}
