package model

import "time"

// Document is one persisted publication record.
// A file that yields three publications is stored as three documents.
type Document struct {
	ID                string       `json:"id"`
	ProcessNumber     string       `json:"process_number"`                // CNJ number, "N/A" when absent, "ERRO" on failure
	Sector            string       `json:"sector"`                        // Sector name or N/A
	SectorKeywordUsed string       `json:"sector_keyword_used,omitempty"` // Term that decided the sector
	Type              DocumentType `json:"type"`
	Confidence        float64      `json:"confidence"`
	PublicationDate   *time.Time   `json:"publication_date,omitempty"`
	DeadlineStart     *time.Time   `json:"deadline_start,omitempty"` // Set by operators after review
	Responsible       string       `json:"responsible,omitempty"`
	Court             string       `json:"court,omitempty"` // Derived from the J.TR segment of the process number
	FileName          string       `json:"file_name"`
	Source            string       `json:"source"`            // Path or URL the file came from
	Publication       int          `json:"publication"`       // 1-based block index within the file
	Content           string       `json:"content,omitempty"` // Block text
	ErrorMessage      string       `json:"error_message,omitempty"`
	Warnings          []string     `json:"warnings,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         *time.Time   `json:"updated_at,omitempty"`
}

// Failed reports whether the record stands for a processing failure
func (d Document) Failed() bool {
	return d.ErrorMessage != ""
}

// DocumentUpdate carries operator edits; nil fields are left untouched
type DocumentUpdate struct {
	Sector        *string       `json:"sector,omitempty"`
	Responsible   *string       `json:"responsible,omitempty"`
	DeadlineStart *time.Time    `json:"deadline_start,omitempty"`
	Type          *DocumentType `json:"type,omitempty"`
}

// DocumentFilter narrows document listings
type DocumentFilter struct {
	Type  *DocumentType
	Limit int
}

// FileReport is the outcome of processing one uploaded or fetched file
type FileReport struct {
	FileName     string                 `json:"file_name"`
	Source       string                 `json:"source"`
	Format       string                 `json:"format,omitempty"`
	ContentHash  string                 `json:"content_hash,omitempty"`
	ProcessedAt  time.Time              `json:"processed_at"`
	TextLength   int                    `json:"text_length"`
	CacheHit     bool                   `json:"cache_hit"`
	Results      []ClassificationResult `json:"results"`   // Engine output, one per block
	Documents    []Document             `json:"documents"` // Records after caller policy
	Skipped      int                    `json:"skipped"`   // Unresolved records dropped by policy
	ErrorMessage string                 `json:"error,omitempty"`
}

// Failed reports whether the file could not be processed
func (r *FileReport) Failed() bool {
	return r.ErrorMessage != ""
}
