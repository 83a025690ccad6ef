package model

import "time"

// Keyword is an operator-supplied term attached to a document type.
// Inactive keywords are kept for history and never reach the catalog.
type Keyword struct {
	ID        string       `json:"id" yaml:"id"`
	Term      string       `json:"term" yaml:"term"`
	Type      DocumentType `json:"type" yaml:"type"`
	Active    bool         `json:"active" yaml:"active"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}
