package model

import (
	"fmt"
	"strings"
)

// DocumentType is the closed category of a legal publication
type DocumentType string

const (
	TypeExecucao        DocumentType = "Execucao"        // Execution
	TypeAlvara          DocumentType = "Alvara"          // Writ (alvará)
	TypePericiaQuesitos DocumentType = "PericiaQuesitos" // Expert examination / questions
	TypeAudiencia       DocumentType = "Audiencia"       // Hearing
	TypeSentenca        DocumentType = "Sentenca"        // Judgment
	TypeDespacho        DocumentType = "Despacho"        // Order / dispatch
	TypeCitacao         DocumentType = "Citacao"         // Summons
	TypeIntimacao       DocumentType = "Intimacao"       // Notification
	TypeRecurso         DocumentType = "Recurso"         // Appeal
	TypeOutros          DocumentType = "Outros"          // Catch-all when no keyword matches
)

// documentTypes is the declaration order. Keyword-score ties between types
// resolve to the earliest entry.
var documentTypes = []DocumentType{
	TypeExecucao,
	TypeAlvara,
	TypePericiaQuesitos,
	TypeAudiencia,
	TypeSentenca,
	TypeDespacho,
	TypeCitacao,
	TypeIntimacao,
	TypeRecurso,
	TypeOutros,
}

// DocumentTypes returns every document type in declaration order
func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

// Valid reports whether t belongs to the enumeration
func (t DocumentType) Valid() bool {
	for _, known := range documentTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t DocumentType) String() string {
	return string(t)
}

// ParseDocumentType resolves a tag case-insensitively
func ParseDocumentType(s string) (DocumentType, error) {
	s = strings.TrimSpace(s)
	for _, known := range documentTypes {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// SectorNotApplicable is the sector assigned when no sector keyword matched
const SectorNotApplicable = "N/A"

// ProcessNumberAbsent is stored when a publication cites no process number
const ProcessNumberAbsent = "N/A"

// ProcessNumberError marks a persisted record whose source file failed to process
const ProcessNumberError = "ERRO"
