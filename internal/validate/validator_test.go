package validate

import (
	"testing"
	"time"

	"github.com/ppiankov/juridico/internal/model"
)

func fixedValidator(now time.Time) *Validator {
	v := NewValidator(nil)
	v.now = func() time.Time { return now }
	return v
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func hasWarning(doc model.Document, msg string) bool {
	for _, w := range doc.Warnings {
		if w == msg {
			return true
		}
	}
	return false
}

func TestValidator_CleanRecord(t *testing.T) {
	v := fixedValidator(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	doc := model.Document{
		ProcessNumber:   "0001234-02.2023.5.02.0011",
		Sector:          "AUDIÊNCIA",
		PublicationDate: date(2024, 3, 15),
	}

	v.Validate(&doc)

	if len(doc.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", doc.Warnings)
	}
	if doc.Court != "TRT2" {
		t.Errorf("expected court TRT2, got %q", doc.Court)
	}
}

func TestValidator_Warnings(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		doc  model.Document
		want []string
	}{
		{
			name: "bad check digits",
			doc:  model.Document{ProcessNumber: "0001234-56.2023.5.02.0011", Sector: "EXECUÇÃO", PublicationDate: date(2024, 3, 15)},
			want: []string{WarnBadCheckDigits},
		},
		{
			name: "missing process number",
			doc:  model.Document{ProcessNumber: model.ProcessNumberAbsent, Sector: "EXECUÇÃO", PublicationDate: date(2024, 3, 15)},
			want: []string{WarnMissingProcessNumber},
		},
		{
			name: "missing date and sector",
			doc:  model.Document{ProcessNumber: "0001234-02.2023.5.02.0011", Sector: model.SectorNotApplicable},
			want: []string{WarnMissingDate, WarnUnresolvedSector},
		},
		{
			name: "future date",
			doc:  model.Document{ProcessNumber: "0001234-02.2023.5.02.0011", Sector: "ALVARÁ", PublicationDate: date(2025, 1, 2)},
			want: []string{WarnFutureDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tt.doc
			fixedValidator(now).Validate(&doc)

			if len(doc.Warnings) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, doc.Warnings)
			}
			for _, w := range tt.want {
				if !hasWarning(doc, w) {
					t.Errorf("missing warning %q in %v", w, doc.Warnings)
				}
			}
		})
	}
}

func TestValidator_SkipsFailedRecords(t *testing.T) {
	doc := model.Document{ProcessNumber: "ERRO", Sector: model.SectorNotApplicable, ErrorMessage: "corrupt file"}
	NewValidator(nil).Validate(&doc)

	if len(doc.Warnings) != 0 {
		t.Errorf("expected failed record untouched, got %v", doc.Warnings)
	}
}

func TestValidator_Idempotent(t *testing.T) {
	v := fixedValidator(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	docs := []model.Document{
		{ProcessNumber: "0001234-56.2023.5.02.0011", Sector: model.SectorNotApplicable},
		{ProcessNumber: "0001234-02.2023.5.02.0011", Sector: "AUDIÊNCIA", PublicationDate: date(2024, 3, 15)},
	}

	if flagged := v.ValidateAll(docs); flagged != 1 {
		t.Errorf("expected 1 flagged record, got %d", flagged)
	}
	before := len(docs[0].Warnings)
	v.ValidateAll(docs)
	if len(docs[0].Warnings) != before {
		t.Errorf("warnings duplicated on revalidation: %v", docs[0].Warnings)
	}
}

func TestSummary(t *testing.T) {
	if Summary(model.Document{}) != "" {
		t.Error("expected empty summary")
	}
	doc := model.Document{Warnings: []string{WarnMissingDate, WarnUnresolvedSector}}
	if got := Summary(doc); got != WarnMissingDate+" (+1 more)" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestValidator_ValidateWhole(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "one publication",
			text: "Processo 0001234-02.2023.5.02.0011\nFica designada audiência.",
		},
		{
			name: "same number twice",
			text: "Processo 0001234-02.2023.5.02.0011\nAutos 0001234-02.2023.5.02.0011",
		},
		{
			name: "two numbers",
			text: "Processo 0001234-02.2023.5.02.0011\nApenso 1000123-59.2024.5.02.0001",
			want: []string{WarnSeveralProcessNumbers},
		},
		{
			name: "concatenated publications",
			text: "Publicação: 1 de 2\nProcesso 0001234-02.2023.5.02.0011\n" +
				"Publicação: 2 de 2\nProcesso 1000123-59.2024.5.02.0001",
			want: []string{WarnSeveralPublications, WarnSeveralProcessNumbers},
		},
	}

	v := NewValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := model.Document{ProcessNumber: "0001234-02.2023.5.02.0011"}
			v.ValidateWhole(&doc, tt.text)

			if len(doc.Warnings) != len(tt.want) {
				t.Fatalf("expected warnings %v, got %v", tt.want, doc.Warnings)
			}
			for _, w := range tt.want {
				if !hasWarning(doc, w) {
					t.Errorf("missing warning %q in %v", w, doc.Warnings)
				}
			}
		})
	}

	failed := model.Document{ErrorMessage: "corrupt file"}
	v.ValidateWhole(&failed, tests[3].text)
	if len(failed.Warnings) != 0 {
		t.Errorf("expected failed record untouched, got %v", failed.Warnings)
	}
}
