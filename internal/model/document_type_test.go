package model

import "testing"

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		in      string
		want    DocumentType
		wantErr bool
	}{
		{"Execucao", TypeExecucao, false},
		{"  periciaquesitos ", TypePericiaQuesitos, false},
		{"OUTROS", TypeOutros, false},
		{"Mandado", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDocumentType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDocumentType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDocumentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDocumentTypes_Order(t *testing.T) {
	types := DocumentTypes()
	if len(types) != 10 || types[0] != TypeExecucao || types[len(types)-1] != TypeOutros {
		t.Fatalf("unexpected order: %v", types)
	}

	types[0] = "changed"
	if DocumentTypes()[0] != TypeExecucao {
		t.Error("DocumentTypes must return a copy")
	}

	for _, typ := range DocumentTypes() {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	if DocumentType("execucao").Valid() {
		t.Error("Valid is case-sensitive")
	}
}

func TestResultResolved(t *testing.T) {
	if (ClassificationResult{Sector: SectorNotApplicable}).Resolved() {
		t.Error("N/A sector should be unresolved")
	}
	if !(ClassificationResult{Sector: "PRAZOS"}).Resolved() {
		t.Error("named sector should be resolved")
	}
}
