package validate

import "testing"

func TestCourtClassifier_Classify(t *testing.T) {
	classifier := NewCourtClassifier(nil)

	tests := []struct {
		number string
		court  string
	}{
		{"0001234-02.2023.5.02.0011", "TRT2"},
		{"0010456-02.2022.5.15.0032", "TRT15"},
		{"0000001-00.2023.5.00.0000", "TST"},
		{"0000001-00.2023.8.26.0100", "TJSP"},
		{"0000001-00.2023.8.19.0001", "TJRJ"},
		{"0000001-00.2023.8.01.0001", "TJAC"},
		{"0000001-00.2023.4.03.6100", "TRF3"},
		{"0000001-00.2023.6.13.0001", "TRE-MG"},
		{"0000001-00.2023.1.00.0000", "STF"},
		{"0000001-00.2023.9.26.0001", "TJMSP"},
		{"0000001-00.2023.8.28.0001", ""},
		{"garbage", ""},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			if got := classifier.Classify(tt.number); got != tt.court {
				t.Errorf("Classify(%q) = %q, want %q", tt.number, got, tt.court)
			}
		})
	}
}

func TestCourtClassifier_Overrides(t *testing.T) {
	classifier := NewCourtClassifier(map[string]string{" 5.02 ": "TRT da 2ª Região (SP)"})

	if got := classifier.Classify("0001234-02.2023.5.02.0011"); got != "TRT da 2ª Região (SP)" {
		t.Errorf("expected override, got %q", got)
	}
	if got := classifier.Classify("0010456-02.2022.5.15.0032"); got != "TRT15" {
		t.Errorf("expected built-in naming for other regions, got %q", got)
	}

	dashed := NewCourtClassifier(map[string]string{"5-15": "TRT Campinas"})
	if got := dashed.Classify("0010456-02.2022.5.15.0032"); got != "TRT Campinas" {
		t.Errorf("expected dashed key override, got %q", got)
	}
}
