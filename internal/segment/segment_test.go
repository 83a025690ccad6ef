package segment

import (
	"strings"
	"testing"
)

func TestSplit_TwoMarkers(t *testing.T) {
	text := "cabeçalho do caderno\nPublicação: 1 de 2\nprimeira\nPublicação: 2 de 2\nsegunda"

	blocks := Split(text)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	if !strings.HasPrefix(blocks[0].Text, "Publicação: 1 de 2") {
		t.Errorf("block 0 should start at its marker, got %q", blocks[0].Text)
	}
	if strings.Contains(blocks[0].Text, "cabeçalho") {
		t.Error("text before the first marker must be discarded")
	}
	if strings.Contains(blocks[0].Text, "segunda") {
		t.Error("block 0 leaks into block 1")
	}
	if !strings.HasSuffix(blocks[1].Text, "segunda") {
		t.Errorf("last block should run to end of text, got %q", blocks[1].Text)
	}
	if blocks[0].End != blocks[1].Start {
		t.Errorf("blocks should be contiguous: %d != %d", blocks[0].End, blocks[1].Start)
	}
	if blocks[1].End != len(text) {
		t.Errorf("expected last block to end at %d, got %d", len(text), blocks[1].End)
	}
	if blocks[0].Ordinal != 1 || blocks[1].Ordinal != 2 || blocks[1].Total != 2 {
		t.Errorf("unexpected ordinals: %+v", blocks)
	}
	for i, b := range blocks {
		if b.Index != i {
			t.Errorf("block %d has index %d", i, b.Index)
		}
	}
}

func TestSplit_FewerThanTwoMarkers(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		ordinal int
	}{
		{"no marker", "INTIMAÇÃO da parte autora", 0},
		{"one marker", "prefixo Publicação: 7 de 9 corpo", 7},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Split(tt.text)
			if len(blocks) != 1 {
				t.Fatalf("expected 1 block, got %d", len(blocks))
			}
			if blocks[0].Text != tt.text {
				t.Errorf("expected whole text, got %q", blocks[0].Text)
			}
			if blocks[0].Ordinal != tt.ordinal {
				t.Errorf("expected ordinal %d, got %d", tt.ordinal, blocks[0].Ordinal)
			}
		})
	}
}

func TestMarkers_Variants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"accented", "Publicação: 1 de 3", 1},
		{"upper case", "PUBLICAÇÃO: 2 DE 3", 1},
		{"unaccented", "Publicacao : 3 de 3", 1},
		{"english", "Publication: 1 of 2", 1},
		{"tight spacing", "Publicação:10de12", 1},
		{"missing total", "Publicação: 1", 0},
		{"plain word", "a publicação foi feita", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Markers(tt.text)); got != tt.want {
				t.Errorf("Markers(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCount_MatchesSplit(t *testing.T) {
	texts := []string{
		"",
		"sem marcador",
		"Publicação: 1 de 1 único",
		"Publicação: 1 de 3 a Publicação: 2 de 3 b Publicação: 3 de 3 c",
	}
	for _, text := range texts {
		if Count(text) != len(Split(text)) {
			t.Errorf("Count(%q) = %d, Split produced %d", text, Count(text), len(Split(text)))
		}
	}
}
