// Package segment splits an extracted document into one block per
// declared publication ("Publicação: i de n").
package segment

import (
	"regexp"
	"strconv"
)

// markerRe matches a publication marker. Accents are optional and the
// English form emitted by some court portals is accepted as well.
var markerRe = regexp.MustCompile(`(?i)publica(?:ção|cao|tion)\s*:\s*(\d+)\s*(?:de|of)\s*(\d+)`)

// Marker is one occurrence of a publication marker
type Marker struct {
	Start   int // byte offset of the marker
	End     int
	Ordinal int // i in "i de n"; 0 when it does not fit an int
	Total   int // n in "i de n"
}

// Block is a contiguous slice of the document attributed to one publication
type Block struct {
	Index   int    `json:"index"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"-"`
	Ordinal int    `json:"ordinal,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// Markers returns every publication marker in text order
func Markers(text string) []Marker {
	locs := markerRe.FindAllStringSubmatchIndex(text, -1)
	markers := make([]Marker, 0, len(locs))
	for _, loc := range locs {
		markers = append(markers, Marker{
			Start:   loc[0],
			End:     loc[1],
			Ordinal: atoi(text[loc[2]:loc[3]]),
			Total:   atoi(text[loc[4]:loc[5]]),
		})
	}
	return markers
}

// Split partitions text into publication blocks.
//
// With two or more markers, block k runs from marker k up to marker k+1
// (the last block runs to the end of the text) and anything before the
// first marker is discarded. With fewer than two markers the whole text,
// possibly empty, is returned as a single block.
func Split(text string) []Block {
	markers := Markers(text)
	if len(markers) < 2 {
		block := Block{Index: 0, Start: 0, End: len(text), Text: text}
		if len(markers) == 1 {
			block.Ordinal = markers[0].Ordinal
			block.Total = markers[0].Total
		}
		return []Block{block}
	}

	blocks := make([]Block, len(markers))
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].Start
		}
		blocks[i] = Block{
			Index:   i,
			Start:   m.Start,
			End:     end,
			Text:    text[m.Start:end],
			Ordinal: m.Ordinal,
			Total:   m.Total,
		}
	}
	return blocks
}

// Count returns the number of blocks Split would produce without
// materializing them.
func Count(text string) int {
	n := len(markerRe.FindAllStringIndex(text, -1))
	if n < 2 {
		return 1
	}
	return n
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
