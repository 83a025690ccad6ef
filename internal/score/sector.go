package score

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/juridico/internal/extract"
	"github.com/ppiankov/juridico/internal/model"
	"gopkg.in/yaml.v3"
)

// Sector is one entry of the sector taxonomy
type Sector struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// SectorTable is the ordered sector taxonomy. Order matters: it settles
// ties that the rightmost-evidence rule leaves open.
type SectorTable []Sector

// SectorScore is the evidence gathered for one sector
type SectorScore struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	LastPosition int    `json:"lastPosition"`
	Keyword      string `json:"keyword"`
}

// SectorScorer assigns the responsible sector to a block. It holds no
// mutable state and is safe for concurrent use.
type SectorScorer struct {
	table SectorTable
}

// NewSectorScorer normalizes the table's keywords and returns a scorer
func NewSectorScorer(table SectorTable) *SectorScorer {
	normalized := make(SectorTable, 0, len(table))
	for _, sector := range table {
		name := strings.TrimSpace(sector.Name)
		if name == "" {
			continue
		}
		keywords := make([]string, 0, len(sector.Keywords))
		for _, kw := range sector.Keywords {
			if term := extract.NormalizeTerm(kw); term != "" {
				keywords = append(keywords, term)
			}
		}
		normalized = append(normalized, Sector{Name: name, Keywords: keywords})
	}
	return &SectorScorer{table: normalized}
}

// Table returns a copy of the normalized table
func (s *SectorScorer) Table() SectorTable {
	out := make(SectorTable, len(s.table))
	for i, sector := range s.table {
		out[i] = Sector{Name: sector.Name, Keywords: append([]string(nil), sector.Keywords...)}
	}
	return out
}

// Classify returns the sector responsible for upper and the keyword that
// decided it.
//
// Each sector scores the number of its keywords present in the text and
// remembers the offset of its rightmost hit. The highest score wins; on a
// tie the sector whose evidence appears latest wins, then table order.
// The keyword reported is the winner's rightmost hit. With no evidence at
// all the result is ("N/A", "").
func (s *SectorScorer) Classify(upper string) (string, string) {
	var best *SectorScore
	for _, sc := range s.Explain(upper) {
		if sc.Score == 0 {
			continue
		}
		if best == nil ||
			sc.Score > best.Score ||
			(sc.Score == best.Score && sc.LastPosition > best.LastPosition) {
			sc := sc
			best = &sc
		}
	}

	if best == nil {
		return model.SectorNotApplicable, ""
	}
	return best.Name, best.Keyword
}

// Explain returns the evidence of every sector in table order. Sectors
// without hits have Score 0 and LastPosition -1.
func (s *SectorScorer) Explain(upper string) []SectorScore {
	scores := make([]SectorScore, len(s.table))
	for i, sector := range s.table {
		sc := SectorScore{Name: sector.Name, LastPosition: -1}
		for _, kw := range sector.Keywords {
			pos := strings.LastIndex(upper, kw)
			if pos < 0 {
				continue
			}
			sc.Score++
			if pos > sc.LastPosition {
				sc.LastPosition = pos
				sc.Keyword = kw
			}
		}
		scores[i] = sc
	}
	return scores
}

// sectorsFile is the YAML layout accepted by LoadSectors:
//
//	sectors:
//	  - name: EXECUÇÃO
//	    keywords: [PENHORA, ...]
type sectorsFile struct {
	Sectors []Sector `yaml:"sectors"`
}

// LoadSectors reads a replacement sector table from YAML
func LoadSectors(path string) (SectorTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sectors file: %w", err)
	}

	var file sectorsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sectors file: %w", err)
	}
	if len(file.Sectors) == 0 {
		return nil, fmt.Errorf("sectors file %s: no sectors defined", path)
	}

	seen := make(map[string]bool, len(file.Sectors))
	for _, sector := range file.Sectors {
		if seen[sector.Name] {
			return nil, fmt.Errorf("sectors file %s: duplicate sector %q", path, sector.Name)
		}
		seen[sector.Name] = true
	}

	return SectorTable(file.Sectors), nil
}
