package catalog

import (
	"fmt"
	"os"

	"github.com/ppiankov/juridico/internal/model"
	"gopkg.in/yaml.v3"
)

// Defaults maps each document type to its built-in terms
type Defaults map[model.DocumentType][]string

// DefaultKeywords returns the built-in keyword table.
// Each call returns a fresh copy so callers cannot alter shared state.
func DefaultKeywords() Defaults {
	return Defaults{
		model.TypeExecucao:        {"INDICAR MEIOS", "SEGUIMENTO DA EXECUÇÃO", "ENDEREÇO", "SOBRESTAMENTO", "EXECUÇÃO FISCAL", "PENHORA"},
		model.TypeAlvara:          {"EXPEDIDO ALVARÁ", "ALVARÁ DE LEVANTAMENTO", "ALVARÁ JUDICIAL"},
		model.TypePericiaQuesitos: {"AGENDAMENTO", "PERÍCIA", "QUESITOS", "LAUDO PERICIAL", "PERITO"},
		model.TypeAudiencia:       {"AUDIÊNCIA", "DESIGNADA AUDIÊNCIA", "PAUTA DE AUDIÊNCIA", "AUDIÊNCIA DE INSTRUÇÃO"},
		model.TypeSentenca:        {"SENTENÇA", "JULGO PROCEDENTE", "JULGO IMPROCEDENTE", "DISPOSITIVO"},
		model.TypeDespacho:        {"DESPACHO", "DETERMINO", "INTIME-SE", "CITE-SE"},
		model.TypeCitacao:         {"CITAÇÃO", "CITADO", "MANDADO DE CITAÇÃO"},
		model.TypeIntimacao:       {"INTIMAÇÃO", "INTIMADO", "INTIMAR"},
		model.TypeRecurso:         {"RECURSO", "APELAÇÃO", "AGRAVO", "EMBARGOS"},
	}
}

// defaultsFile is the YAML layout accepted by LoadDefaults:
//
//	keywords:
//	  Execucao: [PENHORA, ...]
type defaultsFile struct {
	Keywords map[string][]string `yaml:"keywords"`
}

// LoadDefaults reads a replacement keyword table from YAML.
// Unknown type tags are rejected so typos do not silently disable a type.
func LoadDefaults(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}

	var file defaultsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse keywords file: %w", err)
	}

	defaults := make(Defaults, len(file.Keywords))
	for tag, terms := range file.Keywords {
		typ, err := model.ParseDocumentType(tag)
		if err != nil {
			return nil, fmt.Errorf("keywords file %s: %w", path, err)
		}
		defaults[typ] = append(defaults[typ], terms...)
	}

	return defaults, nil
}
