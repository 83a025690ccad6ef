package classify

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/juridico/internal/catalog"
	"github.com/ppiankov/juridico/internal/logging"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/score"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockKeywords struct {
	terms map[model.DocumentType][]string
	err   error
	calls int
}

func (m *mockKeywords) ActiveTerms(ctx context.Context) (map[model.DocumentType][]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.terms, nil
}

const twoPublications = "Diário Eletrônico da Justiça do Trabalho\n" +
	"Publicação: 1 de 2\n" +
	"Processo 0001234-56.2023.5.02.0011\n" +
	"Data de disponibilização: 15/03/2024\n" +
	"Fica designada audiência una para 20/05/2024.\n" +
	"Publicação: 2 de 2\n" +
	"Processo 0009999-11.2022.5.02.0001\n" +
	"Disponibilizado em 16/03/2024\n" +
	"Defiro a penhora. Seguimento da execução."

func TestEngine_ExtractMultiplePublications(t *testing.T) {
	engine := NewEngine(&mockKeywords{})

	results, err := engine.ExtractMultiplePublications(context.Background(), twoPublications)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Type != model.TypeAudiencia {
		t.Errorf("expected Audiencia, got %s", first.Type)
	}
	// AUDIÊNCIA and DESIGNADA AUDIÊNCIA both match, out of four terms
	if first.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %v", first.Confidence)
	}
	if first.Sector != "AUDIÊNCIA" || first.SectorKeywordUsed != "AUDIÊNCIA UNA" {
		t.Errorf("unexpected sector: %q / %q", first.Sector, first.SectorKeywordUsed)
	}
	if first.ProcessNumber != "0001234-56.2023.5.02.0011" {
		t.Errorf("unexpected process number %q", first.ProcessNumber)
	}
	wantDate := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if first.PublicationDate == nil || !first.PublicationDate.Equal(wantDate) {
		t.Errorf("unexpected publication date %v", first.PublicationDate)
	}

	second := results[1]
	if second.Type != model.TypeExecucao {
		t.Errorf("expected Execucao, got %s", second.Type)
	}
	if second.Confidence != float64(2)/float64(6) {
		t.Errorf("expected confidence 2/6, got %v", second.Confidence)
	}
	if second.Sector != "EXECUÇÃO" || second.SectorKeywordUsed != "SEGUIMENTO DA EXECUÇÃO" {
		t.Errorf("unexpected sector: %q / %q", second.Sector, second.SectorKeywordUsed)
	}
	if second.ProcessNumber != "0009999-11.2022.5.02.0001" {
		t.Errorf("unexpected process number %q", second.ProcessNumber)
	}
}

func TestEngine_CatalogFetchedOncePerCall(t *testing.T) {
	source := &mockKeywords{}
	engine := NewEngine(source)

	text := "Publicação: 1 de 3 a Publicação: 2 de 3 b Publicação: 3 de 3 c"
	results, err := engine.ExtractMultiplePublications(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("expected one result per marker, got %d", len(results))
	}
	if source.calls != 1 {
		t.Errorf("expected keyword source to be queried once, got %d", source.calls)
	}
}

func TestEngine_EmptyInput(t *testing.T) {
	engine := NewEngine(nil)

	results, err := engine.ExtractMultiplePublications(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected a single result, got %d", len(results))
	}

	r := results[0]
	if r.Type != model.TypeOutros || r.Confidence != 0 {
		t.Errorf("expected (Outros, 0), got (%s, %v)", r.Type, r.Confidence)
	}
	if r.Sector != model.SectorNotApplicable || r.SectorKeywordUsed != "" {
		t.Errorf("expected N/A sector, got %q / %q", r.Sector, r.SectorKeywordUsed)
	}
	if r.ProcessNumber != "" || r.PublicationDate != nil {
		t.Errorf("expected no extracted fields, got %+v", r)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewEngine(&mockKeywords{})
	ctx := context.Background()

	first, err := engine.ExtractMultiplePublications(ctx, twoPublications)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.ExtractMultiplePublications(ctx, twoPublications)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between calls:\n%+v\n%+v", first, second)
	}
}

func TestEngine_KeywordSourceError(t *testing.T) {
	engine := NewEngine(&mockKeywords{err: errors.New("database is locked")})

	if _, err := engine.ExtractMultiplePublications(context.Background(), twoPublications); err == nil {
		t.Error("expected error from ExtractMultiplePublications")
	}
	if _, err := engine.Classify(context.Background(), twoPublications); err == nil {
		t.Error("expected error from Classify")
	}
}

func TestEngine_CustomKeywords(t *testing.T) {
	source := &mockKeywords{terms: map[model.DocumentType][]string{
		model.TypeDespacho: {"desarquivamento"},
	}}
	engine := NewEngine(source, WithDefaults(catalog.Defaults{}))

	result, err := engine.Classify(context.Background(), "Pedido de desarquivamento deferido")
	if err != nil {
		t.Fatal(err)
	}
	if result.Type != model.TypeDespacho || result.Confidence != 1 {
		t.Errorf("expected (Despacho, 1), got (%s, %v)", result.Type, result.Confidence)
	}
}

func TestEngine_ClassifyIgnoresMarkers(t *testing.T) {
	engine := NewEngine(nil)

	result, err := engine.Classify(context.Background(), twoPublications)
	if err != nil {
		t.Fatal(err)
	}
	// Whole text: the leftmost process number wins
	if result.ProcessNumber != "0001234-56.2023.5.02.0011" {
		t.Errorf("unexpected process number %q", result.ProcessNumber)
	}
	// Execucao scores 2, Audiencia 1
	if result.Type != model.TypeExecucao {
		t.Errorf("expected Execucao, got %s", result.Type)
	}
}

func TestEngine_WithSectors(t *testing.T) {
	engine := NewEngine(nil, WithSectors(score.SectorTable{
		{Name: "PRAZOS", Keywords: []string{"prazo de cinco dias"}},
	}))

	result, err := engine.Classify(context.Background(), "Manifeste-se no prazo de cinco dias")
	if err != nil {
		t.Fatal(err)
	}
	if result.Sector != "PRAZOS" || result.SectorKeywordUsed != "PRAZO DE CINCO DIAS" {
		t.Errorf("unexpected sector %q / %q", result.Sector, result.SectorKeywordUsed)
	}
}

func TestEngine_Explain(t *testing.T) {
	engine := NewEngine(nil)
	snap, err := engine.Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	explanation := engine.Explain("Defiro a penhora", snap)
	if explanation.Result.Type != model.TypeExecucao {
		t.Errorf("expected Execucao, got %s", explanation.Result.Type)
	}
	if len(explanation.Types.Scores) != len(model.DocumentTypes()) {
		t.Errorf("expected one type score per type, got %d", len(explanation.Types.Scores))
	}
	if len(explanation.Sectors) != len(score.DefaultSectors()) {
		t.Errorf("expected one sector score per sector, got %d", len(explanation.Sectors))
	}
}

func TestEngine_ExplainPublications(t *testing.T) {
	engine := NewEngine(&mockKeywords{})

	explanations, err := engine.ExplainPublications(context.Background(), twoPublications)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(explanations) != 2 {
		t.Fatalf("expected 2 explanations, got %d", len(explanations))
	}
	if explanations[0].Result.Type != model.TypeAudiencia {
		t.Errorf("expected Audiencia first, got %s", explanations[0].Result.Type)
	}
	if explanations[1].Result.Type != model.TypeExecucao {
		t.Errorf("expected Execucao second, got %s", explanations[1].Result.Type)
	}

	single, err := engine.ExplainText(context.Background(), twoPublications)
	if err != nil {
		t.Fatal(err)
	}
	if single.Result.ProcessNumber != "0001234-56.2023.5.02.0011" {
		t.Errorf("expected first process number, got %q", single.Result.ProcessNumber)
	}
	if len(single.ProcessNumbers) != 2 || single.ProcessNumbers[0] != single.Result.ProcessNumber {
		t.Errorf("expected both cited process numbers, got %v", single.ProcessNumbers)
	}
	if len(explanations[0].ProcessNumbers) != 1 {
		t.Errorf("expected one process number in the first block, got %v", explanations[0].ProcessNumbers)
	}
}

func TestEngine_LogsSinglePublicationFallback(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	engine := NewEngine(nil, WithLogger(logging.Wrap(zap.New(core))))

	if _, err := engine.ExtractMultiplePublications(context.Background(), "sem marcadores"); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessageSnippet("single publication").All()
	if len(entries) != 1 {
		t.Fatalf("expected one fallback log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["markers"] != int64(0) {
		t.Errorf("unexpected markers field: %v", entries[0].ContextMap()["markers"])
	}
}
