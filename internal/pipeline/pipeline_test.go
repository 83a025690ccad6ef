package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/juridico/internal/cache"
	"github.com/ppiankov/juridico/internal/classify"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/store/memstore"
	"github.com/ppiankov/juridico/internal/validate"
)

const twoPublications = "Diário Eletrônico da Justiça do Trabalho\n" +
	"Publicação: 1 de 2\n" +
	"Processo 0001234-02.2023.5.02.0011\n" +
	"Data de disponibilização: 15/03/2024\n" +
	"Fica designada audiência una para 20/05/2024.\n" +
	"Publicação: 2 de 2\n" +
	"Processo 1000123-59.2024.5.02.0001\n" +
	"Disponibilizado em 16/03/2024\n" +
	"Defiro a penhora. Seguimento da execução."

const unresolved = "Processo 0001234-02.2023.5.02.0011 publicado em 15/03/2024. Nada mais."

type failingKeywords struct{}

func (failingKeywords) ActiveTerms(ctx context.Context) (map[model.DocumentType][]string, error) {
	return nil, errors.New("database is locked")
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.RespectRobots = false
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.RateLimiting.RequestsPerSecond = 0
	cfg.Output.IncludeFooter = false
	return cfg
}

func newTestPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	return NewPipeline(cfg, classify.NewEngine(nil), opts...)
}

func TestPipeline_ProcessBytes_Multiple(t *testing.T) {
	p := newTestPipeline(testConfig())

	report, err := p.ProcessBytes(context.Background(), "caderno.txt", "caderno.txt", []byte(twoPublications), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.ErrorMessage)
	}
	if len(report.Results) != 2 || len(report.Documents) != 2 {
		t.Fatalf("expected 2 results and records, got %d and %d", len(report.Results), len(report.Documents))
	}

	first, second := report.Documents[0], report.Documents[1]
	if first.Sector != "AUDIÊNCIA" || first.Type != model.TypeAudiencia {
		t.Errorf("unexpected first record: %s / %s", first.Sector, first.Type)
	}
	if second.Sector != "EXECUÇÃO" || second.Type != model.TypeExecucao {
		t.Errorf("unexpected second record: %s / %s", second.Sector, second.Type)
	}
	if first.Publication != 1 || second.Publication != 2 {
		t.Errorf("unexpected publication indexes %d, %d", first.Publication, second.Publication)
	}
	if first.Court != "TRT2" {
		t.Errorf("expected court TRT2, got %q", first.Court)
	}
	if len(first.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", first.Warnings)
	}
	if first.Content != "" {
		t.Error("expected content dropped when StoreContent is off")
	}
	if report.Format != ".txt" || report.ContentHash != cache.ContentHash([]byte(twoPublications)) {
		t.Errorf("unexpected report metadata: %s %s", report.Format, report.ContentHash)
	}
}

func TestPipeline_ProcessBytes_Single(t *testing.T) {
	cfg := testConfig()
	cfg.Output.StoreContent = true
	p := newTestPipeline(cfg)

	report, err := p.ProcessBytes(context.Background(), "caderno.txt", "caderno.txt", []byte(twoPublications), Options{Mode: ModeSingle})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Documents) != 1 {
		t.Fatalf("expected one record, got %d", len(report.Documents))
	}
	doc := report.Documents[0]
	if doc.ProcessNumber != "0001234-02.2023.5.02.0011" {
		t.Errorf("expected first process number, got %s", doc.ProcessNumber)
	}
	if doc.Content != twoPublications {
		t.Error("expected whole text stored as content")
	}
	for _, want := range []string{validate.WarnSeveralPublications, validate.WarnSeveralProcessNumbers} {
		if !hasWarning(doc, want) {
			t.Errorf("expected warning %q, got %v", want, doc.Warnings)
		}
	}
}

func TestPipeline_MissingProcessNumber(t *testing.T) {
	p := newTestPipeline(testConfig())

	report, err := p.ProcessBytes(context.Background(), "x.txt", "x.txt",
		[]byte("Defiro a penhora. Seguimento da execução."), Options{Mode: ModeSingle})
	if err != nil {
		t.Fatal(err)
	}
	doc := report.Documents[0]
	if doc.ProcessNumber != model.ProcessNumberAbsent {
		t.Errorf("expected %q, got %q", model.ProcessNumberAbsent, doc.ProcessNumber)
	}
	if !hasWarning(doc, validate.WarnMissingProcessNumber) {
		t.Errorf("expected missing process number warning, got %v", doc.Warnings)
	}
	if hasWarning(doc, validate.WarnSeveralPublications) {
		t.Errorf("one publication flagged as several: %v", doc.Warnings)
	}
}

func hasWarning(doc model.Document, msg string) bool {
	for _, w := range doc.Warnings {
		if w == msg {
			return true
		}
	}
	return false
}

func TestPipeline_UnsupportedFormat(t *testing.T) {
	docs := memstore.New()
	p := newTestPipeline(testConfig(), WithStore(docs))

	report, err := p.ProcessBytes(context.Background(), "antigo.doc", "antigo.doc", []byte("x"), Options{Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	if !report.Failed() || !IsUnsupported(report, nil) {
		t.Fatalf("expected unsupported format failure, got %q", report.ErrorMessage)
	}
	if len(report.Documents) != 1 {
		t.Fatalf("expected one error record, got %d", len(report.Documents))
	}
	doc := report.Documents[0]
	if doc.ProcessNumber != model.ProcessNumberError || doc.Sector != model.SectorNotApplicable || doc.ErrorMessage == "" {
		t.Errorf("unexpected error record: %+v", doc)
	}
	if doc.ID == "" {
		t.Error("expected error record to be persisted")
	}
}

func TestPipeline_Persist(t *testing.T) {
	docs := memstore.New()
	p := newTestPipeline(testConfig(), WithStore(docs))
	ctx := context.Background()

	if _, err := p.ProcessBytes(ctx, "a.txt", "a.txt", []byte(twoPublications), Options{}); err != nil {
		t.Fatal(err)
	}
	stored, _ := docs.ListDocuments(ctx, model.DocumentFilter{})
	if len(stored) != 0 {
		t.Fatalf("expected nothing persisted without Persist, got %d", len(stored))
	}

	report, err := p.ProcessBytes(ctx, "a.txt", "a.txt", []byte(twoPublications), Options{Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, doc := range report.Documents {
		if doc.ID == "" || doc.CreatedAt.IsZero() {
			t.Errorf("expected saved record, got %+v", doc)
		}
	}
	stored, _ = docs.ListDocuments(ctx, model.DocumentFilter{})
	if len(stored) != 2 {
		t.Errorf("expected 2 persisted records, got %d", len(stored))
	}
}

func TestPipeline_SkipUnresolved(t *testing.T) {
	cfg := testConfig()
	cfg.Output.SkipUnresolved = true
	p := newTestPipeline(cfg)

	report, err := p.ProcessBytes(context.Background(), "x.txt", "x.txt", []byte(unresolved), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != 1 || report.Results[0].Sector != model.SectorNotApplicable {
		t.Fatalf("expected one unresolved engine result, got %+v", report.Results)
	}
	if report.Skipped != 1 || len(report.Documents) != 0 {
		t.Errorf("expected the record skipped, got skipped=%d records=%d", report.Skipped, len(report.Documents))
	}

	report, err = p.ProcessBytes(context.Background(), "x.txt", "x.txt", []byte(unresolved), Options{DefaultSector: "TRIAGEM"})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Documents) != 1 || report.Documents[0].Sector != "TRIAGEM" {
		t.Errorf("expected default sector applied, got %+v", report.Documents)
	}
}

func TestPipeline_UnresolvedWarning(t *testing.T) {
	p := newTestPipeline(testConfig())

	report, err := p.ProcessBytes(context.Background(), "x.txt", "x.txt", []byte(unresolved), Options{})
	if err != nil {
		t.Fatal(err)
	}
	doc := report.Documents[0]
	found := false
	for _, w := range doc.Warnings {
		if w == validate.WarnUnresolvedSector {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unresolved sector warning, got %v", doc.Warnings)
	}
}

func TestPipeline_CacheHit(t *testing.T) {
	p := newTestPipeline(testConfig(), WithCache(cache.NewMemoryCache(time.Minute, time.Minute, 0)))
	ctx := context.Background()

	first, err := p.ProcessBytes(ctx, "a.txt", "a.txt", []byte(twoPublications), Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.ProcessBytes(ctx, "b.txt", "b.txt", []byte(twoPublications), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("expected miss then hit, got %v then %v", first.CacheHit, second.CacheHit)
	}
	if len(second.Documents) != 2 {
		t.Errorf("expected cached text classified, got %d records", len(second.Documents))
	}
}

func TestPipeline_KeywordSourceFailure(t *testing.T) {
	p := NewPipeline(testConfig(), classify.NewEngine(failingKeywords{}))

	report, err := p.ProcessBytes(context.Background(), "a.txt", "a.txt", []byte(twoPublications), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !report.Failed() || report.Documents[0].ProcessNumber != model.ProcessNumberError {
		t.Errorf("expected ERRO record, got %+v", report)
	}
}

func TestPipeline_ProcessFile_Local(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caderno.txt")
	if err := os.WriteFile(path, []byte(twoPublications), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(testConfig())
	report, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if report.FileName != "caderno.txt" || report.Source != path || len(report.Documents) != 2 {
		t.Errorf("unexpected report: %+v", report)
	}

	report, err = p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !report.Failed() {
		t.Error("expected missing file to produce a failed report")
	}
}

func TestPipeline_ProcessFile_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, twoPublications)
	}))
	defer server.Close()

	p := newTestPipeline(testConfig())
	report, err := p.ProcessFile(context.Background(), server.URL+"/cadernos/2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if report.FileName != "2024-03-15.txt" {
		t.Errorf("expected name from content type, got %s", report.FileName)
	}
	if len(report.Documents) != 2 {
		t.Errorf("expected 2 records, got %d", len(report.Documents))
	}
}

func TestFileNameOf(t *testing.T) {
	tests := map[string]string{
		"https://dejt.jt.jus.br/cadernos/a.pdf?x=1": "a.pdf",
		"https://dejt.jt.jus.br/cadernos/":          "cadernos",
		"https://dejt.jt.jus.br":                    "dejt.jt.jus.br",
	}
	for in, want := range tests {
		if got := fileNameOf(in); got != want {
			t.Errorf("fileNameOf(%q) = %q, want %q", in, got, want)
		}
	}
}
