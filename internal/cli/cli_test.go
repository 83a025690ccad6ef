package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/pipeline"
	"github.com/ppiankov/juridico/internal/store/memstore"
	"gopkg.in/yaml.v3"
)

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Store.Driver = "memory"
	cfg.Cache.Enabled = false
	cfg.Logging.Level = "error"
	return cfg
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"diario oficial.pdf", "diario-oficial"},
		{"/tmp/a/b/intimacao.docx", "intimacao"},
		{"a:b*c?.txt", "a_b_c_"},
		{"", "arquivo"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := strings.Repeat("x", 150) + ".pdf"
	if got := sanitizeFilename(long); len(got) != 100 {
		t.Errorf("expected 100 chars, got %d", len(got))
	}
}

func TestParseDay(t *testing.T) {
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"15/03/2024", "2024-03-15", " 15/03/2024 "} {
		got, err := parseDay(in)
		if err != nil {
			t.Errorf("parseDay(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parseDay(%q) = %v", in, got)
		}
	}

	if _, err := parseDay("15-03-2024"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestDocumentUpdate(t *testing.T) {
	cmd := documentsUpdateCmd
	t.Cleanup(func() {
		for _, name := range []string{"sector", "responsible", "deadline", "type"} {
			f := cmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	if _, err := documentUpdate(cmd); err == nil {
		t.Fatal("expected error when no field is set")
	}

	_ = cmd.Flags().Set("sector", " PRAZOS ")
	_ = cmd.Flags().Set("type", "recurso")
	_ = cmd.Flags().Set("deadline", "20/05/2024")

	upd, err := documentUpdate(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Sector == nil || *upd.Sector != "PRAZOS" {
		t.Errorf("unexpected sector %v", upd.Sector)
	}
	if upd.Type == nil || *upd.Type != model.TypeRecurso {
		t.Errorf("unexpected type %v", upd.Type)
	}
	if upd.DeadlineStart == nil || upd.DeadlineStart.Day() != 20 {
		t.Errorf("unexpected deadline %v", upd.DeadlineStart)
	}
	if upd.Responsible != nil {
		t.Error("responsible should be untouched")
	}

	_ = cmd.Flags().Set("type", "Mandado")
	if _, err := documentUpdate(cmd); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Juridico Configuration File") {
		t.Error("expected header comment")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config does not parse: %v", err)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected round-tripped config: %+v", cfg.Store)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when the file already exists")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	st, err := openStore(ctx, model.StoreConfig{Driver: "memory"})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := st.(*memstore.Store); !ok {
		t.Errorf("expected memstore, got %T", st)
	}

	path := filepath.Join(t.TempDir(), "data", "juridico.db")
	st, err = openStore(ctx, model.StoreConfig{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	_ = st.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file: %v", err)
	}

	if _, err := openStore(ctx, model.StoreConfig{Driver: "postgres"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestBuildApp_ClassifiesAndPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "diario.txt")
	text := "Publicação: 1 de 2\nProcesso 0001234-02.2023.5.02.0011\nFica designada audiência una.\n" +
		"Publicação: 2 de 2\nProcesso 1000123-59.2024.5.02.0001\nDefiro a penhora. Seguimento da execução."
	if err := os.WriteFile(file, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := buildApp(ctx, testConfig(t), pipeline.Options{Persist: true})
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}
	defer a.close()

	report, err := a.pipeline.ProcessFile(ctx, file)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if len(report.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(report.Documents))
	}

	stored, err := a.store.ListDocuments(ctx, model.DocumentFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 persisted documents, got %d", len(stored))
	}
	for _, doc := range stored {
		if doc.Court != "TRT2" {
			t.Errorf("expected court TRT2, got %q", doc.Court)
		}
	}
}

func TestBuildApp_CatalogFiles(t *testing.T) {
	dir := t.TempDir()
	keywords := filepath.Join(dir, "keywords.yaml")
	sectors := filepath.Join(dir, "sectors.yaml")
	if err := os.WriteFile(keywords, []byte("keywords:\n  Alvara: [LEVANTAMENTO]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sectors, []byte("sectors:\n  - name: FINANCEIRO\n    keywords: [LEVANTAMENTO]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t)
	cfg.Catalog.KeywordsFile = keywords
	cfg.Catalog.SectorsFile = sectors

	a, err := buildApp(context.Background(), cfg, pipeline.Options{Mode: pipeline.ModeSingle})
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}
	defer a.close()

	report, err := a.pipeline.ProcessBytes(context.Background(), "a.txt", "a.txt",
		[]byte("Autorizo o levantamento dos valores."), pipeline.Options{Mode: pipeline.ModeSingle})
	if err != nil {
		t.Fatal(err)
	}
	doc := report.Documents[0]
	if doc.Type != model.TypeAlvara || doc.Sector != "FINANCEIRO" {
		t.Errorf("expected Alvara/FINANCEIRO, got %s/%s", doc.Type, doc.Sector)
	}

	cfg.Catalog.SectorsFile = filepath.Join(dir, "missing.yaml")
	if _, err := buildApp(context.Background(), cfg, pipeline.Options{}); err == nil {
		t.Error("expected error for a missing sectors file")
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := buf.String(); got != "juridico "+Version+"\n" {
		t.Errorf("unexpected output %q", got)
	}
}
