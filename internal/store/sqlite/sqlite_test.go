package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/store"
	"github.com/ppiankov/juridico/internal/store/storetest"
)

func openTemp(t *testing.T) store.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "juridico.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, openTemp)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "juridico.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddKeyword(ctx, "bacenjud", model.TypeExecucao); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	terms, err := s.ActiveTerms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(terms[model.TypeExecucao]) != 1 || terms[model.TypeExecucao][0] != "BACENJUD" {
		t.Errorf("keyword lost across reopen: %v", terms)
	}
}
