// Package storetest holds behaviour tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/store"
)

// Run exercises s against the store.Store contract. newStore must return
// an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("keywords", func(t *testing.T) { testKeywords(t, newStore(t)) })
	t.Run("keyword validation", func(t *testing.T) { testKeywordValidation(t, newStore(t)) })
	t.Run("documents", func(t *testing.T) { testDocuments(t, newStore(t)) })
	t.Run("document updates", func(t *testing.T) { testDocumentUpdates(t, newStore(t)) })
	t.Run("missing records", func(t *testing.T) { testNotFound(t, newStore(t)) })
}

func testKeywords(t *testing.T, s store.Store) {
	ctx := context.Background()

	recurso, err := s.AddKeyword(ctx, " contrarrazões ", model.TypeRecurso)
	if err != nil {
		t.Fatalf("AddKeyword: %v", err)
	}
	if recurso.ID == "" || !recurso.Active || recurso.Term != "CONTRARRAZÕES" {
		t.Errorf("unexpected keyword: %+v", recurso)
	}
	if _, err := s.AddKeyword(ctx, "sisbajud", model.TypeExecucao); err != nil {
		t.Fatalf("AddKeyword: %v", err)
	}

	terms, err := s.ActiveTerms(ctx)
	if err != nil {
		t.Fatalf("ActiveTerms: %v", err)
	}
	if len(terms[model.TypeRecurso]) != 1 || len(terms[model.TypeExecucao]) != 1 {
		t.Fatalf("unexpected active terms: %v", terms)
	}

	list, err := s.ListKeywords(ctx, false)
	if err != nil {
		t.Fatalf("ListKeywords: %v", err)
	}
	if len(list) != 2 || list[0].Type != model.TypeExecucao {
		t.Errorf("expected Execucao keyword first, got %+v", list)
	}

	if err := s.DeactivateKeyword(ctx, recurso.ID); err != nil {
		t.Fatalf("DeactivateKeyword: %v", err)
	}

	terms, err = s.ActiveTerms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(terms[model.TypeRecurso]) != 0 {
		t.Errorf("deactivated keyword still active: %v", terms)
	}

	all, err := s.ListKeywords(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("soft delete must keep history, got %d keywords", len(all))
	}
	for _, kw := range all {
		if kw.ID == recurso.ID && (kw.Active || kw.UpdatedAt == nil) {
			t.Errorf("expected inactive keyword with update time, got %+v", kw)
		}
	}

	// The same term may be added again once the old one is inactive
	if _, err := s.AddKeyword(ctx, "CONTRARRAZÕES", model.TypeRecurso); err != nil {
		t.Errorf("re-adding a deactivated term: %v", err)
	}
}

func testKeywordValidation(t *testing.T, s store.Store) {
	ctx := context.Background()

	if _, err := s.AddKeyword(ctx, "   ", model.TypeRecurso); !errors.Is(err, store.ErrInvalidKeyword) {
		t.Errorf("expected ErrInvalidKeyword for blank term, got %v", err)
	}
	if _, err := s.AddKeyword(ctx, "X", model.DocumentType("Mandado")); !errors.Is(err, store.ErrInvalidKeyword) {
		t.Errorf("expected ErrInvalidKeyword for unknown type, got %v", err)
	}
	if _, err := s.AddKeyword(ctx, "penhora online", model.TypeExecucao); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddKeyword(ctx, "PENHORA ONLINE", model.TypeExecucao); !errors.Is(err, store.ErrDuplicateKeyword) {
		t.Errorf("expected ErrDuplicateKeyword, got %v", err)
	}
	if _, err := s.AddKeyword(ctx, "PENHORA ONLINE", model.TypeDespacho); err != nil {
		t.Errorf("same term under another type should be accepted: %v", err)
	}
}

func testDocuments(t *testing.T, s store.Store) {
	ctx := context.Background()
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	docs := []model.Document{
		{
			ProcessNumber:     "0001234-56.2023.5.02.0011",
			Sector:            "AUDIÊNCIA",
			SectorKeywordUsed: "AUDIÊNCIA UNA",
			Type:              model.TypeAudiencia,
			Confidence:        0.25,
			PublicationDate:   &date,
			FileName:          "diario.pdf",
			Source:            "/tmp/diario.pdf",
			Publication:       1,
			Warnings:          []string{"check digits do not match"},
		},
		{
			ProcessNumber: "0009999-11.2022.5.02.0001",
			Sector:        "EXECUÇÃO",
			Type:          model.TypeExecucao,
			FileName:      "diario.pdf",
			Publication:   2,
		},
	}

	saved, err := s.SaveDocuments(ctx, docs)
	if err != nil {
		t.Fatalf("SaveDocuments: %v", err)
	}
	if len(saved) != 2 || saved[0].ID == "" || saved[0].ID == saved[1].ID {
		t.Fatalf("expected two distinct IDs, got %+v", saved)
	}
	if saved[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := s.GetDocument(ctx, saved[0].ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Sector != "AUDIÊNCIA" || got.SectorKeywordUsed != "AUDIÊNCIA UNA" || got.Confidence != 0.25 {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.PublicationDate == nil || !got.PublicationDate.Equal(date) {
		t.Errorf("publication date lost: %v", got.PublicationDate)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("warnings lost: %v", got.Warnings)
	}

	list, err := s.ListDocuments(ctx, model.DocumentFilter{})
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(list) != 2 || list[0].Publication != 1 || list[1].Publication != 2 {
		t.Errorf("expected publications of one file in order, got %+v", list)
	}

	typ := model.TypeExecucao
	filtered, err := s.ListDocuments(ctx, model.DocumentFilter{Type: &typ})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Type != model.TypeExecucao {
		t.Errorf("type filter failed: %+v", filtered)
	}

	limited, err := s.ListDocuments(ctx, model.DocumentFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 document with limit, got %d", len(limited))
	}

	if err := s.DeleteDocument(ctx, saved[1].ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := s.GetDocument(ctx, saved[1].ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func testDocumentUpdates(t *testing.T, s store.Store) {
	ctx := context.Background()

	saved, err := s.SaveDocuments(ctx, []model.Document{{
		ProcessNumber: "0001234-56.2023.5.02.0011",
		Sector:        model.SectorNotApplicable,
		Type:          model.TypeOutros,
		FileName:      "planilha.xlsx",
	}})
	if err != nil {
		t.Fatal(err)
	}
	id := saved[0].ID

	sector := "CÁLCULOS"
	responsible := "Dra. Souza"
	deadline := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	typ := model.TypeDespacho

	updated, err := s.UpdateDocument(ctx, id, model.DocumentUpdate{
		Sector:        &sector,
		Responsible:   &responsible,
		DeadlineStart: &deadline,
		Type:          &typ,
	})
	if err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	if updated.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be set")
	}

	got, err := s.GetDocument(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sector != sector || got.Responsible != responsible || got.Type != typ {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.DeadlineStart == nil || !got.DeadlineStart.Equal(deadline) {
		t.Errorf("deadline not persisted: %v", got.DeadlineStart)
	}
	if got.ProcessNumber != "0001234-56.2023.5.02.0011" {
		t.Errorf("untouched field changed: %q", got.ProcessNumber)
	}

	bad := model.DocumentType("Mandado")
	if _, err := s.UpdateDocument(ctx, id, model.DocumentUpdate{Type: &bad}); !errors.Is(err, store.ErrInvalidUpdate) {
		t.Errorf("expected ErrInvalidUpdate for unknown document type, got %v", err)
	}
}

func testNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()

	if _, err := s.GetDocument(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetDocument: expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateDocument(ctx, "missing", model.DocumentUpdate{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateDocument: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteDocument(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteDocument: expected ErrNotFound, got %v", err)
	}
	if err := s.DeactivateKeyword(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeactivateKeyword: expected ErrNotFound, got %v", err)
	}
}
