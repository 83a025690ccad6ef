// Package sqlite implements store.Store on SQLite (pure Go driver).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/store"
)

// timeLayout is fixed-width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db  *sql.DB
	ids *store.IDGenerator
	now func() time.Time
}

// Open opens a SQLite database with WAL mode enabled and creates the
// schema when missing.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// A single connection avoids SQLITE_BUSY between concurrent writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{
		db:  db,
		ids: store.NewIDGenerator(),
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS keywords (
	id TEXT PRIMARY KEY,
	term TEXT NOT NULL,
	doc_type TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_keywords_active ON keywords(active, doc_type);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	process_number TEXT NOT NULL,
	sector TEXT NOT NULL,
	sector_keyword TEXT,
	doc_type TEXT NOT NULL,
	confidence REAL NOT NULL DEFAULT 0,
	publication_date TEXT,
	deadline_start TEXT,
	responsible TEXT,
	court TEXT,
	file_name TEXT NOT NULL,
	source TEXT,
	publication INTEGER NOT NULL DEFAULT 0,
	content TEXT,
	error_message TEXT,
	warnings TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(doc_type);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// ActiveTerms returns active keyword terms grouped by type
func (s *sqliteStore) ActiveTerms(ctx context.Context) (map[model.DocumentType][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT term, doc_type FROM keywords WHERE active = 1 ORDER BY doc_type, id`)
	if err != nil {
		return nil, fmt.Errorf("query active keywords: %w", err)
	}
	defer rows.Close()

	terms := make(map[model.DocumentType][]string)
	for rows.Next() {
		var term, typ string
		if err := rows.Scan(&term, &typ); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		terms[model.DocumentType(typ)] = append(terms[model.DocumentType(typ)], term)
	}
	return terms, rows.Err()
}

// ListKeywords returns keywords ordered by type, then creation
func (s *sqliteStore) ListKeywords(ctx context.Context, includeInactive bool) ([]model.Keyword, error) {
	query := `SELECT id, term, doc_type, active, created_at, updated_at FROM keywords`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []model.Keyword
	for rows.Next() {
		var (
			kw        model.Keyword
			typ       string
			active    int
			createdAt string
			updatedAt sql.NullString
		)
		if err := rows.Scan(&kw.ID, &kw.Term, &typ, &active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		kw.Type = model.DocumentType(typ)
		kw.Active = active == 1
		kw.CreatedAt = parseTime(createdAt)
		kw.UpdatedAt = parseNullTime(updatedAt)
		keywords = append(keywords, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortKeywordsByType(keywords)
	return keywords, nil
}

// AddKeyword stores a new active keyword
func (s *sqliteStore) AddKeyword(ctx context.Context, term string, typ model.DocumentType) (model.Keyword, error) {
	normalized, err := store.NormalizeKeyword(term, typ)
	if err != nil {
		return model.Keyword{}, err
	}

	var existing string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM keywords WHERE active = 1 AND doc_type = ? AND term = ?`,
		string(typ), normalized).Scan(&existing)
	switch {
	case err == nil:
		return model.Keyword{}, fmt.Errorf("%w: %s (%s)", store.ErrDuplicateKeyword, normalized, typ)
	case !errors.Is(err, sql.ErrNoRows):
		return model.Keyword{}, fmt.Errorf("check keyword: %w", err)
	}

	kw := model.Keyword{
		ID:        s.ids.New(),
		Term:      normalized,
		Type:      typ,
		Active:    true,
		CreatedAt: s.now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO keywords (id, term, doc_type, active, created_at) VALUES (?, ?, ?, 1, ?)`,
		kw.ID, kw.Term, string(kw.Type), kw.CreatedAt.Format(timeLayout))
	if err != nil {
		return model.Keyword{}, fmt.Errorf("insert keyword: %w", err)
	}
	return kw, nil
}

// DeactivateKeyword soft-deletes a keyword
func (s *sqliteStore) DeactivateKeyword(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE keywords SET active = 0, updated_at = ? WHERE id = ?`,
		s.now().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("deactivate keyword: %w", err)
	}
	return expectRow(res, "keyword", id)
}

const documentColumns = `id, process_number, sector, sector_keyword, doc_type, confidence,
	publication_date, deadline_start, responsible, court, file_name, source, publication,
	content, error_message, warnings, created_at, updated_at`

// SaveDocuments assigns IDs and timestamps and stores the records in one
// transaction.
func (s *sqliteStore) SaveDocuments(ctx context.Context, docs []model.Document) ([]model.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	saved := make([]model.Document, len(docs))
	for i, doc := range docs {
		doc.ID = s.ids.New()
		doc.CreatedAt = now
		doc.UpdatedAt = nil

		warnings, err := encodeWarnings(doc.Warnings)
		if err != nil {
			return nil, err
		}

		_, err = stmt.ExecContext(ctx,
			doc.ID, doc.ProcessNumber, doc.Sector, doc.SectorKeywordUsed, string(doc.Type), doc.Confidence,
			formatNullTime(doc.PublicationDate), formatNullTime(doc.DeadlineStart), doc.Responsible, doc.Court,
			doc.FileName, doc.Source, doc.Publication, doc.Content, doc.ErrorMessage, warnings,
			doc.CreatedAt.Format(timeLayout), nil)
		if err != nil {
			return nil, fmt.Errorf("insert document: %w", err)
		}
		saved[i] = doc
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit documents: %w", err)
	}
	return saved, nil
}

// ListDocuments returns the newest records first
func (s *sqliteStore) ListDocuments(ctx context.Context, filter model.DocumentFilter) ([]model.Document, error) {
	var (
		where []string
		args  []any
	)
	if filter.Type != nil {
		where = append(where, "doc_type = ?")
		args = append(args, string(*filter.Type))
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// GetDocument returns one record
func (s *sqliteStore) GetDocument(ctx context.Context, id string) (model.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, fmt.Errorf("document %s: %w", id, store.ErrNotFound)
	}
	return doc, err
}

// UpdateDocument applies operator edits
func (s *sqliteStore) UpdateDocument(ctx context.Context, id string, upd model.DocumentUpdate) (model.Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return model.Document{}, err
	}
	if err := store.ApplyUpdate(&doc, upd, s.now()); err != nil {
		return model.Document{}, err
	}

	_, err = s.db.ExecContext(ctx, `UPDATE documents
		SET sector = ?, responsible = ?, deadline_start = ?, doc_type = ?, updated_at = ?
		WHERE id = ?`,
		doc.Sector, doc.Responsible, formatNullTime(doc.DeadlineStart), string(doc.Type),
		formatNullTime(doc.UpdatedAt), id)
	if err != nil {
		return model.Document{}, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes a record
func (s *sqliteStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return expectRow(res, "document", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (model.Document, error) {
	var (
		doc         model.Document
		typ         string
		createdAt   string
		keyword     sql.NullString
		responsible sql.NullString
		court       sql.NullString
		source      sql.NullString
		content     sql.NullString
		errMsg      sql.NullString
		warnings    sql.NullString
		pubDate     sql.NullString
		deadline    sql.NullString
		updatedAt   sql.NullString
	)
	err := row.Scan(&doc.ID, &doc.ProcessNumber, &doc.Sector, &keyword, &typ, &doc.Confidence,
		&pubDate, &deadline, &responsible, &court, &doc.FileName, &source, &doc.Publication,
		&content, &errMsg, &warnings, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, err
		}
		return model.Document{}, fmt.Errorf("scan document: %w", err)
	}

	doc.Type = model.DocumentType(typ)
	doc.SectorKeywordUsed = keyword.String
	doc.Responsible = responsible.String
	doc.Court = court.String
	doc.Source = source.String
	doc.Content = content.String
	doc.ErrorMessage = errMsg.String
	doc.PublicationDate = parseNullTime(pubDate)
	doc.DeadlineStart = parseNullTime(deadline)
	doc.CreatedAt = parseTime(createdAt)
	doc.UpdatedAt = parseNullTime(updatedAt)

	if warnings.Valid && warnings.String != "" {
		if err := json.Unmarshal([]byte(warnings.String), &doc.Warnings); err != nil {
			return model.Document{}, fmt.Errorf("decode warnings: %w", err)
		}
	}
	return doc, nil
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
	}
	return nil
}

func encodeWarnings(warnings []string) (any, error) {
	if len(warnings) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(warnings)
	if err != nil {
		return nil, fmt.Errorf("encode warnings: %w", err)
	}
	return string(data), nil
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func sortKeywordsByType(keywords []model.Keyword) {
	order := make(map[model.DocumentType]int)
	for i, typ := range model.DocumentTypes() {
		order[typ] = i
	}
	// ids are already ascending
	sort.SliceStable(keywords, func(i, j int) bool {
		return order[keywords[i].Type] < order[keywords[j].Type]
	})
}
