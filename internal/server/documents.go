package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ppiankov/juridico/internal/logging"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/pipeline"
)

const (
	spreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	multipartMemory        = 32 << 20
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	filter, err := documentFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stripContent(docs))
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var upd model.DocumentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.store.UpdateDocument(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExtensions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pipeline.Registry().SupportedExtensions())
}

// handleUpload classifies one file as a single publication and stores it
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	files, form, ok := s.parseUpload(w, r, s.cfg.MaxUploadBytes, "file")
	if !ok {
		return
	}
	defer func() { _ = form.RemoveAll() }()
	if len(files) != 1 {
		writeError(w, http.StatusBadRequest, "exactly one file expected in field \"file\"")
		return
	}

	opts := pipeline.Options{
		Mode:          pipeline.ModeSingle,
		Persist:       true,
		DefaultSector: strings.TrimSpace(r.FormValue("sector")),
	}
	reports, err := s.processUploads(r, files, opts, r.FormValue("responsible"))
	if err != nil {
		s.writeProcessError(w, err)
		return
	}

	docs := reports[0].Documents
	if len(docs) == 0 {
		writeJSON(w, http.StatusOK, reports[0])
		return
	}
	writeJSON(w, http.StatusCreated, docs[0])
}

// handleUploadMultiple classifies each file as one publication and stores
// one record per file
func (s *Server) handleUploadMultiple(w http.ResponseWriter, r *http.Request) {
	files, form, ok := s.parseUpload(w, r, s.cfg.MaxMultipleBytes, "files")
	if !ok {
		return
	}
	defer func() { _ = form.RemoveAll() }()

	opts := pipeline.Options{
		Mode:          pipeline.ModeSingle,
		Persist:       true,
		DefaultSector: strings.TrimSpace(r.FormValue("sector")),
	}
	reports, err := s.processUploads(r, files, opts, r.FormValue("responsible"))
	if err != nil {
		s.writeProcessError(w, err)
		return
	}

	docs := make([]model.Document, 0, len(reports))
	for _, report := range reports {
		docs = append(docs, report.Documents...)
	}
	writeJSON(w, http.StatusOK, stripContent(docs))
}

// handleProcessExport segments uploaded files and answers with a
// spreadsheet without persisting anything
func (s *Server) handleProcessExport(w http.ResponseWriter, r *http.Request) {
	files, form, ok := s.parseUpload(w, r, s.cfg.MaxMultipleBytes, "files")
	if !ok {
		return
	}
	defer func() { _ = form.RemoveAll() }()

	reports, err := s.processUploads(r, files, pipeline.Options{Mode: pipeline.ModeMultiple}, "")
	if err != nil {
		s.writeProcessError(w, err)
		return
	}

	var docs []model.Document
	for _, report := range reports {
		docs = append(docs, report.Documents...)
	}
	s.writeSpreadsheet(w, docs)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, err := documentFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), filter)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeSpreadsheet(w, docs)
}

func (s *Server) writeSpreadsheet(w http.ResponseWriter, docs []model.Document) {
	var buf bytes.Buffer
	if err := s.pipeline.Renderer().WriteSpreadsheet(&buf, docs); err != nil {
		s.logger.Error("spreadsheet export failed", logging.Err(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	name := fmt.Sprintf("documentos_%s.xlsx", s.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", spreadsheetContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// parseUpload reads a multipart form under a size limit and rejects the
// request when any file has an unsupported extension.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request, limit int64, field string) ([]*multipart.FileHeader, *multipart.Form, bool) {
	if r.ContentLength > limit {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", limit))
		return nil, nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", limit))
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, nil, false
	}

	form := r.MultipartForm
	files := form.File[field]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("no file provided in field %q", field))
		return nil, nil, false
	}

	registry := s.pipeline.Registry()
	var unsupported []string
	for _, fh := range files {
		if !registry.Supports(fh.Filename) {
			unsupported = append(unsupported, fh.Filename)
		}
	}
	if len(unsupported) > 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s (supported: %s)",
			strings.Join(unsupported, ", "), strings.Join(registry.SupportedExtensions(), ", ")))
		return nil, nil, false
	}

	return files, form, true
}

// processUploads runs each file through the pipeline in upload order.
// responsible, when set, is stamped on persisted records.
func (s *Server) processUploads(r *http.Request, files []*multipart.FileHeader, opts pipeline.Options, responsible string) ([]*model.FileReport, error) {
	ctx := r.Context()
	responsible = strings.TrimSpace(responsible)

	reports := make([]*model.FileReport, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		report, err := s.pipeline.ProcessReader(ctx, fh.Filename, f, opts)
		_ = f.Close()
		if err != nil {
			return nil, err
		}

		if responsible != "" && opts.Persist {
			for i, doc := range report.Documents {
				updated, err := s.store.UpdateDocument(ctx, doc.ID, model.DocumentUpdate{Responsible: &responsible})
				if err != nil {
					return nil, err
				}
				report.Documents[i] = updated
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *Server) writeProcessError(w http.ResponseWriter, err error) {
	s.logger.Error("upload processing failed", logging.Err(err))
	writeError(w, http.StatusInternalServerError, "processing failed")
}

func documentFilter(r *http.Request) (model.DocumentFilter, error) {
	var filter model.DocumentFilter
	if raw := r.URL.Query().Get("type"); raw != "" {
		typ, err := model.ParseDocumentType(raw)
		if err != nil {
			return filter, err
		}
		filter.Type = &typ
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid limit %q", raw)
		}
		filter.Limit = n
	}
	return filter, nil
}

// stripContent drops block text from listings
func stripContent(docs []model.Document) []model.Document {
	out := make([]model.Document, len(docs))
	for i, doc := range docs {
		doc.Content = ""
		out[i] = doc
	}
	return out
}
