package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/ppiankov/juridico/internal/validate"
)

// SpreadsheetSheet is the worksheet name of exported reports
const SpreadsheetSheet = "Documentos"

// SpreadsheetHeaders are the exported columns, in order
var SpreadsheetHeaders = []string{"PROCESSO", "SETOR", "PALAVRA-CHAVE", "DATA PUBLICAÇÃO", "INÍCIO PRAZO", "ARQUIVO"}

const exportDateLayout = "02/01/2006"

// Renderer writes reports as JSON, Markdown, XLSX and console summaries
type Renderer struct {
	includeFooter bool
	now           func() time.Time
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		now:           time.Now,
	}
}

// RenderJSON writes reports as indented JSON
func (r *Renderer) RenderJSON(reports []*model.FileReport, path string) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes one table of records per file
func (r *Renderer) RenderMarkdown(reports []*model.FileReport, path string) error {
	var b strings.Builder
	r.WriteMarkdown(&b, reports)
	return writeFile(path, []byte(b.String()))
}

// WriteMarkdown renders the Markdown report into w
func (r *Renderer) WriteMarkdown(w io.Writer, reports []*model.FileReport) {
	fmt.Fprintf(w, "# Publicações classificadas\n\n")

	for _, report := range reports {
		fmt.Fprintf(w, "## %s\n\n", escapeMarkdown(report.FileName))
		if report.Failed() {
			fmt.Fprintf(w, "**Erro:** %s\n\n", escapeMarkdown(report.ErrorMessage))
			continue
		}

		fmt.Fprintf(w, "- Publicações: %d\n", len(report.Results))
		if report.Skipped > 0 {
			fmt.Fprintf(w, "- Sem setor (descartadas): %d\n", report.Skipped)
		}
		fmt.Fprintf(w, "\n| # | Processo | Tipo | Setor | Palavra-chave | Data | Avisos |\n")
		fmt.Fprintf(w, "|---|---|---|---|---|---|---|\n")
		for _, doc := range report.Documents {
			fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %s | %s |\n",
				doc.Publication,
				escapeMarkdown(doc.ProcessNumber),
				doc.Type,
				escapeMarkdown(doc.Sector),
				escapeMarkdown(doc.SectorKeywordUsed),
				formatDate(doc.PublicationDate),
				escapeMarkdown(strings.Join(doc.Warnings, "; ")))
		}
		fmt.Fprintln(w)
	}

	if r.includeFooter {
		fmt.Fprintf(w, "---\n_Gerado por juridico em %s_\n", r.now().Format("02/01/2006 15:04"))
	}
}

// RenderSpreadsheet writes records as an XLSX file
func (r *Renderer) RenderSpreadsheet(docs []model.Document, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create spreadsheet: %w", err)
	}
	if err := r.WriteSpreadsheet(f, docs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteSpreadsheet writes records as an XLSX workbook with a styled,
// filterable header row.
func (r *Renderer) WriteSpreadsheet(w io.Writer, docs []model.Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SpreadsheetSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for col, header := range SpreadsheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellStr(SpreadsheetSheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00008B"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(SpreadsheetHeaders), 1)
	if err := f.SetCellStyle(SpreadsheetSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	widths := make([]int, len(SpreadsheetHeaders))
	for i, header := range SpreadsheetHeaders {
		widths[i] = len([]rune(header))
	}

	for i, doc := range docs {
		row := []string{
			doc.ProcessNumber,
			doc.Sector,
			doc.SectorKeywordUsed,
			formatDate(doc.PublicationDate),
			formatDate(doc.DeadlineStart),
			doc.FileName,
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellStr(SpreadsheetSheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", i+2, err)
			}
			if n := len([]rune(value)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(SpreadsheetSheet, name, name, float64(min(width+2, 80))); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(SpreadsheetHeaders), len(docs)+1)
	if err := f.AutoFilter(SpreadsheetSheet, "A1:"+lastCell, nil); err != nil {
		return fmt.Errorf("set auto filter: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}

// RenderSummary prints a short console summary of one file
func (r *Renderer) RenderSummary(w io.Writer, report *model.FileReport) {
	if report.Failed() {
		fmt.Fprintf(w, "✗ %s: %s\n", report.FileName, report.ErrorMessage)
		return
	}

	cached := ""
	if report.CacheHit {
		cached = " (cached text)"
	}
	fmt.Fprintf(w, "✓ %s: %d publication(s)%s\n", report.FileName, len(report.Results), cached)

	for _, doc := range report.Documents {
		line := fmt.Sprintf("  %2d. %-25s %-16s %-20s %s",
			doc.Publication, doc.ProcessNumber, doc.Type, doc.Sector, formatDate(doc.PublicationDate))
		if warning := validate.Summary(doc); warning != "" {
			line += "  ! " + warning
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	if report.Skipped > 0 {
		fmt.Fprintf(w, "  %d unresolved publication(s) skipped\n", report.Skipped)
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
