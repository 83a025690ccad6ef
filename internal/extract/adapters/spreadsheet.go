package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsawler/tabula/xlsx"
)

// SpreadsheetAdapter extracts the non-empty cells of every worksheet.
// Each sheet starts with a "=== Planilha: <name> ===" line followed by one
// line per row, cells joined by " | ".
type SpreadsheetAdapter struct {
	BaseAdapter
}

// NewSpreadsheetAdapter creates a new spreadsheet adapter
func NewSpreadsheetAdapter() *SpreadsheetAdapter {
	return &SpreadsheetAdapter{
		BaseAdapter: BaseAdapter{extensions: []string{".xlsx", ".xlsm"}},
	}
}

// Name returns the adapter name
func (a *SpreadsheetAdapter) Name() string {
	return "spreadsheet"
}

// ExtractText renders every sheet as text
func (a *SpreadsheetAdapter) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf strings.Builder
	err := withTempFile(data, ".xlsx", func(path string) error {
		r, err := xlsx.Open(path)
		if err != nil {
			return fmt.Errorf("open workbook %s: %w", name, err)
		}
		defer r.Close()

		names := r.SheetNames()
		for i := 0; i < r.SheetCount(); i++ {
			sheet, err := r.Sheet(i)
			if err != nil {
				return fmt.Errorf("read sheet %d: %w", i, err)
			}
			sheetName := sheet.Name
			if sheetName == "" && i < len(names) {
				sheetName = names[i]
			}
			writeSheet(&buf, sheetName, sheet.Rows)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func writeSheet(buf *strings.Builder, name string, rows [][]xlsx.Cell) {
	fmt.Fprintf(buf, "=== Planilha: %s ===\n", name)
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if value := strings.TrimSpace(cell.Value); value != "" {
				cells = append(cells, value)
			}
		}
		if len(cells) > 0 {
			buf.WriteString(strings.Join(cells, " | "))
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte('\n')
}
