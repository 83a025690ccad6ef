package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsawler/tabula"
)

// DocumentAdapter extracts text from PDF, Word and OpenDocument files
type DocumentAdapter struct {
	BaseAdapter
}

// NewDocumentAdapter creates a new document adapter
func NewDocumentAdapter() *DocumentAdapter {
	return &DocumentAdapter{
		BaseAdapter: BaseAdapter{extensions: []string{".pdf", ".docx", ".odt"}},
	}
}

// Name returns the adapter name
func (a *DocumentAdapter) Name() string {
	return "document"
}

// ExtractText extracts the text of every page
func (a *DocumentAdapter) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}

	var text string
	err := withTempFile(data, Extension(name), func(path string) error {
		extracted, _, err := tabula.Open(path).Text()
		if err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
		text = extracted
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
