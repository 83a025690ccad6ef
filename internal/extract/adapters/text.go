package adapters

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextAdapter reads plain-text formats. Files that are not valid UTF-8
// are decoded as Windows-1252, the usual encoding of court exports.
type TextAdapter struct {
	BaseAdapter
}

// NewTextAdapter creates a new text adapter
func NewTextAdapter() *TextAdapter {
	return &TextAdapter{
		BaseAdapter: BaseAdapter{extensions: []string{".txt", ".csv", ".rtf", ".xml", ".json"}},
	}
}

// Name returns the adapter name
func (a *TextAdapter) Name() string {
	return "text"
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExtractText returns the file content as UTF-8
func (a *TextAdapter) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(decoded), nil
}
