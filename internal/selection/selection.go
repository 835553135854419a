package selection

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	TypeText = "text/plain"
	TypePDF  = "application/pdf"
)

var ErrUnsupportedType = errors.New("unsupported file type (only PDF and TXT allowed)")

// DetectType resolves the content type of an uploaded file, falling back to
// the filename extension when the client sent none.
func DetectType(filename, contentType string) (string, error) {
	if contentType == "" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt":
			contentType = TypeText
		case ".pdf":
			contentType = TypePDF
		}
	}
	switch contentType {
	case TypeText, TypePDF:
		return contentType, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Extract returns the selection text carried by a file of the given type,
// trimmed the same way a highlighted selection is.
func Extract(contentType string, content []byte) (string, error) {
	switch contentType {
	case TypeText:
		return strings.TrimSpace(string(content)), nil
	case TypePDF:
		text, err := extractPDF(content)
		if err != nil {
			return "", fmt.Errorf("extract pdf: %w", err)
		}
		return strings.TrimSpace(text), nil
	default:
		return "", ErrUnsupportedType
	}
}

func extractPDF(content []byte) (string, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// unreadable pages are skipped
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}
