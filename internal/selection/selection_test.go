package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        string
		wantErr     bool
	}{
		{"explicit text", "a.bin", "text/plain", TypeText, false},
		{"explicit pdf", "a", "application/pdf", TypePDF, false},
		{"txt extension", "notes.TXT", "", TypeText, false},
		{"pdf extension", "paper.pdf", "", TypePDF, false},
		{"unknown extension", "doc.docx", "", "", true},
		{"unsupported type", "doc.doc", "application/msword", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectType(tt.filename, tt.contentType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractText(t *testing.T) {
	got, err := Extract(TypeText, []byte("\n  hello   world \n"))
	require.NoError(t, err)
	assert.Equal(t, "hello   world", got)
}

func TestExtractInvalidPDF(t *testing.T) {
	_, err := Extract(TypePDF, []byte("not a pdf"))
	assert.Error(t, err)
}

func TestExtractUnsupported(t *testing.T) {
	_, err := Extract("image/png", []byte{0x89})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
