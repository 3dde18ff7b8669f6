package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNoteTextEmpty(t *testing.T) {
	_, err := ExtractNoteText("notes.pdf", "application/pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty file")
}

func TestExtractNoteTextFakePDF(t *testing.T) {
	// Claims to be a PDF but carries no %PDF header.
	_, err := ExtractNoteText("notes.pdf", "application/pdf", []byte{0x00, 0x01, 0x02, 0x03})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing %PDF header")
}

func TestExtractNoteTextPlain(t *testing.T) {
	text, err := ExtractNoteText("notes.md", "text/markdown", []byte("# Photosynthesis\r\n\r\nLight   reactions  happen first.\n"))
	require.NoError(t, err)
	assert.Equal(t, "# Photosynthesis\n\nLight reactions happen first.", text)
}

func TestExtractNoteTextUnknownBinary(t *testing.T) {
	_, err := ExtractNoteText("photo.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF, 0x00, 0x00, 0x00})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
