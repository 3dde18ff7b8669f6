package services

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// ExtractNoteText pulls plain text out of an uploaded note. The true
// file type is sniffed from magic bytes rather than trusted from the
// mime type or extension. Supported: PDF, plain text / markdown.
func ExtractNoteText(originalName string, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file: name=%s mime=%s", originalName, mimeType)
	}

	if isPDF(data) {
		return extractPDF(data)
	}
	if isProbablyText(data) {
		return collapseWhitespace(string(data)), nil
	}

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if mt == "application/pdf" || strings.HasSuffix(strings.ToLower(originalName), ".pdf") {
		return "", fmt.Errorf("file claims pdf but missing %%PDF header: name=%s mime=%s", originalName, mimeType)
	}
	return "", fmt.Errorf("unsupported file type: name=%s mime=%s", originalName, mimeType)
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

func isProbablyText(data []byte) bool {
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			return false
		}
		if b < 0x09 && b != 0 {
			nonPrintable++
		}
	}
	return nonPrintable*20 < len(sample)
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return collapseWhitespace(string(b)), nil
}

var whitespaceRun = regexp.MustCompile(`[ \t]{2,}`)

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
