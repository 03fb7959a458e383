package util

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractPDFText pulls the text layer out of a PDF page by page. Image-only
// scans have no text layer and are rejected rather than OCR'd.
func ExtractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var full strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			full.WriteString(pageText)
			full.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(full.String())
	if len(result) == 0 {
		return "", fmt.Errorf("no text extracted from PDF (scanned images are not supported)")
	}
	if len(result) < 100 {
		return "", fmt.Errorf("content too short for meaningful matching")
	}
	return result, nil
}
