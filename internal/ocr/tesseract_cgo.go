//go:build cgo && tesseract

package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractAvailable reports whether this build links libtesseract
const TesseractAvailable = true

func (r *TesseractRecognizer) text(png []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.languages...); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR failed: %w", err)
	}
	return text, nil
}
