package ocr

import (
	"context"
	"errors"
	"image"
	"strings"

	"github.com/shin1244/BubbleTrans/internal/imaging"
)

// ErrTesseractUnavailable is returned by the Tesseract provider in builds
// without the tesseract tag
var ErrTesseractUnavailable = errors.New("tesseract support not compiled in (build with cgo and -tags tesseract)")

// TesseractRecognizer runs Tesseract locally. The jpn_vert and jpn
// traineddata files must be installed.
type TesseractRecognizer struct {
	languages []string
}

// NewTesseractRecognizer creates a Tesseract recognizer for config.Languages
func NewTesseractRecognizer(config *Config) *TesseractRecognizer {
	langs := config.Languages
	if langs == "" {
		langs = "jpn_vert+jpn"
	}
	return &TesseractRecognizer{languages: strings.Split(langs, "+")}
}

// Recognize runs OCR on img
func (r *TesseractRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	text, err := r.text(data)
	if err != nil {
		return "", err
	}
	return joinLines(text), nil
}

// Name returns the provider name
func (r *TesseractRecognizer) Name() string {
	return "tesseract"
}

// joinLines removes the line breaks Tesseract inserts between columns;
// Japanese needs no separator between them
func joinLines(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}
