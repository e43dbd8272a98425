package detect

import (
	"context"
	"errors"
	"image"
)

// ErrTesseractUnavailable is returned by the Tesseract backends in builds
// without the tesseract tag
var ErrTesseractUnavailable = errors.New("tesseract support not compiled in (build with cgo and -tags tesseract)")

// TesseractDetector finds text blocks with Tesseract layout analysis. It
// needs no model service but is much weaker on speech bubbles than a
// trained detector.
type TesseractDetector struct {
	language      string
	minConfidence float64
}

// tessBlock is one layout block as Tesseract reports it, confidence 0-100
type tessBlock struct {
	rect       image.Rectangle
	confidence float64
}

// NewTesseractDetector creates a block-level Tesseract detector
func NewTesseractDetector(config *Config) *TesseractDetector {
	lang := config.Language
	if lang == "" {
		lang = "jpn_vert"
	}
	return &TesseractDetector{
		language:      lang,
		minConfidence: config.MinConfidence,
	}
}

// Detect returns block-level regions above the confidence threshold
func (d *TesseractDetector) Detect(ctx context.Context, img image.Image) ([]Box, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blocks, err := d.blocks(img)
	if err != nil {
		return nil, err
	}
	return d.toBoxes(blocks), nil
}

// toBoxes scales confidences to 0-1 and drops blocks below the threshold
func (d *TesseractDetector) toBoxes(blocks []tessBlock) []Box {
	boxes := make([]Box, 0, len(blocks))
	for _, block := range blocks {
		confidence := block.confidence / 100.0
		if confidence < d.minConfidence {
			continue
		}
		boxes = append(boxes, Box{
			Top:        block.rect.Min.Y,
			Bottom:     block.rect.Max.Y,
			Left:       block.rect.Min.X,
			Right:      block.rect.Max.X,
			Confidence: confidence,
		})
	}
	return boxes
}

// Name returns the provider name
func (d *TesseractDetector) Name() string {
	return "tesseract"
}
