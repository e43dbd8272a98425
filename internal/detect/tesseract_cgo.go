//go:build cgo && tesseract

package detect

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// TesseractAvailable reports whether this build links libtesseract
const TesseractAvailable = true

func (d *TesseractDetector) blocks(img image.Image) ([]tessBlock, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(d.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	// Block level groups a bubble's columns into one region
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get text regions: %w", err)
	}

	blocks := make([]tessBlock, len(boxes))
	for i, b := range boxes {
		blocks[i] = tessBlock{rect: b.Box, confidence: b.Confidence}
	}
	return blocks, nil
}
