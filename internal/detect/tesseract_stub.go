//go:build !(cgo && tesseract)

package detect

import "image"

// TesseractAvailable reports whether this build links libtesseract
const TesseractAvailable = false

func (d *TesseractDetector) blocks(img image.Image) ([]tessBlock, error) {
	return nil, ErrTesseractUnavailable
}
