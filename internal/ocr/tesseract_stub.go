//go:build !(cgo && tesseract)

package ocr

// TesseractAvailable reports whether this build links libtesseract
const TesseractAvailable = false

func (r *TesseractRecognizer) text(png []byte) (string, error) {
	return "", ErrTesseractUnavailable
}
