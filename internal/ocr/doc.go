// Package ocr recognizes the Japanese text inside a cropped manga region.
// Recognition is delegated to a manga-ocr model service, a local Tesseract
// installation or an OpenAI vision model.
package ocr
