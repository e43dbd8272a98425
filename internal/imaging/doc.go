// Package imaging loads manga pages, crops detected regions out of them and
// prepares the crops for OCR.
package imaging
