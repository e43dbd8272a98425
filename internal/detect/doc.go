// Package detect locates text regions (speech bubbles, captions) on a manga
// page. Detection itself is delegated to a pre-trained model: either an
// object-detection service reached over HTTP or Tesseract's layout
// analysis. Boxes are returned in backend order and are not validated
// against the page extents.
package detect
