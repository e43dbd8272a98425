package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// PrepareOptions controls pre-processing of a region before OCR
type PrepareOptions struct {
	// Grayscale converts the crop to luminance only
	Grayscale bool
	// MinHeight upscales crops shorter than this many pixels (0 disables)
	MinHeight int
	// Padding adds a white margin of this many pixels on every side
	Padding int
}

// Prepare applies opts to a cropped region and returns a new image.
// With zero options the input is returned unchanged.
func Prepare(img image.Image, opts PrepareOptions) image.Image {
	if IsEmpty(img) {
		return img
	}

	out := img
	if opts.MinHeight > 0 && out.Bounds().Dy() < opts.MinHeight {
		// Width 0 keeps the aspect ratio
		out = imaging.Resize(out, 0, opts.MinHeight, imaging.Lanczos)
	}

	if opts.Grayscale {
		out = effect.Grayscale(out)
	}

	if opts.Padding > 0 {
		b := out.Bounds()
		canvas := imaging.New(b.Dx()+2*opts.Padding, b.Dy()+2*opts.Padding, color.White)
		out = imaging.Paste(canvas, out, image.Pt(opts.Padding, opts.Padding))
	}

	return out
}
