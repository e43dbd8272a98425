package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/shin1244/BubbleTrans/internal/detect"
)

// Crop returns a new image holding the pixels of box. The box is
// intersected with the image bounds; a box that is inverted or lies
// entirely outside the image produces an empty image. The source image is
// never modified.
func Crop(img image.Image, box detect.Box) image.Image {
	bounds := img.Bounds()

	// Rectangle literal rather than image.Rect: image.Rect would swap
	// inverted coordinates instead of treating them as empty.
	r := image.Rectangle{
		Min: image.Pt(bounds.Min.X+box.Left, bounds.Min.Y+box.Top),
		Max: image.Pt(bounds.Min.X+box.Right, bounds.Min.Y+box.Bottom),
	}
	if r.Empty() {
		return &image.NRGBA{}
	}

	r = r.Intersect(bounds)
	if r.Empty() {
		return &image.NRGBA{}
	}

	return imaging.Crop(img, r)
}

// IsEmpty reports whether img has no pixels
func IsEmpty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}
