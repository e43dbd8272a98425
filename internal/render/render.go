package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"

	"github.com/shin1244/BubbleTrans/internal/batch"
	bimaging "github.com/shin1244/BubbleTrans/internal/imaging"
	"github.com/shin1244/BubbleTrans/internal/output"
)

// BorderWidth is the outline thickness in pixels
const BorderWidth = 2

// Palette returns n evenly spaced, equally bright colours
func Palette(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := 360 * float64(i) / float64(n)
		r, g, b := colorful.Hcl(hue, 0.7, 0.55).Clamped().RGB255()
		colors[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// Page returns a copy of img with an outline around every region. With a
// face, each region's translation is drawn on a label in its top-left
// corner. Boxes that are not well formed are not drawn.
func Page(img image.Image, regions []output.Region, face font.Face) image.Image {
	out := imaging.Clone(img)
	bounds := out.Bounds()
	palette := Palette(len(regions))

	for i, r := range regions {
		if !r.Box.WellFormed() {
			continue
		}
		rect := r.Box.Rect()
		src := image.NewUniform(palette[i])

		sides := []image.Rectangle{
			image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+BorderWidth),
			image.Rect(rect.Min.X, rect.Max.Y-BorderWidth, rect.Max.X, rect.Max.Y),
			image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+BorderWidth, rect.Max.Y),
			image.Rect(rect.Max.X-BorderWidth, rect.Min.Y, rect.Max.X, rect.Max.Y),
		}
		for _, side := range sides {
			draw.Draw(out, side.Intersect(bounds), src, image.Point{}, draw.Src)
		}
	}

	if face == nil {
		return out
	}
	for _, r := range regions {
		if !r.Box.WellFormed() || strings.TrimSpace(r.Text) == "" {
			continue
		}
		rect := r.Box.Rect()
		at := rect.Min.Add(image.Pt(BorderWidth, BorderWidth))
		drawLabel(out, face, r.Text, at, max(rect.Dx()-2*BorderWidth, minLabelWidth))
	}
	return out
}

// Directory renders every page of dir that has a committed result file
// into outDir as <name>.png and returns the number of pages rendered.
// A nil face draws outlines only.
func Directory(dir, outDir string, face font.Face, w io.Writer) (int, error) {
	pages, err := batch.ListPages(dir)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create render directory: %w", err)
	}

	rendered := 0
	for _, page := range pages {
		if !page.Done {
			continue
		}

		regions, err := output.ReadFile(page.OutputPath)
		if err != nil {
			return rendered, err
		}
		img, err := bimaging.Load(page.ImagePath)
		if err != nil {
			return rendered, err
		}

		name := strings.TrimSuffix(page.Name(), filepath.Ext(page.Name())) + ".png"
		target := filepath.Join(outDir, name)
		if err := imaging.Save(Page(img, regions, face), target); err != nil {
			return rendered, fmt.Errorf("failed to save %s: %w", target, err)
		}

		fmt.Fprintf(w, "  Rendered %s (%d regions)\n", target, len(regions))
		rendered++
	}

	return rendered, nil
}
