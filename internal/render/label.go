package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	labelPadding  = 2
	minLabelWidth = 120
)

var (
	labelBackground = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	labelText       = color.White
)

// wrap splits text into lines no wider than maxWidth. Words longer than a
// line are broken between runes.
func wrap(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	var lines []string
	var line string

	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if font.MeasureString(face, candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}

		for font.MeasureString(face, word) > maxWidth {
			cut := fitRunes(face, word, maxWidth)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// fitRunes returns the byte length of the longest prefix of s that fits,
// at least one rune
func fitRunes(face font.Face, s string, maxWidth fixed.Int26_6) int {
	cut := 0
	for i, r := range s {
		end := i + len(string(r))
		if cut > 0 && font.MeasureString(face, s[:end]) > maxWidth {
			break
		}
		cut = end
	}
	return cut
}

// drawLabel draws text on a grey box whose top-left corner is at, shifted
// left and up as needed to stay inside dst
func drawLabel(dst draw.Image, face font.Face, text string, at image.Point, maxWidth int) {
	lines := wrap(face, text, fixed.I(maxWidth-2*labelPadding))
	if len(lines) == 0 {
		return
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}

	rect := image.Rect(0, 0, width+2*labelPadding, len(lines)*lineHeight+2*labelPadding).Add(at)
	bounds := dst.Bounds()
	if over := rect.Max.X - bounds.Max.X; over > 0 {
		rect = rect.Sub(image.Pt(min(over, rect.Min.X-bounds.Min.X), 0))
	}
	if over := rect.Max.Y - bounds.Max.Y; over > 0 {
		rect = rect.Sub(image.Pt(0, min(over, rect.Min.Y-bounds.Min.Y)))
	}

	draw.Draw(dst, rect.Intersect(bounds), image.NewUniform(labelBackground), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelText), Face: face}
	for i, line := range lines {
		d.Dot = fixed.P(rect.Min.X+labelPadding, rect.Min.Y+labelPadding+i*lineHeight+metrics.Ascent.Ceil())
		d.DrawString(line)
	}
}
