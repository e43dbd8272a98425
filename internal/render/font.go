package render

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFontSize matches the overlay size of the page viewer
const DefaultFontSize = 18

// fontCandidates are common install locations of Korean-capable fonts
var fontCandidates = []string{
	"/usr/share/fonts/truetype/nanum/NanumGothic.ttf",
	"/usr/share/fonts/nanum/NanumGothic.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/google-noto-cjk/NotoSansCJK-Regular.ttc",
	"/System/Library/Fonts/AppleSDGothicNeo.ttc",
	"/Library/Fonts/AppleGothic.ttf",
	`C:\Windows\Fonts\malgun.ttf`,
}

// LoadFont reads a TrueType/OpenType font or collection. From a
// collection the first font with Hangul glyphs is returned.
func LoadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return parseFont(data)
}

func parseFont(data []byte) (*opentype.Font, error) {
	if f, err := opentype.Parse(data); err == nil {
		return f, nil
	}

	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	var first *opentype.Font
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if HasHangul(f) {
			return f, nil
		}
		if first == nil {
			first = f
		}
	}
	if first == nil {
		return nil, fmt.Errorf("font collection holds no usable font")
	}
	return first, nil
}

// HasHangul reports whether f can draw Korean text
func HasHangul(f *opentype.Font) bool {
	idx, err := f.GlyphIndex(&sfnt.Buffer{}, '한')
	return err == nil && idx != 0
}

// NewFace returns a face of f at size points
func NewFace(f *opentype.Font, size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// FindFont returns the first installed Korean-capable font, or "" when
// none of the usual locations has one
func FindFont() string {
	for _, path := range fontCandidates {
		f, err := LoadFont(path)
		if err == nil && HasHangul(f) {
			return path
		}
	}
	return ""
}

// OverlayFace resolves the face used for translation labels: the font at
// path, else an installed Korean font, else the bundled Go font. Problems
// that leave labels unreadable are reported on w.
func OverlayFace(path string, size float64, w io.Writer) (font.Face, error) {
	if path == "" {
		path = FindFont()
	}

	var f *opentype.Font
	var err error
	if path != "" {
		if f, err = LoadFont(path); err != nil {
			return nil, err
		}
		if !HasHangul(f) {
			fmt.Fprintf(w, "Warning: %s has no Hangul glyphs; Korean labels will not be readable\n", path)
		}
	} else {
		fmt.Fprintf(w, "Warning: no Korean font found, set --font; Korean labels will not be readable\n")
		if f, err = opentype.Parse(goregular.TTF); err != nil {
			return nil, fmt.Errorf("failed to parse fallback font: %w", err)
		}
	}

	return NewFace(f, size)
}
