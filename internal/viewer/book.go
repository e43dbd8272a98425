package viewer

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/font"

	"github.com/shin1244/BubbleTrans/internal/batch"
	"github.com/shin1244/BubbleTrans/internal/imaging"
	"github.com/shin1244/BubbleTrans/internal/output"
	"github.com/shin1244/BubbleTrans/internal/render"
)

// ErrNoGUI is returned by Run in builds without the gui tag
var ErrNoGUI = errors.New("viewer not compiled in (build with cgo and -tags gui)")

// Book holds the translated pages of a directory and the current position
type Book struct {
	dir   string
	pages []batch.Page
	index int
}

// NewBook opens the pages of dir that have a committed result file
func NewBook(dir string) (*Book, error) {
	pages, err := batch.ListPages(dir)
	if err != nil {
		return nil, err
	}

	b := &Book{dir: dir}
	for _, page := range pages {
		if page.Done && page.Duplicate == "" {
			b.pages = append(b.pages, page)
		}
	}
	if len(b.pages) == 0 {
		return nil, fmt.Errorf("no translated pages in %s", dir)
	}
	return b, nil
}

// Dir returns the directory the book was opened from
func (b *Book) Dir() string {
	return b.dir
}

// Len returns the number of pages
func (b *Book) Len() int {
	return len(b.pages)
}

// Index returns the zero-based current page number
func (b *Book) Index() int {
	return b.index
}

// Current returns the current page
func (b *Book) Current() batch.Page {
	return b.pages[b.index]
}

// Next moves forward one page; false at the last page
func (b *Book) Next() bool {
	if b.index >= len(b.pages)-1 {
		return false
	}
	b.index++
	return true
}

// Prev moves back one page; false at the first page
func (b *Book) Prev() bool {
	if b.index == 0 {
		return false
	}
	b.index--
	return true
}

// Seek moves to page i, clamped to the valid range
func (b *Book) Seek(i int) {
	b.index = max(0, min(i, len(b.pages)-1))
}

// Spread is one page ready for display
type Spread struct {
	Page    batch.Page
	Image   image.Image
	Regions []output.Region
}

// Load reads the current page and its regions and draws the outlines,
// plus translation labels when face is not nil
func (b *Book) Load(face font.Face) (*Spread, error) {
	page := b.Current()

	img, err := imaging.Load(page.ImagePath)
	if err != nil {
		return nil, err
	}
	regions, err := output.ReadFile(page.OutputPath)
	if err != nil {
		return nil, err
	}

	return &Spread{
		Page:    page,
		Image:   render.Page(img, regions, face),
		Regions: regions,
	}, nil
}

// TextsAt returns the translations of every region containing p, in file
// order. Region edges count as inside.
func TextsAt(regions []output.Region, p image.Point) []string {
	var texts []string
	for _, r := range regions {
		b := r.Box
		if !b.WellFormed() || r.Text == "" {
			continue
		}
		if p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom {
			texts = append(texts, r.Text)
		}
	}
	return texts
}

// ToImagePoint maps a position in a view of viewW x viewH showing an
// imgW x imgH image scaled to fit and centred onto image pixels. ok is
// false outside the drawn image.
func ToImagePoint(x, y, viewW, viewH float32, imgW, imgH int) (p image.Point, ok bool) {
	if viewW <= 0 || viewH <= 0 || imgW <= 0 || imgH <= 0 {
		return image.Point{}, false
	}

	scale := min(viewW/float32(imgW), viewH/float32(imgH))
	offsetX := (viewW - float32(imgW)*scale) / 2
	offsetY := (viewH - float32(imgH)*scale) / 2

	px := (x - offsetX) / scale
	py := (y - offsetY) / scale
	if px < 0 || py < 0 || px >= float32(imgW) || py >= float32(imgH) {
		return image.Point{}, false
	}
	return image.Pt(int(px), int(py)), true
}
