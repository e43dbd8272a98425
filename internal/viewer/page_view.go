//go:build gui

package viewer

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/shin1244/BubbleTrans/internal/output"
)

// PageView shows one page scaled to fit and reports the translations
// under the mouse
type PageView struct {
	widget.BaseWidget

	imageCanvas *canvas.Image
	regions     []output.Region
	pageSize    image.Point

	OnHover           func(texts []string)
	OnTapped          func()
	OnTappedSecondary func()
}

// NewPageView creates an empty page view
func NewPageView() *PageView {
	v := &PageView{}
	v.imageCanvas = canvas.NewImageFromImage(nil)
	v.imageCanvas.FillMode = canvas.ImageFillContain
	v.imageCanvas.SetMinSize(fyne.NewSize(320, 452))
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *PageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.imageCanvas)
}

// SetSpread displays a loaded page
func (v *PageView) SetSpread(s *Spread) {
	v.regions = s.Regions
	v.pageSize = s.Image.Bounds().Size()
	v.imageCanvas.Image = s.Image
	v.imageCanvas.Refresh()
}

// Clear removes the page
func (v *PageView) Clear() {
	v.regions = nil
	v.pageSize = image.Point{}
	v.imageCanvas.Image = nil
	v.imageCanvas.Refresh()
}

// MouseIn implements desktop.Hoverable
func (v *PageView) MouseIn(ev *desktop.MouseEvent) {
	v.hover(ev.Position)
}

// MouseMoved implements desktop.Hoverable
func (v *PageView) MouseMoved(ev *desktop.MouseEvent) {
	v.hover(ev.Position)
}

// MouseOut implements desktop.Hoverable
func (v *PageView) MouseOut() {
	if v.OnHover != nil {
		v.OnHover(nil)
	}
}

// Tapped implements fyne.Tappable
func (v *PageView) Tapped(*fyne.PointEvent) {
	if v.OnTapped != nil {
		v.OnTapped()
	}
}

// TappedSecondary implements fyne.SecondaryTappable
func (v *PageView) TappedSecondary(*fyne.PointEvent) {
	if v.OnTappedSecondary != nil {
		v.OnTappedSecondary()
	}
}

func (v *PageView) hover(pos fyne.Position) {
	if v.OnHover == nil {
		return
	}
	size := v.Size()
	p, ok := ToImagePoint(pos.X, pos.Y, size.Width, size.Height, v.pageSize.X, v.pageSize.Y)
	if !ok {
		v.OnHover(nil)
		return
	}
	v.OnHover(TextsAt(v.regions, p))
}
