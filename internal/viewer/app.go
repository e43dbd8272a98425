//go:build gui

package viewer

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"golang.org/x/image/font"

	"github.com/shin1244/BubbleTrans/internal"
	"github.com/shin1244/BubbleTrans/internal/render"
)

const guiBuild = true

const hoverHint = "Hover over a bubble to see its translation"

// Application is the viewer window
type Application struct {
	app    fyne.App
	window fyne.Window
	config *Config
	book   *Book

	// UI elements
	pageView    *PageView
	textLabel   *widget.Label
	pageLabel   *widget.Label
	labelsCheck *widget.Check
	prevBtn     *ttwidget.Button
	nextBtn     *ttwidget.Button

	// face is loaded on first use of the label overlay
	face font.Face
}

// Run opens the viewer on config.Dir and blocks until the window closes
func Run(config *Config) error {
	if config == nil {
		config = DefaultConfig()
	}

	book, err := NewBook(config.Dir)
	if err != nil {
		return err
	}

	a := &Application{
		app:    app.NewWithID("com.github.shin1244.bubbletrans"),
		config: config,
		book:   book,
	}
	a.setupUI()
	a.showPage()
	a.window.ShowAndRun()
	return nil
}

// setupUI creates the window and its widgets
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("BubbleTrans v%s - %s", internal.Version, a.book.Dir()))
	a.window.Resize(fyne.NewSize(640, 904))

	a.pageView = NewPageView()
	a.pageView.OnHover = a.onHover
	// Left click goes back, right click forward
	a.pageView.OnTapped = a.onPrev
	a.pageView.OnTappedSecondary = a.onNext

	a.textLabel = widget.NewLabel(hoverHint)
	a.textLabel.Wrapping = fyne.TextWrapWord

	a.pageLabel = widget.NewLabel("")

	a.prevBtn = ttwidget.NewButton("", a.onPrev)
	a.prevBtn.Icon = theme.NavigateBackIcon()
	a.nextBtn = ttwidget.NewButton("", a.onNext)
	a.nextBtn.Icon = theme.NavigateNextIcon()

	a.labelsCheck = widget.NewCheck("Show all translations", func(bool) {
		a.showPage()
	})

	toolbar := container.NewHBox(a.prevBtn, a.pageLabel, a.nextBtn, a.labelsCheck)
	content := container.NewBorder(toolbar, a.textLabel, nil, nil, a.pageView)

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.prevBtn.SetToolTip("Previous page (←)")
	a.nextBtn.SetToolTip("Next page (→)")

	a.setupKeyboardShortcuts()
}

func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft, fyne.KeyPageUp:
			a.onPrev()
		case fyne.KeyRight, fyne.KeyPageDown, fyne.KeySpace:
			a.onNext()
		case fyne.KeyHome:
			a.book.Seek(0)
			a.showPage()
		case fyne.KeyEnd:
			a.book.Seek(a.book.Len() - 1)
			a.showPage()
		case fyne.KeyL:
			a.labelsCheck.SetChecked(!a.labelsCheck.Checked)
		case fyne.KeyQ, fyne.KeyEscape:
			a.window.Close()
		}
	})
}

func (a *Application) onPrev() {
	if a.book.Prev() {
		a.showPage()
	}
}

func (a *Application) onNext() {
	if a.book.Next() {
		a.showPage()
	}
}

func (a *Application) onHover(texts []string) {
	if len(texts) == 0 {
		a.textLabel.SetText(hoverHint)
		return
	}
	a.textLabel.SetText(strings.Join(texts, "\n"))
}

// showPage loads the current page into the view and updates navigation
func (a *Application) showPage() {
	var face font.Face
	if a.labelsCheck != nil && a.labelsCheck.Checked {
		face = a.overlayFace()
	}

	spread, err := a.book.Load(face)
	if err != nil {
		a.pageView.Clear()
		a.textLabel.SetText(fmt.Sprintf("Error loading %s: %v", a.book.Current().Name(), err))
	} else {
		a.pageView.SetSpread(spread)
		a.textLabel.SetText(hoverHint)
	}

	a.pageLabel.SetText(fmt.Sprintf("%d / %d  %s", a.book.Index()+1, a.book.Len(), a.book.Current().Name()))
	if a.book.Index() == 0 {
		a.prevBtn.Disable()
	} else {
		a.prevBtn.Enable()
	}
	if a.book.Index() == a.book.Len()-1 {
		a.nextBtn.Disable()
	} else {
		a.nextBtn.Enable()
	}
}

func (a *Application) overlayFace() font.Face {
	if a.face != nil {
		return a.face
	}
	face, err := render.OverlayFace(a.config.Font, a.config.FontSize, a.config.Warn)
	if err != nil {
		fmt.Fprintf(a.config.Warn, "Warning: translation labels disabled: %v\n", err)
		return nil
	}
	a.face = face
	return face
}
