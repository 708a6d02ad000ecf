package cardview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"autonav/internal/core/input"
)

const (
	progressHeight = float32(18)
	overlayText    = float32(12)
	titleText      = float32(16)
)

// Controller receives the input the view picks up.
type Controller interface {
	Activity(signal input.Signal)
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp(x, y float64)
	PointerCancel()
}

// View is the card widget: title, progress bar with status overlay and an
// optional debug panel. Pointer, wheel and touch input go to the controller.
type View struct {
	widget.BaseWidget

	controller Controller

	title      *canvas.Text
	track      *canvas.Rectangle
	fill       *canvas.Rectangle
	overlay    *canvas.Text
	progress   *fyne.Container
	debug      *fyne.Container
	background *canvas.Rectangle
	fraction   float64
}

var (
	_ desktop.Mouseable = (*View)(nil)
	_ desktop.Hoverable = (*View)(nil)
	_ fyne.Scrollable   = (*View)(nil)
	_ mobile.Touchable  = (*View)(nil)
)

// NewView creates a card view bound to controller.
func NewView(controller Controller) *View {
	view := &View{controller: controller}

	view.title = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	view.title.TextStyle = fyne.TextStyle{Bold: true}
	view.title.TextSize = titleText

	view.track = canvas.NewRectangle(color.Transparent)
	view.track.CornerRadius = progressHeight / 2
	view.fill = canvas.NewRectangle(color.Transparent)
	view.fill.CornerRadius = progressHeight / 2
	view.overlay = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	view.overlay.Alignment = fyne.TextAlignCenter
	view.overlay.TextSize = overlayText
	view.progress = container.New(&progressLayout{view: view}, view.track, view.fill, view.overlay)

	view.debug = container.NewVBox()
	view.background = canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	view.background.CornerRadius = 16

	view.ExtendBaseWidget(view)
	return view
}

// CreateRenderer implements fyne.Widget.
func (view *View) CreateRenderer() fyne.WidgetRenderer {
	body := container.NewVBox(view.title, view.progress, view.debug)
	return widget.NewSimpleRenderer(container.NewStack(view.background, container.NewPadded(body)))
}

// Render applies state. It must run on the fyne goroutine.
func (view *View) Render(state State) {
	view.title.Text = state.Title
	if state.Title == "" {
		view.title.Hide()
	} else {
		view.title.Show()
	}

	view.fraction = clamp(state.Progress)
	view.track.FillColor = orTransparent(state.Background)
	view.fill.FillColor = orTransparent(state.Foreground)
	view.overlay.Text = state.OverlayText
	if state.ShowOverlay {
		view.overlay.Show()
	} else {
		view.overlay.Hide()
	}
	if state.ShowProgress {
		view.progress.Show()
	} else {
		view.progress.Hide()
	}

	view.debug.RemoveAll()
	for _, line := range state.Debug {
		text := canvas.NewText(line, theme.Color(theme.ColorNameForeground))
		text.TextSize = overlayText
		view.debug.Add(text)
	}
	if len(state.Debug) == 0 {
		view.debug.Hide()
	} else {
		view.debug.Show()
	}

	view.progress.Refresh()
	view.Refresh()
}

// OverlayText returns the text currently drawn on the progress bar.
func (view *View) OverlayText() string {
	return view.overlay.Text
}

// Fraction returns the drawn progress fraction.
func (view *View) Fraction() float64 {
	return view.fraction
}

// AttachKeys forwards key presses on window to the controller.
func (view *View) AttachKeys(window fyne.Window) {
	if deskCanvas, ok := window.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(*fyne.KeyEvent) {
			view.controller.Activity(input.SignalKeyDown)
		})
		return
	}
	window.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) {
		view.controller.Activity(input.SignalKeyDown)
	})
}

// MouseDown implements desktop.Mouseable.
func (view *View) MouseDown(event *desktop.MouseEvent) {
	view.controller.Activity(input.SignalMouseDown)
	view.controller.PointerDown(float64(event.Position.X), float64(event.Position.Y))
}

// MouseUp implements desktop.Mouseable.
func (view *View) MouseUp(event *desktop.MouseEvent) {
	view.controller.PointerUp(float64(event.Position.X), float64(event.Position.Y))
}

// MouseIn implements desktop.Hoverable.
func (view *View) MouseIn(event *desktop.MouseEvent) {
	view.MouseMoved(event)
}

// MouseMoved implements desktop.Hoverable.
func (view *View) MouseMoved(event *desktop.MouseEvent) {
	view.controller.Activity(input.SignalMouseMove)
	view.controller.PointerMove(float64(event.Position.X), float64(event.Position.Y))
}

// MouseOut implements desktop.Hoverable.
func (view *View) MouseOut() {}

// Scrolled implements fyne.Scrollable.
func (view *View) Scrolled(*fyne.ScrollEvent) {
	view.controller.Activity(input.SignalWheel)
}

// TouchDown implements mobile.Touchable.
func (view *View) TouchDown(event *mobile.TouchEvent) {
	view.controller.Activity(input.SignalTouchStart)
	view.controller.PointerDown(float64(event.Position.X), float64(event.Position.Y))
}

// TouchUp implements mobile.Touchable.
func (view *View) TouchUp(event *mobile.TouchEvent) {
	view.controller.PointerUp(float64(event.Position.X), float64(event.Position.Y))
}

// TouchCancel implements mobile.Touchable.
func (view *View) TouchCancel(*mobile.TouchEvent) {
	view.controller.PointerCancel()
}

// progressLayout stretches the track, sizes the fill by the view's fraction
// and centres the overlay text.
type progressLayout struct {
	view *View
}

func (layout *progressLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	track, fill, label := objects[0], objects[1], objects[2]

	track.Move(fyne.NewPos(0, 0))
	track.Resize(size)

	fill.Move(fyne.NewPos(0, 0))
	fill.Resize(fyne.NewSize(size.Width*float32(layout.view.fraction), size.Height))

	labelSize := label.MinSize()
	label.Move(fyne.NewPos(0, (size.Height-labelSize.Height)/2))
	label.Resize(fyne.NewSize(size.Width, labelSize.Height))
}

func (layout *progressLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	height := progressHeight
	if len(objects) >= 3 {
		if labelHeight := objects[2].MinSize().Height; labelHeight > height {
			height = labelHeight
		}
	}
	return fyne.NewSize(120, height)
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func orTransparent(value color.Color) color.Color {
	if value == nil {
		return color.Transparent
	}
	return value
}
