package cardview

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Browser is the navigable host shown in the address bar.
type Browser interface {
	CurrentPath() string
	Navigate(path string)
	Back() bool
	Subscribe(fn func()) (unsubscribe func())
}

// AddressBar shows the host location and lets the user move around, like a
// browser toolbar next to the card.
type AddressBar struct {
	browser     Browser
	entry       *widget.Entry
	back        *widget.Button
	content     fyne.CanvasObject
	unsubscribe func()
}

// NewAddressBar creates an address bar for browser.
func NewAddressBar(browser Browser) *AddressBar {
	bar := &AddressBar{browser: browser}

	bar.entry = widget.NewEntry()
	bar.entry.SetPlaceHolder("/path")
	bar.entry.SetText(browser.CurrentPath())
	bar.entry.OnSubmitted = bar.submit

	bar.back = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		browser.Back()
	})
	open := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		bar.submit(bar.entry.Text)
	})

	bar.content = container.NewBorder(nil, nil, bar.back, open, bar.entry)
	bar.unsubscribe = browser.Subscribe(func() {
		path := browser.CurrentPath()
		fyne.Do(func() {
			bar.entry.SetText(path)
		})
	})
	return bar
}

// Content returns the canvas object to place in a window.
func (bar *AddressBar) Content() fyne.CanvasObject {
	return bar.content
}

// Path returns the text in the entry.
func (bar *AddressBar) Path() string {
	return bar.entry.Text
}

// Close stops following the browser.
func (bar *AddressBar) Close() {
	if bar.unsubscribe != nil {
		bar.unsubscribe()
		bar.unsubscribe = nil
	}
}

func (bar *AddressBar) submit(text string) {
	path := strings.TrimSpace(text)
	if path == "" {
		return
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	bar.browser.Navigate(path)
}
