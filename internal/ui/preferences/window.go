package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"autonav/internal/core/model"
)

var modeOptions = []string{string(model.ModeNone), string(model.ModeBack), string(model.ModePath)}

// Window is the card settings editor.
type Window struct {
	window fyne.Window
	onSave func(model.Config)

	title       *widget.Entry
	mode        *widget.RadioGroup
	path        *widget.Entry
	delay       *widget.Entry
	stopAfter   *widget.Check
	idleCheck   *widget.Check
	idleTimeout *widget.Entry
	resetOnView *widget.Check
	showStatus  *widget.Check
	hideBar     *widget.Check
	themeColors *widget.Check
	foreground  *widget.Entry
	background  *widget.Entry
	debug       *widget.Check
	errorLabel  *widget.Label

	pathRow   *fyne.Container
	idleRow   *fyne.Container
	colorRows *fyne.Container
}

// New creates the settings window. onSave receives the validated configuration.
func New(app fyne.App, config model.Config, onSave func(model.Config)) *Window {
	prefs := &Window{
		window:      app.NewWindow("Auto navigate settings"),
		onSave:      onSave,
		title:       widget.NewEntry(),
		path:        widget.NewEntry(),
		delay:       widget.NewEntry(),
		idleTimeout: widget.NewEntry(),
		foreground:  widget.NewEntry(),
		background:  widget.NewEntry(),
		stopAfter:   widget.NewCheck("Stop after navigation", nil),
		resetOnView: widget.NewCheck("Restart when the view changes", nil),
		showStatus:  widget.NewCheck("Show status overlay", nil),
		hideBar:     widget.NewCheck("Hide progress bar", nil),
		debug:       widget.NewCheck("Debug", nil),
		errorLabel:  widget.NewLabel(""),
	}
	prefs.title.SetPlaceHolder("leave empty to hide")
	prefs.path.SetPlaceHolder("/lovelace/0")
	prefs.path.Validator = ValidatePath
	prefs.errorLabel.Wrapping = fyne.TextWrapWord
	prefs.errorLabel.Importance = widget.DangerImportance

	prefs.mode = widget.NewRadioGroup(modeOptions, func(string) { prefs.syncVisibility() })
	prefs.mode.Horizontal = true
	prefs.idleCheck = widget.NewCheck("Enable idle timeout", func(bool) { prefs.syncVisibility() })
	prefs.themeColors = widget.NewCheck("Use theme colors", func(bool) { prefs.syncVisibility() })

	prefs.pathRow = container.NewBorder(nil, nil, widget.NewLabel("Navigation path"), nil, prefs.path)
	prefs.idleRow = container.NewBorder(nil, nil, widget.NewLabel("Idle timeout"), widget.NewLabel("sec"), prefs.idleTimeout)
	prefs.colorRows = container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Progress foreground"), nil, prefs.foreground),
		container.NewBorder(nil, nil, widget.NewLabel("Progress background"), nil, prefs.background),
	)

	form := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Title"), nil, prefs.title),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Navigation mode", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.mode,
		prefs.pathRow,
		container.NewBorder(nil, nil, widget.NewLabel("Navigation delay"), widget.NewLabel("sec"), prefs.delay),
		prefs.stopAfter,
		widget.NewSeparator(),
		prefs.idleCheck,
		prefs.idleRow,
		prefs.resetOnView,
		widget.NewSeparator(),
		prefs.showStatus,
		prefs.hideBar,
		prefs.themeColors,
		prefs.colorRows,
		widget.NewSeparator(),
		prefs.debug,
		prefs.errorLabel,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", prefs.window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	prefs.window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	prefs.window.Resize(fyne.NewSize(420, 560))
	prefs.window.SetCloseIntercept(prefs.window.Hide)

	prefs.Update(config)
	return prefs
}

// Show displays the settings window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Update replaces the form values with config.
func (prefs *Window) Update(config model.Config) {
	draft := DraftFrom(config)
	prefs.title.SetText(draft.Title)
	prefs.mode.SetSelected(string(draft.Mode))
	prefs.path.SetText(draft.Path)
	prefs.delay.SetText(draft.Delay)
	prefs.stopAfter.SetChecked(draft.StopAfterNavigation)
	prefs.idleCheck.SetChecked(draft.IdleEnabled)
	prefs.idleTimeout.SetText(draft.IdleTimeout)
	prefs.resetOnView.SetChecked(draft.ResetOnViewChange)
	prefs.showStatus.SetChecked(draft.ShowStatus)
	prefs.hideBar.SetChecked(draft.HideProgress)
	prefs.themeColors.SetChecked(draft.UseThemeColors)
	prefs.foreground.SetText(draft.Foreground)
	prefs.background.SetText(draft.Background)
	prefs.debug.SetChecked(draft.Debug)
	prefs.errorLabel.SetText("")
	prefs.syncVisibility()
}

// Draft returns the current form values.
func (prefs *Window) Draft() Draft {
	return Draft{
		Title:               prefs.title.Text,
		Mode:                model.NavigationMode(prefs.mode.Selected),
		Path:                prefs.path.Text,
		Delay:               prefs.delay.Text,
		StopAfterNavigation: prefs.stopAfter.Checked,
		IdleEnabled:         prefs.idleCheck.Checked,
		IdleTimeout:         prefs.idleTimeout.Text,
		ResetOnViewChange:   prefs.resetOnView.Checked,
		ShowStatus:          prefs.showStatus.Checked,
		HideProgress:        prefs.hideBar.Checked,
		UseThemeColors:      prefs.themeColors.Checked,
		Foreground:          prefs.foreground.Text,
		Background:          prefs.background.Text,
		Debug:               prefs.debug.Checked,
	}
}

func (prefs *Window) syncVisibility() {
	setVisible(prefs.pathRow, prefs.mode.Selected == string(model.ModePath))
	setVisible(prefs.idleRow, prefs.idleCheck.Checked)
	setVisible(prefs.colorRows, !prefs.themeColors.Checked)
}

func (prefs *Window) handleSave() {
	config, err := prefs.Draft().Config()
	if err != nil {
		prefs.errorLabel.SetText(err.Error())
		return
	}
	prefs.errorLabel.SetText("")
	if prefs.onSave != nil {
		prefs.onSave(config)
	}
	prefs.window.Hide()
}

func setVisible(object fyne.CanvasObject, visible bool) {
	if visible {
		object.Show()
	} else {
		object.Hide()
	}
}
