package input

import (
	"math"

	"autonav/internal/core/model"
)

// DefaultDragThreshold is the pointer travel, in pixels, that turns a tap into a drag.
const DefaultDragThreshold = 6.0

// Toggler flips the paused state of a scheduler.
type Toggler interface {
	Mode() model.NavigationMode
	TogglePause()
}

// PauseController toggles pause on a tap. A press followed by a release with
// less than the threshold of travel is a tap.
type PauseController struct {
	target    Toggler
	threshold float64
	editMode  bool

	pressed bool
	dragged bool
	startX  float64
	startY  float64
}

// NewPauseController creates a controller. A threshold <= 0 uses DefaultDragThreshold.
func NewPauseController(target Toggler, threshold float64) *PauseController {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	return &PauseController{target: target, threshold: threshold}
}

// SetEditMode enables or disables the controller while the card is being edited.
func (controller *PauseController) SetEditMode(enabled bool) {
	controller.editMode = enabled
	if enabled {
		controller.pressed = false
	}
}

// EditMode reports whether edit mode is on.
func (controller *PauseController) EditMode() bool {
	return controller.editMode
}

// Press records where a pointer went down.
func (controller *PauseController) Press(x, y float64) {
	if !controller.enabled() {
		return
	}
	controller.pressed = true
	controller.dragged = false
	controller.startX = x
	controller.startY = y
}

// Move marks the gesture as a drag once the pointer travelled past the threshold.
func (controller *PauseController) Move(x, y float64) {
	if !controller.pressed || controller.dragged {
		return
	}
	if math.Hypot(x-controller.startX, y-controller.startY) > controller.threshold {
		controller.dragged = true
	}
}

// Release ends the gesture and toggles pause when it was a tap. It reports
// whether pause was toggled.
func (controller *PauseController) Release(x, y float64) bool {
	if !controller.pressed {
		return false
	}
	controller.Move(x, y)
	controller.pressed = false
	if controller.dragged || !controller.enabled() {
		return false
	}
	controller.target.TogglePause()
	return true
}

// Cancel abandons the gesture in progress without toggling.
func (controller *PauseController) Cancel() {
	controller.pressed = false
	controller.dragged = false
}

func (controller *PauseController) enabled() bool {
	return !controller.editMode && controller.target.Mode() != model.ModeNone
}
