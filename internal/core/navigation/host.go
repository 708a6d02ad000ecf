// Package navigation performs card-initiated navigation and watches the
// resulting location changes for back-navigation bounce loops.
package navigation

// Host is the environment the card navigates in.
type Host interface {
	// CurrentPath returns the current location.
	CurrentPath() string
	// Push moves to path without a reload and broadcasts a location change.
	Push(path string)
	// Back goes one step back in history and reports whether it moved. The
	// resulting change is broadcast like any other.
	Back() bool
	// Subscribe registers fn for every location change broadcast. The change
	// carries no payload; fn re-reads CurrentPath.
	Subscribe(fn func()) (unsubscribe func())
}

// Kind identifies a card-initiated navigation.
type Kind string

const (
	KindBack Kind = "back"
	KindPath Kind = "path"
)
