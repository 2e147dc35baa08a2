// Package hotkey watches for the global recording chord, Ctrl+Shift+R.
package hotkey

const Chord = "Ctrl+Shift+R"

// Hotkey delivers one Keydown per chord press and one Keyup per release.
type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
