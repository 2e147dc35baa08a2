// Package input delivers global pointer and keyboard events as script
// events.
package input

import "uitranscriber/script"

// queueSize bounds the hand-off between the listener and its consumer.
const queueSize = 256

// Source is a global pointer/keyboard listener. Events is closed once the
// source stops.
type Source interface {
	Start() error
	Stop()
	Events() <-chan script.Event
}
