package script

import "fmt"

// Event is one raw input observation delivered by a source.
type Event interface {
	isEvent()
}

// KeyEvent is the keyboard half of Event: either a Char or a Special.
type KeyEvent interface {
	Event
	isKey()
}

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	}
	return fmt.Sprintf("button(%d)", int(b))
}

// Click is a pointer button transition at screen coordinates.
type Click struct {
	X, Y    float64
	Button  Button
	Pressed bool
}

// Char is a printable character key.
type Char struct {
	Rune rune
}

// Special is a named, non-printing key.
type Special struct {
	Key Key
}

func (Click) isEvent()   {}
func (Char) isEvent()    {}
func (Special) isEvent() {}

func (Char) isKey()    {}
func (Special) isKey() {}
