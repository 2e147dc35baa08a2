package main

import (
	"fmt"
	"io"
)

// frontend abstracts the display layer so the TUI, headless mode and test
// mode receive the same session notifications.
type frontend interface {
	// Changed is called after new script lines, recording toggles and saves.
	Changed()
	Status(text string)
	Error(err error)
}

// consoleFrontend reports to a stream, normally stderr, so that stdout
// carries only script lines.
type consoleFrontend struct {
	w io.Writer
}

func (c consoleFrontend) Changed()           {}
func (c consoleFrontend) Status(text string) { fmt.Fprintf(c.w, "[uitranscriber] %s\n", text) }
func (c consoleFrontend) Error(err error)    { fmt.Fprintf(c.w, "[uitranscriber] error: %v\n", err) }
