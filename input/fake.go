package input

import (
	"sync"

	"uitranscriber/script"
)

// FakeSource is a Source driven by the Sim* methods.
type FakeSource struct {
	events chan script.Event
	mu     sync.Mutex
	closed bool
}

func NewFake() *FakeSource {
	return &FakeSource{events: make(chan script.Event, queueSize)}
}

func (f *FakeSource) Start() error                 { return nil }
func (f *FakeSource) Events() <-chan script.Event { return f.events }

func (f *FakeSource) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
}

// Send queues ev; it is dropped once the source is stopped.
func (f *FakeSource) Send(ev script.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.events <- ev
}

// SimClick sends a press followed by a release.
func (f *FakeSource) SimClick(x, y float64, b script.Button) {
	f.Send(script.Click{X: x, Y: y, Button: b, Pressed: true})
	f.Send(script.Click{X: x, Y: y, Button: b, Pressed: false})
}

func (f *FakeSource) SimType(text string) {
	for _, r := range text {
		f.Send(script.Char{Rune: r})
	}
}

func (f *FakeSource) SimKey(k script.Key) {
	f.Send(script.Special{Key: k})
}
