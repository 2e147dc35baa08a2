package hotkey

import (
	"sync"
	"sync/atomic"
	"time"
)

type Mode string

const (
	// ModeHold records while the chord is held and stops on release.
	ModeHold Mode = "hold"
	// ModeToggle keeps recording after a tap until the next tap.
	ModeToggle Mode = "toggle"
)

// StartEvent asks for recording to begin. Mode is provisional: a press
// starts as ModeToggle and becomes ModeHold once it outlasts the long-press
// threshold.
type StartEvent struct {
	Mode Mode
}

// Hybrid turns a Hotkey into start/stop requests. A tap toggles recording;
// a press held past longPress records until release.
type Hybrid struct {
	startCh chan StartEvent
	stopCh  chan struct{}
	toggle  atomic.Bool

	done chan struct{}
	once sync.Once
}

func NewHybrid(hk Hotkey, longPress time.Duration) *Hybrid {
	h := &Hybrid{
		startCh: make(chan StartEvent, 1),
		stopCh:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go h.run(hk, longPress)
	return h
}

func (h *Hybrid) Start() <-chan StartEvent { return h.startCh }

// StopChan is signalled when recording should end, in either mode.
func (h *Hybrid) StopChan() <-chan struct{} { return h.stopCh }

// IsToggle reports whether the current recording was started by a tap.
func (h *Hybrid) IsToggle() bool { return h.toggle.Load() }

// Close stops the controller goroutine. The underlying Hotkey is left
// registered.
func (h *Hybrid) Close() {
	h.once.Do(func() { close(h.done) })
}

type hybridState int

const (
	stIdle hybridState = iota
	stToggleRecording
)

func (h *Hybrid) run(hk Hotkey, longPress time.Duration) {
	state := stIdle
	for {
		switch state {
		case stIdle:
			if !h.wait(hk.Keydown()) {
				return
			}
			h.toggle.Store(true)
			select {
			case h.startCh <- StartEvent{Mode: ModeToggle}:
			case <-h.done:
				return
			}

			timer := time.NewTimer(longPress)
			select {
			case <-timer.C:
				h.toggle.Store(false)
				if !h.wait(hk.Keyup()) {
					return
				}
				h.signalStop()
			case <-hk.Keyup():
				timer.Stop()
				state = stToggleRecording
			case <-h.done:
				timer.Stop()
				return
			}

		case stToggleRecording:
			// the next press stops on its release, however long it is held
			if !h.wait(hk.Keydown()) || !h.wait(hk.Keyup()) {
				return
			}
			h.signalStop()
			state = stIdle
		}
	}
}

func (h *Hybrid) wait(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hybrid) signalStop() {
	select {
	case h.stopCh <- struct{}{}:
	default:
	}
}
