package input

import (
	"errors"
	"sync"

	hook "github.com/robotn/gohook"

	"uitranscriber/log"
	"uitranscriber/script"
)

var (
	ErrAlreadyStarted = errors.New("input hook already started")
	ErrStopped        = errors.New("input hook stopped")
)

type hookSource struct {
	events chan script.Event
	stop   chan struct{}
	mu     sync.Mutex
	raw    chan hook.Event
	once   sync.Once
}

// NewHook creates a Source backed by the libuiohook global hook. On macOS
// the process needs Accessibility permission; on Linux an X11 session.
func NewHook() Source {
	return &hookSource{
		events: make(chan script.Event, queueSize),
		stop:   make(chan struct{}),
	}
}

func (h *hookSource) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.raw != nil {
		return ErrAlreadyStarted
	}
	select {
	case <-h.stop:
		return ErrStopped
	default:
	}
	h.raw = hook.Start()
	go h.run(h.raw)
	log.Info("input_hook_started")
	return nil
}

func (h *hookSource) run(raw chan hook.Event) {
	defer close(h.events)
	for {
		select {
		case <-h.stop:
			return
		case ev, ok := <-raw:
			if !ok {
				return
			}
			se, ok := translate(ev)
			if !ok {
				continue
			}
			select {
			case h.events <- se:
			case <-h.stop:
				return
			}
		}
	}
}

func (h *hookSource) Stop() {
	h.once.Do(func() {
		close(h.stop)
		h.mu.Lock()
		started := h.raw != nil
		h.mu.Unlock()
		if started {
			hook.End()
			log.Info("input_hook_stopped")
		} else {
			close(h.events)
		}
	})
}

func (h *hookSource) Events() <-chan script.Event {
	return h.events
}
