package session

import (
	"strings"
	"sync"
)

// Transcript accumulates emitted script lines. Append never blocks beyond a
// short lock; readers are woken through Updates.
type Transcript struct {
	mu      sync.Mutex
	text    strings.Builder
	lines   []string
	unread  int
	version uint64
	updates chan struct{}
}

func NewTranscript() *Transcript {
	return &Transcript{updates: make(chan struct{}, 1)}
}

// Append is a script.Sink.
func (t *Transcript) Append(line string) {
	t.mu.Lock()
	t.text.WriteString(line)
	t.lines = append(t.lines, line)
	t.version++
	t.mu.Unlock()

	select {
	case t.updates <- struct{}{}:
	default:
	}
}

// Updates is signalled at least once after any Append.
func (t *Transcript) Updates() <-chan struct{} {
	return t.updates
}

func (t *Transcript) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text.String()
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lines)
}

// Unread returns lines appended since the previous call.
func (t *Transcript) Unread() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := append([]string(nil), t.lines[t.unread:]...)
	t.unread = len(t.lines)
	return out
}

// Tail returns the last n lines.
func (t *Transcript) Tail(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > len(t.lines) {
		n = len(t.lines)
	}
	return append([]string(nil), t.lines[len(t.lines)-n:]...)
}

func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text.Reset()
	t.lines = nil
	t.unread = 0
	t.version++
}

// Version changes on every Append and Reset.
func (t *Transcript) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}
