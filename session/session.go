// Package session hosts one transcription engine: it feeds events from an
// input source into the engine, keeps the emitted script, and implements
// the record/stop/save/clear operations a front end exposes.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"uitranscriber/beep"
	"uitranscriber/clipboard"
	"uitranscriber/input"
	"uitranscriber/log"
	"uitranscriber/script"
)

var ErrEmptyPath = errors.New("no output path given")

type Config struct {
	Script script.Options
	Output string    // default path for Save
	Echo   io.Writer // if set, every emitted line is copied here
	Beep   bool
}

type Session struct {
	ID string

	cfg        Config
	mu         sync.Mutex
	engine     *script.Engine
	transcript *Transcript

	pubMu   sync.Mutex
	changed chan struct{}
	done    chan struct{}
	drained chan struct{}
	once    sync.Once

	savedMu      sync.Mutex
	lastSaved    string
	savedVersion uint64
}

// New starts an engine (emitting the preamble) with recording off.
func New(cfg Config) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		cfg:        cfg,
		transcript: NewTranscript(),
		changed:    make(chan struct{}, 1),
		done:       make(chan struct{}),
		drained:    make(chan struct{}),
	}
	s.engine = script.Start(s.transcript.Append, cfg.Script)
	// a bare preamble is nothing worth saving
	s.savedVersion = s.transcript.Version()
	log.SessionStart(s.ID, s.engine.Options().Interpreter, cfg.Script.FlushOnStop, cfg.Script.RepeatAllSpecial)
	go s.drain()
	return s
}

// Run feeds src into the engine until ctx is done or src closes.
func (s *Session) Run(ctx context.Context, src input.Source) error {
	if err := src.Start(); err != nil {
		return fmt.Errorf("start input source: %w", err)
	}
	defer src.Stop()

	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Handle(ev)
		}
	}
}

// Handle processes one event synchronously.
func (s *Session) Handle(ev script.Event) {
	s.mu.Lock()
	s.engine.Handle(ev)
	s.mu.Unlock()
}

func (s *Session) SetRecording(on bool) {
	s.mu.Lock()
	was := s.engine.Recording()
	s.engine.SetRecording(on)
	s.mu.Unlock()

	if was == on {
		return
	}
	if on {
		log.Info("recording_start")
		if s.cfg.Beep {
			beep.PlayStart()
		}
	} else {
		log.Info("recording_stop")
		if s.cfg.Beep {
			beep.PlayEnd()
		}
	}
	s.notify()
}

// Toggle flips recording and returns the new state.
func (s *Session) Toggle() bool {
	on := !s.Recording()
	s.SetRecording(on)
	return on
}

func (s *Session) Recording() bool {
	return s.engine.Recording()
}

// Flush emits pending text and key runs without waiting for a click.
func (s *Session) Flush() {
	s.mu.Lock()
	s.engine.Flush()
	s.mu.Unlock()
}

// Clear discards the transcript and pending input and restarts the script
// from its preamble.
func (s *Session) Clear() {
	s.mu.Lock()
	// lines not yet logged or echoed would be lost by the reset
	s.publish()
	s.transcript.Reset()
	s.engine.Clear()
	version := s.transcript.Version()
	s.mu.Unlock()

	// a bare preamble must not replace a saved script on exit
	s.savedMu.Lock()
	s.savedVersion = version
	s.savedMu.Unlock()
	log.Info("session_clear")
}

// Save writes the transcript to path, or to the configured output when path
// is empty, and returns the path written.
func (s *Session) Save(path string) (string, error) {
	if path == "" {
		path = s.cfg.Output
	}
	if path == "" {
		return "", ErrEmptyPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	s.mu.Lock()
	text := s.transcript.String()
	version := s.transcript.Version()
	s.mu.Unlock()
	if err := os.WriteFile(path, []byte(text), 0755); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	// WriteFile keeps the mode of an existing file; the shebang wants +x.
	if err := os.Chmod(path, 0755); err != nil {
		return "", fmt.Errorf("chmod script: %w", err)
	}
	log.Saved(path, len(text))

	s.savedMu.Lock()
	s.lastSaved = path
	s.savedVersion = version
	s.savedMu.Unlock()
	s.notify()
	return path, nil
}

// Dirty reports whether the transcript changed since the last Save.
func (s *Session) Dirty() bool {
	s.savedMu.Lock()
	defer s.savedMu.Unlock()
	return s.transcript.Version() != s.savedVersion
}

func (s *Session) LastSaved() string {
	s.savedMu.Lock()
	defer s.savedMu.Unlock()
	return s.lastSaved
}

// Copy puts the transcript on the system clipboard.
func (s *Session) Copy() error {
	if err := clipboard.Copy(s.transcript.String()); err != nil {
		return fmt.Errorf("copy script: %w", err)
	}
	return nil
}

func (s *Session) Text() string        { return s.transcript.String() }
func (s *Session) Lines() int          { return s.transcript.Len() }
func (s *Session) Tail(n int) []string { return s.transcript.Tail(n) }

// Pending reports buffered input not yet in the transcript.
func (s *Session) Pending() (text string, key script.Key, presses int) {
	return s.engine.Pending()
}

// Changed is signalled after new lines, recording changes, and saves.
func (s *Session) Changed() <-chan struct{} {
	return s.changed
}

// Close stops the background drain and logs the session end. Lines already
// in the transcript are logged before Close returns.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		<-s.drained
		log.SessionEnd(s.ID, s.transcript.Len())
	})
}

func (s *Session) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// drain moves new lines out to the script log and echo writer, off the
// engine's calling goroutine.
func (s *Session) drain() {
	defer close(s.drained)
	for {
		select {
		case <-s.transcript.Updates():
			s.publish()
		case <-s.done:
			s.publish()
			return
		}
	}
}

func (s *Session) publish() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	lines := s.transcript.Unread()
	if len(lines) == 0 {
		return
	}
	for _, line := range lines {
		log.ScriptLine(line)
		if s.cfg.Echo != nil {
			io.WriteString(s.cfg.Echo, line)
		}
	}
	s.notify()
}
