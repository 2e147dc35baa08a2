package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"uitranscriber/input"
	"uitranscriber/script"
)

var preamble = strings.Join(script.Preamble(script.DefaultInterpreter, script.DefaultScriptName, script.DefaultPause), "")

// runSession starts s.Run on a fake source and returns a function that
// stops the source and waits for Run to return.
func runSession(t *testing.T, s *Session) (*input.FakeSource, func()) {
	t.Helper()
	src := input.NewFake()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background(), src) }()
	return src, func() {
		src.Stop()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Run: %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Run did not return after source stopped")
		}
	}
}

func TestNewEmitsPreamble(t *testing.T) {
	s := New(Config{})
	defer s.Close()

	if s.Text() != preamble {
		t.Errorf("new session text:\n%s", s.Text())
	}
	if s.Recording() {
		t.Error("new session should not be recording")
	}
	if s.ID == "" {
		t.Error("session id not set")
	}
}

func TestRunTranscribes(t *testing.T) {
	s := New(Config{})
	defer s.Close()
	s.SetRecording(true)

	src, wait := runSession(t, s)
	src.SimType("hi")
	src.SimKey(script.KeyBackspace)
	src.SimClick(10, 20, script.ButtonLeft)
	wait()

	want := preamble + "write('hi')\npress('backspace', presses=1)\nclick(x=10, y=20)\n"
	if s.Text() != want {
		t.Errorf("got:\n%s\nwant:\n%s", s.Text(), want)
	}
}

func TestRunCancel(t *testing.T) {
	s := New(Config{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, input.NewFake()) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run ignored cancellation")
	}
}

func TestToggle(t *testing.T) {
	s := New(Config{})
	defer s.Close()

	if !s.Toggle() || !s.Recording() {
		t.Error("first Toggle should start recording")
	}
	if s.Toggle() || s.Recording() {
		t.Error("second Toggle should stop recording")
	}
}

func TestEventsIgnoredWhileStopped(t *testing.T) {
	s := New(Config{})
	defer s.Close()

	s.Handle(script.Char{Rune: 'x'})
	s.Handle(script.Click{X: 1, Y: 1, Pressed: true})
	if s.Text() != preamble {
		t.Errorf("events leaked into transcript:\n%s", s.Text())
	}
}

func TestFlushOnStopOption(t *testing.T) {
	s := New(Config{Script: script.Options{FlushOnStop: true}})
	defer s.Close()

	s.SetRecording(true)
	s.Handle(script.Char{Rune: 'x'})
	s.SetRecording(false)
	if !strings.HasSuffix(s.Text(), "write('x')\n") {
		t.Errorf("pending text not flushed on stop:\n%s", s.Text())
	}
}

func TestPendingAndFlush(t *testing.T) {
	s := New(Config{})
	defer s.Close()

	s.SetRecording(true)
	s.Handle(script.Char{Rune: 'a'})
	if text, _, _ := s.Pending(); text != "a" {
		t.Errorf("Pending() text = %q", text)
	}
	s.Flush()
	if text, _, _ := s.Pending(); text != "" {
		t.Errorf("Pending() after Flush = %q", text)
	}
	if !strings.HasSuffix(s.Text(), "write('a')\n") {
		t.Errorf("Flush did not emit:\n%s", s.Text())
	}
}

func TestClear(t *testing.T) {
	s := New(Config{})
	defer s.Close()

	s.SetRecording(true)
	s.Handle(script.Click{X: 1, Y: 2, Pressed: true})
	s.Handle(script.Char{Rune: 'z'})
	s.Clear()

	if s.Text() != preamble {
		t.Errorf("Clear left:\n%s", s.Text())
	}
	if text, _, _ := s.Pending(); text != "" {
		t.Errorf("Clear kept pending %q", text)
	}
	if !s.Recording() {
		t.Error("Clear should not change recording state")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{Output: filepath.Join(dir, "out", "transcribed.py")})
	defer s.Close()

	s.SetRecording(true)
	s.Handle(script.Click{X: 5, Y: 6, Pressed: true})

	path, err := s.Save("")
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != s.Text() {
		t.Errorf("saved file differs from transcript:\n%s", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Errorf("saved script not executable: %v", info.Mode())
	}
	if s.LastSaved() != path {
		t.Errorf("LastSaved() = %q, want %q", s.LastSaved(), path)
	}
}

func TestSaveExplicitPathOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.py")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	s := New(Config{})
	defer s.Close()

	if _, err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != preamble {
		t.Errorf("file not overwritten: %q", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestSaveEmptyPath(t *testing.T) {
	s := New(Config{})
	defer s.Close()

	if _, err := s.Save(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("Save(\"\") = %v, want ErrEmptyPath", err)
	}
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (w *syncBuffer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.Write(p)
}

func (w *syncBuffer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.String()
}

func TestEcho(t *testing.T) {
	var out syncBuffer
	s := New(Config{Echo: &out})

	s.SetRecording(true)
	s.Handle(script.Click{X: 3, Y: 4, Pressed: true})
	s.Close()

	if got := out.String(); got != preamble+"click(x=3, y=4)\n" {
		t.Errorf("echo got:\n%s", got)
	}
}

func TestChangedSignalled(t *testing.T) {
	s := New(Config{})
	defer s.Close()

	// drain the signal from the preamble
	select {
	case <-s.Changed():
	case <-time.After(time.Second):
		t.Fatal("no change signal for preamble")
	}

	s.SetRecording(true)
	select {
	case <-s.Changed():
	case <-time.After(time.Second):
		t.Fatal("no change signal for recording start")
	}
}

func TestCloseIdempotent(t *testing.T) {
	s := New(Config{})
	s.Close()
	s.Close()
}

func TestDirty(t *testing.T) {
	s := New(Config{Output: filepath.Join(t.TempDir(), "d.py")})
	defer s.Close()

	if s.Dirty() {
		t.Error("fresh session should not be dirty")
	}
	s.SetRecording(true)
	s.Handle(script.Click{X: 1, Y: 1, Pressed: true})
	if !s.Dirty() {
		t.Error("session with a click should be dirty")
	}
	if _, err := s.Save(""); err != nil {
		t.Fatal(err)
	}
	if s.Dirty() {
		t.Error("session should be clean after Save")
	}
	s.Clear()
	if s.Dirty() {
		t.Error("a cleared session holds only the preamble and should not be dirty")
	}
	s.Handle(script.Char{Rune: 'x'})
	s.Flush()
	if !s.Dirty() {
		t.Error("input after Clear should mark the session dirty")
	}
}

func TestClearKeepsSavedScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kept.py")
	s := New(Config{Output: path})
	defer s.Close()

	s.SetRecording(true)
	s.Handle(script.Click{X: 10, Y: 20, Pressed: true})
	if _, err := s.Save(""); err != nil {
		t.Fatal(err)
	}
	s.Clear()

	if s.Dirty() {
		t.Fatal("Clear after Save left the session dirty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "click(x=10, y=20)\n") {
		t.Errorf("saved script lost its click:\n%s", data)
	}
}

func TestEchoAcrossClear(t *testing.T) {
	var out syncBuffer
	s := New(Config{Echo: &out})

	s.SetRecording(true)
	s.Handle(script.Click{X: 1, Y: 1, Pressed: true})
	s.Clear()
	s.Close()

	if got, want := out.String(), preamble+"click(x=1, y=1)\n"+preamble; got != want {
		t.Errorf("echo got:\n%s", got)
	}
}
