// Package script turns a stream of pointer and keyboard events into a
// pyautogui script, one line at a time.
package script

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"uitranscriber/log"
)

const (
	cmdClick = "click"
	cmdWrite = "write"
	cmdPress = "press"

	argPresses = "presses"

	// written in place of a special key that has no pyautogui name
	unhandledText = "unhandled"
)

// Sink receives each emitted line, newline included. It is called with the
// engine lock held and must not block.
type Sink func(line string)

// Options tunes the generated script. The zero value reproduces the
// recorder's historical output.
type Options struct {
	Interpreter string  // shebang interpreter, default "python"
	ScriptName  string  // name in the usage comment, default "transcribed.py"
	Pause       float64 // pyautogui.PAUSE, default 0.5

	// FlushOnStop emits pending text and key runs when recording stops
	// instead of holding them until the next click.
	FlushOnStop bool
	// RepeatAllSpecial coalesces runs of any named special key, not only
	// backspace.
	RepeatAllSpecial bool
	// EscapeText escapes backslashes and single quotes inside write().
	EscapeText bool
}

type repeatRun struct {
	key   Key
	count int
}

// Engine is the transcription state machine. All methods are safe for
// concurrent use; calls are serialized.
type Engine struct {
	mu   sync.Mutex
	sink Sink
	opts Options

	preamble []string

	recording bool
	chars     []rune
	repeat    *repeatRun

	emitted  int
	lastMark int
}

// Start creates an idle engine and emits the preamble through sink.
func Start(sink Sink, opts Options) *Engine {
	if opts.Interpreter == "" {
		opts.Interpreter = DefaultInterpreter
	}
	if opts.ScriptName == "" {
		opts.ScriptName = DefaultScriptName
	}
	if opts.Pause == 0 {
		opts.Pause = DefaultPause
	}
	e := &Engine{
		sink:     sink,
		opts:     opts,
		preamble: Preamble(opts.Interpreter, opts.ScriptName, opts.Pause),
	}
	e.mu.Lock()
	e.emitPreamble()
	e.mu.Unlock()
	return e
}

// SetRecording gates all event handling.
func (e *Engine) SetRecording(enabled bool) {
	var kept string
	e.mu.Lock()
	if e.recording && !enabled && e.pending() {
		if e.opts.FlushOnStop {
			e.flush()
		} else {
			kept = fmt.Sprintf("%d chars, %s", len(e.chars), e.repeatDesc())
		}
	}
	e.recording = enabled
	e.mu.Unlock()

	if kept != "" {
		log.Warn("recording stopped with unflushed input: " + kept)
	}
}

// Options returns the effective options, defaults filled in.
func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Recording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recording
}

// Handle dispatches ev to OnPointer or OnKey.
func (e *Engine) Handle(ev Event) {
	switch ev := ev.(type) {
	case Click:
		e.OnPointer(ev)
	case Char:
		e.OnKey(ev)
	case Special:
		e.OnKey(ev)
	}
}

// OnPointer flushes buffered text and key runs, then emits a click for a
// button press. Releases only flush.
func (e *Engine) OnPointer(c Click) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.recording {
		return
	}
	e.flush()

	if !c.Pressed {
		return
	}
	x := int(math.RoundToEven(c.X))
	y := int(math.RoundToEven(c.Y))
	if c.Button == ButtonLeft {
		e.emitCommand(fmt.Sprintf("%s(x=%d, y=%d)", cmdClick, x, y))
	} else {
		e.emitCommand(fmt.Sprintf("%s(x=%d, y=%d, button=\"right\")", cmdClick, x, y))
	}
}

// OnKey buffers characters and counts repeatable special keys. A special
// key without a pyautogui name is written out as a placeholder at once.
func (e *Engine) OnKey(k KeyEvent) {
	sp, special := k.(Special)
	handled := e.onKey(k)
	// logged outside the engine lock
	if special && handled {
		if _, named := sp.Key.Name(); !named {
			log.Warnf("unhandled special key: %s", sp.Key)
		} else {
			log.Debug("special key " + sp.Key.String())
		}
	}
}

// onKey applies k and reports whether recording was on.
func (e *Engine) onKey(k KeyEvent) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.recording {
		return false
	}

	switch k := k.(type) {
	case Char:
		e.chars = append(e.chars, k.Rune)
	case Special:
		if _, ok := k.Key.Name(); !ok {
			e.emitCommand(fmt.Sprintf("%s('%s')", cmdWrite, unhandledText))
			return true
		}
		if !e.repeatable(k.Key) {
			return true
		}
		if e.repeat != nil && e.repeat.key != k.Key {
			e.flushRepeat()
		}
		if e.repeat == nil {
			e.repeat = &repeatRun{key: k.Key}
		}
		e.repeat.count++
	}
	return true
}

// Flush emits any pending text and key run without a click.
func (e *Engine) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flush()
}

// Clear drops pending input and re-emits the preamble. Recording state is
// left as is.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chars = nil
	e.repeat = nil
	e.emitted = 0
	e.lastMark = 0
	e.emitPreamble()
}

// Pending reports what is buffered but not yet emitted.
func (e *Engine) Pending() (text string, key Key, presses int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.repeat != nil {
		key, presses = e.repeat.key, e.repeat.count
	}
	return string(e.chars), key, presses
}

// LastMark is the offset, in bytes of emitted text since the last preamble
// began, at which the most recent command line starts.
func (e *Engine) LastMark() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastMark
}

func (e *Engine) repeatable(k Key) bool {
	return k == KeyBackspace || e.opts.RepeatAllSpecial
}

func (e *Engine) pending() bool {
	return len(e.chars) > 0 || e.repeat != nil
}

func (e *Engine) repeatDesc() string {
	if e.repeat == nil {
		return "no key run"
	}
	return fmt.Sprintf("%s x%d", e.repeat.key, e.repeat.count)
}

// flush writes chars before the key run; callers hold mu.
func (e *Engine) flush() {
	if len(e.chars) > 0 {
		text := string(e.chars)
		if e.opts.EscapeText {
			text = escape(text)
		}
		e.emitCommand(fmt.Sprintf("%s('%s')", cmdWrite, text))
		e.chars = nil
	}
	e.flushRepeat()
}

func (e *Engine) flushRepeat() {
	if e.repeat == nil {
		return
	}
	name, _ := e.repeat.key.Name()
	e.emitCommand(fmt.Sprintf("%s('%s', %s=%d)", cmdPress, name, argPresses, e.repeat.count))
	e.repeat = nil
}

func (e *Engine) emitPreamble() {
	for _, line := range e.preamble {
		e.emit(line)
	}
}

func (e *Engine) emitCommand(cmd string) {
	e.lastMark = e.emitted
	e.emit(cmd + "\n")
}

func (e *Engine) emit(line string) {
	e.emitted += len(line)
	if e.sink != nil {
		e.sink(line)
	}
}

var escaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func escape(s string) string {
	return escaper.Replace(s)
}
