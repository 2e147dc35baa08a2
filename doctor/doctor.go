// Package doctor runs interactive checks of everything the recorder needs
// from the host: the global input hook, synthetic input, the hotkey, and
// the clipboard.
package doctor

import (
	"fmt"
	"time"

	"uitranscriber/clipboard"
	"uitranscriber/hotkey"
	"uitranscriber/input"
	"uitranscriber/script"
)

const (
	clickTimeout  = 15 * time.Second
	probeTimeout  = 3 * time.Second
	hotkeyTimeout = 10 * time.Second
)

// Run executes the checks and returns an exit code (0=all pass, 1=any fail).
func Run() int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("uitranscriber doctor - interactive system diagnostics")
	fmt.Println("=====================================================")

	src := input.NewHook()
	hookOK := checkHook(src)

	allPass := hookOK
	if hookOK && !checkProbe(src) {
		allPass = false
	}
	src.Stop()

	if !checkHotkey() {
		allPass = false
	}
	if !checkClipboard() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

// waitFor drains events until match accepts one, the source closes, or
// timeout elapses.
func waitFor(events <-chan script.Event, match func(script.Event) bool, timeout time.Duration) (script.Event, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil, false
			}
			if match(ev) {
				return ev, true
			}
		case <-timer.C:
			return nil, false
		}
	}
}

func isPress(ev script.Event) bool {
	c, ok := ev.(script.Click)
	return ok && c.Pressed
}

func isSpace(ev script.Event) bool {
	s, ok := ev.(script.Special)
	return ok && s.Key == script.KeySpace
}

func checkHook(src input.Source) bool {
	fmt.Println()
	fmt.Println("[1/4] Global input hook")

	if err := src.Start(); err != nil {
		fmt.Printf("  FAIL: could not start hook: %v\n", err)
		fmt.Println(hookHint)
		return false
	}
	fmt.Println("Click anywhere on the screen...")

	ev, ok := waitFor(src.Events(), isPress, clickTimeout)
	if !ok {
		fmt.Println("  FAIL: no click seen")
		fmt.Println(hookHint)
		return false
	}
	c := ev.(script.Click)
	fmt.Printf("  PASS: %s click at (%.0f, %.0f)\n", c.Button, c.X, c.Y)
	return true
}

func checkProbe(src input.Source) bool {
	fmt.Println()
	fmt.Println("[2/4] Synthetic keystroke")

	if err := sendSpace(); err != nil {
		fmt.Printf("  FAIL: could not send keystroke: %v\n", err)
		return false
	}
	if _, ok := waitFor(src.Events(), isSpace, probeTimeout); !ok {
		fmt.Println("  FAIL: injected space key was not observed by the hook")
		return false
	}
	fmt.Println("  PASS: injected space key observed")
	return true
}

func checkHotkey() bool {
	fmt.Println()
	fmt.Println("[3/4] Recording hotkey")

	msg, err := hotkey.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  %s\n", msg)

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Unregister()

	fmt.Printf("Press %s...\n", hotkey.Chord)
	select {
	case <-hk.Keydown():
		fmt.Println("  PASS: hotkey detected")
		select {
		case <-hk.Keyup():
		case <-time.After(5 * time.Second):
		}
		// hotkey capture can leave the terminal in raw mode
		resetTerminal()
		return true
	case <-time.After(hotkeyTimeout):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[4/4] Clipboard")

	if !clipboard.Available() {
		fmt.Printf("  FAIL: %v (install xclip, xsel or wl-clipboard)\n", clipboard.ErrUnsupported)
		return false
	}

	want := fmt.Sprintf("uitranscriber-doctor-%d", time.Now().UnixNano())
	type result struct {
		got   string
		err   error
		phase string
	}
	ch := make(chan result, 1)
	go func() {
		if err := clipboard.Copy(want); err != nil {
			ch <- result{err: err, phase: "write"}
			return
		}
		got, err := clipboard.Read()
		ch <- result{got: got, err: err, phase: "read"}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			fmt.Printf("  FAIL: clipboard %s failed: %v\n", res.phase, res.err)
			return false
		}
		if res.got != want {
			fmt.Printf("  FAIL: clipboard mismatch: wrote %q, got %q\n", want, res.got)
			return false
		}
		fmt.Println("  PASS: clipboard write/read verified")
		return true
	case <-time.After(3 * time.Second):
		fmt.Println("  FAIL: clipboard timed out (clipboard tool hung, display not accessible?)")
		return false
	}
}
