package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"uitranscriber/beep"
	"uitranscriber/config"
	"uitranscriber/hotkey"
	"uitranscriber/log"
	"uitranscriber/script"
)

var errQuit = errors.New("quit")

// testDriver executes stdin commands against an app. Input commands go
// straight to the session so every command is applied before the next.
type testDriver struct {
	app *app
	hk  *hotkey.FakeHotkey
}

// runTestMode drives a session from in: one command per line. Script lines
// are echoed to out, statuses and errors go to errw.
func runTestMode(cfg config.Config, in io.Reader, out, errw io.Writer) int {
	beep.Disable()

	a := newApp(cfg, consoleFrontend{w: errw}, out)
	hk := hotkey.NewFake()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.watchHotkey(ctx, hk)
	if cfg.RecordOnStart {
		a.setRecording(true)
	}

	d := &testDriver{app: a, hk: hk}
	failed := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		err := d.exec(scanner.Text())
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			failed++
			log.Errorf("test command: %v", err)
			a.ui.Error(err)
		}
	}
	cancel()
	a.sess.Close()

	if failed > 0 {
		return 1
	}
	return 0
}

func (d *testDriver) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	cmd, rest, _ := strings.Cut(line, " ")

	switch cmd {
	case "RECORD":
		d.app.setRecording(true)
	case "STOP":
		d.app.setRecording(false)
	case "KEYDOWN":
		d.hk.SimKeydown()
	case "KEYUP":
		d.hk.SimKeyup()
	case "CLICK":
		events, err := parseClick(rest)
		if err != nil {
			return err
		}
		for _, ev := range events {
			d.app.sess.Handle(ev)
		}
	case "TYPE":
		for _, r := range rest {
			d.app.sess.Handle(script.Char{Rune: r})
		}
	case "KEY":
		k, ok := script.ParseKey(strings.TrimSpace(rest))
		if !ok {
			return fmt.Errorf("KEY: unknown key %q", rest)
		}
		d.app.sess.Handle(script.Special{Key: k})
	case "FLUSH":
		d.app.flush()
	case "CLEAR":
		d.app.clear()
	case "SAVE":
		_, err := d.app.sess.Save(strings.TrimSpace(rest))
		if err != nil {
			return fmt.Errorf("SAVE: %w", err)
		}
	case "COPY":
		return d.app.sess.Copy()
	case "SLEEP":
		ms, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return fmt.Errorf("SLEEP: %w", err)
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
	case "QUIT":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// parseClick reads "x y [left|right] [up]". Without "up" a press and a
// release are produced.
func parseClick(args string) ([]script.Event, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return nil, fmt.Errorf("CLICK: want x y [left|right] [up], got %q", args)
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("CLICK x: %w", err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("CLICK y: %w", err)
	}

	button := script.ButtonLeft
	releaseOnly := false
	for _, f := range fields[2:] {
		switch f {
		case "left":
			button = script.ButtonLeft
		case "right":
			button = script.ButtonRight
		case "up":
			releaseOnly = true
		default:
			return nil, fmt.Errorf("CLICK: unexpected %q", f)
		}
	}

	release := script.Click{X: x, Y: y, Button: button, Pressed: false}
	if releaseOnly {
		return []script.Event{release}, nil
	}
	press := release
	press.Pressed = true
	return []script.Event{press, release}, nil
}
