package main

import (
	"context"
	"fmt"
	"io"

	"uitranscriber/beep"
	"uitranscriber/config"
	"uitranscriber/hotkey"
	"uitranscriber/log"
	"uitranscriber/script"
	"uitranscriber/session"
)

// app binds a session to a frontend and implements the user actions.
type app struct {
	sess *session.Session
	cfg  config.Config
	ui   frontend
}

func newApp(cfg config.Config, ui frontend, echo io.Writer) *app {
	return &app{
		sess: session.New(session.Config{
			Script: scriptOptions(cfg),
			Output: cfg.Output,
			Echo:   echo,
			Beep:   cfg.Beep,
		}),
		cfg: cfg,
		ui:  ui,
	}
}

func scriptOptions(cfg config.Config) script.Options {
	return script.Options{
		Interpreter:      cfg.Interpreter,
		ScriptName:       cfg.ScriptName,
		Pause:            cfg.Pause,
		FlushOnStop:      cfg.FlushOnStop,
		RepeatAllSpecial: cfg.RepeatAllSpecial,
		EscapeText:       cfg.EscapeText,
	}
}

func (a *app) setRecording(on bool) {
	if a.sess.Recording() == on {
		return
	}
	a.sess.SetRecording(on)
	if on {
		a.ui.Status("recording")
	} else {
		a.ui.Status("stopped")
	}
}

func (a *app) toggle() {
	a.setRecording(!a.sess.Recording())
}

func (a *app) flush() {
	a.sess.Flush()
}

func (a *app) clear() {
	a.sess.Clear()
	a.ui.Status("cleared")
}

// save writes to path, or to the configured output when path is empty.
func (a *app) save(path string) {
	p, err := a.sess.Save(path)
	if err != nil {
		a.fail(fmt.Errorf("save: %w", err))
		return
	}
	if a.cfg.Beep {
		beep.PlaySaved()
	}
	a.ui.Status("saved " + p)
}

func (a *app) copy() {
	if err := a.sess.Copy(); err != nil {
		a.fail(err)
		return
	}
	a.ui.Status(fmt.Sprintf("copied %d lines", a.sess.Lines()))
}

func (a *app) fail(err error) {
	log.Errorf("%v", err)
	if a.cfg.Beep {
		beep.PlayError()
	}
	a.ui.Error(err)
}

// forward relays session changes to the frontend until ctx is done.
func (a *app) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.sess.Changed():
			a.ui.Changed()
		}
	}
}

// watchHotkey maps chord presses onto recording. Without hybrid mode every
// press toggles.
func (a *app) watchHotkey(ctx context.Context, hk hotkey.Hotkey) {
	if !a.cfg.Hybrid {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hk.Keydown():
				log.Info("hotkey_down")
				a.toggle()
			}
		}
	}

	hy := hotkey.NewHybrid(hk, a.cfg.LongPress)
	defer hy.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-hy.Start():
			log.Info("hotkey_start_" + string(ev.Mode))
			a.setRecording(true)
		case <-hy.StopChan():
			mode := hotkey.ModeHold
			if hy.IsToggle() {
				mode = hotkey.ModeToggle
			}
			log.Info("hotkey_stop_" + string(mode))
			a.setRecording(false)
		}
	}
}

// finish saves unsaved work to the configured output and ends the session.
// It returns the path written, if any.
func (a *app) finish() (string, error) {
	defer a.sess.Close()
	if !a.sess.Dirty() || a.cfg.Output == "" {
		return "", nil
	}
	return a.sess.Save("")
}
