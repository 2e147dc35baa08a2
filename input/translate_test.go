package input

import (
	"testing"

	hook "github.com/robotn/gohook"

	"uitranscriber/script"
)

func TestTranslateMouse(t *testing.T) {
	tests := []struct {
		name string
		ev   hook.Event
		want script.Event
	}{
		{"left press", hook.Event{Kind: hook.MouseDown, Button: 1, X: 100, Y: 200},
			script.Click{X: 100, Y: 200, Button: script.ButtonLeft, Pressed: true}},
		{"left release", hook.Event{Kind: hook.MouseHold, Button: 1, X: 100, Y: 200},
			script.Click{X: 100, Y: 200, Button: script.ButtonLeft, Pressed: false}},
		{"right press", hook.Event{Kind: hook.MouseDown, Button: 2, X: -5, Y: 7},
			script.Click{X: -5, Y: 7, Button: script.ButtonRight, Pressed: true}},
		{"middle press", hook.Event{Kind: hook.MouseDown, Button: 3, X: 1, Y: 1},
			script.Click{X: 1, Y: 1, Button: script.ButtonRight, Pressed: true}},
	}
	for _, tt := range tests {
		got, ok := translate(tt.ev)
		if !ok {
			t.Errorf("%s: not translated", tt.name)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

// libuiohook fills only Keycode on presses and only Keychar on typed events.
const vcUndefined = 0x0000

func pressed(code uint16) hook.Event {
	return hook.Event{Kind: hook.KeyDown, Keycode: code, Keychar: hook.CharUndefined}
}

func typed(r rune) hook.Event {
	return hook.Event{Kind: hook.KeyHold, Keycode: vcUndefined, Keychar: r}
}

func TestTranslateKindValues(t *testing.T) {
	// raw libuiohook event types
	if hook.KeyHold != 3 || hook.KeyDown != 4 || hook.MouseDown != 7 || hook.MouseHold != 8 {
		t.Fatalf("gohook kinds moved: KeyHold=%d KeyDown=%d MouseDown=%d MouseHold=%d",
			hook.KeyHold, hook.KeyDown, hook.MouseDown, hook.MouseHold)
	}
}

func TestTranslateDropsNoise(t *testing.T) {
	for _, ev := range []hook.Event{
		{Kind: hook.MouseUp, Button: 1}, // synthesized click
		{Kind: hook.MouseMove, X: 3, Y: 4},
		{Kind: hook.MouseWheel},
		{Kind: hook.MouseDown, Button: 5},
		{Kind: hook.KeyUp, Keycode: 0x000E, Keychar: hook.CharUndefined},
		pressed(0x001E), // 'a' press, text comes typed
		typed(hook.CharUndefined),
		typed('\r'),
		typed('\b'),
		typed('\t'),
		typed(' '),
	} {
		if got, ok := translate(ev); ok {
			t.Errorf("kind %d: expected drop, got %+v", ev.Kind, got)
		}
	}
}

func TestTranslateKeys(t *testing.T) {
	tests := []struct {
		ev   hook.Event
		want script.Event
	}{
		{typed('a'), script.Char{Rune: 'a'}},
		{typed('é'), script.Char{Rune: 'é'}},
		{typed('\''), script.Char{Rune: '\''}},
		{pressed(0x000E), script.Special{Key: script.KeyBackspace}},
		{pressed(0x0039), script.Special{Key: script.KeySpace}},
		{pressed(0x005D), script.Special{Key: script.KeyF15}},
		{pressed(0xE048), script.Special{Key: script.KeyUp}},
		{pressed(0x002A), script.Special{Key: script.KeyShift}},
	}
	for _, tt := range tests {
		got, ok := translate(tt.ev)
		if !ok || got != tt.want {
			t.Errorf("%+v: got %+v (%v), want %+v", tt.ev, got, ok, tt.want)
		}
	}
}

// A keystroke arrives as press, typed, release; only one of them counts.
func TestTranslateKeystrokeSequence(t *testing.T) {
	seqs := []struct {
		name   string
		events []hook.Event
		want   script.Event
	}{
		{"letter", []hook.Event{pressed(0x001E), typed('a'),
			{Kind: hook.KeyUp, Keycode: 0x001E, Keychar: hook.CharUndefined}}, script.Char{Rune: 'a'}},
		{"backspace", []hook.Event{pressed(0x000E), typed('\b'),
			{Kind: hook.KeyUp, Keycode: 0x000E, Keychar: hook.CharUndefined}}, script.Special{Key: script.KeyBackspace}},
		{"space", []hook.Event{pressed(0x0039), typed(' '),
			{Kind: hook.KeyUp, Keycode: 0x0039, Keychar: hook.CharUndefined}}, script.Special{Key: script.KeySpace}},
	}
	for _, sq := range seqs {
		var got []script.Event
		for _, ev := range sq.events {
			if out, ok := translate(ev); ok {
				got = append(got, out)
			}
		}
		if len(got) != 1 || got[0] != sq.want {
			t.Errorf("%s: got %+v, want [%+v]", sq.name, got, sq.want)
		}
	}
}

func TestEveryNamedKeyHasKeycode(t *testing.T) {
	seen := map[script.Key]bool{}
	for _, k := range vcKeys {
		seen[k] = true
	}
	for k := script.KeyBackspace; k <= script.KeyUp; k++ {
		if _, named := k.Name(); named && !seen[k] {
			t.Errorf("%s has no keycode", k)
		}
	}
}
