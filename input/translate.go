package input

import (
	"unicode"

	hook "github.com/robotn/gohook"

	"uitranscriber/script"
)

// libuiohook button numbers as reported in hook.Event.Button.
const (
	buttonPrimary   = 1
	buttonSecondary = 2
	buttonMiddle    = 3
)

// libuiohook VC_* virtual key codes as reported in hook.Event.Keycode.
var vcKeys = map[uint16]script.Key{
	0x000E: script.KeyBackspace,
	0x0E53: script.KeyDelete,
	0xE050: script.KeyDown,
	0x0E4F: script.KeyEnd,
	0x001C: script.KeyEnter,
	0x0E1C: script.KeyEnter, // keypad enter
	0x0001: script.KeyEsc,
	0x003B: script.KeyF1,
	0x003C: script.KeyF2,
	0x003D: script.KeyF3,
	0x003E: script.KeyF4,
	0x003F: script.KeyF5,
	0x0040: script.KeyF6,
	0x0041: script.KeyF7,
	0x0042: script.KeyF8,
	0x0043: script.KeyF9,
	0x0044: script.KeyF10,
	0x0057: script.KeyF11,
	0x0058: script.KeyF12,
	0x005B: script.KeyF13,
	0x005C: script.KeyF14,
	0x005D: script.KeyF15,
	0x0E47: script.KeyHome,
	0xE04B: script.KeyLeft,
	0x0E51: script.KeyPageDown,
	0x0E49: script.KeyPageUp,
	0xE04D: script.KeyRight,
	0x0039: script.KeySpace,
	0x000F: script.KeyTab,
	0xE048: script.KeyUp,

	0x002A: script.KeyShift,
	0x0036: script.KeyShift,
	0x001D: script.KeyCtrl,
	0x0E1D: script.KeyCtrl,
	0x0038: script.KeyAlt,
	0x0E38: script.KeyAlt,
	0x0E5B: script.KeyCmd,
	0x0E5C: script.KeyCmd,
	0x003A: script.KeyCapsLock,
	0x0E52: script.KeyInsert,
	0x0E5D: script.KeyMenu,
	0x0045: script.KeyNumLock,
	0x0E37: script.KeyPrintScreen,
	0x0046: script.KeyScrollLock,
	0x0E45: script.KeyPause,
}

// translate maps a raw hook event to a script event. Key presses of
// printable keys are dropped here; their text arrives as typed events.
func translate(ev hook.Event) (script.Event, bool) {
	switch ev.Kind {
	// gohook renames the libuiohook kinds: MouseDown is the button press,
	// MouseHold the release, MouseUp the synthesized click.
	case hook.MouseDown, hook.MouseHold:
		var b script.Button
		switch ev.Button {
		case buttonPrimary:
			b = script.ButtonLeft
		case buttonSecondary, buttonMiddle:
			b = script.ButtonRight
		default:
			return nil, false
		}
		return script.Click{
			X:       float64(ev.X),
			Y:       float64(ev.Y),
			Button:  b,
			Pressed: ev.Kind == hook.MouseDown,
		}, true

	// KeyDown is the key press and carries only Keycode.
	case hook.KeyDown:
		k, ok := vcKeys[ev.Keycode]
		if !ok {
			return nil, false
		}
		return script.Special{Key: k}, true

	// KeyHold is the typed character and carries only Keychar.
	case hook.KeyHold:
		r := ev.Keychar
		if r == hook.CharUndefined || r == ' ' || !unicode.IsPrint(r) {
			return nil, false
		}
		return script.Char{Rune: r}, true
	}
	return nil, false
}
