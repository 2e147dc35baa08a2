package script

import "fmt"

// Key identifies a special (non-character) key.
type Key int

const (
	KeyUnknown Key = iota
	KeyBackspace
	KeyDelete
	KeyDown
	KeyEnd
	KeyEnter
	KeyEsc
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyHome
	KeyLeft
	KeyPageDown
	KeyPageUp
	KeyRight
	KeySpace
	KeyTab
	KeyUp

	// Keys a listener reports that have no pyautogui name in keyNames.
	KeyShift
	KeyCtrl
	KeyAlt
	KeyCmd
	KeyCapsLock
	KeyInsert
	KeyMenu
	KeyNumLock
	KeyPrintScreen
	KeyScrollLock
	KeyPause
)

// keyNames maps keys to the names pyautogui's press() accepts.
var keyNames = map[Key]string{
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyDown:      "down",
	KeyEnd:       "end",
	KeyEnter:     "enter",
	KeyEsc:       "esc",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
	KeyF13:       "f13",
	KeyF14:       "f14",
	KeyF15:       "f15",
	KeyHome:      "home",
	KeyLeft:      "left",
	KeyPageDown:  "pagedown",
	KeyPageUp:    "pageup",
	KeyRight:     "right",
	KeySpace:     "space",
	KeyTab:       "tab",
	KeyUp:        "up",
}

var otherNames = map[Key]string{
	KeyUnknown:     "unknown",
	KeyShift:       "shift",
	KeyCtrl:        "ctrl",
	KeyAlt:         "alt",
	KeyCmd:         "cmd",
	KeyCapsLock:    "capslock",
	KeyInsert:      "insert",
	KeyMenu:        "menu",
	KeyNumLock:     "numlock",
	KeyPrintScreen: "printscreen",
	KeyScrollLock:  "scrolllock",
	KeyPause:       "pause",
}

// Name returns the pyautogui key name and whether the key has one.
func (k Key) Name() (string, bool) {
	name, ok := keyNames[k]
	return name, ok
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if name, ok := otherNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ParseKey resolves a key by the name String returns.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	for k, n := range otherNames {
		if n == name {
			return k, true
		}
	}
	return KeyUnknown, false
}
