package doctor

import (
	"runtime"
	"time"

	"github.com/micmonay/keybd_event"
)

// sendSpace injects one space key press through the OS input layer.
func sendSpace() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	if runtime.GOOS == "linux" {
		// the uinput device needs time to be picked up before it emits
		time.Sleep(2 * time.Second)
	}
	kb.SetKeys(keybd_event.VK_SPACE)
	return kb.Launching()
}
