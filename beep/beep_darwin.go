//go:build darwin

package beep

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"uitranscriber/log"
)

var (
	malgoCtx  *malgo.AllocatedContext
	device    *malgo.Device
	rendered  map[Cue][]byte
	soundOnce sync.Once

	// read from the device callback
	current atomic.Pointer[[]byte]
	pos     atomic.Uint32
	playMu  sync.Mutex
)

func initDevice() error {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	var err error
	device, err = malgo.InitDevice(malgoCtx.Context, config, malgo.DeviceCallbacks{Data: fill})
	return err
}

func initSound() {
	rendered = make(map[Cue][]byte, len(tones))
	for c := range tones {
		rendered[c] = littleEndian(samples(c, sampleRate))
	}

	var err error
	malgoCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		log.Debug("beep: malgo context: " + err.Error())
		return
	}
	if err := initDevice(); err != nil {
		log.Debug("beep: malgo device: " + err.Error())
		malgoCtx.Uninit()
		malgoCtx = nil
	}
}

func fill(out, _ []byte, frames uint32) {
	buf := current.Load()
	want := frames * 2
	var n uint32
	if buf != nil {
		p := pos.Load()
		if total := uint32(len(*buf)); p < total {
			n = min(want, total-p)
			copy(out[:n], (*buf)[p:p+n])
			pos.Store(p + n)
		} else {
			current.Store(nil)
		}
	}
	clear(out[n:want])
}

func Init() {
	soundOnce.Do(initSound)
}

func play(c Cue) {
	soundOnce.Do(initSound)
	if malgoCtx == nil {
		return
	}
	pcm := rendered[c]
	if len(pcm) == 0 {
		return
	}

	playMu.Lock()
	defer playMu.Unlock()
	if device == nil {
		return
	}
	device.Stop()
	pos.Store(0)
	current.Store(&pcm)

	if err := device.Start(); err != nil {
		// devices go stale across sleep/wake
		device.Uninit()
		if err := initDevice(); err != nil {
			current.Store(nil)
			return
		}
		if err := device.Start(); err != nil {
			current.Store(nil)
		}
	}
}
