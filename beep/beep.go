// Package beep plays short audible cues when recording starts or stops, a
// script is saved, or something fails.
package beep

import (
	"math"
	"sync/atomic"
)

type Cue int

const (
	CueRecord Cue = iota
	CueStop
	CueSaved
	CueError
)

const sampleRate = 44100

type tone struct {
	freq     float64
	volume   float64
	decay    float64
	duration float64 // seconds per pulse
	pulses   int
	gap      float64 // seconds between pulses
}

var tones = map[Cue]tone{
	CueRecord: {freq: 1200, volume: 0.5, decay: 60, duration: 0.05, pulses: 1},
	CueStop:   {freq: 900, volume: 0.5, decay: 40, duration: 0.08, pulses: 1},
	CueSaved:  {freq: 1500, volume: 0.4, decay: 50, duration: 0.04, pulses: 2, gap: 0.03},
	CueError:  {freq: 350, volume: 0.6, decay: 30, duration: 0.08, pulses: 2, gap: 0.05},
}

var disabled atomic.Bool

func Disable() { disabled.Store(true) }

func Enabled() bool { return !disabled.Load() }

func PlayStart() { Play(CueRecord) }
func PlayEnd()   { Play(CueStop) }
func PlaySaved() { Play(CueSaved) }
func PlayError() { Play(CueError) }

// Play queues c on the platform output. It never blocks on the device.
func Play(c Cue) {
	if disabled.Load() {
		return
	}
	play(c)
}

// samples renders c as mono signed 16-bit PCM.
func samples(c Cue, rate int) []int16 {
	t, ok := tones[c]
	if !ok {
		return nil
	}
	pulse := make([]int16, int(float64(rate)*t.duration))
	for i := range pulse {
		sec := float64(i) / float64(rate)
		env := math.Exp(-sec * t.decay)
		pulse[i] = int16(math.Sin(2*math.Pi*t.freq*sec) * 32767 * t.volume * env)
	}
	gap := int(float64(rate) * t.gap)

	out := make([]int16, 0, t.pulses*len(pulse)+(t.pulses-1)*gap)
	for p := 0; p < t.pulses; p++ {
		if p > 0 {
			out = append(out, make([]int16, gap)...)
		}
		out = append(out, pulse...)
	}
	return out
}

// littleEndian packs PCM for devices that take raw bytes.
func littleEndian(pcm []int16) []byte {
	buf := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}
