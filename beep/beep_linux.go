//go:build linux

package beep

import (
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"

	"uitranscriber/log"
)

var (
	rendered  map[Cue][]int16
	soundOnce sync.Once
)

func render() {
	rendered = make(map[Cue][]int16, len(tones))
	for c := range tones {
		rendered[c] = samples(c, sampleRate)
	}
}

func Init() {
	soundOnce.Do(render)
}

func play(c Cue) {
	soundOnce.Do(render)
	go playSamples(rendered[c])
}

func playSamples(pcm []int16) {
	if len(pcm) == 0 {
		return
	}
	c, err := pulse.NewClient()
	if err != nil {
		log.Debug("beep: pulse unavailable: " + err.Error())
		return
	}
	defer c.Close()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(pcm) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, pcm[pos:])
		pos += n
		return n, nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(0.1),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		log.Debug("beep: playback stream: " + err.Error())
		return
	}
	defer stream.Close()
	stream.Start()
	stream.Drain()
	stream.Stop()
}
