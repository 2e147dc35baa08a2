package beep

import "testing"

func TestSamplesLength(t *testing.T) {
	rate := 1000
	got := samples(CueRecord, rate)
	if len(got) != 50 {
		t.Errorf("record cue: got %d samples, want 50", len(got))
	}
	// two 80ms pulses around a 50ms gap
	if got := len(samples(CueError, rate)); got != 80+50+80 {
		t.Errorf("error cue: got %d samples, want 210", got)
	}
}

func TestSamplesGapIsSilent(t *testing.T) {
	pcm := samples(CueSaved, 1000)
	for i := 40; i < 70; i++ {
		if pcm[i] != 0 {
			t.Fatalf("sample %d = %d, want silence in gap", i, pcm[i])
		}
	}
}

func TestSamplesUnknownCue(t *testing.T) {
	if got := samples(Cue(99), sampleRate); got != nil {
		t.Errorf("unknown cue rendered %d samples", len(got))
	}
}

func TestLittleEndian(t *testing.T) {
	got := littleEndian([]int16{0x0102, -1})
	want := []byte{0x02, 0x01, 0xff, 0xff}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDisable(t *testing.T) {
	if !Enabled() {
		t.Fatal("cues should start enabled")
	}
	Disable()
	t.Cleanup(func() { disabled.Store(false) })
	if Enabled() {
		t.Error("Disable had no effect")
	}
	Play(CueRecord) // no-op, must not touch the device
}
