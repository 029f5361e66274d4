package synth

import (
	"sync/atomic"
	"testing"

	"pianoroll/midi"
)

func TestSkippingVelocity(t *testing.T) {
	b := newPrerenderBuffer(48000, 1)

	cases := []struct {
		ahead int64
		want  uint8
	}{
		{0, 127},
		{1000, 127},
		{5000, 87},
		{13700, 0},
		{1000000, 0},
	}

	for _, c := range cases {
		b.readPos.Store(0)
		b.writePos.Store(c.ahead)
		if got := b.skippingVelocity(); got != c.want {
			t.Errorf("skippingVelocity with writer %d frames ahead = %d, want %d", c.ahead, got, c.want)
		}
	}
}

func TestReadIntoWrapsAroundRing(t *testing.T) {
	b := &prerenderBuffer{
		samples:    make([]float32, 16), // 8 frames
		sampleRate: 4,
	}
	for i := range b.samples {
		b.samples[i] = float32(i)
	}
	b.writePos.Store(8)
	b.readPos.Store(6)

	dst := make([]float32, 4)
	b.readInto(dst)

	want := []float32{12, 13, 14, 15}
	for i := range dst {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if got := b.readPos.Load(); got != 8 {
		t.Errorf("read position = %d, want 8", got)
	}
}

func TestReadIntoUnderrunFillsSilence(t *testing.T) {
	b := newPrerenderBuffer(100, 1)

	dst := make([]float32, 32)
	for i := range dst {
		dst[i] = 7
	}
	b.readInto(dst)

	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %v, want silence on underrun", i, v)
		}
	}

	// time keeps moving even when nothing was written
	if got := b.readPos.Load(); got != 16 {
		t.Errorf("read position = %d, want 16", got)
	}
}

func TestGenerateRendersUpToEvents(t *testing.T) {
	b := newPrerenderBuffer(100, 1)
	s := NewSynth(100)

	events := []midi.Event{
		{Time: 0, Type: midi.EventNoteOn, Data: []byte{0x90, 69, 127}},
		{Time: 0.1, Type: midi.EventNoteOff, Data: []byte{0x80, 69, 0}},
	}

	var reset atomic.Bool
	b.generate(s, events, &reset)

	if got := b.writePos.Load(); got != 10 {
		t.Errorf("write position = %d frames, want 10", got)
	}

	nonzero := false
	for _, v := range b.samples[:20] {
		if v != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		t.Error("generator wrote only silence for an audible note")
	}
}

func TestGenerateHonorsReset(t *testing.T) {
	b := newPrerenderBuffer(100, 1)
	s := NewSynth(100)

	events := []midi.Event{
		{Time: 0, Type: midi.EventNoteOn, Data: []byte{0x90, 60, 127}},
		{Time: 1000, Type: midi.EventNoteOff, Data: []byte{0x80, 60, 0}},
	}

	var reset atomic.Bool
	reset.Store(true)
	b.generate(s, events, &reset)

	if got := b.writePos.Load(); got != 0 {
		t.Errorf("write position = %d, want 0 after immediate reset", got)
	}
}
