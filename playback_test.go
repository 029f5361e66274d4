package main

import (
	"testing"
	"time"

	"pianoroll/midi"
)

func fakeClock(t *Transport) func(time.Duration) {
	var now time.Duration
	t.now = func() time.Duration { return now }
	return func(d time.Duration) { now += d }
}

func TestTransportPlayStop(t *testing.T) {
	tr := NewTransport(midi.NewTempoMap(1920))
	advance := fakeClock(tr)

	if tr.Seconds() != 0 {
		t.Fatalf("position = %v, want 0 before playing", tr.Seconds())
	}

	tr.PlayOrStop()
	advance(2 * time.Second)

	if got := tr.Seconds(); got != 2 {
		t.Errorf("position while playing = %v, want 2", got)
	}

	tr.PlayOrStop()
	advance(5 * time.Second)

	if got := tr.Seconds(); got != 2 {
		t.Errorf("position after stop = %v, want frozen at 2", got)
	}

	// resuming continues from where it stopped
	tr.PlayOrStop()
	advance(time.Second)
	if got := tr.Seconds(); got != 3 {
		t.Errorf("position after resume = %v, want 3", got)
	}
}

func TestTransportTickFollowsTempoMap(t *testing.T) {
	tr := NewTransport(midi.NewTempoMap(1920))
	advance := fakeClock(tr)

	tr.PlayOrStop()
	advance(time.Second)

	// one second at the default 120 BPM is 3840 ticks at 1920 PPQ
	if got := tr.Tick(); got < 3839.9 || got > 3840.1 {
		t.Errorf("tick = %v, want 3840", got)
	}
}

func TestTransportSeek(t *testing.T) {
	tr := NewTransport(midi.NewTempoMap(1920))
	advance := fakeClock(tr)

	tr.SeekTick(3840)
	if got := tr.Seconds(); got < 0.999 || got > 1.001 {
		t.Errorf("position after seek = %v s, want 1", got)
	}

	tr.PlayOrStop()
	advance(time.Second)
	tr.SeekTick(0)

	if got := tr.Seconds(); got > 0.001 {
		t.Errorf("position after playing seek = %v, want 0", got)
	}
	if !tr.Playing {
		t.Error("seek must not stop playback")
	}
}
