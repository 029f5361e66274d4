package synth

import (
	"math"
	"testing"
)

func TestKeyFrequency(t *testing.T) {
	cases := map[uint8]float64{
		69: 440,
		81: 880,
		57: 220,
	}

	for key, want := range cases {
		if got := KeyFrequency(key); math.Abs(got-want) > 1e-6 {
			t.Errorf("KeyFrequency(%d) = %v, want %v", key, got, want)
		}
	}
}

func TestRenderSilenceWithoutVoices(t *testing.T) {
	s := NewSynth(48000)

	buf := make([]float32, 256)
	buf[0] = 99 // Render must overwrite, not mix
	s.Render(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestNoteOnProducesAudio(t *testing.T) {
	s := NewSynth(48000)
	s.NoteOn(0, 69, 127)

	if got := s.ActiveVoices(); got != 1 {
		t.Fatalf("active voices = %d, want 1", got)
	}

	buf := make([]float32, 512)
	s.Render(buf)

	nonzero := false
	for _, v := range buf {
		if v != 0 {
			nonzero = true
		}
		if math.IsNaN(float64(v)) {
			t.Fatal("rendered a NaN sample")
		}
	}
	if !nonzero {
		t.Error("rendered only silence for an active voice")
	}
}

func TestReleasedVoiceDecaysAway(t *testing.T) {
	s := NewSynth(48000)
	s.NoteOn(3, 60, 100)
	s.NoteOff(3, 60)

	// a second of audio is far past the release tail
	buf := make([]float32, 2048)
	for rendered := 0; rendered < 48000*2; rendered += len(buf) {
		s.Render(buf)
	}

	if got := s.ActiveVoices(); got != 0 {
		t.Errorf("active voices after decay = %d, want 0", got)
	}
}

func TestVoiceStealing(t *testing.T) {
	s := NewSynth(48000)

	for i := 0; i < maxVoices+10; i++ {
		s.NoteOn(0, uint8(i%128), 100)
	}

	if got := s.ActiveVoices(); got != maxVoices {
		t.Errorf("active voices = %d, want %d", got, maxVoices)
	}
}
