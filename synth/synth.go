package synth

import (
	"math"
	"sync"
)

const maxVoices = 256

type voice struct {
	channel uint8
	key     uint8

	freq     float64
	phase    float64
	velocity float64

	env      float64
	released bool
}

// Synth is a small polyphonic oscillator bank. Each note plays a stack of
// detuned layers with an attack/release envelope. It is not a sampler; it
// exists so note auditioning and playback make sound without any
// external instrument data.
type Synth struct {
	mu sync.Mutex

	sampleRate float64
	voices     []voice
	layers     int
	gain       float64
}

func NewSynth(sampleRate int) *Synth {
	return &Synth{
		sampleRate: float64(sampleRate),
		voices:     make([]voice, 0, maxVoices),
		layers:     2,
		gain:       0.15,
	}
}

// KeyFrequency returns the equal temperament frequency of a MIDI key.
func KeyFrequency(key uint8) float64 {
	return 440.0 * math.Pow(2, (float64(key)-69)/12)
}

func (s *Synth) SetLayerCount(n int) {
	if n < 1 {
		n = 1
	}

	s.mu.Lock()
	s.layers = n
	s.mu.Unlock()
}

func (s *Synth) SetGain(gain float64) {
	s.mu.Lock()
	s.gain = gain
	s.mu.Unlock()
}

func (s *Synth) NoteOn(channel, key, velocity uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.voices) >= maxVoices {
		// steal the oldest voice
		s.voices = s.voices[1:]
	}

	s.voices = append(s.voices, voice{
		channel:  channel,
		key:      key,
		freq:     KeyFrequency(key),
		velocity: float64(velocity) / 127,
	})
}

func (s *Synth) NoteOff(channel, key uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.voices {
		if s.voices[i].channel == channel && s.voices[i].key == key {
			s.voices[i].released = true
		}
	}
}

func (s *Synth) AllNotesOff() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.voices {
		s.voices[i].released = true
	}
}

func (s *Synth) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.voices)
}

// envelope rates per sample, picked for a short pluck at 48 kHz and scaled
// by the actual sample rate
const (
	attackSeconds  = 0.005
	releaseSeconds = 0.08
)

// Render adds the synth output into buf, which holds interleaved stereo
// float32 frames. buf is overwritten, not mixed.
func (s *Synth) Render(buf []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range buf {
		buf[i] = 0
	}

	if len(s.voices) == 0 {
		return
	}

	attackRate := 1 / (attackSeconds * s.sampleRate)
	releaseMul := math.Exp(-1 / (releaseSeconds * s.sampleRate))

	frames := len(buf) / 2

	for vi := range s.voices {
		v := &s.voices[vi]

		phaseInc := v.freq / s.sampleRate

		for f := 0; f < frames; f++ {
			if v.released {
				v.env *= releaseMul
			} else if v.env < 1 {
				v.env += attackRate
				if v.env > 1 {
					v.env = 1
				}
			}

			var sample float64
			for layer := 0; layer < s.layers; layer++ {
				detune := 1 + 0.001*float64(layer)
				amp := 1 / float64(layer+1)
				sample += amp * math.Sin(2*math.Pi*v.phase*detune)
			}

			sample *= v.env * v.velocity * s.gain

			buf[f*2] += float32(sample)
			buf[f*2+1] += float32(sample)

			v.phase += phaseInc
			if v.phase >= 1 {
				v.phase -= 1
			}
		}
	}

	// drop voices that have decayed to silence
	alive := s.voices[:0]
	for _, v := range s.voices {
		if !v.released || v.env > 1e-4 {
			alive = append(alive, v)
		}
	}
	s.voices = alive
}
