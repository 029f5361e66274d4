package synth

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"pianoroll/midi"
)

type RenderMode int32

const (
	// ModeRealtime renders audio on demand inside the stream callback.
	// Used while editing, so auditioned notes sound immediately.
	ModeRealtime RenderMode = iota

	// ModeRendering plays back prerendered audio from the ring buffer
	// while a generator goroutine works ahead through the event list.
	ModeRendering
)

const ringSeconds = 60.0

// Engine owns the synth, the limiter and the prerender ring, and exposes the
// whole thing as an io.Reader of little endian float32 stereo frames for the
// audio player.
type Engine struct {
	synth   *Synth
	limiter *Limiter
	ring    *prerenderBuffer

	mode  atomic.Int32
	reset atomic.Bool

	eventsMu sync.Mutex
	events   []midi.Event

	generatorDone chan struct{}

	sampleRate int
}

func NewEngine(sampleRate int) *Engine {
	return &Engine{
		synth:      NewSynth(sampleRate),
		limiter:    NewLimiter(0.01, 0.1, float32(sampleRate)),
		ring:       newPrerenderBuffer(sampleRate, ringSeconds),
		sampleRate: sampleRate,
	}
}

// SetEvents replaces the playback event list. An empty list is ignored.
func (e *Engine) SetEvents(events []midi.Event) {
	if len(events) == 0 {
		return
	}

	e.eventsMu.Lock()
	e.events = events
	e.eventsMu.Unlock()
}

func (e *Engine) SetLayerCount(n int) { e.synth.SetLayerCount(n) }
func (e *Engine) SetGain(g float64)   { e.synth.SetGain(g) }

// NoteOn auditions a note directly on the synth. Only audible in realtime
// mode.
func (e *Engine) NoteOn(channel, key, velocity uint8) {
	e.synth.NoteOn(channel, key, velocity)
}

func (e *Engine) NoteOff(channel, key uint8) {
	e.synth.NoteOff(channel, key)
}

func (e *Engine) AllNotesOff() {
	e.synth.AllNotesOff()
}

func (e *Engine) Mode() RenderMode {
	return RenderMode(e.mode.Load())
}

// SwitchMode switches between live synthesis and prerendered playback.
// Entering ModeRendering starts a fresh generator at fromSeconds into the
// event list; entering ModeRealtime kills it.
func (e *Engine) SwitchMode(mode RenderMode, fromSeconds float64) {
	switch mode {
	case ModeRealtime:
		e.stopGenerator()
		e.reset.Store(true)
		e.ring.readPos.Store(0)
		e.ring.writePos.Store(0)
		e.synth.AllNotesOff()
	case ModeRendering:
		e.eventsMu.Lock()
		empty := len(e.events) == 0
		e.eventsMu.Unlock()
		if empty {
			warnLogger.Print("nothing to prerender, the event list is empty")
		}

		e.startGenerator(fromSeconds)
	}

	e.mode.Store(int32(mode))
}

func (e *Engine) startGenerator(fromSeconds float64) {
	e.stopGenerator()
	e.reset.Store(false)

	e.eventsMu.Lock()
	events := make([]midi.Event, 0, len(e.events))
	for _, ev := range e.events {
		if ev.Time < fromSeconds {
			continue
		}
		shifted := ev
		shifted.Time -= fromSeconds
		events = append(events, shifted)
	}
	e.eventsMu.Unlock()

	done := make(chan struct{})
	e.generatorDone = done

	go func() {
		defer close(done)
		e.ring.generate(e.synth, events, &e.reset)
	}()
}

func (e *Engine) stopGenerator() {
	e.reset.Store(true)
	if e.generatorDone != nil {
		<-e.generatorDone
		e.generatorDone = nil
	}
}

// Stream returns the reader to hand to the audio player. Samples are
// interleaved stereo float32, little endian, so one frame is 8 bytes.
func (e *Engine) Stream() *Stream {
	return &Stream{engine: e}
}

const frameBytes = 8

type Stream struct {
	engine  *Engine
	scratch []float32
}

func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	need := frames * 2
	if cap(s.scratch) < need {
		s.scratch = make([]float32, need)
	}
	buf := s.scratch[:need]

	e := s.engine

	switch e.Mode() {
	case ModeRealtime:
		e.synth.Render(buf)
	case ModeRendering:
		if e.reset.Load() {
			for i := range buf {
				buf[i] = 0
			}
		} else {
			e.ring.readInto(buf)
		}
	}

	e.limiter.Apply(buf)

	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}

	return frames * frameBytes, nil
}
