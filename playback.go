package main

import (
	"time"

	"pianoroll/midi"
)

// Transport tracks the playback position. While playing, the position runs
// off the global timer from the point where playback last started; stopping
// freezes it in place.
type Transport struct {
	Playing bool
	Tempo   *midi.TempoMap

	playbackSecs float64
	startedAt    time.Duration

	now func() time.Duration
}

func NewTransport(tempo *midi.TempoMap) *Transport {
	return &Transport{
		Tempo: tempo,
		now:   GlobalTimerNow,
	}
}

func (t *Transport) PlayOrStop() {
	if t.Playing {
		t.playbackSecs = t.Seconds()
	} else {
		t.startedAt = t.now()
	}
	t.Playing = !t.Playing
}

// Seconds is the current playback position in seconds.
func (t *Transport) Seconds() float64 {
	if !t.Playing {
		return t.playbackSecs
	}
	return t.playbackSecs + (t.now() - t.startedAt).Seconds()
}

// Tick is the current playback position in ticks, through the tempo map.
func (t *Transport) Tick() float64 {
	return t.Tempo.TickAtSeconds(t.Seconds())
}

// SeekTick moves the playback position. Works both stopped and playing.
func (t *Transport) SeekTick(tick float64) {
	t.playbackSecs = t.Tempo.SecondsAtTick(tick)
	if t.Playing {
		t.startedAt = t.now()
	}
}
