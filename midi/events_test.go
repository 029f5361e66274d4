package midi

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestTempoMapDefaultTempo(t *testing.T) {
	m := NewTempoMap(1920)

	// 120 BPM, 1920 PPQ: one second is two quarters, 3840 ticks
	cases := map[float64]float64{
		0:   0,
		0.5: 1920,
		1:   3840,
		2.5: 9600,
	}

	for seconds, ticks := range cases {
		if got := m.TickAtSeconds(seconds); !almostEqual(got, ticks) {
			t.Errorf("TickAtSeconds(%v) = %v, want %v", seconds, got, ticks)
		}
		if got := m.SecondsAtTick(ticks); !almostEqual(got, seconds) {
			t.Errorf("SecondsAtTick(%v) = %v, want %v", ticks, got, seconds)
		}
	}
}

func TestTempoMapWithTempoChange(t *testing.T) {
	m := NewTempoMap(1920)
	m.SetEvents([]TempoEvent{
		{Tick: 0, BPM: 120},
		{Tick: 3840, BPM: 240}, // doubles after one second
	})

	if !almostEqual(m.Events[1].Seconds, 1.0) {
		t.Fatalf("second tempo event at %v s, want 1", m.Events[1].Seconds)
	}

	// half a second into the 240 BPM region covers 3840 ticks
	if got := m.TickAtSeconds(1.5); !almostEqual(got, 3840+3840) {
		t.Errorf("TickAtSeconds(1.5) = %v, want 7680", got)
	}

	if got := m.SecondsAtTick(7680); !almostEqual(got, 1.5) {
		t.Errorf("SecondsAtTick(7680) = %v, want 1.5", got)
	}

	// before the change nothing differs from constant 120 BPM
	if got := m.SecondsAtTick(1920); !almostEqual(got, 0.5) {
		t.Errorf("SecondsAtTick(1920) = %v, want 0.5", got)
	}
}

func TestTempoMapRoundTrip(t *testing.T) {
	m := NewTempoMap(960)
	m.SetEvents([]TempoEvent{
		{Tick: 0, BPM: 160},
		{Tick: 1920, BPM: 90},
		{Tick: 5000, BPM: 200},
	})

	for _, tick := range []float64{0, 100, 1920, 3000, 5000, 123456} {
		secs := m.SecondsAtTick(tick)
		back := m.TickAtSeconds(secs)
		if !almostEqual(back, tick) {
			t.Errorf("round trip tick %v -> %v s -> %v", tick, secs, back)
		}
	}
}
