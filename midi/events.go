package midi

type EventType int

const (
	EventNoteOff EventType = iota
	EventNoteOn
)

// Event is a raw MIDI channel event. Time is in seconds for events headed to
// the synth and in ticks for events produced by NoteStore.Events; Data holds
// the raw message bytes (status, key, velocity).
type Event struct {
	Time float64
	Type EventType
	Data []byte
}

// TempoEvent is a tempo change. Tick and Seconds address the same moment on
// both time axes.
type TempoEvent struct {
	Tick    uint64
	Seconds float64
	BPM     float64
}

const defaultBPM = 120.0

// TempoMap converts between ticks and seconds through a list of tempo
// changes sorted by tick. An empty map behaves as a constant 120 BPM.
type TempoMap struct {
	PPQ    uint16
	Events []TempoEvent
}

func NewTempoMap(ppq uint16) *TempoMap {
	return &TempoMap{PPQ: ppq}
}

// SetEvents installs the tempo changes and fills in their Seconds fields
// from their ticks.
func (m *TempoMap) SetEvents(events []TempoEvent) {
	m.Events = events

	lastTick := uint64(0)
	lastBPM := defaultBPM
	seconds := 0.0

	for i := range m.Events {
		ev := &m.Events[i]
		seconds += float64(ev.Tick-lastTick) * secondsPerTick(lastBPM, m.PPQ)
		ev.Seconds = seconds
		lastTick = ev.Tick
		lastBPM = ev.BPM
	}
}

func secondsPerTick(bpm float64, ppq uint16) float64 {
	usPerQuarter := 60000000.0 / bpm
	return usPerQuarter / 1000000.0 / float64(ppq)
}

// TickAtSeconds returns the tick position reached after the given number of
// seconds of playback.
func (m *TempoMap) TickAtSeconds(seconds float64) float64 {
	if len(m.Events) == 0 {
		return seconds * (float64(m.PPQ) * defaultBPM / 60.0)
	}

	bpm := m.Events[0].BPM
	lastSeconds := m.Events[0].Seconds
	lastTick := m.Events[0].Tick

	for _, ev := range m.Events {
		if ev.Seconds > seconds {
			break
		}
		lastSeconds = ev.Seconds
		lastTick = ev.Tick
		bpm = ev.BPM
	}

	return (seconds-lastSeconds)*(float64(m.PPQ)*bpm/60.0) + float64(lastTick)
}

// SecondsAtTick is the inverse of TickAtSeconds.
func (m *TempoMap) SecondsAtTick(tick float64) float64 {
	if len(m.Events) == 0 {
		return tick / (float64(m.PPQ) * defaultBPM / 60.0)
	}

	lastTick := uint64(0)
	lastBPM := m.Events[0].BPM
	seconds := 0.0

	for i := 1; i < len(m.Events); i++ {
		ev := m.Events[i]
		if float64(ev.Tick) > tick {
			break
		}

		seconds += float64(ev.Tick-lastTick) * secondsPerTick(lastBPM, m.PPQ)
		lastTick = ev.Tick
		lastBPM = ev.BPM
	}

	seconds += (tick - float64(lastTick)) * secondsPerTick(lastBPM, m.PPQ)

	return seconds
}
