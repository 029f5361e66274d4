package midi

import (
	"fmt"
	"io"
	"slices"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// File is the contents of a standard MIDI file, separated the way the rest
// of the program wants to consume it.
type File struct {
	PPQ uint16

	// notes per track, sorted by start tick
	TrackNotes map[int][]Note

	// tempo changes sorted by tick, Seconds filled in
	Tempo []TempoEvent

	// every note event timestamped in seconds, for the synth
	Events []Event
}

func ReadFile(path string) (*File, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read midi file %s: %w", path, err)
	}
	return fromSMF(s)
}

func Read(r io.Reader) (*File, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("read midi stream: %w", err)
	}
	return fromSMF(s)
}

func fromSMF(s *smf.SMF) (*File, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}

	f := &File{
		PPQ:        ticks.Resolution(),
		TrackNotes: make(map[int][]Note),
	}

	type openNote struct {
		start    uint32
		velocity uint8
	}

	type tickEvent struct {
		tick uint64
		ev   Event
	}
	var tickEvents []tickEvent

	for trackNo, track := range s.Tracks {
		var absTicks uint64

		// key presses currently held open, per channel and key
		open := make(map[[2]uint8]openNote)

		for _, ev := range track {
			absTicks += uint64(ev.Delta)
			msg := ev.Message

			var channel, key, velocity uint8
			var bpm float64

			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				open[[2]uint8{channel, key}] = openNote{
					start:    uint32(absTicks),
					velocity: velocity,
				}
				tickEvents = append(tickEvents, tickEvent{
					tick: absTicks,
					ev: Event{
						Type: EventNoteOn,
						Data: []byte{0x90 | (channel & 0x0F), key, velocity},
					},
				})

			case msg.GetNoteEnd(&channel, &key):
				if on, ok := open[[2]uint8{channel, key}]; ok {
					delete(open, [2]uint8{channel, key})

					f.TrackNotes[trackNo] = append(f.TrackNotes[trackNo], Note{
						Start:    on.start,
						Length:   uint32(absTicks) - on.start,
						Channel:  channel,
						Key:      key,
						Velocity: on.velocity,
					})
				}
				tickEvents = append(tickEvents, tickEvent{
					tick: absTicks,
					ev: Event{
						Type: EventNoteOff,
						Data: []byte{0x80 | (channel & 0x0F), key},
					},
				})

			case msg.GetMetaTempo(&bpm):
				f.Tempo = append(f.Tempo, TempoEvent{
					Tick: absTicks,
					BPM:  bpm,
				})
			}
		}
	}

	for _, notes := range f.TrackNotes {
		slices.SortFunc(notes, func(a, b Note) int {
			return int(a.Start) - int(b.Start)
		})
	}

	slices.SortFunc(f.Tempo, func(a, b TempoEvent) int {
		switch {
		case a.Tick < b.Tick:
			return -1
		case a.Tick > b.Tick:
			return 1
		default:
			return 0
		}
	})

	// timestamp the raw events in seconds through the tempo map
	tm := NewTempoMap(f.PPQ)
	tm.SetEvents(f.Tempo)
	f.Tempo = tm.Events

	slices.SortStableFunc(tickEvents, func(a, b tickEvent) int {
		switch {
		case a.tick < b.tick:
			return -1
		case a.tick > b.tick:
			return 1
		default:
			return int(a.ev.Type) - int(b.ev.Type)
		}
	})

	f.Events = make([]Event, 0, len(tickEvents))
	for _, te := range tickEvents {
		ev := te.ev
		ev.Time = tm.SecondsAtTick(float64(te.tick))
		f.Events = append(f.Events, ev)
	}

	return f, nil
}

// WriteFile exports the store as a type-1 standard MIDI file with one
// leading tempo track.
func WriteFile(path string, store *NoteStore, ppq uint16, initialBPM float64) error {
	s := newSMF(store, ppq, initialBPM)
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write midi file %s: %w", path, err)
	}
	return nil
}

func Write(w io.Writer, store *NoteStore, ppq uint16, initialBPM float64) error {
	s := newSMF(store, ppq, initialBPM)
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write midi stream: %w", err)
	}
	return nil
}

func newSMF(store *NoteStore, ppq uint16, initialBPM float64) *smf.SMF {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ppq)

	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaTempo(initialBPM))
	tempoTrack.Close(0)
	s.Add(tempoTrack)

	for _, trackNo := range sortedTracks(store) {
		notes := store.ByTrack()[trackNo]

		type noteEvent struct {
			tick uint64
			on   bool
			note *ProjectNote
		}

		events := make([]noteEvent, 0, len(notes)*2)
		for _, n := range notes {
			events = append(events, noteEvent{tick: uint64(n.Start), on: true, note: n})
			events = append(events, noteEvent{tick: uint64(n.End()), on: false, note: n})
		}
		slices.SortStableFunc(events, func(a, b noteEvent) int {
			switch {
			case a.tick < b.tick:
				return -1
			case a.tick > b.tick:
				return 1
			case a.on != b.on && !a.on:
				return -1
			case a.on != b.on:
				return 1
			default:
				return 0
			}
		})

		var track smf.Track
		var lastTick uint64
		for _, ev := range events {
			delta := uint32(ev.tick - lastTick)
			lastTick = ev.tick

			n := ev.note
			if ev.on {
				track.Add(delta, gomidi.NoteOn(n.Channel()&0x0F, n.Key, n.Velocity))
			} else {
				track.Add(delta, gomidi.NoteOff(n.Channel()&0x0F, n.Key))
			}
		}
		track.Close(0)
		s.Add(track)
	}

	return s
}

func sortedTracks(store *NoteStore) []int {
	grouped := store.ByTrack()
	tracks := make([]int, 0, len(grouped))
	for trackNo := range grouped {
		tracks = append(tracks, trackNo)
	}
	slices.Sort(tracks)
	return tracks
}
