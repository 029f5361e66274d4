package midi

import (
	"slices"
)

// Note is a raw note as it comes out of a MIDI file track.
type Note struct {
	Start    uint32 // in ticks
	Length   uint32 // in ticks
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// ProjectNote is a note owned by the project. Channel and track are packed
// into ChannelTrack as track<<8 | channel.
type ProjectNote struct {
	Start        uint32
	Length       uint32
	ChannelTrack uint32
	Key          uint8
	Velocity     uint8
}

func (n *ProjectNote) Channel() uint8 {
	return uint8(n.ChannelTrack & 0xFF)
}

func (n *ProjectNote) Track() int {
	return int(n.ChannelTrack >> 8)
}

func (n *ProjectNote) End() uint32 {
	return n.Start + n.Length
}

// NoteStore holds every note in the project.
//
// Dirty is set whenever the stored notes change so the renderer knows to
// pull a fresh snapshot. It is the store user's job to clear it.
type NoteStore struct {
	notes  map[uint32]*ProjectNote
	nextID uint32

	Dirty bool
}

func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes: make(map[uint32]*ProjectNote),
	}
}

func (s *NoteStore) Len() int {
	return len(s.notes)
}

func (s *NoteStore) Add(track uint16, note Note) {
	s.notes[s.nextID] = &ProjectNote{
		Start:        note.Start,
		Length:       note.Length,
		ChannelTrack: uint32(track)<<8 | uint32(note.Channel),
		Key:          note.Key,
		Velocity:     note.Velocity,
	}
	s.nextID++
	s.Dirty = true
}

func (s *NoteStore) AddAll(track uint16, notes []Note) {
	for _, n := range notes {
		s.Add(track, n)
	}
}

// RemoveLast deletes the most recently added note, if any.
func (s *NoteStore) RemoveLast() {
	if len(s.notes) == 0 {
		return
	}

	s.nextID--
	delete(s.notes, s.nextID)
	s.Dirty = true
}

// ByTrack returns the notes grouped by track, each group sorted by start
// tick. The returned slices are snapshots safe to hand to the renderer.
func (s *NoteStore) ByTrack() map[int][]*ProjectNote {
	grouped := make(map[int][]*ProjectNote)

	for _, n := range s.notes {
		grouped[n.Track()] = append(grouped[n.Track()], n)
	}

	for _, notes := range grouped {
		slices.SortFunc(notes, func(a, b *ProjectNote) int {
			if a.Start != b.Start {
				return int(a.Start) - int(b.Start)
			}
			return int(a.Key) - int(b.Key)
		})
	}

	return grouped
}

// Events flattens the store into a NoteOn/NoteOff event stream, timestamped
// in ticks and sorted by time.
func (s *NoteStore) Events() []Event {
	events := make([]Event, 0, len(s.notes)*2)

	for _, n := range s.notes {
		ch := n.Channel() & 0x0F

		events = append(events, Event{
			Time: float64(n.Start),
			Type: EventNoteOn,
			Data: []byte{0x90 | ch, n.Key, n.Velocity},
		})
		events = append(events, Event{
			Time: float64(n.End()),
			Type: EventNoteOff,
			Data: []byte{0x80 | ch, n.Key},
		})
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		default:
			// note offs first so retriggers on the same tick behave
			return int(a.Type) - int(b.Type)
		}
	})

	return events
}
