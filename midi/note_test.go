package midi

import (
	"testing"
)

func TestNoteStoreAddAndGroup(t *testing.T) {
	s := NewNoteStore()

	s.Add(0, Note{Start: 960, Length: 480, Channel: 1, Key: 60, Velocity: 100})
	s.Add(0, Note{Start: 0, Length: 480, Channel: 0, Key: 64, Velocity: 90})
	s.Add(2, Note{Start: 480, Length: 240, Channel: 3, Key: 72, Velocity: 80})

	if !s.Dirty {
		t.Error("store must be dirty after adds")
	}

	grouped := s.ByTrack()

	if len(grouped) != 2 {
		t.Fatalf("track count = %d, want 2", len(grouped))
	}

	track0 := grouped[0]
	if len(track0) != 2 {
		t.Fatalf("track 0 note count = %d, want 2", len(track0))
	}
	if track0[0].Start != 0 || track0[1].Start != 960 {
		t.Errorf("track 0 not sorted by start: %d, %d", track0[0].Start, track0[1].Start)
	}

	n := grouped[2][0]
	if n.Track() != 2 || n.Channel() != 3 {
		t.Errorf("channel/track packing broken: track %d channel %d", n.Track(), n.Channel())
	}
}

func TestNoteStoreRemoveLast(t *testing.T) {
	s := NewNoteStore()

	s.Add(0, Note{Start: 0, Length: 10, Key: 60})
	s.Add(0, Note{Start: 100, Length: 10, Key: 61})

	s.RemoveLast()

	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}

	for _, notes := range s.ByTrack() {
		if notes[0].Key != 60 {
			t.Errorf("wrong note removed, remaining key = %d", notes[0].Key)
		}
	}

	s.RemoveLast()
	s.RemoveLast() // removing from an empty store is a no-op

	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

func TestNoteStoreEvents(t *testing.T) {
	s := NewNoteStore()

	s.Add(0, Note{Start: 0, Length: 480, Channel: 2, Key: 60, Velocity: 100})
	s.Add(0, Note{Start: 480, Length: 480, Channel: 2, Key: 62, Velocity: 90})

	events := s.Events()

	if len(events) != 4 {
		t.Fatalf("event count = %d, want 4", len(events))
	}

	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Errorf("events not sorted at %d: %v after %v", i, events[i].Time, events[i-1].Time)
		}
	}

	// at tick 480 the off for key 60 must come before the on for key 62
	if events[1].Type != EventNoteOff || events[2].Type != EventNoteOn {
		t.Errorf("off/on order at shared tick: %v, %v", events[1].Type, events[2].Type)
	}

	on := events[0]
	if on.Data[0] != 0x92 || on.Data[1] != 60 || on.Data[2] != 100 {
		t.Errorf("note on bytes = %v", on.Data)
	}

	off := events[1]
	if off.Data[0] != 0x82 || off.Data[1] != 60 {
		t.Errorf("note off bytes = %v", off.Data)
	}
}
