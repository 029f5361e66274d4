package midi

import (
	"bytes"
	"testing"
)

func TestSMFRoundTrip(t *testing.T) {
	store := NewNoteStore()
	store.Add(0, Note{Start: 0, Length: 480, Channel: 0, Key: 60, Velocity: 100})
	store.Add(0, Note{Start: 480, Length: 960, Channel: 0, Key: 64, Velocity: 90})
	store.Add(1, Note{Start: 0, Length: 1920, Channel: 1, Key: 36, Velocity: 120})

	var buf bytes.Buffer
	if err := Write(&buf, store, 1920, 160); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	f, err := Read(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if f.PPQ != 1920 {
		t.Errorf("ppq = %d, want 1920", f.PPQ)
	}

	if len(f.Tempo) != 1 {
		t.Fatalf("tempo event count = %d, want 1", len(f.Tempo))
	}
	if bpm := f.Tempo[0].BPM; bpm < 159.9 || bpm > 160.1 {
		t.Errorf("tempo = %v, want 160", bpm)
	}

	// track 0 of the written file is the tempo track
	total := 0
	for _, notes := range f.TrackNotes {
		total += len(notes)
	}
	if total != 3 {
		t.Fatalf("note count = %d, want 3", total)
	}

	var found *Note
	for _, notes := range f.TrackNotes {
		for i := range notes {
			if notes[i].Key == 64 {
				found = &notes[i]
			}
		}
	}
	if found == nil {
		t.Fatal("note with key 64 missing")
	}
	if found.Start != 480 || found.Length != 960 || found.Velocity != 90 {
		t.Errorf("note = %+v, want start 480 length 960 velocity 90", *found)
	}
}

func TestSMFEventSeconds(t *testing.T) {
	store := NewNoteStore()
	// at 120 BPM and 960 PPQ, tick 1920 is one second in
	store.Add(0, Note{Start: 1920, Length: 960, Channel: 0, Key: 60, Velocity: 100})

	var buf bytes.Buffer
	if err := Write(&buf, store, 960, 120); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	f, err := Read(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var onSeconds, offSeconds float64 = -1, -1
	for _, ev := range f.Events {
		switch ev.Type {
		case EventNoteOn:
			onSeconds = ev.Time
		case EventNoteOff:
			offSeconds = ev.Time
		}
	}

	if !almostEqual(onSeconds, 1.0) {
		t.Errorf("note on at %v s, want 1", onSeconds)
	}
	if !almostEqual(offSeconds, 1.5) {
		t.Errorf("note off at %v s, want 1.5", offSeconds)
	}
}
