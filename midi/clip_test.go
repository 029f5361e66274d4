package midi

import (
	"testing"
)

func TestClipRoundTrip(t *testing.T) {
	s := NewNoteStore()
	s.Add(0, Note{Start: 0, Length: 480, Channel: 0, Key: 60, Velocity: 100})
	s.Add(1, Note{Start: 960, Length: 240, Channel: 9, Key: 35, Velocity: 127})

	var notes []*ProjectNote
	for _, trackNotes := range s.ByTrack() {
		notes = append(notes, trackNotes...)
	}

	decoded, err := DecodeClip(EncodeClip(notes))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("decoded %d notes, want 2", len(decoded))
	}

	found := false
	for _, cn := range decoded {
		if cn.Track == 1 {
			found = true
			want := Note{Start: 960, Length: 240, Channel: 9, Key: 35, Velocity: 127}
			if cn.Note != want {
				t.Errorf("decoded note = %+v, want %+v", cn.Note, want)
			}
		}
	}
	if !found {
		t.Error("track 1 note missing from decoded clip")
	}
}

func TestDecodeClipRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"hello world",
		"pianoroll-clip v1\n1 2 three 4 5 6",
		"pianoroll-clip v1\n0 480 0 99 60 100",  // channel out of range
		"pianoroll-clip v1\n0 480 0 0 200 100",  // key out of range
	}

	for _, text := range bad {
		if _, err := DecodeClip(text); err == nil {
			t.Errorf("DecodeClip(%q) succeeded, want error", text)
		}
	}
}

func TestDecodeClipEmptyBody(t *testing.T) {
	notes, err := DecodeClip("pianoroll-clip v1\n")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("decoded %d notes, want 0", len(notes))
	}
}
