package main

import (
	"encoding/json"
	"testing"
)

func TestSettingsDefaults(t *testing.T) {
	s := DefaultSettings()

	if s.InitialBPM != 160 || s.PPQ != 1920 {
		t.Errorf("project defaults = (%v BPM, %v PPQ), want (160, 1920)", s.InitialBPM, s.PPQ)
	}
	if s.SynthLayers != 2 {
		t.Errorf("synth layers = %d, want 2", s.SynthLayers)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.InitialBPM = 90
	s.MasterVolume = 0.5

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	var back Settings
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}

	if back != s {
		t.Errorf("round trip = %+v, want %+v", back, s)
	}
}
