package main

import (
	"encoding/json"
	"os"
)

// Settings is everything that survives a restart: the project defaults and
// the audio knobs.
type Settings struct {
	InitialBPM float64 `json:"initialBpm"`
	PPQ        int     `json:"ppq"`

	SynthLayers  int     `json:"synthLayers"`
	MasterVolume float64 `json:"masterVolume"`
}

var TheSettings = DefaultSettings()

func DefaultSettings() Settings {
	return Settings{
		InitialBPM: 160,
		PPQ:        1920,

		SynthLayers:  2,
		MasterVolume: 1,
	}
}

const settingsPath = "settings.json"

func SaveSettings() {
	jsonBytes, err := json.MarshalIndent(TheSettings, "", "    ")
	if err != nil {
		ErrorLogger.Printf("failed to serialize settings : %v", err)
		return
	}

	if err := os.WriteFile(settingsPath, jsonBytes, 0664); err != nil {
		ErrorLogger.Printf("failed to save settings : %v", err)
		return
	}

	InfoLogger.Printf("saved settings to %s", settingsPath)
}

func LoadSettings() {
	jsonBytes, err := os.ReadFile(settingsPath)
	if err != nil {
		// no settings file is fine, keep the defaults
		return
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(jsonBytes, &settings); err != nil {
		ErrorLogger.Printf("failed to parse settings : %v", err)
		return
	}

	if settings.PPQ <= 0 {
		settings.PPQ = DefaultSettings().PPQ
	}
	if settings.InitialBPM <= 0 {
		settings.InitialBPM = DefaultSettings().InitialBPM
	}

	TheSettings = settings
}
