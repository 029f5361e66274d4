package main

import (
	"time"

	eba "github.com/hajimehoshi/ebiten/v2/audio"

	"pianoroll/synth"
)

const SampleRate = 48000

// AudioSystem glues the synth engine to the audio device. The engine's
// stream runs for the life of the program; what comes out of it depends on
// the engine's render mode.
type AudioSystem struct {
	Context *eba.Context
	Engine  *synth.Engine

	player *eba.Player
}

func NewAudioSystem() (*AudioSystem, error) {
	ctx := eba.NewContext(SampleRate)

	engine := synth.NewEngine(SampleRate)
	engine.SetLayerCount(TheSettings.SynthLayers)

	player, err := ctx.NewPlayerF32(engine.Stream())
	if err != nil {
		return nil, err
	}

	player.SetBufferSize(50 * time.Millisecond)
	player.SetVolume(TheSettings.MasterVolume)
	player.Play()

	return &AudioSystem{
		Context: ctx,
		Engine:  engine,
		player:  player,
	}, nil
}

func (a *AudioSystem) SetVolume(volume float64) {
	a.player.SetVolume(volume)
}
