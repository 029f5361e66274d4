package main

import (
	eb "github.com/hajimehoshi/ebiten/v2"
)

const (
	ShowDebugConsoleKey = eb.KeyF1
	ReloadAssetsKey     = eb.KeyF5
	SaveColorTableKey   = eb.KeyF10
	ScreenshotKey       = eb.KeyF12
)
