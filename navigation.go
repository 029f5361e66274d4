package main

import "math"

// Navigation is the piano roll viewport. TickPos and KeyPos are the bottom
// left corner of the view, ZoomTicks and ZoomKeys are how many ticks and
// keys fit on screen.
type Navigation struct {
	TickPos float64
	KeyPos  float64

	ZoomTicks float64
	ZoomKeys  float64
}

const (
	minZoomTicks = 10
	maxZoomTicks = 384000

	minZoomKeys = 12
	maxZoomKeys = 128
)

// NewNavigation starts with the 88 piano keys in view, four bars wide at
// 1920 PPQ.
func NewNavigation() Navigation {
	return Navigation{
		TickPos:   0,
		KeyPos:    21,
		ZoomTicks: 7680,
		ZoomKeys:  88,
	}
}

// PanTicks scrolls horizontally. The step per wheel unit scales with the
// zoom level so panning feels the same at any width. The view never goes
// below tick zero.
func (nav *Navigation) PanTicks(delta, ppq float64) {
	newTickPos := nav.TickPos + delta*(nav.ZoomTicks/ppq)
	if newTickPos < 0 {
		newTickPos = 0
	}
	nav.TickPos = newTickPos
}

// PanKeys scrolls vertically, keeping the view inside the 128 key range.
func (nav *Navigation) PanKeys(delta float64) {
	newKeyPos := nav.KeyPos + delta*(nav.ZoomKeys/128)
	if newKeyPos < 0 {
		newKeyPos = 0
	}
	if newKeyPos+nav.ZoomKeys > 128 {
		newKeyPos = 128 - nav.ZoomKeys
	}
	nav.KeyPos = newKeyPos
}

// ZoomTicksBy zooms horizontally around the left edge of the view.
func (nav *Navigation) ZoomTicksBy(scrollDelta float64) {
	nav.ZoomTicks *= math.Pow(1.01, scrollDelta)
	nav.ZoomTicks = Clamp(nav.ZoomTicks, minZoomTicks, maxZoomTicks)
}

// ZoomKeysBy zooms vertically. When the top of the view would leave the key
// range the whole view slides down instead, so the visible keys stay put as
// long as they can.
func (nav *Navigation) ZoomKeysBy(scrollDelta float64) {
	viewTop := nav.KeyPos + nav.ZoomKeys

	nav.ZoomKeys *= math.Pow(1.01, scrollDelta)
	nav.ZoomKeys = Clamp(nav.ZoomKeys, minZoomKeys, maxZoomKeys)

	viewTopNew := nav.KeyPos + nav.ZoomKeys
	if viewTopNew > 128 {
		nav.KeyPos -= viewTopNew - viewTop
	}

	if nav.KeyPos < 0 {
		nav.KeyPos = 0
	}
}
