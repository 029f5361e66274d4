package main

// Dimming factor applied to border pixels of a note quad.
const NoteBorderDim = 0.1

// Border thresholds in pixels. The left edge is a full pixel wide,
// the other three edges half a pixel.
const (
	noteBorderLeftPx   = 1.0
	noteBorderRightPx  = 0.5
	noteBorderTopPx    = 0.5
	noteBorderBottomPx = 0.5
)

// NoteBorderFactor returns the dimming factor for the pixel at (u, v) inside
// a note quad. noteW and noteH are the quad's size as a fraction of the
// viewport, screenW and screenH the viewport size in pixels.
//
// This is the CPU twin of assets/note_shader.go. Keep the two in sync.
func NoteBorderFactor(u, v, noteW, noteH, screenW, screenH float64) float64 {
	borders := 1.0

	if u*noteW <= noteBorderLeftPx/screenW || (1-u)*noteW <= noteBorderRightPx/screenW {
		borders = NoteBorderDim
	}

	if v*noteH <= noteBorderTopPx/screenH || (1-v)*noteH <= noteBorderBottomPx/screenH {
		borders = NoteBorderDim
	}

	return borders
}

// NoteFragment evaluates the whole note fragment function: base color scaled
// by the border factor, alpha pinned to 1.
func NoteFragment(u, v float64, clr [3]float64, noteW, noteH, screenW, screenH float64) [4]float64 {
	borders := NoteBorderFactor(u, v, noteW, noteH, screenW, screenH)

	return [4]float64{
		clr[0] * borders,
		clr[1] * borders,
		clr[2] * borders,
		1,
	}
}
