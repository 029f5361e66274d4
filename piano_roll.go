package main

import (
	"image/color"
	"sort"

	eb "github.com/hajimehoshi/ebiten/v2"

	"pianoroll/midi"
)

const noteBatchSize = 4096

const barShadeOdd = 0.8

// PianoRollRenderer draws the piano roll: alternating bar stripes in the
// back, note quads on top, playhead line last. Notes go through NoteShader
// in batches of noteBatchSize quads; when a shader failed to compile it
// falls back to drawing on the CPU.
type PianoRollRenderer struct {
	Nav *Navigation
	PPQ float64

	trackNotes    map[int][]*midi.ProjectNote
	lastNoteStart map[int]int

	verts   []eb.Vertex
	indices []uint16

	noteTemplates map[noteTemplateKey]*eb.Image
}

func NewPianoRollRenderer(nav *Navigation, ppq float64) *PianoRollRenderer {
	return &PianoRollRenderer{
		Nav: nav,
		PPQ: ppq,

		lastNoteStart: make(map[int]int),
		noteTemplates: make(map[noteTemplateKey]*eb.Image),
	}
}

// SetNotes replaces the notes to draw. Tracks must be sorted by start tick,
// the way NoteStore.ByTrack returns them.
func (r *PianoRollRenderer) SetNotes(trackNotes map[int][]*midi.ProjectNote) {
	r.trackNotes = trackNotes
	r.lastNoteStart = make(map[int]int)
}

// TimeChanged resets the culling cursors. Call after any seek; the cursors
// only ever walk forward.
func (r *PianoRollRenderer) TimeChanged() {
	for track := range r.lastNoteStart {
		r.lastNoteStart[track] = 0
	}
}

func (r *PianoRollRenderer) Draw(dst *eb.Image, playheadTick float64, showPlayhead bool) {
	bounds := dst.Bounds()
	w := f64(bounds.Dx())
	h := f64(bounds.Dy())

	dst.Fill(ColorTable[ColorBg])

	r.drawBars(dst, w, h)
	r.drawNotes(dst, w, h)

	if showPlayhead {
		x := (playheadTick - r.Nav.TickPos) / r.Nav.ZoomTicks * w
		StrokeLine(dst, x, 0, x, h, 2, ColorTable[ColorPlayhead], false)
	}
}

// keyRangePixels maps the 128 key extent into screen y coordinates.
// Key zero sits at the bottom, so y is flipped.
func (r *PianoRollRenderer) keyRangePixels(h float64) (top, bottom float64) {
	nav := r.Nav
	top = (1 - (128-nav.KeyPos)/nav.ZoomKeys) * h
	bottom = (1 - (0-nav.KeyPos)/nav.ZoomKeys) * h
	return top, bottom
}

func (r *PianoRollRenderer) drawBars(dst *eb.Image, w, h float64) {
	nav := r.Nav
	barTicks := r.PPQ * 4

	yTop, yBottom := r.keyRangePixels(h)

	barTick := 0.0
	barNum := 0
	for barTick < nav.TickPos+nav.ZoomTicks {
		barNum++
		// skip bars that end before the view starts
		if float64(barNum)*barTicks < nav.TickPos {
			barTick += barTicks
			continue
		}

		x := (barTick - nav.TickPos) / nav.ZoomTicks * w
		barW := barTicks / nav.ZoomTicks * w

		if BackgroundShader != nil {
			r.appendQuad(
				x, yTop, barW, yBottom-yTop,
				f32(barTicks/nav.ZoomTicks), f32(barNum-1),
				ColorTable[ColorBar],
			)
			if len(r.indices)/6 >= noteBatchSize {
				r.flush(dst, BackgroundShader, w, h)
			}
		} else {
			r.drawBarFallback(dst, x, yTop, barW, yBottom-yTop, barNum-1)
		}

		barTick += barTicks
	}

	if BackgroundShader != nil {
		r.flush(dst, BackgroundShader, w, h)
	}
}

func (r *PianoRollRenderer) drawBarFallback(dst *eb.Image, x, y, barW, barH float64, barNum int) {
	clr := ColorTable[ColorBar]
	if barNum%2 == 1 {
		clr = scaleColorRGB(clr, barShadeOdd)
	}

	DrawFilledRect(dst, FRectWH(barW, barH).Add(FPt(x, y)), clr, false)
	DrawFilledRect(dst, FRectWH(1, barH).Add(FPt(x, y)), ColorTable[ColorBarLine], false)
}

func (r *PianoRollRenderer) drawNotes(dst *eb.Image, w, h float64) {
	nav := r.Nav

	tracks := make([]int, 0, len(r.trackNotes))
	for track := range r.trackNotes {
		tracks = append(tracks, track)
	}
	sort.Ints(tracks)

	for _, track := range tracks {
		notes := r.trackNotes[track]

		start, end := visibleNoteRange(notes, r.lastNoteStart[track], nav.TickPos, nav.ZoomTicks)
		r.lastNoteStart[track] = start

		for _, note := range notes[start:end] {
			rect, ok := r.noteQuadRect(note, w, h)
			if !ok {
				continue
			}

			clr := ChannelColor(note.Channel())

			if NoteShader != nil {
				r.appendQuad(
					rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(),
					f32(float64(note.Length)/nav.ZoomTicks), f32(1/nav.ZoomKeys),
					clr,
				)
				if len(r.indices)/6 >= noteBatchSize {
					r.flush(dst, NoteShader, w, h)
				}
			} else {
				r.drawNoteFallback(dst, rect, clr)
			}
		}
	}

	if NoteShader != nil {
		r.flush(dst, NoteShader, w, h)
	}
}

// visibleNoteRange finds the notes overlapping the view. cursor is where the
// previous frame's search left off; notes is sorted by start tick.
func visibleNoteRange(notes []*midi.ProjectNote, cursor int, tickPos, zoomTicks float64) (start, end int) {
	start = cursor
	for start < len(notes) && float64(notes[start].End()) <= tickPos {
		start++
	}

	end = start
	for end < len(notes) && float64(notes[end].Start) <= tickPos+zoomTicks {
		end++
	}

	return start, end
}

// noteQuadRect is the note's screen rectangle. ok is false when the note is
// vertically outside the view.
func (r *PianoRollRenderer) noteQuadRect(note *midi.ProjectNote, w, h float64) (FRectangle, bool) {
	nav := r.Nav

	noteBottom := (float64(note.Key) - nav.KeyPos) / nav.ZoomKeys
	noteTop := (float64(note.Key) + 1 - nav.KeyPos) / nav.ZoomKeys

	if noteTop < 0 || noteBottom > 1 {
		return FRectangle{}, false
	}

	x := (float64(note.Start) - nav.TickPos) / nav.ZoomTicks * w
	noteW := float64(note.Length) / nav.ZoomTicks * w

	return FRect(x, (1-noteTop)*h, x+noteW, (1-noteBottom)*h), true
}

// appendQuad pushes one quad into the batch. Vertex layout for the shaders:
// color is the base color, custom.xy the uv inside the quad, custom.zw two
// extra per-quad floats (quad size for notes, width and bar number for
// bars).
func (r *PianoRollRenderer) appendQuad(
	x, y, quadW, quadH float64,
	customZ, customW float32,
	clr color.NRGBA,
) {
	cf := ColorNormalized(clr, false)
	cr, cg, cb, ca := f32(cf[0]), f32(cf[1]), f32(cf[2]), f32(cf[3])

	base := uint16(len(r.verts))

	r.verts = append(r.verts,
		eb.Vertex{
			DstX: f32(x), DstY: f32(y),
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			Custom0: 0, Custom1: 1, Custom2: customZ, Custom3: customW,
		},
		eb.Vertex{
			DstX: f32(x + quadW), DstY: f32(y),
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			Custom0: 1, Custom1: 1, Custom2: customZ, Custom3: customW,
		},
		eb.Vertex{
			DstX: f32(x + quadW), DstY: f32(y + quadH),
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			Custom0: 1, Custom1: 0, Custom2: customZ, Custom3: customW,
		},
		eb.Vertex{
			DstX: f32(x), DstY: f32(y + quadH),
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			Custom0: 0, Custom1: 0, Custom2: customZ, Custom3: customW,
		},
	)

	r.indices = append(r.indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

func (r *PianoRollRenderer) flush(dst *eb.Image, shader *eb.Shader, w, h float64) {
	if len(r.indices) == 0 {
		return
	}

	op := &eb.DrawTrianglesShaderOptions{}
	op.Uniforms = map[string]any{
		"ScreenSize": []float32{f32(w), f32(h)},
	}

	dst.DrawTrianglesShader(r.verts, r.indices, shader, op)

	r.verts = r.verts[:0]
	r.indices = r.indices[:0]
}

func scaleColorRGB(clr color.NRGBA, scale float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(clr.R) * scale),
		G: uint8(float64(clr.G) * scale),
		B: uint8(float64(clr.B) * scale),
		A: clr.A,
	}
}

const noteTemplateCacheLimit = 512

type noteTemplateKey struct {
	w, h int
}

// drawNoteFallback draws a note without the shader by stretching a cached
// template image that has the border baked in.
func (r *PianoRollRenderer) drawNoteFallback(dst *eb.Image, rect FRectangle, clr color.NRGBA) {
	pw := Clamp(int(rect.Dx()+0.5), 1, 512)
	ph := Clamp(int(rect.Dy()+0.5), 1, 128)

	key := noteTemplateKey{pw, ph}
	template, ok := r.noteTemplates[key]
	if !ok {
		if len(r.noteTemplates) >= noteTemplateCacheLimit {
			for k, img := range r.noteTemplates {
				img.Deallocate()
				delete(r.noteTemplates, k)
			}
		}

		template = eb.NewImage(pw, ph)
		template.WritePixels(noteTemplatePix(pw, ph))
		r.noteTemplates[key] = template
	}

	op := &eb.DrawImageOptions{}
	op.GeoM.Scale(rect.Dx()/float64(pw), rect.Dy()/float64(ph))
	op.GeoM.Translate(rect.Min.X, rect.Min.Y)
	op.ColorScale.ScaleWithColor(clr)

	dst.DrawImage(template, op)
}

// noteTemplatePix rasterizes the note border as a white RGBA image of the
// given pixel size. Sampling at pixel centers with the quad treated as its
// own screen reproduces what the shader does for a quad that large.
func noteTemplatePix(pw, ph int) []byte {
	pix := make([]byte, pw*ph*4)

	for y := 0; y < ph; y++ {
		// shader v runs bottom to top
		v := 1 - (float64(y)+0.5)/float64(ph)
		for x := 0; x < pw; x++ {
			u := (float64(x) + 0.5) / float64(pw)

			factor := NoteBorderFactor(u, v, float64(pw), float64(ph), 1, 1)
			shade := uint8(factor * 255)

			i := (y*pw + x) * 4
			pix[i+0] = shade
			pix[i+1] = shade
			pix[i+2] = shade
			pix[i+3] = 255
		}
	}

	return pix
}
