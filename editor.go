package main

import (
	"strings"

	eb "github.com/hajimehoshi/ebiten/v2"

	"pianoroll/midi"
	"pianoroll/synth"
)

// Editor is the piano roll screen: the note store, the viewport, playback
// and all the input handling that ties them together.
type Editor struct {
	Store     *midi.NoteStore
	Nav       Navigation
	Tempo     *midi.TempoMap
	Renderer  *PianoRollRenderer
	Transport *Transport
	Audio     *AudioSystem

	FilePath string

	// left click auditioning
	currPointerKey uint8
	notePlaying    bool

	// where playback started, restored on stop
	lastTick float64

	// right drag note placement
	placing        bool
	placeStartTick float64
	placeKey       uint8
}

func NewEditor(filePath string, file *midi.File, audio *AudioSystem) *Editor {
	ppq := uint16(TheSettings.PPQ)
	if file != nil {
		ppq = file.PPQ
	}

	tempo := midi.NewTempoMap(ppq)
	store := midi.NewNoteStore()

	if file != nil {
		tempo.SetEvents(file.Tempo)
		for trackNo, notes := range file.TrackNotes {
			store.AddAll(uint16(trackNo), notes)
		}
	}

	nav := NewNavigation()

	ed := &Editor{
		Store:     store,
		Nav:       nav,
		Tempo:     tempo,
		Transport: NewTransport(tempo),
		Audio:     audio,
		FilePath:  filePath,
	}
	ed.Renderer = NewPianoRollRenderer(&ed.Nav, float64(ppq))

	return ed
}

// gridTicks is the note placement grid, a sixteenth.
func (ed *Editor) gridTicks() float64 {
	return ed.Renderer.PPQ / 4
}

func (ed *Editor) snapTick(tick float64) float64 {
	grid := ed.gridTicks()
	snapped := float64(int(tick/grid)) * grid
	if snapped < 0 {
		snapped = 0
	}
	return snapped
}

// tickAtCursor maps a screen position to the tick under it.
func (ed *Editor) tickAtCursor(cursor FPoint, w float64) float64 {
	return ed.Nav.TickPos + cursor.X/w*ed.Nav.ZoomTicks
}

// keyAtCursor maps a screen position to the key row under it.
func (ed *Editor) keyAtCursor(cursor FPoint, h float64) uint8 {
	key := (1-cursor.Y/h)*ed.Nav.ZoomKeys + ed.Nav.KeyPos
	return uint8(Clamp(key, 0, 127))
}

func (ed *Editor) Update(screenW, screenH float64) {
	ed.handleNavigation()
	ed.handleTransport()
	ed.handleAudition(screenW, screenH)
	ed.handlePlacement(screenW, screenH)
	ed.handleEditKeys()

	if ed.Transport.Playing {
		ed.Nav.TickPos = ed.Transport.Tick()
	}

	if ed.Store.Dirty {
		ed.Renderer.SetNotes(ed.Store.ByTrack())
		ed.Audio.Engine.SetEvents(ed.playbackEvents())
		ed.Store.Dirty = false
	}

	DebugPrintf("tick", "%.0f", ed.Nav.TickPos)
	DebugPrintf("notes", "%d", ed.Store.Len())
}

// playbackEvents converts the stored notes to a second-timestamped event
// stream for the synth engine.
func (ed *Editor) playbackEvents() []midi.Event {
	events := ed.Store.Events()
	for i := range events {
		events[i].Time = ed.Tempo.SecondsAtTick(events[i].Time)
	}
	return events
}

// handleNavigation pans and zooms with the mouse wheel. Plain wheel zooms
// horizontally, ctrl pans, alt switches either one to the vertical axis.
func (ed *Editor) handleNavigation() {
	_, wheelY := eb.Wheel()
	if wheelY > -0.001 && wheelY < 0.001 {
		return
	}

	isMoving := IsKeyPressed(eb.KeyControl)
	vertical := IsKeyPressed(eb.KeyAlt)

	if isMoving {
		if vertical {
			ed.Nav.PanKeys(wheelY)
		} else {
			ed.Nav.PanTicks(wheelY, ed.Renderer.PPQ)
			ed.Renderer.TimeChanged()
		}
	} else {
		if vertical {
			ed.Nav.ZoomKeysBy(wheelY)
		} else {
			ed.Nav.ZoomTicksBy(wheelY)
		}
	}
}

func (ed *Editor) handleTransport() {
	if !IsKeyJustPressed(eb.KeySpace) {
		return
	}

	ed.Transport.PlayOrStop()

	if ed.Transport.Playing {
		ed.lastTick = ed.Nav.TickPos
		ed.Transport.SeekTick(ed.Nav.TickPos)
		ed.Audio.Engine.SetEvents(ed.playbackEvents())
		ed.Audio.Engine.SwitchMode(synth.ModeRendering, ed.Transport.Seconds())
	} else {
		ed.Nav.TickPos = ed.lastTick
		ed.Transport.SeekTick(ed.lastTick)
		ed.Renderer.TimeChanged()
		ed.Audio.Engine.SwitchMode(synth.ModeRealtime, 0)
	}
}

// handleAudition plays the key under the cursor while the left button is
// held. Dragging across rows retriggers.
func (ed *Editor) handleAudition(screenW, screenH float64) {
	if ed.Transport.Playing {
		return
	}

	if IsMouseButtonPressed(eb.MouseButtonLeft) {
		currKey := ed.keyAtCursor(CursorFPt(), screenH)

		if currKey != ed.currPointerKey || !ed.notePlaying {
			ed.Audio.Engine.NoteOff(0, ed.currPointerKey)
			ed.Audio.Engine.NoteOn(0, currKey, 127)
			ed.notePlaying = true
		}
		ed.currPointerKey = currKey
	}

	if IsMouseButtonJustReleased(eb.MouseButtonLeft) {
		ed.Audio.Engine.NoteOff(0, ed.currPointerKey)
		ed.notePlaying = false
	}
}

// handlePlacement writes notes with a right drag: press sets the start on
// the grid, release commits the note covering the dragged range.
func (ed *Editor) handlePlacement(screenW, screenH float64) {
	if ed.Transport.Playing {
		ed.placing = false
		return
	}

	cursor := CursorFPt()

	if IsMouseButtonJustPressed(eb.MouseButtonRight) {
		ed.placing = true
		ed.placeStartTick = ed.snapTick(ed.tickAtCursor(cursor, screenW))
		ed.placeKey = ed.keyAtCursor(cursor, screenH)
	}

	if ed.placing && IsMouseButtonJustReleased(eb.MouseButtonRight) {
		ed.placing = false

		end := ed.snapTick(ed.tickAtCursor(cursor, screenW)) + ed.gridTicks()
		start := ed.placeStartTick
		if end <= start {
			end = start + ed.gridTicks()
		}

		ed.Store.Add(0, midi.Note{
			Start:    uint32(start),
			Length:   uint32(end - start),
			Channel:  0,
			Key:      ed.placeKey,
			Velocity: 100,
		})
	}
}

func (ed *Editor) handleEditKeys() {
	if IsKeyJustPressed(eb.KeyU) {
		ed.Store.RemoveLast()
	}

	ctrl := IsKeyPressed(eb.KeyControl)
	if !ctrl {
		return
	}

	switch {
	case IsKeyJustPressed(eb.KeyC):
		ed.copyNotes()
	case IsKeyJustPressed(eb.KeyV):
		ed.pasteNotes()
	case IsKeyJustPressed(eb.KeyE):
		ed.exportFile()
	}
}

func (ed *Editor) copyNotes() {
	var notes []*midi.ProjectNote
	for _, trackNotes := range ed.Store.ByTrack() {
		notes = append(notes, trackNotes...)
	}
	if len(notes) == 0 {
		return
	}

	ClipboardWriteText(midi.EncodeClip(notes))
	InfoLogger.Printf("copied %d notes", len(notes))
}

// pasteNotes inserts the clipboard notes shifted so the earliest one lands
// on the view position.
func (ed *Editor) pasteNotes() {
	text := ClipboardReadText()
	if text == "" {
		return
	}

	clipNotes, err := midi.DecodeClip(text)
	if err != nil {
		ErrorLogger.Printf("clipboard does not hold notes : %v", err)
		return
	}
	if len(clipNotes) == 0 {
		return
	}

	earliest := clipNotes[0].Note.Start
	for _, cn := range clipNotes {
		if cn.Note.Start < earliest {
			earliest = cn.Note.Start
		}
	}

	offset := uint32(ed.snapTick(ed.Nav.TickPos))
	for _, cn := range clipNotes {
		note := cn.Note
		note.Start = note.Start - earliest + offset
		ed.Store.Add(cn.Track, note)
	}

	InfoLogger.Printf("pasted %d notes", len(clipNotes))
}

func (ed *Editor) exportFile() {
	path := ed.FilePath
	if path == "" {
		path = "untitled.mid"
	} else {
		ext := ".mid"
		if i := strings.LastIndex(path, "."); i >= 0 {
			ext = path[i:]
		}
		path = strings.TrimSuffix(path, ext) + "_export" + ext
	}

	ppq := uint16(ed.Renderer.PPQ)
	if err := midi.WriteFile(path, ed.Store, ppq, TheSettings.InitialBPM); err != nil {
		ErrorLogger.Printf("export failed : %v", err)
		return
	}

	InfoLogger.Printf("exported to %s", path)
}

func (ed *Editor) Draw(dst *eb.Image) {
	bounds := dst.Bounds()
	w := f64(bounds.Dx())
	h := f64(bounds.Dy())

	ed.Renderer.Draw(dst, ed.Transport.Tick(), ed.Transport.Playing)

	if ed.placing {
		cursor := CursorFPt()

		start := ed.placeStartTick
		end := ed.snapTick(ed.tickAtCursor(cursor, w)) + ed.gridTicks()
		if end <= start {
			end = start + ed.gridTicks()
		}

		x0 := (start - ed.Nav.TickPos) / ed.Nav.ZoomTicks * w
		x1 := (end - ed.Nav.TickPos) / ed.Nav.ZoomTicks * w

		keyBottom := (float64(ed.placeKey) - ed.Nav.KeyPos) / ed.Nav.ZoomKeys
		keyTop := (float64(ed.placeKey) + 1 - ed.Nav.KeyPos) / ed.Nav.ZoomKeys

		rect := FRect(x0, (1-keyTop)*h, x1, (1-keyBottom)*h)
		StrokeRect(dst, rect, 1, ChannelColor(0), false)
	}
}
