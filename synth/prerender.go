package synth

import (
	"sync"
	"sync/atomic"
	"time"

	"pianoroll/midi"
)

// prerenderBuffer is a ring of interleaved stereo samples that a generator
// goroutine fills ahead of playback. Read and write positions are counted in
// frames and only ever grow; they wrap when indexing into the ring.
//
// The generator never runs more than half a ring ahead of the reader, and
// when it falls behind it starts skipping quiet notes (see skippingVelocity)
// to catch up.
type prerenderBuffer struct {
	readPos  atomic.Int64
	writePos atomic.Int64

	mu         sync.Mutex
	samples    []float32
	sampleRate int
}

func newPrerenderBuffer(sampleRate int, bufferSeconds float64) *prerenderBuffer {
	return &prerenderBuffer{
		samples:    make([]float32, int(bufferSeconds*float64(sampleRate))*2),
		sampleRate: sampleRate,
	}
}

func (b *prerenderBuffer) frames() int64 {
	return int64(len(b.samples) / 2)
}

// writeWrapped renders count frames from the synth into the ring starting at
// frame position start, wrapping at the end of the ring.
func (b *prerenderBuffer) writeWrapped(s *Synth, start, count int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buffLen := int64(len(b.samples))
	begin := (start * 2) % buffLen
	n := count * 2

	if begin+n > buffLen {
		s.Render(b.samples[begin:buffLen])
		n -= buffLen - begin
		s.Render(b.samples[0:n])
	} else {
		s.Render(b.samples[begin : begin+n])
	}
}

// readInto copies rendered frames into dst, starting at the read position.
// Anything not yet written comes out as silence. The read position advances
// by len(dst)/2 frames regardless, so playback time keeps moving even
// through an underrun.
func (b *prerenderBuffer) readInto(dst []float32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := int64(len(dst))
	rd := b.readPos.Load()
	wr := b.writePos.Load()
	buffLen := int64(len(b.samples))
	read := (rd % b.frames()) * 2

	if rd+count/2 > wr {
		avail := (wr - rd) * 2
		if avail < 0 {
			avail = 0
		}
		if avail > count {
			avail = count
		}
		for i := int64(0); i < avail; i++ {
			dst[i] = b.samples[(i+read)%buffLen]
		}
		for i := avail; i < count; i++ {
			dst[i] = 0
		}
	} else {
		for i := int64(0); i < count; i++ {
			dst[i] = b.samples[(i+read)%buffLen]
		}
	}

	b.readPos.Add(count / 2)
}

// skippingVelocity is the note on velocity threshold below which the
// generator drops notes. While the generator is comfortably ahead of the
// reader it sits above 127 and nothing is skipped; the further behind it
// falls, the more it sheds.
func (b *prerenderBuffer) skippingVelocity() uint8 {
	wr := b.writePos.Load()
	rd := b.readPos.Load()

	diff := 127 + 10 - (wr-rd)/100
	if diff > 127 {
		diff = 127
	}
	if diff < 0 {
		diff = 0
	}
	return uint8(diff)
}

// generate walks the event list, rendering audio up to each event's
// timestamp before applying it to the synth. It blocks while the ring is
// half full and returns when the events run out or reset is raised.
func (b *prerenderBuffer) generate(s *Synth, events []midi.Event, reset *atomic.Bool) {
	b.writePos.Store(0)
	b.readPos.Store(0)

	halfFrames := b.frames() / 2

	for _, e := range events {
		time.Sleep(2 * time.Millisecond)
		if reset.Load() {
			break
		}

		offset := int64(e.Time*float64(b.sampleRate)) - b.writePos.Load()

		if offset > 0 {
			remaining := offset
			for b.writePos.Load()+remaining > b.readPos.Load()+halfFrames {
				spare := b.readPos.Load() + halfFrames - b.writePos.Load()
				if spare > 0 {
					if spare > remaining {
						spare = remaining
					}
					b.writeWrapped(s, b.writePos.Load(), spare)
					b.writePos.Add(spare)
					remaining -= spare
					if remaining == 0 {
						break
					}
				}
				if reset.Load() {
					break
				}
				time.Sleep(time.Millisecond)
			}
			if remaining != 0 {
				b.writeWrapped(s, b.writePos.Load(), remaining)
			}
			b.writePos.Add(remaining)
		}

		if len(e.Data) < 2 {
			errLogger.Printf("malformed note event, %d data bytes", len(e.Data))
			continue
		}

		switch e.Type {
		case midi.EventNoteOn:
			if len(e.Data) < 3 || e.Data[2] < b.skippingVelocity() {
				continue
			}
			s.NoteOn(e.Data[0]&0xF, e.Data[1], e.Data[2])
		case midi.EventNoteOff:
			s.NoteOff(e.Data[0]&0xF, e.Data[1])
		}
	}

	s.AllNotesOff()
}
