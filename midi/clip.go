package midi

import (
	"fmt"
	"strings"
)

// Clip text format, used for copy/pasting notes through the system
// clipboard. One note per line after the header:
//
//	pianoroll-clip v1
//	start length track channel key velocity
const clipHeader = "pianoroll-clip v1"

// ClipNote is a note plus the track it belongs to.
type ClipNote struct {
	Track uint16
	Note  Note
}

func EncodeClip(notes []*ProjectNote) string {
	var b strings.Builder

	b.WriteString(clipHeader)
	b.WriteString("\n")

	for _, n := range notes {
		fmt.Fprintf(&b, "%d %d %d %d %d %d\n",
			n.Start, n.Length, n.Track(), n.Channel(), n.Key, n.Velocity)
	}

	return b.String()
}

func DecodeClip(text string) ([]ClipNote, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != clipHeader {
		return nil, fmt.Errorf("not a note clip")
	}

	var notes []ClipNote

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var start, length uint32
		var track uint16
		var channel, key, velocity uint8

		_, err := fmt.Sscanf(line, "%d %d %d %d %d %d",
			&start, &length, &track, &channel, &key, &velocity)
		if err != nil {
			return nil, fmt.Errorf("bad clip line %q: %w", line, err)
		}

		if channel > 15 {
			return nil, fmt.Errorf("bad clip line %q: channel out of range", line)
		}
		if key > 127 {
			return nil, fmt.Errorf("bad clip line %q: key out of range", line)
		}

		notes = append(notes, ClipNote{
			Track: track,
			Note: Note{
				Start:    start,
				Length:   length,
				Channel:  channel,
				Key:      key,
				Velocity: velocity,
			},
		})
	}

	return notes, nil
}
