package main

import (
	"encoding/json"
	"image/color"
	"os"
)

type ColorTableIndex int

const (
	ColorBg ColorTableIndex = iota

	ColorBar
	ColorBarLine

	ColorPlayhead

	ColorChannel0
	ColorChannel1
	ColorChannel2
	ColorChannel3
	ColorChannel4
	ColorChannel5
	ColorChannel6
	ColorChannel7
	ColorChannel8

	ColorTableSize
)

var colorTableNames = [ColorTableSize]string{
	ColorBg: "Bg",

	ColorBar:     "Bar",
	ColorBarLine: "BarLine",

	ColorPlayhead: "Playhead",

	ColorChannel0: "Channel0",
	ColorChannel1: "Channel1",
	ColorChannel2: "Channel2",
	ColorChannel3: "Channel3",
	ColorChannel4: "Channel4",
	ColorChannel5: "Channel5",
	ColorChannel6: "Channel6",
	ColorChannel7: "Channel7",
	ColorChannel8: "Channel8",
}

func (i ColorTableIndex) String() string {
	return colorTableNames[i]
}

var ColorTable [ColorTableSize]color.NRGBA

func init() {
	ColorTable[ColorBg] = color.NRGBA{0, 0, 0, 255}

	ColorTable[ColorBar] = color.NRGBA{35, 35, 40, 255}
	ColorTable[ColorBarLine] = color.NRGBA{70, 70, 80, 255}

	ColorTable[ColorPlayhead] = color.NRGBA{255, 255, 255, 255}

	ColorTable[ColorChannel0] = color.NRGBA{255, 0, 0, 255}
	ColorTable[ColorChannel1] = color.NRGBA{255, 127, 0, 255}
	ColorTable[ColorChannel2] = color.NRGBA{255, 255, 0, 255}
	ColorTable[ColorChannel3] = color.NRGBA{0, 255, 0, 255}
	ColorTable[ColorChannel4] = color.NRGBA{0, 255, 255, 255}
	ColorTable[ColorChannel5] = color.NRGBA{0, 127, 255, 255}
	ColorTable[ColorChannel6] = color.NRGBA{0, 0, 255, 255}
	ColorTable[ColorChannel7] = color.NRGBA{127, 0, 255, 255}
	ColorTable[ColorChannel8] = color.NRGBA{255, 0, 255, 255}
}

const channelColorCount = int(ColorChannel8-ColorChannel0) + 1

// ChannelColor returns the note color for a MIDI channel.
func ChannelColor(channel uint8) color.NRGBA {
	return ColorTable[ColorChannel0+ColorTableIndex(int(channel)%channelColorCount)]
}

func ColorTableToJson(table [ColorTableSize]color.NRGBA) ([]byte, error) {
	tableMap := make(map[string]string)

	for i := ColorTableIndex(0); i < ColorTableSize; i++ {
		tableMap[i.String()] = ColorToString(table[i])
	}

	jsonBytes, err := json.MarshalIndent(tableMap, "", "    ")
	if err != nil {
		return nil, err
	}

	return jsonBytes, nil
}

func ColorTableFromJson(tableJson []byte) ([ColorTableSize]color.NRGBA, error) {
	colorTable := ColorTable

	var tableMap map[string]string

	err := json.Unmarshal(tableJson, &tableMap)
	if err != nil {
		return colorTable, err
	}

	stringToIndex := make(map[string]int)
	for i := ColorTableIndex(0); i < ColorTableSize; i++ {
		stringToIndex[i.String()] = int(i)
	}

	for k, v := range tableMap {
		index, ok := stringToIndex[k]
		if !ok {
			continue
		}

		clr, err := ParseColorString(v)
		if err != nil {
			return colorTable, err
		}
		colorTable[index] = clr
	}

	return colorTable, nil
}

const colorTablePath = "colors.json"

func SaveColorTable() {
	jsonBytes, err := ColorTableToJson(ColorTable)
	if err != nil {
		ErrorLogger.Printf("failed to serialize color table : %v", err)
		return
	}

	if err := os.WriteFile(colorTablePath, jsonBytes, 0664); err != nil {
		ErrorLogger.Printf("failed to save color table : %v", err)
		return
	}

	InfoLogger.Printf("saved color table to %s", colorTablePath)
}

func LoadColorTable() {
	jsonBytes, err := os.ReadFile(colorTablePath)
	if err != nil {
		// no color table file is fine, keep the defaults
		return
	}

	table, err := ColorTableFromJson(jsonBytes)
	if err != nil {
		ErrorLogger.Printf("failed to parse color table : %v", err)
		return
	}

	ColorTable = table
}
