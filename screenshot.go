package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"time"

	eb "github.com/hajimehoshi/ebiten/v2"
)

// TakeScreenshot saves img as a png next to the executable and returns the
// file name.
func TakeScreenshot(img *eb.Image) (string, error) {
	timeStr := time.Now().Format("0102150405")

	filename := fmt.Sprintf("pic-%s.png", timeStr)

	nameCounter := 1
	for {
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			break
		}
		nameCounter++
		filename = fmt.Sprintf("pic-%s-(%d).png", timeStr, nameCounter)
	}

	buffer := &bytes.Buffer{}
	if err := png.Encode(buffer, img); err != nil {
		return "", err
	}

	if err := os.WriteFile(filename, buffer.Bytes(), 0644); err != nil {
		return "", err
	}

	return filename, nil
}
