//go:build ignore

//kage:unit pixels

package main

// Uniform variables.
var ScreenSize vec2

// Vertex attributes:
//
//	color      - note base color
//	custom.xy  - uv inside the note quad
//	custom.zw  - note quad size as a fraction of the viewport
func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {
	uv := custom.xy
	noteSize := custom.zw

	borders := 1.0

	// left edge gets a full pixel, right edge half a pixel
	if uv.x*noteSize.x <= 1.0/ScreenSize.x || (1.0-uv.x)*noteSize.x <= 0.5/ScreenSize.x {
		borders = 0.1
	}

	if uv.y*noteSize.y <= 0.5/ScreenSize.y || (1.0-uv.y)*noteSize.y <= 0.5/ScreenSize.y {
		borders = 0.1
	}

	return vec4(color.rgb*borders, 1.0)
}
