//go:build ignore

//kage:unit pixels

package main

// Uniform variables.
var ScreenSize vec2

// Vertex attributes:
//
//	color      - bar base color
//	custom.xy  - uv inside the bar quad
//	custom.z   - bar quad width as a fraction of the viewport
//	custom.w   - bar number, starting at 0
func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {
	uv := custom.xy
	barWidth := custom.z
	barNumber := custom.w

	shade := 1.0
	if mod(barNumber, 2.0) >= 1.0 {
		shade = 0.8
	}

	// bar line on the left edge
	if uv.x*barWidth <= 1.0/ScreenSize.x {
		shade *= 0.4
	}

	return vec4(color.rgb*shade, 1.0)
}
