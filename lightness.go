package ascii

// Lightness reduces an RGB color to a scalar brightness in [0,1].
//
// This is the L component of HSL using the max/min midpoint formula,
// min+(max-min)/2, not a weighted luminance. Alpha is ignored. Channels
// must already be in [0,1]; the result is then guaranteed to be in [0,1].
// For grayscale input (r==g==b) the result equals the channel value exactly.
func Lightness(r, g, b float32) float32 {
	mx := r
	if g > mx {
		mx = g
	}
	if b > mx {
		mx = b
	}
	mn := r
	if g < mn {
		mn = g
	}
	if b < mn {
		mn = b
	}
	return mn + (mx-mn)/2
}

// Level quantizes a lightness value in [0,1] to a table index in [0,255].
//
// Quantization truncates lightness*255 — the standard float-to-uint
// conversion. The input contract (lightness in [0,1]) keeps the result in
// range without explicit clamping, and truncation keeps quantization
// monotonic.
func Level(lightness float32) uint8 {
	return uint8(lightness * 255.0)
}
