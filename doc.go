// Package ascii converts images into ASCII-art character grids.
//
// # Overview
//
// ascii is a Pure Go image-to-ASCII pipeline designed to integrate with the
// GoGPU ecosystem. Every pixel (or pair of vertically adjacent pixels) is
// reduced to an HSL lightness value, quantized to one of 256 levels, and
// mapped through a 256-entry character table. The resulting character codes
// are written into a densely packed output buffer that unpacks into rows of
// text.
//
// # Quick Start
//
//	import "github.com/gogpu/ascii"
//
//	img, err := ascii.LoadImage("gopher.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv := ascii.NewConverter(ascii.WithDownsample(true))
//	defer conv.Close()
//
//	frame, err := conv.Convert(img)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(frame)
//
// # Lightness
//
// The lightness formula is the HSL midpoint, min+(max-min)/2 over the R, G
// and B channels. It is deliberately not a perceptual luminance model:
// character tables are tuned against this exact formula, so substituting
// BT.709-style coefficients would shift every quantization level.
//
// # Packing
//
// Output buffers come in three layouts: one code per byte (PackNone), four
// codes per 32-bit word (PackWord), and sixteen codes per 16-byte unit
// (PackUnit). Packed layouts use little-endian lane order, so the packed
// byte stream reads back as plain ASCII without any shuffling. See the
// internal/pack package for the encode/decode helpers.
//
// # Backends
//
// Conversion runs on a CPU worker pool by default. Importing the gpu
// subpackage registers a wgpu compute backend that executes the same kernels
// as WGSL shaders:
//
//	import _ "github.com/gogpu/ascii/gpu" // enable GPU conversion
//
// If GPU initialization fails, conversion transparently falls back to the
// CPU path.
//
// # Concurrency
//
// A conversion is a data-parallel grid of independent work-items. Inputs are
// immutable for the duration of a run and every work-item owns a disjoint
// slice of the output, so the pipeline needs no locks.
package ascii

// Version is the current version of the library.
const Version = "0.2.0"
