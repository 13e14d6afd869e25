// Package kernel implements the per-work-item ASCII conversion kernels.
//
// Each kernel is a straight-line pure function from read-only inputs (image
// samples and a lookup table) to one output slot. There is no shared mutable
// state: callers partition the output into disjoint row ranges, so the
// kernels need no synchronization. The three variants mirror the three
// output layouts — one code per byte, four codes per word, sixteen codes
// per unit — and reproduce their exact indexing arithmetic.
package kernel

import "github.com/gogpu/ascii/internal/pack"

// Image is the kernel view of an input image: raw RGBA float channels in
// [0,1] plus the explicit width the index arithmetic needs.
type Image struct {
	Pix    []float32
	Width  int
	Height int
}

// lightnessAt computes the HSL midpoint lightness of the pixel at (x, y).
// Kept local so the hot loop never leaves the package.
func lightnessAt(im Image, x, y int) float32 {
	i := (y*im.Width + x) * 4
	r, g, b := im.Pix[i], im.Pix[i+1], im.Pix[i+2]
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

// Sample returns the lightness feeding the quantizer for output row y.
// When downsample is set, y addresses a half-height grid: the sampler reads
// the two vertically adjacent pixels at y*2 and y*2+1 and averages their
// lightness. The caller guarantees the image height is even.
func Sample(im Image, x, y int, downsample bool) float32 {
	if downsample {
		return (lightnessAt(im, x, y*2) + lightnessAt(im, x, y*2+1)) / 2
	}
	return lightnessAt(im, x, y)
}

// level quantizes lightness to a table index by truncation.
func level(lightness float32) uint8 {
	return uint8(lightness * 255.0)
}

// FillBytes runs the one-code-per-byte kernel over output rows [y0, y1).
// Output index is x + y*cols, the table is addressed flat.
func FillBytes(im Image, table *[256]byte, out []byte, cols, y0, y1 int, downsample bool) {
	for y := y0; y < y1; y++ {
		row := out[y*cols : (y+1)*cols]
		for x := 0; x < cols; x++ {
			row[x] = table[level(Sample(im, x, y, downsample))]
		}
	}
}

// FillWords runs the four-codes-per-word kernel over output rows [y0, y1).
// The table is addressed as 64 packed words (word level/4, lane level%4)
// and each destination word is filled lane by lane with a read-modify-write,
// as the word-packed shader does. The RMW needs no lock: a row range is
// owned by exactly one work-item, and words never straddle rows.
func FillWords(im Image, table *[64]uint32, out []byte, cols, y0, y1 int, downsample bool) {
	words := cols / pack.LanesPerWord
	for y := y0; y < y1; y++ {
		row := out[y*cols : (y+1)*cols]
		for wx := 0; wx < words; wx++ {
			dst := row[wx*4 : wx*4+4]
			for lane := 0; lane < pack.LanesPerWord; lane++ {
				l := level(Sample(im, wx*pack.LanesPerWord+lane, y, downsample))
				code := pack.Lane(table[l/4], int(l%4))
				pack.PutWord(dst, pack.SetLane(pack.GetWord(dst), lane, code))
			}
		}
	}
}

// FillUnits runs the sixteen-codes-per-unit kernel over output rows
// [y0, y1). The table uses the two-level packed layout (unit level/16,
// word (level%16)/4, lane level%4). One work-item computes all sixteen
// samples of a unit, packs four words, and stores the whole unit at once.
func FillUnits(im Image, table *[16][4]uint32, out []byte, cols, y0, y1 int, downsample bool) {
	units := cols / 16
	for y := y0; y < y1; y++ {
		row := out[y*cols : (y+1)*cols]
		for ux := 0; ux < units; ux++ {
			for sub := 0; sub < pack.WordsPerUnit; sub++ {
				var w uint32
				for lane := 0; lane < pack.LanesPerWord; lane++ {
					x := ux*16 + sub*4 + lane
					l := level(Sample(im, x, y, downsample))
					code := pack.Lane(table[l/16][(l%16)/4], int(l%4))
					w = pack.SetLane(w, lane, code)
				}
				pack.PutWord(row[ux*16+sub*4:], w)
			}
		}
	}
}
