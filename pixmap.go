package ascii

import "image"

// Pixmap is an immutable-by-convention 2D grid of RGBA color samples, four
// float32 channels per pixel in [0,1]. It is the input format of every
// conversion kernel: CPU kernels index it directly and the GPU backend
// uploads the raw channel slice as a storage buffer.
//
// A Pixmap must not be mutated while a conversion is running; all kernels
// read it without locking.
type Pixmap struct {
	width  int
	height int
	pix    []float32 // RGBA, 4 channels per pixel
}

// NewPixmap creates a zeroed (transparent black) pixmap.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*4),
	}
}

// FromImage converts a standard library image into a Pixmap, normalizing
// every channel to [0,1].
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	p := NewPixmap(w, h)

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[off : off+w*4]
			dst := p.pix[y*w*4 : (y+1)*w*4]
			for i, v := range row {
				dst[i] = float32(v) / 255
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[off : off+w*4]
			dst := p.pix[y*w*4 : (y+1)*w*4]
			for i, v := range row {
				dst[i] = float32(v) / 255
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				i := (y*w + x) * 4
				p.pix[i+0] = float32(r) / 65535
				p.pix[i+1] = float32(g) / 65535
				p.pix[i+2] = float32(b) / 65535
				p.pix[i+3] = float32(a) / 65535
			}
		}
	}
	return p
}

// Width returns the pixmap width in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the pixmap height in pixels.
func (p *Pixmap) Height() int { return p.height }

// Pix returns the raw channel data, 4 float32 per pixel, row-major.
func (p *Pixmap) Pix() []float32 { return p.pix }

// RGBAAt returns the color channels at (x, y). Coordinates must be in
// bounds; callers derive them from output dimensions that match the pixmap.
func (p *Pixmap) RGBAAt(x, y int) (r, g, b, a float32) {
	i := (y*p.width + x) * 4
	return p.pix[i], p.pix[i+1], p.pix[i+2], p.pix[i+3]
}

// SetRGBA sets the color channels at (x, y). Out-of-bounds writes are
// ignored. Channels should be in [0,1].
func (p *Pixmap) SetRGBA(x, y int, r, g, b, a float32) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.pix[i+0] = r
	p.pix[i+1] = g
	p.pix[i+2] = b
	p.pix[i+3] = a
}

// Fill sets every pixel to the given color. Convenient for tests and solid
// backgrounds.
func (p *Pixmap) Fill(r, g, b, a float32) {
	for i := 0; i < len(p.pix); i += 4 {
		p.pix[i+0] = r
		p.pix[i+1] = g
		p.pix[i+2] = b
		p.pix[i+3] = a
	}
}

// LightnessAt returns the HSL midpoint lightness of the pixel at (x, y).
func (p *Pixmap) LightnessAt(x, y int) float32 {
	i := (y*p.width + x) * 4
	return Lightness(p.pix[i], p.pix[i+1], p.pix[i+2])
}
