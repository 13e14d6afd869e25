package ascii

import (
	"image"
	"image/color"
	"testing"
)

func TestNewPixmap(t *testing.T) {
	p := NewPixmap(4, 3)
	if p.Width() != 4 || p.Height() != 3 {
		t.Fatalf("pixmap is %dx%d, want 4x3", p.Width(), p.Height())
	}
	if len(p.Pix()) != 4*3*4 {
		t.Fatalf("pix length = %d, want %d", len(p.Pix()), 4*3*4)
	}
	// Zeroed: transparent black everywhere.
	r, g, b, a := p.RGBAAt(2, 1)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("RGBAAt(2,1) = (%v,%v,%v,%v), want zeros", r, g, b, a)
	}
}

func TestPixmap_SetRGBA(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetRGBA(1, 0, 0.25, 0.5, 0.75, 1)
	r, g, b, a := p.RGBAAt(1, 0)
	if r != 0.25 || g != 0.5 || b != 0.75 || a != 1 {
		t.Errorf("RGBAAt(1,0) = (%v,%v,%v,%v), want (0.25,0.5,0.75,1)", r, g, b, a)
	}

	// Out-of-bounds writes are ignored, not a panic.
	p.SetRGBA(-1, 0, 1, 1, 1, 1)
	p.SetRGBA(2, 0, 1, 1, 1, 1)
	p.SetRGBA(0, 2, 1, 1, 1, 1)
}

func TestPixmap_Fill(t *testing.T) {
	p := NewPixmap(3, 3)
	p.Fill(0.5, 0.25, 0.125, 1)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			r, g, b, a := p.RGBAAt(x, y)
			if r != 0.5 || g != 0.25 || b != 0.125 || a != 1 {
				t.Fatalf("RGBAAt(%d,%d) = (%v,%v,%v,%v)", x, y, r, g, b, a)
			}
		}
	}
}

func TestPixmap_LightnessAt(t *testing.T) {
	p := NewPixmap(1, 1)
	p.SetRGBA(0, 0, 1, 0, 0, 1)
	if got := p.LightnessAt(0, 0); got != 0.5 {
		t.Errorf("LightnessAt = %v, want 0.5 for pure red", got)
	}
}

func TestFromImage_RGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 0, G: 127, B: 255, A: 255})

	p := FromImage(img)
	if r, _, _, _ := p.RGBAAt(0, 0); r != 1 {
		t.Errorf("red channel = %v, want 1", r)
	}
	if _, g, _, _ := p.RGBAAt(1, 0); g != float32(127)/255 {
		t.Errorf("green channel = %v, want %v", g, float32(127)/255)
	}
}

func TestFromImage_NRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 64, G: 128, B: 192, A: 255})

	p := FromImage(img)
	r, g, b, _ := p.RGBAAt(0, 0)
	if r != float32(64)/255 || g != float32(128)/255 || b != float32(192)/255 {
		t.Errorf("RGBAAt = (%v,%v,%v), want (64,128,192)/255", r, g, b)
	}
}

func TestFromImage_Generic(t *testing.T) {
	// Gray is neither RGBA nor NRGBA, so this exercises the At() path.
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 255})

	p := FromImage(img)
	r, g, b, _ := p.RGBAAt(0, 0)
	if r != 1 || g != 1 || b != 1 {
		t.Errorf("RGBAAt = (%v,%v,%v), want (1,1,1)", r, g, b)
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	// Sub-images have non-zero Min; conversion must be origin-independent.
	img := image.NewRGBA(image.Rect(10, 20, 12, 21))
	img.SetRGBA(11, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	p := FromImage(img)
	if p.Width() != 2 || p.Height() != 1 {
		t.Fatalf("pixmap is %dx%d, want 2x1", p.Width(), p.Height())
	}
	if l := p.LightnessAt(1, 0); l != 1 {
		t.Errorf("LightnessAt(1,0) = %v, want 1", l)
	}
}
