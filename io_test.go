package ascii

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / (w - 1))
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestDecode_PNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(8, 4)); err != nil {
		t.Fatal(err)
	}

	p, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if p.Width() != 8 || p.Height() != 4 {
		t.Fatalf("decoded pixmap is %dx%d, want 8x4", p.Width(), p.Height())
	}
	// Leftmost column is black, rightmost white.
	if l := p.LightnessAt(0, 0); l != 0 {
		t.Errorf("LightnessAt(0,0) = %v, want 0", l)
	}
	if l := p.LightnessAt(7, 0); l != 1 {
		t.Errorf("LightnessAt(7,0) = %v, want 1", l)
	}
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grad.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testImage(16, 8)); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	p, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() err = %v", err)
	}
	if p.Width() != 16 || p.Height() != 8 {
		t.Errorf("loaded pixmap is %dx%d, want 16x8", p.Width(), p.Height())
	}
}

func TestLoadImage_Missing(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadImage() on missing file: err = nil, want error")
	}
}

func TestResize(t *testing.T) {
	dst := Resize(testImage(64, 32), 16, 8)
	if b := dst.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("resized to %dx%d, want 16x8", b.Dx(), b.Dy())
	}
}

func TestFitColumns(t *testing.T) {
	src := testImage(100, 50)
	tests := []struct {
		name       string
		cols       int
		packing    Packing
		downsample bool
		wantW      int
		wantH      int
	}{
		// Without downsampling the height is halved for cell aspect.
		{"plain", 80, PackNone, false, 80, 20},
		// With downsampling the height stays full (the sampler halves it)
		// and must be even.
		{"downsample", 80, PackNone, true, 80, 40},
		// Width rounds up to the packing unit.
		{"word aligned", 30, PackWord, true, 32, 16},
		{"unit aligned", 30, PackUnit, true, 32, 16},
		// cols <= 0 falls back to the source width.
		{"default cols", 0, PackNone, true, 100, 50},
		// Odd computed heights round up to even with downsampling.
		{"odd height rounds up", 50, PackNone, true, 50, 26},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitColumns(src, tt.cols, tt.packing, tt.downsample)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitColumns() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			if w%tt.packing.CodesPerUnit() != 0 {
				t.Errorf("width %d not aligned to unit %d", w, tt.packing.CodesPerUnit())
			}
			if tt.downsample && h%2 != 0 {
				t.Errorf("height %d odd with downsampling", h)
			}
		})
	}
}
