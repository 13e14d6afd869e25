//go:build !nogpu

package gpu

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/ascii"
)

func TestMakeConfig(t *testing.T) {
	job := ascii.Job{
		Width: 320, Height: 96,
		Cols: 320, Rows: 48,
		Downsample: true,
	}
	buf := makeConfig(job)
	if len(buf) != configSize {
		t.Fatalf("config length = %d, want %d", len(buf), configSize)
	}
	want := []uint32{320, 96, 320, 48, 1}
	for i, w := range want {
		if got := binary.LittleEndian.Uint32(buf[i*4:]); got != w {
			t.Errorf("config word %d = %d, want %d", i, got, w)
		}
	}
	// Padding words stay zero.
	for i := 20; i < configSize; i += 4 {
		if got := binary.LittleEndian.Uint32(buf[i:]); got != 0 {
			t.Errorf("padding at offset %d = %d, want 0", i, got)
		}
	}
}

func TestPackTable(t *testing.T) {
	var table [64]uint32
	for i := range table {
		table[i] = uint32(i) * 0x01010101
	}
	buf := packTable(table)
	if len(buf) != tableSize {
		t.Fatalf("table buffer length = %d, want %d", len(buf), tableSize)
	}
	for i, w := range table {
		if got := binary.LittleEndian.Uint32(buf[i*4:]); got != w {
			t.Errorf("table word %d = %#x, want %#x", i, got, w)
		}
	}
}

func TestPackImage(t *testing.T) {
	pix := []float32{0, 0.5, 1, -1}
	buf := packImage(pix)
	if len(buf) != len(pix)*4 {
		t.Fatalf("image buffer length = %d, want %d", len(buf), len(pix)*4)
	}
	for i, f := range pix {
		if got := binary.LittleEndian.Uint32(buf[i*4:]); got != math.Float32bits(f) {
			t.Errorf("float %d bits = %#x, want %#x", i, got, math.Float32bits(f))
		}
	}
}

func TestCompactCodes(t *testing.T) {
	// One code per u32 slot: the low byte carries the code, the rest is
	// zero fill from the shader.
	readback := []byte{
		'A', 0, 0, 0,
		'B', 0, 0, 0,
		'C', 0, 0, 0,
	}
	if got := compactCodes(readback, 3); !bytes.Equal(got, []byte("ABC")) {
		t.Errorf("compactCodes = %q, want %q", got, "ABC")
	}
}
