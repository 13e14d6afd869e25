package ascii

import "strings"

// Frame is the packed output of a conversion: a cols×rows character grid
// stored as densely packed units. The packed byte stream uses little-endian
// lane order, so it doubles as the plain character sequence.
type Frame struct {
	cols    int
	rows    int
	packing Packing
	data    []byte
}

// NewFrame allocates a frame for a cols×rows character grid with the given
// packing. cols must be a multiple of the packing's codes-per-unit; the
// converter validates this before any work-item runs.
func NewFrame(cols, rows int, packing Packing) *Frame {
	return &Frame{
		cols:    cols,
		rows:    rows,
		packing: packing,
		data:    make([]byte, cols*rows),
	}
}

// Cols returns the number of character columns.
func (f *Frame) Cols() int { return f.cols }

// Rows returns the number of character rows.
func (f *Frame) Rows() int { return f.rows }

// Packing returns the storage layout of the packed data.
func (f *Frame) Packing() Packing { return f.packing }

// Packed returns the raw packed buffer. Its length is always cols*rows
// bytes: one byte per code regardless of packing, since packed units are
// byte-dense.
func (f *Frame) Packed() []byte { return f.data }

// Units returns the number of storage units in the packed buffer.
func (f *Frame) Units() int {
	return f.cols * f.rows / f.packing.CodesPerUnit()
}

// Row unpacks one character row. With the little-endian lane convention
// unpacking is a straight byte copy, exactly how the original host
// reassembled rows from the staging buffer.
func (f *Frame) Row(y int) []byte {
	out := make([]byte, f.cols)
	copy(out, f.data[y*f.cols:(y+1)*f.cols])
	return out
}

// Text unpacks the whole frame into rows of text.
func (f *Frame) Text() []string {
	rows := make([]string, f.rows)
	for y := 0; y < f.rows; y++ {
		rows[y] = string(f.data[y*f.cols : (y+1)*f.cols])
	}
	return rows
}

// String joins the unpacked rows with newlines.
func (f *Frame) String() string {
	return strings.Join(f.Text(), "\n")
}
