package ascii

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/ascii/internal/pack"
)

// TableSize is the number of entries in a lookup table, one per
// quantization level.
const TableSize = 256

// ErrTableSize is returned when a lookup table does not have exactly 256
// entries.
var ErrTableSize = errors.New("ascii: lookup table must have exactly 256 entries")

// defaultRamp is a dark-to-light character ramp. DefaultTable stretches it
// across all 256 quantization levels.
const defaultRamp = "$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. "

// Table is a 256-entry lookup table mapping quantization levels to ASCII
// character codes. A Table is immutable after construction and safe to
// share between concurrent conversions.
type Table struct {
	codes [TableSize]byte
}

// NewTable builds a lookup table from exactly 256 character codes.
// Returns ErrTableSize for any other length.
func NewTable(codes []byte) (*Table, error) {
	if len(codes) != TableSize {
		return nil, fmt.Errorf("%w (got %d)", ErrTableSize, len(codes))
	}
	t := &Table{}
	copy(t.codes[:], codes)
	return t, nil
}

// DefaultTable returns a table built by stretching a standard 70-character
// dark-to-light ramp across the 256 levels: level 0 maps to the densest
// glyph ('$') and level 255 to space.
func DefaultTable() *Table {
	t := &Table{}
	for i := range t.codes {
		t.codes[i] = defaultRamp[i*len(defaultRamp)/TableSize]
	}
	return t
}

// LoadTable reads a levels file: 256 characters with newlines ignored,
// ordered dark to light. This is the on-disk format of the original
// levels.txt asset.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ascii: read table: %w", err)
	}
	codes := make([]byte, 0, TableSize)
	for _, c := range data {
		if c == '\n' || c == '\r' {
			continue
		}
		codes = append(codes, c)
	}
	return NewTable(codes)
}

// At returns the character code for a quantization level.
func (t *Table) At(level uint8) byte {
	return t.codes[level]
}

// Codes returns a copy of the raw 256-byte table.
func (t *Table) Codes() []byte {
	out := make([]byte, TableSize)
	copy(out, t.codes[:])
	return out
}

// PackWords returns the table packed four codes per word, 64 words total.
// Entry for level l lives in word l/4, lane l%4.
func (t *Table) PackWords() [TableSize / 4]uint32 {
	var words [TableSize / 4]uint32
	for i := range words {
		words[i] = pack.Word(t.codes[i*4], t.codes[i*4+1], t.codes[i*4+2], t.codes[i*4+3])
	}
	return words
}

// PackUnits returns the table packed sixteen codes per unit, 16 units of 4
// words each. Entry for level l lives in unit l/16, word (l%16)/4, lane l%4.
// This is the two-level layout the 16-wide GPU kernel indexes.
func (t *Table) PackUnits() [TableSize / 16][4]uint32 {
	var units [TableSize / 16][4]uint32
	words := t.PackWords()
	for i := range units {
		for j := 0; j < 4; j++ {
			units[i][j] = words[i*4+j]
		}
	}
	return units
}
