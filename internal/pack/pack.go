// Package pack implements the byte-lane packing used by ASCII output
// buffers and lookup tables.
//
// Packed units are 32-bit words holding four character codes in
// little-endian lane order: lane 0 is the least significant byte, so a
// packed word stream is byte-for-byte identical to the unpacked code
// stream. The same convention must be used on both the encode and decode
// paths, and it matches the layout the GPU kernels produce.
package pack

import "encoding/binary"

// LanesPerWord is the number of character codes packed into one word.
const LanesPerWord = 4

// WordsPerUnit is the number of words in a 16-code unit.
const WordsPerUnit = 4

// Word packs four bytes into a little-endian word. b0 occupies the least
// significant byte (lane 0).
func Word(b0, b1, b2, b3 byte) uint32 {
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}

// Lane extracts the byte in the given lane (0-3) of a packed word.
func Lane(w uint32, lane int) byte {
	return byte(w >> (uint(lane) * 8))
}

// SetLane returns w with the byte in the given lane (0-3) replaced by v.
// The other three lanes are preserved, which makes SetLane the
// read-modify-write primitive for filling a shared word one code at a time.
func SetLane(w uint32, lane int, v byte) uint32 {
	shift := uint(lane) * 8
	return w&^(0xff<<shift) | uint32(v)<<shift
}

// PutWord stores a packed word into dst in little-endian byte order.
// dst must be at least 4 bytes.
func PutWord(dst []byte, w uint32) {
	binary.LittleEndian.PutUint32(dst, w)
}

// GetWord loads a packed word from src in little-endian byte order.
// src must be at least 4 bytes.
func GetWord(src []byte) uint32 {
	return binary.LittleEndian.Uint32(src)
}

// Bytes serializes packed words into their little-endian byte stream.
// Because of the lane convention, the result is the unpacked code sequence.
func Bytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// Words deserializes a little-endian byte stream into packed words.
// len(data) must be a multiple of 4.
func Words(data []byte) []uint32 {
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}
