package ascii

import "fmt"

// Packing selects the output buffer layout.
type Packing int

const (
	// PackNone stores one character code per byte.
	PackNone Packing = iota

	// PackWord stores four character codes per 32-bit word, little-endian
	// lane order.
	PackWord

	// PackUnit stores sixteen character codes per 16-byte unit, laid out as
	// four little-endian words. One work-item fills a whole unit.
	PackUnit
)

// CodesPerUnit returns how many character codes one storage unit holds.
func (p Packing) CodesPerUnit() int {
	switch p {
	case PackWord:
		return 4
	case PackUnit:
		return 16
	default:
		return 1
	}
}

// String returns the packing name.
func (p Packing) String() string {
	switch p {
	case PackNone:
		return "none"
	case PackWord:
		return "word"
	case PackUnit:
		return "unit"
	default:
		return fmt.Sprintf("Packing(%d)", int(p))
	}
}

// ParsePacking converts a packing name ("none", "word", "unit") to a
// Packing value. Used by the CLI.
func ParsePacking(s string) (Packing, error) {
	switch s {
	case "none", "":
		return PackNone, nil
	case "word":
		return PackWord, nil
	case "unit":
		return PackUnit, nil
	default:
		return PackNone, fmt.Errorf("ascii: unknown packing %q", s)
	}
}
