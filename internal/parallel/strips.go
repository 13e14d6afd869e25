package parallel

// Strip is a half-open range of output rows [Y0, Y1) owned by exactly one
// work-item. Strips are the static output partition that makes lock-free
// writes safe: no two strips overlap and together they cover every row.
type Strip struct {
	Y0 int
	Y1 int
}

// Rows returns the number of rows in the strip.
func (s Strip) Rows() int { return s.Y1 - s.Y0 }

// SplitRows partitions rows into at most n contiguous strips of near-equal
// size. The result covers [0, rows) exactly once; strips never overlap.
// Fewer than n strips are returned when rows < n, so every strip is
// non-empty.
func SplitRows(rows, n int) []Strip {
	if rows <= 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > rows {
		n = rows
	}

	strips := make([]Strip, 0, n)
	base := rows / n
	extra := rows % n
	y := 0
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		strips = append(strips, Strip{Y0: y, Y1: y + size})
		y += size
	}
	return strips
}
