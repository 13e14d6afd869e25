package ascii

import (
	"errors"
	"fmt"

	"github.com/gogpu/ascii/internal/kernel"
	"github.com/gogpu/ascii/internal/parallel"
)

// Precondition errors. A conversion is rejected before any work-item runs;
// once dispatched, work-items cannot fail.
var (
	// ErrNilImage is returned when the input pixmap is nil.
	ErrNilImage = errors.New("ascii: image must not be nil")

	// ErrEmptyImage is returned when the input pixmap has a zero dimension.
	ErrEmptyImage = errors.New("ascii: image has zero dimensions")

	// ErrOddHeight is returned when downsampling is requested for an image
	// with an odd height. The sampler reads pixel pairs at y*2 and y*2+1,
	// so an odd final row would be silently unread.
	ErrOddHeight = errors.New("ascii: downsampling requires an even image height")

	// ErrUnalignedWidth is returned when the image width is not a multiple
	// of the packing's codes-per-unit, which would leave a partially owned
	// output unit.
	ErrUnalignedWidth = errors.New("ascii: image width must be a multiple of the packing unit")
)

// Converter turns pixmaps into ASCII frames. It owns a worker pool for the
// CPU path and consults the registered GPU accelerator when one is
// available. A Converter is safe for concurrent use; Close releases the
// pool.
type Converter struct {
	table      *Table
	packing    Packing
	downsample bool
	useGPU     bool
	pool       *parallel.WorkerPool
}

// Option configures a Converter.
type Option func(*Converter)

// WithTable sets the lookup table. Defaults to DefaultTable().
func WithTable(t *Table) Option {
	return func(c *Converter) {
		if t != nil {
			c.table = t
		}
	}
}

// WithPacking sets the output buffer layout. Defaults to PackNone.
func WithPacking(p Packing) Option {
	return func(c *Converter) { c.packing = p }
}

// WithDownsample enables 2x vertical downsampling: every output row
// averages the lightness of two vertically adjacent pixel rows. This
// roughly corrects for terminal cells being twice as tall as wide.
func WithDownsample(on bool) Option {
	return func(c *Converter) { c.downsample = on }
}

// WithWorkers sets the CPU worker count. Zero or negative means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.pool = parallel.NewWorkerPool(n)
	}
}

// WithGPU controls whether the registered GPU accelerator is consulted.
// Enabled by default; the CPU path is always available as fallback.
func WithGPU(on bool) Option {
	return func(c *Converter) { c.useGPU = on }
}

// NewConverter creates a converter with the given options.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		table:   DefaultTable(),
		packing: PackNone,
		useGPU:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = parallel.NewWorkerPool(0)
	}
	return c
}

// Close releases the converter's worker pool. The converter must not be
// used after Close.
func (c *Converter) Close() {
	c.pool.Close()
}

// Convert runs the full pipeline on a pixmap and returns the packed frame.
//
// Preconditions are validated here, before dispatch: the image must be
// non-empty, its width a multiple of the packing unit, and its height even
// when downsampling. The lookup table invariant (exactly 256 entries) is
// enforced by construction of Table.
func (c *Converter) Convert(p *Pixmap) (*Frame, error) {
	if p == nil {
		return nil, ErrNilImage
	}
	if p.width <= 0 || p.height <= 0 {
		return nil, ErrEmptyImage
	}
	if c.downsample && p.height%2 != 0 {
		return nil, fmt.Errorf("%w (height %d)", ErrOddHeight, p.height)
	}
	if cpu := c.packing.CodesPerUnit(); p.width%cpu != 0 {
		return nil, fmt.Errorf("%w (width %d, unit %d)", ErrUnalignedWidth, p.width, cpu)
	}

	cols := p.width
	rows := p.height
	if c.downsample {
		rows = p.height / 2
	}

	if c.useGPU {
		if frame, ok := c.convertGPU(p, cols, rows); ok {
			return frame, nil
		}
	}
	return c.convertCPU(p, cols, rows), nil
}

// convertGPU tries the registered accelerator. Returns ok=false when no
// accelerator is registered or the accelerator declined or failed; the
// caller falls back to the CPU path.
func (c *Converter) convertGPU(p *Pixmap, cols, rows int) (*Frame, bool) {
	a := RegisteredAccelerator()
	if a == nil {
		return nil, false
	}

	data, err := a.Convert(Job{
		Pix:        p.pix,
		Width:      p.width,
		Height:     p.height,
		Table:      c.table.PackWords(),
		Cols:       cols,
		Rows:       rows,
		Packing:    c.packing,
		Downsample: c.downsample,
	})
	if err != nil {
		if errors.Is(err, ErrFallbackToCPU) {
			Logger().Debug("accelerator declined conversion", "name", a.Name())
		} else {
			Logger().Warn("GPU conversion failed, using CPU", "name", a.Name(), "err", err)
		}
		return nil, false
	}
	if len(data) != cols*rows {
		Logger().Warn("GPU conversion returned wrong buffer size, using CPU",
			"name", a.Name(), "got", len(data), "want", cols*rows)
		return nil, false
	}

	frame := &Frame{cols: cols, rows: rows, packing: c.packing, data: data}
	return frame, true
}

// convertCPU runs the kernels on the worker pool. The output rows are
// split into disjoint strips, one work-item per strip, so no two
// work-items ever touch the same output unit.
func (c *Converter) convertCPU(p *Pixmap, cols, rows int) *Frame {
	frame := NewFrame(cols, rows, c.packing)
	im := kernel.Image{Pix: p.pix, Width: p.width, Height: p.height}

	// A few strips per worker keeps stealing useful on uneven images.
	strips := parallel.SplitRows(rows, c.pool.Workers()*4)
	work := make([]func(), len(strips))

	switch c.packing {
	case PackWord:
		table := c.table.PackWords()
		for i, s := range strips {
			s := s
			work[i] = func() {
				kernel.FillWords(im, &table, frame.data, cols, s.Y0, s.Y1, c.downsample)
			}
		}
	case PackUnit:
		table := c.table.PackUnits()
		for i, s := range strips {
			s := s
			work[i] = func() {
				kernel.FillUnits(im, &table, frame.data, cols, s.Y0, s.Y1, c.downsample)
			}
		}
	default:
		var table [TableSize]byte
		copy(table[:], c.table.codes[:])
		for i, s := range strips {
			s := s
			work[i] = func() {
				kernel.FillBytes(im, &table, frame.data, cols, s.Y0, s.Y1, c.downsample)
			}
		}
	}

	c.pool.ExecuteAll(work)
	return frame
}

// Convert is a convenience wrapper that builds a one-shot converter,
// converts a single pixmap, and releases the pool.
func Convert(p *Pixmap, opts ...Option) (*Frame, error) {
	c := NewConverter(opts...)
	defer c.Close()
	return c.Convert(p)
}
