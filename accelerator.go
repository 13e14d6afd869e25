package ascii

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the GPU backend cannot handle this conversion.
// The converter transparently falls back to the CPU worker pool.
var ErrFallbackToCPU = errors.New("ascii: falling back to CPU conversion")

// Job is a fully validated conversion dispatch handed to an accelerator.
// All preconditions (table size, dimension alignment, even height for
// downsampling) have been checked by the converter; the accelerator may
// rely on them without re-validating.
type Job struct {
	// Pix is the raw image data, 4 float32 RGBA channels per pixel.
	Pix []float32

	// Width and Height are the image dimensions in pixels.
	Width  int
	Height int

	// Table is the lookup table packed four codes per word (level/4 words,
	// level%4 lanes) — the uniform layout every kernel variant indexes.
	Table [64]uint32

	// Cols and Rows are the output character grid dimensions.
	Cols int
	Rows int

	// Packing selects the kernel variant.
	Packing Packing

	// Downsample enables 2x vertical downsampling (Rows == Height/2).
	Downsample bool
}

// Accelerator is an optional GPU conversion provider.
//
// When registered via RegisterAccelerator, the converter tries the
// accelerator first. If it returns ErrFallbackToCPU or any other error,
// conversion transparently falls back to the CPU worker pool.
//
// Implementations live in backend packages; users opt in via blank import:
//
//	import _ "github.com/gogpu/ascii/gpu" // enables GPU conversion
type Accelerator interface {
	// Name returns the accelerator name (e.g. "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// Convert runs the conversion and returns the packed output buffer
	// (Cols*Rows bytes). Returns ErrFallbackToCPU if the job cannot be
	// GPU-converted.
	Convert(job Job) ([]byte, error)
}

// DeviceProviderAware is an optional interface for accelerators that can
// share GPU resources with an external provider (e.g. a gogpu window).
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers a GPU accelerator for optional GPU
// conversion.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration. If Init() fails, the accelerator is not registered and the
// error is returned.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("ascii: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	propagateLogger(a, Logger())
	return nil
}

// RegisteredAccelerator returns the currently registered accelerator, or
// nil if none.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is
// registered or it doesn't support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any methods
// that return wgpu/hal types (gpucontext providers do).
func SetAcceleratorDeviceProvider(provider any) error {
	a := RegisteredAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
