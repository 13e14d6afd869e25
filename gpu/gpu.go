//go:build !nogpu

// Package gpu registers the wgpu compute backend for GPU-accelerated ASCII
// conversion.
//
// Import this package to run conversion kernels as compute shaders. If GPU
// initialization fails (no Vulkan available), the registration is silently
// skipped and conversion stays on the CPU worker pool.
//
// Usage:
//
//	import _ "github.com/gogpu/ascii/gpu" // enable GPU conversion
package gpu

import (
	"github.com/gogpu/ascii"
	gpuimpl "github.com/gogpu/ascii/internal/gpu"
	"github.com/gogpu/gpucontext"
)

func init() {
	if err := ascii.RegisterAccelerator(&gpuimpl.Accelerator{}); err != nil {
		ascii.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU backend to use a shared GPU device
// from an external provider (e.g. gogpu). This avoids creating a separate
// GPU instance and enables efficient device sharing.
//
// The provider must also expose HAL access via HalDevice()/HalQueue()
// (gpucontext.HalProvider); the registered backend rejects providers that
// don't.
//
// Call this after the blank import has registered the accelerator.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return ascii.SetAcceleratorDeviceProvider(provider)
}
