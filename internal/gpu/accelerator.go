// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package gpu provides a GPU conversion backend using gogpu/wgpu compute
// shaders. The WGSL kernels mirror the CPU kernels exactly; output buffers
// are bit-identical between the two paths.
package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	_ "embed"

	"github.com/gogpu/ascii"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

//go:embed shaders/ascii.wgsl
var asciiShaderWGSL string

// configSize is the byte size of the Config uniform in ascii.wgsl.
const configSize = 32

// tableSize is the byte size of the packed table uniform (64 words).
const tableSize = 256

// Accelerator converts images on the GPU via wgpu/hal compute pipelines.
// It implements the ascii.Accelerator interface.
//
// One compute pipeline exists per packing variant, all built from a single
// shader module. A conversion is a single dispatch: upload image + table,
// run the kernel grid, copy the output into a staging buffer and read it
// back.
type Accelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout

	// Pipelines by kernel variant.
	codePipeline hal.ComputePipeline // one code per u32 slot
	wordPipeline hal.ComputePipeline // four codes per word
	unitPipeline hal.ComputePipeline // sixteen codes per unit

	gpuReady       bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

var _ ascii.Accelerator = (*Accelerator)(nil)

// Name returns the accelerator identifier.
func (a *Accelerator) Name() string { return "wgpu" }

// Init creates GPU resources. Returns an error when no usable adapter is
// available, in which case the accelerator is not registered and
// conversion stays on the CPU.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initGPU()
}

// Close releases GPU resources. Shared devices are not destroyed.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetLogger receives the logger propagated from ascii.SetLogger.
func (a *Accelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// SetDeviceProvider switches the accelerator to a shared GPU device from an
// external provider (e.g. a gogpu window). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue —
// gpucontext.DeviceProvider implementations with HAL access do.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("ascii-gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("ascii-gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("ascii-gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("ascii-gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("switched to shared GPU device")
	return nil
}

// Convert runs one conversion job on the GPU and returns the packed output
// buffer (Cols*Rows bytes). Returns ascii.ErrFallbackToCPU when the GPU is
// not ready.
func (a *Accelerator) Convert(job ascii.Job) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.gpuReady {
		return nil, ascii.ErrFallbackToCPU
	}
	return a.dispatch(job)
}

func (a *Accelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("ascii-gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("ascii-gpu: create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		a.instance = nil
		return fmt.Errorf("ascii-gpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		a.instance = nil
		return fmt.Errorf("ascii-gpu: open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		instance.Destroy()
		a.instance = nil
		return fmt.Errorf("ascii-gpu: create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

// createPipelines compiles the shader and builds one compute pipeline per
// kernel variant. WGSL is compiled to SPIR-V through naga.
func (a *Accelerator) createPipelines() error {
	spirvBytes, err := naga.Compile(asciiShaderWGSL)
	if err != nil {
		return fmt.Errorf("compile ascii shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}

	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ascii_kernels",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ascii_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "ascii_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	entries := []struct {
		name string
		dst  *hal.ComputePipeline
	}{
		{"cs_code", &a.codePipeline},
		{"cs_word", &a.wordPipeline},
		{"cs_unit", &a.unitPipeline},
	}
	for _, e := range entries {
		p, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label:   "ascii_" + e.name,
			Layout:  a.pipeLayout,
			Compute: hal.ComputeState{Module: a.shader, EntryPoint: e.name},
		})
		if err != nil {
			return fmt.Errorf("create %s pipeline: %w", e.name, err)
		}
		*e.dst = p
	}
	return nil
}

func (a *Accelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	for _, p := range []hal.ComputePipeline{a.codePipeline, a.wordPipeline, a.unitPipeline} {
		if p != nil {
			a.device.DestroyComputePipeline(p)
		}
	}
	a.codePipeline = nil
	a.wordPipeline = nil
	a.unitPipeline = nil
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// pipelineFor selects the pipeline, output buffer size in bytes, and
// dispatch grid width for a job. The dispatch height is always job.Rows.
func (a *Accelerator) pipelineFor(job ascii.Job) (hal.ComputePipeline, uint64, int) {
	switch job.Packing {
	case ascii.PackWord:
		// cols/4 words per row, 4 bytes each.
		return a.wordPipeline, uint64(job.Cols * job.Rows), job.Cols / 4
	case ascii.PackUnit:
		return a.unitPipeline, uint64(job.Cols * job.Rows), job.Cols / 16
	default:
		// One u32 slot per code; readback keeps the low bytes.
		return a.codePipeline, uint64(job.Cols * job.Rows * 4), job.Cols
	}
}

// dispatch uploads the job, runs one compute pass, and reads the result
// back through a staging buffer.
func (a *Accelerator) dispatch(job ascii.Job) ([]byte, error) {
	pipeline, outputSize, gridW := a.pipelineFor(job)

	configBytes := makeConfig(job)
	tableBytes := packTable(job.Table)
	imageBytes := packImage(job.Pix)

	configBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ascii_config", Size: configSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create config buffer: %w", err)
	}
	defer a.device.DestroyBuffer(configBuf)

	tableBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ascii_table", Size: tableSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create table buffer: %w", err)
	}
	defer a.device.DestroyBuffer(tableBuf)

	imageBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ascii_image", Size: uint64(len(imageBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create image buffer: %w", err)
	}
	defer a.device.DestroyBuffer(imageBuf)

	outputBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ascii_output", Size: outputSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create output buffer: %w", err)
	}
	defer a.device.DestroyBuffer(outputBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ascii_staging", Size: outputSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(configBuf, 0, configBytes)
	a.queue.WriteBuffer(tableBuf, 0, tableBytes)
	a.queue.WriteBuffer(imageBuf, 0, imageBytes)

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "ascii_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: configBuf.NativeHandle(), Offset: 0, Size: configSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: tableBuf.NativeHandle(), Offset: 0, Size: tableSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: imageBuf.NativeHandle(), Offset: 0, Size: uint64(len(imageBytes))}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: outputBuf.NativeHandle(), Offset: 0, Size: outputSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "ascii_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ascii_convert"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "ascii_pass"})
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(uint32(gridW+7)/8, uint32(job.Rows+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(outputBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outputSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return nil, fmt.Errorf("wait for GPU: fence timeout")
	}

	readback := make([]byte, outputSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	if job.Packing == ascii.PackNone {
		return compactCodes(readback, job.Cols*job.Rows), nil
	}
	// Packed layouts use little-endian lanes, so the staging bytes are
	// already the packed frame.
	return readback, nil
}

// makeConfig serializes the Config uniform (see ascii.wgsl).
func makeConfig(job ascii.Job) []byte {
	var downsample uint32
	if job.Downsample {
		downsample = 1
	}
	buf := make([]byte, configSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(job.Width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(job.Height))
	binary.LittleEndian.PutUint32(buf[8:], uint32(job.Cols))
	binary.LittleEndian.PutUint32(buf[12:], uint32(job.Rows))
	binary.LittleEndian.PutUint32(buf[16:], downsample)
	return buf
}

// packTable serializes the 64-word packed table uniform.
func packTable(table [64]uint32) []byte {
	buf := make([]byte, tableSize)
	for i, w := range table {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// packImage serializes the float channel data for the storage buffer.
func packImage(pix []float32) []byte {
	buf := make([]byte, len(pix)*4)
	for i, f := range pix {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// compactCodes extracts the low byte of each u32 output slot, the readback
// step for the one-code-per-slot kernel.
func compactCodes(readback []byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = readback[i*4]
	}
	return out
}
