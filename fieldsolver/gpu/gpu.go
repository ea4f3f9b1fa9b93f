// Package gpu implements the field solver's graphics-compute backend: the
// heat-transfer kernel dispatches a WGSL compute shader on the
// device, while the remaining (cheaper, harder-to-parallelize-usefully)
// stages run on the readback copy the way the host path does, avoiding a
// full compute-shader rewrite of every stage. Grounded on
// voxelrt/rt/gpu/manager_compression.go and manager_hiz.go (shader
// module/pipeline construction, buffer descriptors, the MapAsync+Poll
// readback pattern) and gpu_operations.go (headless adapter/device
// acquisition, minus the window/surface this backend doesn't need).
package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/mineubob/wildfiresim/fieldsolver/cpu"
	"github.com/mineubob/wildfiresim/units"
)

const heatTransferShader = `
struct Params {
	width: u32,
	height: u32,
	cell_size: f32,
	dt: f32,
	wind_x: f32,
	wind_y: f32,
	ambient: f32,
	diffusivity: f32,
};

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> temp_in: array<f32>;
@group(0) @binding(2) var<storage, read_write> temp_out: array<f32>;

fn idx(x: i32, y: i32) -> u32 {
	let cx = clamp(x, 0, i32(params.width) - 1);
	let cy = clamp(y, 0, i32(params.height) - 1);
	return u32(cy) * params.width + u32(cx);
}

@compute @workgroup_size(8, 8, 1)
fn step_heat(@builtin(global_invocation_id) gid: vec3<u32>) {
	if (gid.x >= params.width || gid.y >= params.height) {
		return;
	}
	let x = i32(gid.x);
	let y = i32(gid.y);
	let here = idx(x, y);
	let t = temp_in[here];

	let lap = temp_in[idx(x + 1, y)] + temp_in[idx(x - 1, y)] +
	temp_in[idx(x, y + 1)] + temp_in[idx(x, y - 1)] - 4.0 * t;
	let diffusion = params.diffusivity * lap / (params.cell_size * params.cell_size);

	let sigma = 5.67e-8;
	let radiation = sigma * 0.9 * (pow(t, 4.0) - pow(params.ambient, 4.0)) * 1e-6;

	let advect_x = -params.wind_x * (t - temp_in[idx(x - 1, y)]) / params.cell_size;
	let advect_y = -params.wind_y * (t - temp_in[idx(x, y - 1)]) / params.cell_size;

	var out = t + params.dt * (diffusion - radiation + advect_x + advect_y);
	out = max(out, params.ambient);
	temp_out[here] = out;
}
`

const thermalDiffusivity = 0.15

// Backend is the compute-shader field solver. Stages other than heat
// transfer mutate the mirrored cpu.Backend directly; heat transfer is
// dispatched to the device and read back into the mirror afterward so the
// two stay consistent from the caller's point of view.
type Backend struct {
	mirror *cpu.Backend

	instance *wgpu.Instance
	adapter *wgpu.Adapter
	device *wgpu.Device
	queue *wgpu.Queue

	pipeline *wgpu.ComputePipeline
	paramsBuf *wgpu.Buffer
	tempInBuf *wgpu.Buffer
	tempOutBuf *wgpu.Buffer
	readback *wgpu.Buffer

	width, height int
	cellSize units.Length
}

// Probe attempts to acquire a compute-capable headless GPU adapter,
// returning an error when none is available so the caller can log and fall
// back. The device itself is requested later, by New.
func Probe() (*wgpu.Instance, *wgpu.Adapter, error) {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, nil, fmt.Errorf("gpu: no adapter available: %w", err)
	}
	return instance, adapter, nil
}

// New builds the compute-shader backend from an already-probed instance and
// adapter (see Probe), verifying the requested grid fits the adapter's
// buffer/texture limits before committing to the GPU path.
func New(instance *wgpu.Instance, adapter *wgpu.Adapter, width, height int, cellSize units.Length, ambient units.Kelvin) (*Backend, error) {
	limits := adapter.GetLimits()
	bufBytes := uint64(width*height) * 4
	if bufBytes*2 > limits.Limits.MaxBufferSize/2 {
		return nil, fmt.Errorf("gpu: field buffers %d bytes exceed 50%% of device max %d", bufBytes*2, limits.Limits.MaxBufferSize)
	}
	if uint32(width) > limits.Limits.MaxTextureDimension2D || uint32(height) > limits.Limits.MaxTextureDimension2D {
		return nil, fmt.Errorf("gpu: grid %dx%d exceeds max 2D texture dimension %d", width, height, limits.Limits.MaxTextureDimension2D)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "FieldSolverDevice"})
	if err != nil {
		return nil, fmt.Errorf("gpu: device request failed: %w", err)
	}
	queue := device.GetQueue()

	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label: "HeatTransferShader",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: heatTransferShader},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: shader module compile failed: %w", err)
	}
	defer shaderModule.Release()

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
			Label: "HeatTransferPipeline",
			Compute: wgpu.ProgrammableStageDescriptor{
				Module: shaderModule,
				EntryPoint: "step_heat",
			},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: compute pipeline creation failed: %w", err)
	}

	paramsBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "HeatParams",
			Size: 32,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: params buffer creation failed: %w", err)
	}

	tempInBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "TempIn",
			Size: bufBytes,
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: temp-in buffer creation failed: %w", err)
	}

	tempOutBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "TempOut",
			Size: bufBytes,
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: temp-out buffer creation failed: %w", err)
	}

	readback, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "TempReadback",
			Size: bufBytes,
			Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: readback buffer creation failed: %w", err)
	}

	return &Backend{
		mirror: cpu.New(width, height, cellSize, ambient),
		instance: instance,
		adapter: adapter,
		device: device,
		queue: queue,
		pipeline: pipeline,
		paramsBuf: paramsBuf,
		tempInBuf: tempInBuf,
		tempOutBuf: tempOutBuf,
		readback: readback,
		width: width,
		height: height,
		cellSize: cellSize,
	}, nil
}

func putFloat32(dst []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(dst[off:off+4], math.Float32bits(v))
}

func putUint32(dst []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(dst[off:off+4], v)
}

// StepHeatTransfer dispatches the heat-transfer compute shader, then reads
// the result back into the mirrored cpu.Backend so subsequent stages (and
// ReadTemperature/ReadLevelSet) observe a consistent field.
func (b *Backend) StepHeatTransfer(dt float64, windX, windY float64, ambient units.Kelvin) {
	params := make([]byte, 32)
	putUint32(params, 0, uint32(b.width))
	putUint32(params, 4, uint32(b.height))
	putFloat32(params, 8, float32(b.cellSize))
	putFloat32(params, 12, float32(dt))
	putFloat32(params, 16, float32(windX))
	putFloat32(params, 20, float32(windY))
	putFloat32(params, 24, float32(ambient))
	putFloat32(params, 28, float32(thermalDiffusivity))
	b.queue.WriteBuffer(b.paramsBuf, 0, params)

	temps := b.mirror.ReadTemperature()
	tempBytes := make([]byte, len(temps)*4)
	for i, t := range temps {
		putFloat32(tempBytes, i*4, t)
	}
	b.queue.WriteBuffer(b.tempInBuf, 0, tempBytes)

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label: "HeatTransferBindGroup",
			Layout: b.pipeline.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: b.paramsBuf, Size: 32},
				{Binding: 1, Buffer: b.tempInBuf, Size: uint64(len(tempBytes))},
				{Binding: 2, Buffer: b.tempOutBuf, Size: uint64(len(tempBytes))},
			},
	})
	if err != nil {
		return
	}
	defer bindGroup.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return
	}
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	workgroupsX := uint32((b.width + 7) / 8)
	workgroupsY := uint32((b.height + 7) / 8)
	pass.DispatchWorkgroups(workgroupsX, workgroupsY, 1)
	pass.End()
	encoder.CopyBufferToBuffer(b.tempOutBuf, 0, b.readback, 0, uint64(len(tempBytes)))
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return
	}
	b.queue.Submit(cmd)

	mapped := false
	b.readback.MapAsync(wgpu.MapModeRead, 0, uint64(len(tempBytes)), func(status wgpu.BufferMapAsyncStatus) {
			mapped = status == wgpu.BufferMapAsyncStatusSuccess
	})
	b.device.Poll(true, nil)
	if !mapped {
		return
	}
	data := b.readback.GetMappedRange(0, uint(len(tempBytes)))
	out := make([]float32, len(temps))
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
	}
	b.readback.Unmap()

	b.mirror.WriteTemperature(out)
}

func (b *Backend) StepCombustion(dt float64) { b.mirror.StepCombustion(dt) }
func (b *Backend) StepMoisture(dt float64, humidity units.Fraction) { b.mirror.StepMoisture(dt, humidity) }
func (b *Backend) StepLevelSet(dt float64) { b.mirror.StepLevelSet(dt) }
func (b *Backend) StepIgnitionSync(ignitionTemp units.Kelvin) { b.mirror.StepIgnitionSync(ignitionTemp) }

func (b *Backend) IgniteAt(x, y, radius float64, ignitionTemp units.Kelvin, margin float64) {
	b.mirror.IgniteAt(x, y, radius, ignitionTemp, margin)
}

func (b *Backend) ReadTemperature() []float32 { return b.mirror.ReadTemperature() }
func (b *Backend) ReadLevelSet() []float32 { return b.mirror.ReadLevelSet() }

func (b *Backend) Dimensions() (int, int, units.Length) { return b.width, b.height, b.cellSize }
func (b *Backend) IsGPUAccelerated() bool { return true }

// Close releases the device, pipeline, and buffers held by this backend.
func (b *Backend) Close() {
	b.paramsBuf.Release()
	b.tempInBuf.Release()
	b.tempOutBuf.Release()
	b.readback.Release()
	b.pipeline.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
}
