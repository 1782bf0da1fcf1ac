// Package soft is a pure-Go software backend. It implements the full
// driver contract against in-memory storage, with no hardware or cgo
// involved, and reports every core feature as EMULATED so negotiation
// never auto-prefers it over a real backend. Importing the package for
// side effects registers the driver:
//
//	import _ "github.com/kaon3d/kaon/gpu/soft"
package soft

import (
	"context"
	"fmt"

	"github.com/kaon3d/kaon/gpu"
)

const driverVersion = "0.3.1"

func init() {
	gpu.RegisterDriver(&Driver{})
}

// Driver is the software backend's registration entry.
type Driver struct{}

// Backend returns the software backend tag.
func (d *Driver) Backend() gpu.Backend { return gpu.BackendSoftware }

// Probe always succeeds: the rasterizer needs nothing from the platform.
func (d *Driver) Probe(ctx context.Context) (*gpu.Probe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &gpu.Probe{
		DeviceID:      "soft-0",
		DeviceName:    "kaon software rasterizer",
		Vendor:        "kaon",
		DriverVersion: driverVersion,
		Features: map[gpu.Feature]gpu.FeatureStatus{
			gpu.FeatureCoreRendering: gpu.FeatureEmulated,
			gpu.FeaturePresentation:  gpu.FeatureEmulated,
			gpu.FeatureDepthTextures: gpu.FeatureEmulated,
		},
	}, nil
}

// CreateInstance opens the software context.
func (d *Driver) CreateInstance(label string) (gpu.DriverInstance, error) {
	return &instance{label: label}, nil
}

// ShaderWordSize returns the SPIR-V word size.
func (d *Driver) ShaderWordSize() int { return 4 }

// ShaderSuffix returns the SPIR-V binary suffix.
func (d *Driver) ShaderSuffix() string { return ".spv" }

type instance struct {
	label string
}

func (in *instance) RequestAdapter(ctx context.Context, opts gpu.AdapterOptions) (gpu.DriverAdapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &adapter{}, nil
}

// Native returns nil: the software backend has no native context.
func (in *instance) Native() interface{} { return nil }

func (in *instance) Destroy() {}

type adapter struct{}

func (a *adapter) Info() gpu.AdapterInfo {
	return gpu.AdapterInfo{
		Name:          "kaon software rasterizer",
		Vendor:        "kaon",
		Architecture:  "cpu",
		DriverVersion: driverVersion,
	}
}

func (a *adapter) RequestDevice(ctx context.Context, label string) (gpu.DriverDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &device{label: label}, nil
}

// device executes recorded command lists synchronously on the CPU.
type device struct {
	label string
}

func (d *device) CreateBuffer(size uint64, usage gpu.BufferUsage) (gpu.DriverBuffer, error) {
	return &buffer{data: make([]byte, size)}, nil
}

func (d *device) CreateTexture(desc gpu.TextureDescriptor) (gpu.DriverTexture, error) {
	return newTexture(desc), nil
}

func (d *device) CreateSampler(desc gpu.SamplerDescriptor) (gpu.DriverSampler, error) {
	return &sampler{desc: desc}, nil
}

func (d *device) CreateShaderModule(label string, code []byte) (gpu.DriverShaderModule, error) {
	module := &shaderModule{label: label, code: make([]byte, len(code))}
	copy(module.code, code)
	return module, nil
}

func (d *device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor, vertex, fragment gpu.DriverShaderModule) (gpu.DriverRenderPipeline, error) {
	return &pipeline{desc: desc}, nil
}

func (d *device) CreateCommandEncoder(label string) (gpu.DriverCommandEncoder, error) {
	return &encoder{label: label}, nil
}

func (d *device) CreateSurface(native uintptr, cfg gpu.SurfaceConfig) (gpu.DriverSurface, error) {
	return &surface{cfg: cfg}, nil
}

// Submit replays each command buffer's recorded operations in order.
// Execution is inherently synchronous, so the blocking contract holds
// trivially.
func (d *device) Submit(buffers []gpu.DriverCommandBuffer) error {
	for _, b := range buffers {
		cb, ok := b.(*commandBuffer)
		if !ok {
			return fmt.Errorf("soft: foreign command buffer %T", b)
		}
		for _, op := range cb.ops {
			if err := op(); err != nil {
				return err
			}
		}
		cb.ops = nil
	}
	return nil
}

func (d *device) Destroy() error { return nil }
