// Package webgpu is the browser-style backend, built on wgpu-native
// bindings. Shaders are WGSL source rather than SPIR-V binaries. Import
// it for side effects:
//
//	import _ "github.com/kaon3d/kaon/gpu/webgpu"
package webgpu

import (
	"context"
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kaon3d/kaon/gpu"
)

func init() {
	gpu.RegisterDriver(&Driver{})
}

// Driver is the WebGPU backend's registration entry.
type Driver struct{}

// Backend returns the WebGPU backend tag.
func (d *Driver) Backend() gpu.Backend { return gpu.BackendWebGPU }

// Probe requests a throwaway adapter to see whether wgpu-native can find
// a GPU here. Everything is released before returning.
func (d *Driver) Probe(ctx context.Context) (*gpu.Probe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := wgpu.CreateInstance(nil)
	if raw == nil {
		return nil, errors.New("wgpu.CreateInstance(): no instance")
	}
	defer raw.Release()

	adapter, err := raw.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil {
		return nil, errors.New("wgpu.RequestAdapter(): " + err.Error())
	}
	defer adapter.Release()

	info := adapter.GetInfo()
	return &gpu.Probe{
		DeviceID:      info.Name,
		DeviceName:    info.Name,
		Vendor:        info.VendorName,
		DriverVersion: info.DriverDescription,
		Features: map[gpu.Feature]gpu.FeatureStatus{
			gpu.FeatureCoreRendering:        gpu.FeatureSupported,
			gpu.FeaturePresentation:         gpu.FeatureSupported,
			gpu.FeatureDepthTextures:        gpu.FeatureSupported,
			gpu.FeatureAnisotropicFiltering: gpu.FeatureSupported,
			gpu.FeatureComputeShaders:       gpu.FeatureSupported,
		},
	}, nil
}

// CreateInstance opens the wgpu instance used for adapter requests.
func (d *Driver) CreateInstance(label string) (gpu.DriverInstance, error) {
	raw := wgpu.CreateInstance(nil)
	if raw == nil {
		return nil, errors.New("wgpu.CreateInstance(): no instance")
	}
	return &instance{raw: raw}, nil
}

// ShaderWordSize returns 1: WGSL is source text, any byte length goes.
func (d *Driver) ShaderWordSize() int { return 1 }

// ShaderSuffix returns the WGSL source suffix.
func (d *Driver) ShaderSuffix() string { return ".wgsl" }

type instance struct {
	raw *wgpu.Instance
}

func (in *instance) RequestAdapter(ctx context.Context, opts gpu.AdapterOptions) (gpu.DriverAdapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := &wgpu.RequestAdapterOptions{}
	switch opts.PowerPreference {
	case gpu.PowerPreferenceHighPerformance:
		options.PowerPreference = wgpu.PowerPreferenceHighPerformance
	case gpu.PowerPreferenceLowPower:
		options.PowerPreference = wgpu.PowerPreferenceLowPower
	}

	raw, err := in.raw.RequestAdapter(options)
	if err != nil {
		return nil, errors.New("wgpu.RequestAdapter(): " + err.Error())
	}
	return &adapter{instance: in, raw: raw}, nil
}

// Native returns the raw *wgpu.Instance for windowing glue that builds
// its own surface descriptors.
func (in *instance) Native() interface{} {
	return in.raw
}

func (in *instance) Destroy() {
	in.raw.Release()
}

type adapter struct {
	instance *instance
	raw      *wgpu.Adapter
}

func (a *adapter) Info() gpu.AdapterInfo {
	info := a.raw.GetInfo()
	return gpu.AdapterInfo{
		Name:          info.Name,
		Vendor:        info.VendorName,
		Architecture:  info.Architecture,
		DriverVersion: info.DriverDescription,
	}
}

// RequestDevice opens the logical device with default limits and grabs
// its queue.
func (a *adapter) RequestDevice(ctx context.Context, label string) (gpu.DriverDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := a.raw.RequestDevice(&wgpu.DeviceDescriptor{
		Label: label,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, errors.New("wgpu.RequestDevice(): " + err.Error())
	}
	return &device{
		adapter: a,
		raw:     raw,
		queue:   raw.GetQueue(),
	}, nil
}

type device struct {
	adapter *adapter
	raw     *wgpu.Device
	queue   *wgpu.Queue
}

// Submit pushes the sealed command buffers to the queue and polls the
// device until the work completes, then releases them.
func (d *device) Submit(buffers []gpu.DriverCommandBuffer) error {
	native := make([]*wgpu.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*commandBuffer)
		if !ok {
			return errors.New("webgpu: foreign command buffer")
		}
		native = append(native, cb.raw)
	}

	d.queue.Submit(native...)
	d.raw.Poll(true, nil)

	for _, b := range buffers {
		b.Destroy()
	}
	return nil
}

func (d *device) Destroy() error {
	d.raw.Poll(true, nil)
	d.queue.Release()
	d.raw.Release()
	return nil
}
