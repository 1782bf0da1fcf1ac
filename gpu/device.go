package gpu

import (
	"fmt"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// Device is the logical graphics context. It exclusively owns its native
// context handle, is the sole factory for resources, and owns exactly one
// Queue for its lifetime. Resources hold a non-owning back-reference to
// the Device for their destroy calls.
//
// Devices are not safe for concurrent mutation; the host application
// drives every call from the thread owning the GPU context.
type Device struct {
	adapter *Adapter
	driver  Driver
	handle  DriverDevice
	label   string
	queue   *Queue
	shaders ShaderSource

	destroyed atomic.Bool

	// poisoned is set by the first native submission or creation failure.
	// A poisoned device stays poisoned; it must be discarded and recreated.
	poisoned atomic.Bool
}

// Label returns the device's label.
func (d *Device) Label() string { return d.label }

// Adapter returns the adapter the device was created from.
func (d *Device) Adapter() *Adapter { return d.adapter }

// Queue returns the device's single submission queue.
func (d *Device) Queue() *Queue { return d.queue }

func (d *Device) usable() error {
	if d.destroyed.Load() {
		return fmt.Errorf("%w: device %q used after destroy", ErrDisposed, d.label)
	}
	if d.poisoned.Load() {
		return fmt.Errorf("%w: device %q is corrupted and must be recreated", ErrNative, d.label)
	}
	return nil
}

// poison records a fatal native failure. No retry is attempted; every
// later operation on the device fails until it is discarded.
func (d *Device) poison(err error) {
	if d.poisoned.CompareAndSwap(false, true) {
		log.WithField("device", d.label).WithError(err).Error("gpu: device corrupted by native failure")
	}
}

// CreateBuffer allocates a zero-initialized buffer. Size must be positive
// and usage must contain at least one recognized flag.
func (d *Device) CreateBuffer(desc BufferDescriptor) (*Buffer, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if desc.Size == 0 {
		return nil, fmt.Errorf("%w: buffer %q needs a positive size", ErrConfiguration, desc.Label)
	}
	if !desc.Usage.Valid() {
		return nil, fmt.Errorf("%w: buffer %q has unusable usage flags %s", ErrConfiguration, desc.Label, desc.Usage)
	}
	h, err := d.handle.CreateBuffer(desc.Size, desc.Usage)
	if err != nil {
		err = fmt.Errorf("%w: CreateBuffer(%q): %v", ErrNative, desc.Label, err)
		d.poison(err)
		return nil, err
	}
	return &Buffer{
		device: d,
		handle: h,
		label:  desc.Label,
		size:   desc.Size,
		usage:  desc.Usage,
	}, nil
}

// CreateTexture allocates a texture. The format must belong to the
// supported set and both extents must be positive.
func (d *Device) CreateTexture(desc TextureDescriptor) (*Texture, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if !desc.Format.Valid() {
		return nil, fmt.Errorf("%w: texture %q has unsupported format %s", ErrConfiguration, desc.Label, desc.Format)
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("%w: texture %q needs positive extents", ErrConfiguration, desc.Label)
	}
	if !desc.Usage.Valid() {
		return nil, fmt.Errorf("%w: texture %q has unusable usage flags", ErrConfiguration, desc.Label)
	}
	h, err := d.handle.CreateTexture(desc)
	if err != nil {
		err = fmt.Errorf("%w: CreateTexture(%q): %v", ErrNative, desc.Label, err)
		d.poison(err)
		return nil, err
	}
	return &Texture{
		device: d,
		handle: h,
		label:  desc.Label,
		desc:   desc,
	}, nil
}

// CreateSampler creates a sampler object.
func (d *Device) CreateSampler(desc SamplerDescriptor) (*Sampler, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	h, err := d.handle.CreateSampler(desc)
	if err != nil {
		err = fmt.Errorf("%w: CreateSampler(%q): %v", ErrNative, desc.Label, err)
		d.poison(err)
		return nil, err
	}
	return &Sampler{device: d, handle: h, label: desc.Label}, nil
}

// CreateShaderModule loads the precompiled binary registered under the
// descriptor's label and wraps it in a module. The label is mandatory.
func (d *Device) CreateShaderModule(desc ShaderModuleDescriptor) (*ShaderModule, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if desc.Label == "" {
		return nil, fmt.Errorf("%w: shader module needs a label", ErrConfiguration)
	}
	name := desc.Label + ".main" + d.driver.ShaderSuffix()
	code, err := d.shaders.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrShaderNotFound, name, err)
	}
	if ws := d.driver.ShaderWordSize(); len(code)%ws != 0 {
		return nil, fmt.Errorf("%w: %q is %d bytes, not a multiple of the %d-byte word size",
			ErrMalformedShader, name, len(code), ws)
	}
	h, err := d.handle.CreateShaderModule(desc.Label, code)
	if err != nil {
		err = fmt.Errorf("%w: CreateShaderModule(%q): %v", ErrNative, desc.Label, err)
		d.poison(err)
		return nil, err
	}
	return &ShaderModule{
		device: d,
		handle: h,
		label:  desc.Label,
		id:     d.adapter.instance.nextModuleID(),
		size:   len(code),
	}, nil
}

// CreateRenderPipeline compiles a pipeline state object from the
// descriptor's shader modules and fixed-function state.
func (d *Device) CreateRenderPipeline(desc RenderPipelineDescriptor) (*RenderPipeline, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if desc.Vertex == nil || desc.Fragment == nil {
		return nil, fmt.Errorf("%w: pipeline %q needs vertex and fragment modules", ErrConfiguration, desc.Label)
	}
	if desc.Vertex.device != d || desc.Fragment.device != d {
		return nil, fmt.Errorf("%w: pipeline %q uses shader modules from another device", ErrConfiguration, desc.Label)
	}
	if !desc.ColorFormat.Valid() || desc.ColorFormat.IsDepth() {
		return nil, fmt.Errorf("%w: pipeline %q needs a color format", ErrConfiguration, desc.Label)
	}
	if desc.DepthFormat != TextureFormatInvalid && !desc.DepthFormat.IsDepth() {
		return nil, fmt.Errorf("%w: pipeline %q depth format %s is not a depth format",
			ErrConfiguration, desc.Label, desc.DepthFormat)
	}
	h, err := d.handle.CreateRenderPipeline(desc, desc.Vertex.handle, desc.Fragment.handle)
	if err != nil {
		err = fmt.Errorf("%w: CreateRenderPipeline(%q): %v", ErrNative, desc.Label, err)
		d.poison(err)
		return nil, err
	}
	return &RenderPipeline{device: d, handle: h, label: desc.Label}, nil
}

// CreateCommandEncoder opens a new encoder in the Recording state,
// wrapping exactly one native command buffer.
func (d *Device) CreateCommandEncoder(label string) (*CommandEncoder, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	h, err := d.handle.CreateCommandEncoder(label)
	if err != nil {
		err = fmt.Errorf("%w: CreateCommandEncoder(%q): %v", ErrNative, label, err)
		d.poison(err)
		return nil, err
	}
	return &CommandEncoder{device: d, handle: h, label: label}, nil
}

// Destroy tears the device down and releases the native context. It is
// the single teardown entry point and must be called only after all
// dependent resources are destroyed. Using the device afterwards is a
// programmer error and fails with ErrDisposed.
func (d *Device) Destroy() error {
	if !d.destroyed.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: device %q destroyed twice", ErrDisposed, d.label)
	}
	if err := d.handle.Destroy(); err != nil {
		return fmt.Errorf("%w: destroying device %q: %v", ErrNative, d.label, err)
	}
	log.WithField("device", d.label).Info("gpu: device destroyed")
	return nil
}
