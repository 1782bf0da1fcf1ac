package gpu

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Adapter is one physical-GPU/backend pairing. The backend tag, adapter
// info and the options used to request it never change; Release closes
// the backend instance behind it once its devices are gone.
type Adapter struct {
	instance *Instance
	backend  Backend
	driver   Driver
	native   DriverInstance
	handle   DriverAdapter
	options  AdapterOptions
	info     AdapterInfo

	released bool
}

// Backend returns the backend this adapter belongs to.
func (a *Adapter) Backend() Backend { return a.backend }

// Info returns the adapter's immutable identification.
func (a *Adapter) Info() AdapterInfo { return a.info }

// Options returns the options the adapter was requested with.
func (a *Adapter) Options() AdapterOptions { return a.options }

// NativeInstance exposes the backend's raw instance handle so windowing
// glue can build native surfaces against it; an SDL window's
// VulkanCreateSurface needs the vk.Instance. Backends without a native
// context return nil.
func (a *Adapter) NativeInstance() interface{} {
	return a.native.Native()
}

// Release closes the backend instance behind the adapter. Call it only
// after every device created from the adapter is destroyed; further
// device requests fail with ErrDisposed. Releasing twice is a no-op.
func (a *Adapter) Release() {
	if a.released {
		return
	}
	a.released = true
	a.native.Destroy()
	log.WithFields(log.Fields{
		"backend": a.backend.String(),
		"adapter": a.info.Name,
	}).Info("gpu: adapter released")
}

// RequestDevice opens the native device context and returns the Device
// owning it, along with its single Queue. Failure is fatal for this
// adapter: no partial or degraded device is ever returned.
func (a *Adapter) RequestDevice(ctx context.Context, desc DeviceDescriptor) (*Device, error) {
	if a.released {
		return nil, fmt.Errorf("%w: device requested from released adapter %q", ErrDisposed, a.info.Name)
	}
	dd, err := a.handle.RequestDevice(ctx, desc.Label)
	if err != nil {
		return nil, fmt.Errorf("%w: opening device on %s: %v", ErrNative, a.backend, err)
	}

	src := desc.ShaderSource
	if src == nil {
		src = DirSource("shaders")
	}

	dev := &Device{
		adapter: a,
		driver:  a.driver,
		handle:  dd,
		label:   desc.Label,
		shaders: src,
	}
	dev.queue = &Queue{device: dev, label: desc.Label}
	log.WithFields(log.Fields{
		"backend": a.backend.String(),
		"adapter": a.info.Name,
		"device":  desc.Label,
	}).Info("gpu: device opened")
	return dev, nil
}
