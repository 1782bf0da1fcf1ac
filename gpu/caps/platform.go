package caps

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/kaon3d/kaon/gpu"
)

// RenderSurfaceDescriptor is the result of platform initialization: a
// fully opened backend stack bound to one native window handle. The
// caller owns the teardown, innermost first (Surface, Device, Instance).
type RenderSurfaceDescriptor struct {
	Backend  gpu.Backend
	Instance *gpu.Instance
	Device   *gpu.Device
	Surface  *gpu.Surface

	Format gpu.TextureFormat
	Width  uint32
	Height uint32
}

// InitializeSurface allocates the device context and presentation chain
// for one native surface, on the given backend. This is the first call
// that allocates anything persistent; Detect never does.
//
// The backend choice is fixed per native handle: initializing the same
// handle again with a different backend fails with a configuration
// error. Re-initializing with the same backend reconfigures the surface.
func (n *Negotiator) InitializeSurface(ctx context.Context, backend gpu.Backend, native uintptr, cfg gpu.SurfaceConfig) (*RenderSurfaceDescriptor, error) {
	n.mu.Lock()
	fixed, seen := n.surfaces[native]
	if seen && fixed != backend {
		n.mu.Unlock()
		return nil, fmt.Errorf("caps: surface %#x is fixed to backend %s, cannot initialize as %s: %w",
			native, fixed, backend, gpu.ErrConfiguration)
	}
	n.surfaces[native] = backend
	n.mu.Unlock()

	instance, err := gpu.NewInstance(gpu.InstanceDescriptor{
		Label:        fmt.Sprintf("surface-%#x", native),
		BackendOrder: []gpu.Backend{backend},
	})
	if err != nil {
		return nil, err
	}

	adapter, err := instance.RequestAdapter(ctx, gpu.AdapterOptions{})
	if err != nil {
		instance.Dispose()
		return nil, err
	}

	device, err := adapter.RequestDevice(ctx, gpu.DeviceDescriptor{Label: instance.Label()})
	if err != nil {
		instance.Dispose()
		return nil, err
	}

	surface := gpu.NewSurface(native, cfg.Width, cfg.Height)
	if err := surface.Configure(device, cfg); err != nil {
		if derr := device.Destroy(); derr != nil {
			log.WithError(derr).Warn("caps: device teardown after failed configure")
		}
		instance.Dispose()
		return nil, err
	}

	log.WithFields(log.Fields{
		"backend": backend,
		"format":  cfg.Format,
		"width":   cfg.Width,
		"height":  cfg.Height,
	}).Info("caps: surface initialized")

	return &RenderSurfaceDescriptor{
		Backend:  backend,
		Instance: instance,
		Device:   device,
		Surface:  surface,
		Format:   cfg.Format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
