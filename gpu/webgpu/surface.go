package webgpu

import (
	"errors"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kaon3d/kaon/gpu"
)

// CreateSurface wraps a native window target. The handle must be a
// *wgpu.SurfaceDescriptor cast to uintptr; windowing glue (SDL, GLFW)
// builds the descriptor for its platform.
func (d *device) CreateSurface(native uintptr, cfg gpu.SurfaceConfig) (gpu.DriverSurface, error) {
	descriptor := (*wgpu.SurfaceDescriptor)(unsafe.Pointer(native))
	raw := d.adapter.instance.raw.CreateSurface(descriptor)
	if raw == nil {
		return nil, errors.New("wgpu.CreateSurface(): no surface")
	}

	s := &surface{device: d, raw: raw}
	if err := s.configure(cfg); err != nil {
		raw.Release()
		return nil, err
	}
	return s, nil
}

type surface struct {
	device *device
	raw    *wgpu.Surface

	// acquired is the frame texture handed out by Acquire and not yet
	// presented.
	acquired *wgpu.Texture
}

func (s *surface) configure(cfg gpu.SurfaceConfig) error {
	adapter := s.device.adapter.raw
	capabilities := s.raw.GetCapabilities(adapter)

	format := wgpuFormat(cfg.Format)
	supported := false
	for _, f := range capabilities.Formats {
		if f == format {
			supported = true
			break
		}
	}
	if !supported {
		return errors.New("webgpu: surface does not support format " + cfg.Format.String())
	}

	s.raw.Configure(adapter, s.device.raw, &wgpu.SurfaceConfiguration{
		Usage:       wgpuTextureUsage(cfg.Usage),
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	return nil
}

func (s *surface) Acquire() (gpu.DriverTexture, error) {
	if s.acquired != nil {
		return nil, errors.New("webgpu: frame already acquired, present it first")
	}

	raw, err := s.raw.GetCurrentTexture()
	if err != nil {
		return nil, errors.New("wgpu.GetCurrentTexture(): " + err.Error())
	}
	s.acquired = raw
	return &texture{raw: raw, surfaceFrame: true}, nil
}

func (s *surface) Present() error {
	if s.acquired == nil {
		return errors.New("webgpu: no acquired frame to present")
	}
	s.raw.Present()
	s.acquired.Release()
	s.acquired = nil
	return nil
}

func (s *surface) Reconfigure(cfg gpu.SurfaceConfig) error {
	if s.acquired != nil {
		s.acquired.Release()
		s.acquired = nil
	}
	return s.configure(cfg)
}

func (s *surface) Destroy() {
	if s.acquired != nil {
		s.acquired.Release()
		s.acquired = nil
	}
	s.raw.Release()
}
