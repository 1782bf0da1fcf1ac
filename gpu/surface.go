package gpu

import (
	"fmt"
	"sync/atomic"
)

// NewSurface wraps an opaque native window handle supplied by the
// windowing system. The handle plus extents is the only contract with
// the window layer; Configure must be called before frames can be
// acquired.
func NewSurface(native uintptr, width, height uint32) *Surface {
	return &Surface{native: native, width: width, height: height}
}

// Surface is a presentable render target driving the configure, acquire,
// present cycle. A surface is bound to one Device at
// Configure time; its backend choice is fixed from then on.
type Surface struct {
	native uintptr
	width  uint32
	height uint32

	device *Device
	handle DriverSurface
	cfg    SurfaceConfig

	// frames counts acquired frames, strictly increasing for the
	// surface's lifetime. Never reused, so stale frame references are
	// detectable.
	frames atomic.Uint64

	// resized is set by Resize and applied on the next acquire.
	resized bool
}

// Configure binds the surface to a device and stores the presentation
// parameters. It must precede AcquireFrame.
func (s *Surface) Configure(device *Device, cfg SurfaceConfig) error {
	if device == nil {
		return fmt.Errorf("%w: surface configured without a device", ErrConfiguration)
	}
	if err := device.usable(); err != nil {
		return err
	}
	if !cfg.Format.Valid() || cfg.Format.IsDepth() {
		return fmt.Errorf("%w: surface format %s is not presentable", ErrConfiguration, cfg.Format)
	}
	if cfg.Width == 0 {
		cfg.Width = s.width
	}
	if cfg.Height == 0 {
		cfg.Height = s.height
	}
	if s.device != nil && s.device != device {
		return fmt.Errorf("%w: surface already bound to device %q", ErrConfiguration, s.device.label)
	}
	if s.handle == nil {
		h, err := device.handle.CreateSurface(s.native, cfg)
		if err != nil {
			err = fmt.Errorf("%w: CreateSurface(): %v", ErrNative, err)
			device.poison(err)
			return err
		}
		s.handle = h
	} else if err := s.handle.Reconfigure(cfg); err != nil {
		err = fmt.Errorf("%w: reconfiguring surface: %v", ErrNative, err)
		device.poison(err)
		return err
	}
	s.device = device
	s.cfg = cfg
	s.resized = false
	return nil
}

// Resize stores new extents for subsequent AcquireFrame calls. Frames
// already acquired and not yet presented keep their original backing.
func (s *Surface) Resize(width, height uint32) {
	s.width = width
	s.height = height
	if s.device != nil {
		s.cfg.Width = width
		s.cfg.Height = height
		s.resized = true
	}
}

// AcquireFrame allocates a fresh backing texture and view for the next
// frame, tagged with a strictly increasing counter. The frame's texture
// is destroyed by Present and can never be reused.
func (s *Surface) AcquireFrame() (*Frame, error) {
	if s.device == nil {
		return nil, fmt.Errorf("%w: surface acquired before Configure", ErrInvalidState)
	}
	if err := s.device.usable(); err != nil {
		return nil, err
	}
	if s.resized {
		if err := s.handle.Reconfigure(s.cfg); err != nil {
			err = fmt.Errorf("%w: applying surface resize: %v", ErrNative, err)
			s.device.poison(err)
			return nil, err
		}
		s.resized = false
	}
	th, err := s.handle.Acquire()
	if err != nil {
		err = fmt.Errorf("%w: acquiring frame: %v", ErrNative, err)
		s.device.poison(err)
		return nil, err
	}
	tag := s.frames.Add(1)
	tex := &Texture{
		device: s.device,
		handle: th,
		label:  fmt.Sprintf("frame-%d", tag),
		desc: TextureDescriptor{
			Width:  s.cfg.Width,
			Height: s.cfg.Height,
			Format: s.cfg.Format,
			Usage:  s.cfg.Usage,
		},
	}
	view, err := tex.CreateView()
	if err != nil {
		return nil, err
	}
	return &Frame{surface: s, texture: tex, view: view, tag: tag}, nil
}

// Present hands the frame to the presentation engine and destroys its
// backing texture. Presenting the same frame twice fails: the texture is
// already destroyed.
func (s *Surface) Present(f *Frame) error {
	if f == nil || f.surface != s {
		return fmt.Errorf("%w: frame does not belong to this surface", ErrConfiguration)
	}
	if f.presented {
		return fmt.Errorf("%w: frame %d already presented", ErrDisposed, f.tag)
	}
	f.presented = true
	f.view.Destroy()
	if err := f.texture.Destroy(); err != nil {
		return err
	}
	if err := s.handle.Present(); err != nil {
		err = fmt.Errorf("%w: presenting frame %d: %v", ErrNative, f.tag, err)
		s.device.poison(err)
		return err
	}
	return nil
}

// Destroy releases the driver surface, if configured.
func (s *Surface) Destroy() {
	if s.handle != nil {
		s.handle.Destroy()
		s.handle = nil
	}
	s.device = nil
}

// Frame is one acquired presentation frame. Its view is valid until
// Present destroys the backing texture.
type Frame struct {
	surface   *Surface
	texture   *Texture
	view      *TextureView
	tag       uint64
	presented bool
}

// Tag returns the frame's strictly increasing acquisition counter.
func (f *Frame) Tag() uint64 { return f.tag }

// Texture returns the frame's backing texture.
func (f *Frame) Texture() *Texture { return f.texture }

// View returns the render-attachment view over the backing texture.
func (f *Frame) View() *TextureView { return f.view }
