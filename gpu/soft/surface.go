package soft

import (
	"errors"

	"github.com/kaon3d/kaon/gpu"
)

// surface emulates a swapchain with freshly allocated in-memory images.
// Present drops the outstanding image; there is no display to hand it to.
type surface struct {
	cfg      gpu.SurfaceConfig
	acquired *texture
}

func (s *surface) Acquire() (gpu.DriverTexture, error) {
	if s.acquired != nil {
		return nil, errors.New("soft: frame already acquired, present it first")
	}
	s.acquired = newTexture(gpu.TextureDescriptor{
		Width:  s.cfg.Width,
		Height: s.cfg.Height,
		Format: s.cfg.Format,
		Usage:  s.cfg.Usage,
	})
	return s.acquired, nil
}

func (s *surface) Present() error {
	if s.acquired == nil {
		return errors.New("soft: no acquired frame to present")
	}
	s.acquired = nil
	return nil
}

func (s *surface) Reconfigure(cfg gpu.SurfaceConfig) error {
	s.cfg = cfg
	s.acquired = nil
	return nil
}

func (s *surface) Destroy() {
	s.acquired = nil
}
