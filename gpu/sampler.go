package gpu

import "fmt"

// Sampler configures how shaders filter and address texture reads.
type Sampler struct {
	device    *Device
	handle    DriverSampler
	label     string
	destroyed bool
}

// Label returns the sampler's label.
func (s *Sampler) Label() string { return s.label }

// Destroy releases the native sampler. Destroying twice fails.
func (s *Sampler) Destroy() error {
	if s.destroyed {
		return fmt.Errorf("%w: sampler %q destroyed twice", ErrDisposed, s.label)
	}
	s.destroyed = true
	s.handle.Destroy()
	return nil
}
