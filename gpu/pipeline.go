package gpu

import "fmt"

// RenderPipeline is a compiled pipeline state object binding shader
// modules to fixed-function state.
type RenderPipeline struct {
	device    *Device
	handle    DriverRenderPipeline
	label     string
	destroyed bool
}

// Label returns the pipeline's label.
func (p *RenderPipeline) Label() string { return p.label }

// Destroy releases the native pipeline. Destroying twice fails.
func (p *RenderPipeline) Destroy() error {
	if p.destroyed {
		return fmt.Errorf("%w: pipeline %q destroyed twice", ErrDisposed, p.label)
	}
	p.destroyed = true
	p.handle.Destroy()
	return nil
}
