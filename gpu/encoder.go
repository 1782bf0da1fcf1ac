package gpu

import "fmt"

// encoderState tracks the CommandEncoder lifecycle.
type encoderState int8

const (
	encoderRecording encoderState = iota
	encoderFinished
)

// CommandEncoder records one native command buffer. It starts in the
// Recording state; Finish seals it into a CommandBuffer and is single-use.
// Recorded calls are replayed in order on the GPU; no other execution
// guarantee is made.
type CommandEncoder struct {
	device *Device
	handle DriverCommandEncoder
	label  string
	state  encoderState

	// pass is the currently open render pass, if any.
	pass *RenderPassEncoder
}

// Label returns the encoder's label.
func (e *CommandEncoder) Label() string { return e.label }

// recording gates every encoder and render pass call. A device that was
// destroyed or poisoned mid-recording fails here immediately instead of
// at Submit.
func (e *CommandEncoder) recording() error {
	if err := e.device.usable(); err != nil {
		return err
	}
	if e.state != encoderRecording {
		return fmt.Errorf("%w: encoder %q is finished", ErrInvalidState, e.label)
	}
	return nil
}

// BeginRenderPass opens a render pass targeting the descriptor's
// attachments. Only one pass may be open at a time.
func (e *CommandEncoder) BeginRenderPass(desc RenderPassDescriptor) (*RenderPassEncoder, error) {
	if err := e.recording(); err != nil {
		return nil, err
	}
	if e.pass != nil {
		return nil, fmt.Errorf("%w: encoder %q already has an open render pass", ErrInvalidState, e.label)
	}
	if desc.ColorView == nil {
		return nil, fmt.Errorf("%w: render pass needs a color attachment", ErrConfiguration)
	}
	if desc.ColorView.texture.device != e.device {
		return nil, fmt.Errorf("%w: color attachment belongs to another device", ErrConfiguration)
	}
	if desc.DepthView != nil && !desc.DepthView.texture.Format().IsDepth() {
		return nil, fmt.Errorf("%w: depth attachment format %s is not a depth format",
			ErrConfiguration, desc.DepthView.texture.Format())
	}
	native := DriverRenderPassDescriptor{
		ColorView:  desc.ColorView.handle,
		ClearColor: desc.ClearColor,
		ClearDepth: desc.ClearDepth,
	}
	if desc.DepthView != nil {
		native.DepthView = desc.DepthView.handle
	}
	h, err := e.handle.BeginRenderPass(native)
	if err != nil {
		err = fmt.Errorf("%w: BeginRenderPass(): %v", ErrNative, err)
		e.device.poison(err)
		return nil, err
	}
	e.pass = &RenderPassEncoder{encoder: e, handle: h}
	return e.pass, nil
}

// Finish seals the recording and transfers ownership of the native
// command buffer to the returned CommandBuffer. A second call fails with
// ErrInvalidState.
func (e *CommandEncoder) Finish() (*CommandBuffer, error) {
	if err := e.recording(); err != nil {
		return nil, err
	}
	if e.pass != nil {
		return nil, fmt.Errorf("%w: encoder %q finished with an open render pass", ErrInvalidState, e.label)
	}
	h, err := e.handle.Finish()
	if err != nil {
		err = fmt.Errorf("%w: Finish(): %v", ErrNative, err)
		e.device.poison(err)
		return nil, err
	}
	e.state = encoderFinished
	return &CommandBuffer{device: e.device, handle: h, label: e.label}, nil
}

// RenderPassEncoder records draw commands between BeginRenderPass and
// End. All methods are valid only while the owning encoder is recording
// and the pass is open.
type RenderPassEncoder struct {
	encoder *CommandEncoder
	handle  DriverRenderPass
	ended   bool
}

func (r *RenderPassEncoder) open() error {
	if err := r.encoder.recording(); err != nil {
		return err
	}
	if r.ended {
		return fmt.Errorf("%w: render pass already ended", ErrInvalidState)
	}
	return nil
}

// SetPipeline binds the pipeline used by subsequent draws.
func (r *RenderPassEncoder) SetPipeline(p *RenderPipeline) error {
	if err := r.open(); err != nil {
		return err
	}
	if p.device != r.encoder.device {
		return fmt.Errorf("%w: pipeline %q belongs to another device", ErrConfiguration, p.label)
	}
	r.handle.SetPipeline(p.handle)
	return nil
}

// SetVertexBuffer binds a vertex buffer to a slot.
func (r *RenderPassEncoder) SetVertexBuffer(slot uint32, b *Buffer, offset uint64) error {
	if err := r.open(); err != nil {
		return err
	}
	if b.device != r.encoder.device {
		return fmt.Errorf("%w: vertex buffer %q belongs to another device", ErrConfiguration, b.label)
	}
	if b.usage&BufferUsageVertex == 0 {
		return fmt.Errorf("%w: buffer %q lacks VERTEX usage", ErrConfiguration, b.label)
	}
	r.handle.SetVertexBuffer(slot, b.handle, offset)
	return nil
}

// SetIndexBuffer binds the index buffer used by DrawIndexed.
func (r *RenderPassEncoder) SetIndexBuffer(b *Buffer, format IndexFormat, offset uint64) error {
	if err := r.open(); err != nil {
		return err
	}
	if b.device != r.encoder.device {
		return fmt.Errorf("%w: index buffer %q belongs to another device", ErrConfiguration, b.label)
	}
	if b.usage&BufferUsageIndex == 0 {
		return fmt.Errorf("%w: buffer %q lacks INDEX usage", ErrConfiguration, b.label)
	}
	r.handle.SetIndexBuffer(b.handle, format, offset)
	return nil
}

// Draw records a non-indexed draw.
func (r *RenderPassEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	if err := r.open(); err != nil {
		return err
	}
	r.handle.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

// DrawIndexed records an indexed draw.
func (r *RenderPassEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) error {
	if err := r.open(); err != nil {
		return err
	}
	r.handle.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	return nil
}

// End closes the pass, returning the encoder to plain recording.
func (r *RenderPassEncoder) End() error {
	if err := r.open(); err != nil {
		return err
	}
	if err := r.handle.End(); err != nil {
		err = fmt.Errorf("%w: ending render pass: %v", ErrNative, err)
		r.encoder.device.poison(err)
		return err
	}
	r.ended = true
	r.encoder.pass = nil
	return nil
}

// CommandBuffer is an opaque, sealed unit of GPU work. It is consumed by
// exactly one Queue.Submit call, which frees its native resources once
// the submission completes.
type CommandBuffer struct {
	device   *Device
	handle   DriverCommandBuffer
	label    string
	consumed bool
}

// Label returns the buffer's label, inherited from its encoder.
func (c *CommandBuffer) Label() string { return c.label }
