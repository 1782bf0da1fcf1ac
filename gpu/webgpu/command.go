package webgpu

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kaon3d/kaon/gpu"
)

func (d *device) CreateCommandEncoder(label string) (gpu.DriverCommandEncoder, error) {
	raw, err := d.raw.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, errors.New("wgpu.CreateCommandEncoder(): " + err.Error())
	}
	return &encoder{raw: raw}, nil
}

type encoder struct {
	raw *wgpu.CommandEncoder
}

func (e *encoder) BeginRenderPass(desc gpu.DriverRenderPassDescriptor) (gpu.DriverRenderPass, error) {
	colorView, ok := desc.ColorView.(*textureView)
	if !ok {
		return nil, errors.New("webgpu: foreign color attachment")
	}

	descriptor := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    colorView.raw,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: desc.ClearColor.R,
				G: desc.ClearColor.G,
				B: desc.ClearColor.B,
				A: desc.ClearColor.A,
			},
		}},
	}
	if desc.DepthView != nil {
		depthView, ok := desc.DepthView.(*textureView)
		if !ok {
			return nil, errors.New("webgpu: foreign depth attachment")
		}
		descriptor.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView.raw,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: desc.ClearDepth,
		}
	}

	return &renderPass{raw: e.raw.BeginRenderPass(descriptor)}, nil
}

func (e *encoder) Finish() (gpu.DriverCommandBuffer, error) {
	raw, err := e.raw.Finish(nil)
	if err != nil {
		return nil, errors.New("wgpu.Finish(): " + err.Error())
	}
	e.raw.Release()
	e.raw = nil
	return &commandBuffer{raw: raw}, nil
}

type renderPass struct {
	raw *wgpu.RenderPassEncoder
}

func (p *renderPass) SetPipeline(pl gpu.DriverRenderPipeline) {
	p.raw.SetPipeline(pl.(*pipeline).raw)
}

func (p *renderPass) SetVertexBuffer(slot uint32, b gpu.DriverBuffer, offset uint64) {
	p.raw.SetVertexBuffer(slot, b.(*buffer).raw, offset, wgpu.WholeSize)
}

func (p *renderPass) SetIndexBuffer(b gpu.DriverBuffer, format gpu.IndexFormat, offset uint64) {
	p.raw.SetIndexBuffer(b.(*buffer).raw, wgpuIndexFormat(format), offset, wgpu.WholeSize)
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.raw.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.raw.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *renderPass) End() error {
	p.raw.End()
	p.raw.Release()
	p.raw = nil
	return nil
}

type commandBuffer struct {
	raw *wgpu.CommandBuffer
}

func (c *commandBuffer) Destroy() {
	c.raw.Release()
}
