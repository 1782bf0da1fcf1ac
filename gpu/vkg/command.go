package vkg

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

// CreateCommandEncoder allocates a primary command buffer from the
// device pool and starts recording into it immediately.
func (d *device) CreateCommandEncoder(label string) (gpu.DriverCommandEncoder, error) {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}

	raw := make([]vk.CommandBuffer, 1)
	if err := vk.Error(vk.AllocateCommandBuffers(d.logical, &cbai, raw)); err != nil {
		return nil, errors.New("vk.AllocateCommandBuffers(): " + err.Error())
	}

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(raw[0], &cbbi)); err != nil {
		vk.FreeCommandBuffers(d.logical, d.pool, 1, raw)
		return nil, errors.New("vk.BeginCommandBuffer(): " + err.Error())
	}

	return &encoder{device: d, raw: raw[0]}, nil
}

// encoder records directly into a native command buffer. Render passes
// create their framebuffer on the fly; the sealed command buffer owns
// those transients until submission frees them.
type encoder struct {
	device *device
	raw    vk.CommandBuffer

	renderPasses []vk.RenderPass
	framebuffers []vk.Framebuffer
}

func (e *encoder) BeginRenderPass(desc gpu.DriverRenderPassDescriptor) (gpu.DriverRenderPass, error) {
	colorView, ok := desc.ColorView.(*textureView)
	if !ok {
		return nil, errors.New("vkg: foreign color attachment")
	}

	colorTexture := colorView.texture
	depthFormat := gpu.TextureFormatInvalid
	attachments := []vk.ImageView{colorView.raw}
	if desc.DepthView != nil {
		depthView, ok := desc.DepthView.(*textureView)
		if !ok {
			return nil, errors.New("vkg: foreign depth attachment")
		}
		depthFormat = depthView.texture.desc.Format
		attachments = append(attachments, depthView.raw)
	}

	renderPass, err := createCompatRenderPass(e.device, colorTexture.desc.Format, depthFormat, colorTexture.swapchainImage)
	if err != nil {
		return nil, err
	}
	e.renderPasses = append(e.renderPasses, renderPass)

	width := colorTexture.desc.Width
	height := colorTexture.desc.Height
	fci := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           width,
		Height:          height,
		Layers:          1,
	}
	var framebuffer vk.Framebuffer
	if err := vk.Error(vk.CreateFramebuffer(e.device.logical, &fci, nil, &framebuffer)); err != nil {
		return nil, errors.New("vk.CreateFramebuffer(): " + err.Error())
	}
	e.framebuffers = append(e.framebuffers, framebuffer)

	clearValues := make([]vk.ClearValue, 1, 2)
	clearValues[0].SetColor([]float32{
		float32(desc.ClearColor.R),
		float32(desc.ClearColor.G),
		float32(desc.ClearColor.B),
		float32(desc.ClearColor.A),
	})
	if desc.DepthView != nil {
		var depthClear vk.ClearValue
		depthClear.SetDepthStencil(desc.ClearDepth, 0)
		clearValues = append(clearValues, depthClear)
	}

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass,
		Framebuffer: framebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: width, Height: height},
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(e.raw, &rpbi, vk.SubpassContentsInline)

	vk.CmdSetViewport(e.raw, 0, 1, []vk.Viewport{{
		Width:    float32(width),
		Height:   float32(height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdSetScissor(e.raw, 0, 1, []vk.Rect2D{{
		Extent: vk.Extent2D{Width: width, Height: height},
	}})

	return &recordedPass{encoder: e}, nil
}

// Finish ends recording and hands the native buffer plus its transient
// render passes and framebuffers to the sealed command buffer.
func (e *encoder) Finish() (gpu.DriverCommandBuffer, error) {
	if err := vk.Error(vk.EndCommandBuffer(e.raw)); err != nil {
		return nil, errors.New("vk.EndCommandBuffer(): " + err.Error())
	}
	cb := &commandBuffer{
		device:       e.device,
		raw:          e.raw,
		renderPasses: e.renderPasses,
		framebuffers: e.framebuffers,
	}
	e.renderPasses = nil
	e.framebuffers = nil
	return cb, nil
}

// recordedPass forwards recorded calls straight to the command buffer.
type recordedPass struct {
	encoder *encoder
}

func (r *recordedPass) SetPipeline(p gpu.DriverRenderPipeline) {
	vk.CmdBindPipeline(r.encoder.raw, vk.PipelineBindPointGraphics, p.(*pipeline).raw)
}

func (r *recordedPass) SetVertexBuffer(slot uint32, b gpu.DriverBuffer, offset uint64) {
	vk.CmdBindVertexBuffers(r.encoder.raw, slot, 1,
		[]vk.Buffer{b.(*buffer).raw}, []vk.DeviceSize{vk.DeviceSize(offset)})
}

func (r *recordedPass) SetIndexBuffer(b gpu.DriverBuffer, format gpu.IndexFormat, offset uint64) {
	vk.CmdBindIndexBuffer(r.encoder.raw, b.(*buffer).raw, vk.DeviceSize(offset), vkIndexType(format))
}

func (r *recordedPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(r.encoder.raw, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (r *recordedPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	vk.CmdDrawIndexed(r.encoder.raw, indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (r *recordedPass) End() error {
	vk.CmdEndRenderPass(r.encoder.raw)
	return nil
}

type commandBuffer struct {
	device       *device
	raw          vk.CommandBuffer
	renderPasses []vk.RenderPass
	framebuffers []vk.Framebuffer
}

func (c *commandBuffer) Destroy() {
	for _, fb := range c.framebuffers {
		vk.DestroyFramebuffer(c.device.logical, fb, nil)
	}
	c.framebuffers = nil
	for _, rp := range c.renderPasses {
		vk.DestroyRenderPass(c.device.logical, rp, nil)
	}
	c.renderPasses = nil
	vk.FreeCommandBuffers(c.device.logical, c.device.pool, 1, []vk.CommandBuffer{c.raw})
}
