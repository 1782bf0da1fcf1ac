package webgpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kaon3d/kaon/gpu"
)

// CreateBuffer allocates a GPU buffer. WebGPU guarantees fresh buffers
// read back as zeroes, so no explicit clear is needed.
func (d *device) CreateBuffer(size uint64, usage gpu.BufferUsage) (gpu.DriverBuffer, error) {
	raw, err := d.raw.CreateBuffer(&wgpu.BufferDescriptor{
		Size:             size,
		Usage:            wgpuBufferUsage(usage),
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, errors.New("wgpu.CreateBuffer(): " + err.Error())
	}
	return &buffer{device: d, raw: raw}, nil
}

type buffer struct {
	device *device
	raw    *wgpu.Buffer
}

func (b *buffer) Write(offset uint64, data []byte) error {
	if err := b.device.queue.WriteBuffer(b.raw, offset, data); err != nil {
		return errors.New("wgpu.WriteBuffer(): " + err.Error())
	}
	return nil
}

// Read copies the range into a MapRead staging buffer and maps it. The
// device is polled to completion, keeping the call synchronous.
func (b *buffer) Read(offset uint64, dst []byte) error {
	d := b.device
	size := uint64(len(dst))

	staging, err := d.raw.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return errors.New("wgpu.CreateBuffer(): " + err.Error())
	}
	defer staging.Release()

	encoder, err := d.raw.CreateCommandEncoder(nil)
	if err != nil {
		return errors.New("wgpu.CreateCommandEncoder(): " + err.Error())
	}
	defer encoder.Release()

	if err := encoder.CopyBufferToBuffer(b.raw, offset, staging, 0, size); err != nil {
		return errors.New("wgpu.CopyBufferToBuffer(): " + err.Error())
	}
	cb, err := encoder.Finish(nil)
	if err != nil {
		return errors.New("wgpu.Finish(): " + err.Error())
	}
	defer cb.Release()
	d.queue.Submit(cb)

	var status wgpu.BufferMapAsyncStatus
	if err := staging.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	}); err != nil {
		return errors.New("wgpu.MapAsync(): " + err.Error())
	}
	d.raw.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return fmt.Errorf("wgpu.MapAsync(): status %d", status)
	}

	copy(dst, staging.GetMappedRange(0, uint(size)))
	staging.Unmap()
	return nil
}

func (b *buffer) Destroy() {
	b.raw.Release()
}

func (d *device) CreateTexture(desc gpu.TextureDescriptor) (gpu.DriverTexture, error) {
	raw, err := d.raw.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpuFormat(desc.Format),
		Usage:         wgpuTextureUsage(desc.Usage),
	})
	if err != nil {
		return nil, errors.New("wgpu.CreateTexture(): " + err.Error())
	}
	return &texture{raw: raw}, nil
}

type texture struct {
	raw *wgpu.Texture

	// surfaceFrame marks textures acquired from a surface; the surface
	// owns their release.
	surfaceFrame bool
}

func (t *texture) CreateView() (gpu.DriverTextureView, error) {
	raw, err := t.raw.CreateView(nil)
	if err != nil {
		return nil, errors.New("wgpu.CreateView(): " + err.Error())
	}
	return &textureView{raw: raw}, nil
}

func (t *texture) Destroy() {
	if t.surfaceFrame {
		return
	}
	t.raw.Release()
}

type textureView struct {
	raw *wgpu.TextureView
}

func (v *textureView) Destroy() {
	v.raw.Release()
}

func (d *device) CreateSampler(desc gpu.SamplerDescriptor) (gpu.DriverSampler, error) {
	raw, err := d.raw.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  wgpuAddressMode(desc.AddressMode),
		AddressModeV:  wgpuAddressMode(desc.AddressMode),
		AddressModeW:  wgpuAddressMode(desc.AddressMode),
		MagFilter:     wgpuFilter(desc.MagFilter),
		MinFilter:     wgpuFilter(desc.MinFilter),
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, errors.New("wgpu.CreateSampler(): " + err.Error())
	}
	return &sampler{raw: raw}, nil
}

type sampler struct {
	raw *wgpu.Sampler
}

func (s *sampler) Destroy() {
	s.raw.Release()
}

// CreateShaderModule compiles WGSL source.
func (d *device) CreateShaderModule(label string, code []byte) (gpu.DriverShaderModule, error) {
	raw, err := d.raw.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: string(code),
		},
	})
	if err != nil {
		return nil, errors.New("wgpu.CreateShaderModule(" + label + "): " + err.Error())
	}
	return &shaderModule{raw: raw}, nil
}

type shaderModule struct {
	raw *wgpu.ShaderModule
}

func (m *shaderModule) Destroy() {
	m.raw.Release()
}

// CreateRenderPipeline builds a pipeline with the default auto layout.
func (d *device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor, vertex, fragment gpu.DriverShaderModule) (gpu.DriverRenderPipeline, error) {
	vertexModule, ok := vertex.(*shaderModule)
	if !ok {
		return nil, errors.New("webgpu: foreign vertex shader module")
	}
	fragmentModule, ok := fragment.(*shaderModule)
	if !ok {
		return nil, errors.New("webgpu: foreign fragment shader module")
	}

	var buffers []wgpu.VertexBufferLayout
	if len(desc.VertexLayout.Attributes) > 0 {
		attributes := make([]wgpu.VertexAttribute, 0, len(desc.VertexLayout.Attributes))
		for _, attr := range desc.VertexLayout.Attributes {
			attributes = append(attributes, wgpu.VertexAttribute{
				Format:         wgpuVertexFormat(attr.Format),
				Offset:         attr.Offset,
				ShaderLocation: attr.ShaderLocation,
			})
		}
		buffers = append(buffers, wgpu.VertexBufferLayout{
			ArrayStride: desc.VertexLayout.Stride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attributes,
		})
	}

	descriptor := &wgpu.RenderPipelineDescriptor{
		Label: desc.Label,
		Vertex: wgpu.VertexState{
			Module:     vertexModule.raw,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragmentModule.raw,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    wgpuFormat(desc.ColorFormat),
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpuTopology(desc.Topology),
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpuCullMode(desc.CullMode),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if desc.DepthFormat != gpu.TextureFormatInvalid {
		descriptor.DepthStencil = &wgpu.DepthStencilState{
			Format:            wgpuFormat(desc.DepthFormat),
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	raw, err := d.raw.CreateRenderPipeline(descriptor)
	if err != nil {
		return nil, errors.New("wgpu.CreateRenderPipeline(): " + err.Error())
	}
	return &pipeline{raw: raw}, nil
}

type pipeline struct {
	raw *wgpu.RenderPipeline
}

func (p *pipeline) Destroy() {
	p.raw.Release()
}
