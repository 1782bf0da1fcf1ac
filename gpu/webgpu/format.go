package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kaon3d/kaon/gpu"
)

func wgpuFormat(f gpu.TextureFormat) wgpu.TextureFormat {
	switch f {
	case gpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case gpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case gpu.TextureFormatRGBA16Float:
		return wgpu.TextureFormatRGBA16Float
	case gpu.TextureFormatDepth24Plus:
		return wgpu.TextureFormatDepth24Plus
	default:
		return wgpu.TextureFormatUndefined
	}
}

// wgpuBufferUsage maps usage bits, always adding the transfer bits the
// write and read paths rely on.
func wgpuBufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	flags := wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	if u&gpu.BufferUsageVertex != 0 {
		flags |= wgpu.BufferUsageVertex
	}
	if u&gpu.BufferUsageIndex != 0 {
		flags |= wgpu.BufferUsageIndex
	}
	if u&gpu.BufferUsageUniform != 0 {
		flags |= wgpu.BufferUsageUniform
	}
	return flags
}

func wgpuTextureUsage(u gpu.TextureUsage) wgpu.TextureUsage {
	var flags wgpu.TextureUsage
	if u&gpu.TextureUsageRenderAttachment != 0 {
		flags |= wgpu.TextureUsageRenderAttachment
	}
	if u&gpu.TextureUsageTextureBinding != 0 {
		flags |= wgpu.TextureUsageTextureBinding
	}
	if u&gpu.TextureUsageCopySrc != 0 {
		flags |= wgpu.TextureUsageCopySrc
	}
	if u&gpu.TextureUsageCopyDst != 0 {
		flags |= wgpu.TextureUsageCopyDst
	}
	return flags
}

func wgpuTopology(t gpu.PrimitiveTopology) wgpu.PrimitiveTopology {
	switch t {
	case gpu.TopologyPointList:
		return wgpu.PrimitiveTopologyPointList
	case gpu.TopologyLineList:
		return wgpu.PrimitiveTopologyLineList
	case gpu.TopologyLineStrip:
		return wgpu.PrimitiveTopologyLineStrip
	case gpu.TopologyTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func wgpuCullMode(m gpu.CullMode) wgpu.CullMode {
	switch m {
	case gpu.CullModeFront:
		return wgpu.CullModeFront
	case gpu.CullModeBack:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}

func wgpuVertexFormat(f gpu.VertexFormat) wgpu.VertexFormat {
	switch f {
	case gpu.VertexFormatFloat32:
		return wgpu.VertexFormatFloat32
	case gpu.VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2
	case gpu.VertexFormatFloat32x3:
		return wgpu.VertexFormatFloat32x3
	default:
		return wgpu.VertexFormatFloat32x4
	}
}

func wgpuIndexFormat(f gpu.IndexFormat) wgpu.IndexFormat {
	if f == gpu.IndexFormatUint32 {
		return wgpu.IndexFormatUint32
	}
	return wgpu.IndexFormatUint16
}

func wgpuFilter(f gpu.FilterMode) wgpu.FilterMode {
	if f == gpu.FilterModeLinear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}

func wgpuAddressMode(m gpu.AddressMode) wgpu.AddressMode {
	switch m {
	case gpu.AddressModeRepeat:
		return wgpu.AddressModeRepeat
	case gpu.AddressModeMirrorRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeClampToEdge
	}
}
