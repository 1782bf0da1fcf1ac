package vkg

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

func vkFormat(f gpu.TextureFormat) vk.Format {
	switch f {
	case gpu.TextureFormatRGBA8Unorm:
		return vk.FormatR8g8b8a8Unorm
	case gpu.TextureFormatBGRA8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case gpu.TextureFormatRGBA16Float:
		return vk.FormatR16g16b16a16Sfloat
	case gpu.TextureFormatDepth24Plus:
		return vk.FormatX8D24UnormPack32
	default:
		return vk.FormatUndefined
	}
}

func vkImageUsage(u gpu.TextureUsage, depth bool) vk.ImageUsageFlags {
	var flags vk.ImageUsageFlags
	if u&gpu.TextureUsageRenderAttachment != 0 {
		if depth {
			flags |= vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit)
		} else {
			flags |= vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)
		}
	}
	if u&gpu.TextureUsageTextureBinding != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageSampledBit)
	}
	if u&gpu.TextureUsageCopySrc != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit)
	}
	if u&gpu.TextureUsageCopyDst != 0 {
		flags |= vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)
	}
	return flags
}

func vkBufferUsage(u gpu.BufferUsage) vk.BufferUsageFlags {
	var flags vk.BufferUsageFlags
	if u&gpu.BufferUsageVertex != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)
	}
	if u&gpu.BufferUsageIndex != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)
	}
	if u&gpu.BufferUsageUniform != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit)
	}
	if u&gpu.BufferUsageCopySrc != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit)
	}
	if u&gpu.BufferUsageCopyDst != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)
	}
	return flags
}

func vkTopology(t gpu.PrimitiveTopology) vk.PrimitiveTopology {
	switch t {
	case gpu.TopologyPointList:
		return vk.PrimitiveTopologyPointList
	case gpu.TopologyLineList:
		return vk.PrimitiveTopologyLineList
	case gpu.TopologyLineStrip:
		return vk.PrimitiveTopologyLineStrip
	case gpu.TopologyTriangleStrip:
		return vk.PrimitiveTopologyTriangleStrip
	default:
		return vk.PrimitiveTopologyTriangleList
	}
}

func vkCullMode(m gpu.CullMode) vk.CullModeFlags {
	switch m {
	case gpu.CullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case gpu.CullModeBack:
		return vk.CullModeFlags(vk.CullModeBackBit)
	default:
		return vk.CullModeFlags(vk.CullModeNone)
	}
}

func vkVertexFormat(f gpu.VertexFormat) vk.Format {
	switch f {
	case gpu.VertexFormatFloat32:
		return vk.FormatR32Sfloat
	case gpu.VertexFormatFloat32x2:
		return vk.FormatR32g32Sfloat
	case gpu.VertexFormatFloat32x3:
		return vk.FormatR32g32b32Sfloat
	default:
		return vk.FormatR32g32b32a32Sfloat
	}
}

func vkIndexType(f gpu.IndexFormat) vk.IndexType {
	if f == gpu.IndexFormatUint32 {
		return vk.IndexTypeUint32
	}
	return vk.IndexTypeUint16
}
