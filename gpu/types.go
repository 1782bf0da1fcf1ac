package gpu

import "fmt"

// BufferUsage is a bitset describing how a buffer may be used. The bit
// values are part of the wire contract and must not be reordered.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageCopySrc
	BufferUsageCopyDst
)

// bufferUsageAll covers every recognized usage bit.
const bufferUsageAll = BufferUsageVertex | BufferUsageIndex | BufferUsageUniform |
	BufferUsageCopySrc | BufferUsageCopyDst

// Valid reports whether the set is non-empty and contains only
// recognized bits.
func (u BufferUsage) Valid() bool {
	return u != 0 && u&^bufferUsageAll == 0
}

// String implements fmt.Stringer.
func (u BufferUsage) String() string {
	names := []struct {
		bit  BufferUsage
		name string
	}{
		{BufferUsageVertex, "VERTEX"},
		{BufferUsageIndex, "INDEX"},
		{BufferUsageUniform, "UNIFORM"},
		{BufferUsageCopySrc, "COPY_SRC"},
		{BufferUsageCopyDst, "COPY_DST"},
	}
	s := ""
	for _, n := range names {
		if u&n.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	if s == "" {
		return "NONE"
	}
	return s
}

// TextureFormat is the closed set of texel formats the layer supports.
type TextureFormat int8

const (
	TextureFormatInvalid TextureFormat = iota
	TextureFormatRGBA8Unorm
	TextureFormatBGRA8Unorm
	TextureFormatRGBA16Float
	TextureFormatDepth24Plus
)

// Valid reports whether the format belongs to the supported set.
func (f TextureFormat) Valid() bool {
	return f > TextureFormatInvalid && f <= TextureFormatDepth24Plus
}

// IsDepth reports whether the format is a depth format.
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth24Plus
}

// String implements fmt.Stringer.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8Unorm:
		return "RGBA8_UNORM"
	case TextureFormatBGRA8Unorm:
		return "BGRA8_UNORM"
	case TextureFormatRGBA16Float:
		return "RGBA16_FLOAT"
	case TextureFormatDepth24Plus:
		return "DEPTH24_PLUS"
	default:
		return fmt.Sprintf("format(%d)", int8(f))
	}
}

// TextureUsage is a bitset describing how a texture may be used.
type TextureUsage uint32

const (
	TextureUsageRenderAttachment TextureUsage = 1 << iota
	TextureUsageTextureBinding
	TextureUsageCopySrc
	TextureUsageCopyDst
)

const textureUsageAll = TextureUsageRenderAttachment | TextureUsageTextureBinding |
	TextureUsageCopySrc | TextureUsageCopyDst

// Valid reports whether the set is non-empty and contains only
// recognized bits.
func (u TextureUsage) Valid() bool {
	return u != 0 && u&^textureUsageAll == 0
}

// FilterMode selects texel filtering for samplers.
type FilterMode int8

const (
	FilterModeNearest FilterMode = iota
	FilterModeLinear
)

// AddressMode selects how samplers treat coordinates outside [0,1].
type AddressMode int8

const (
	AddressModeClampToEdge AddressMode = iota
	AddressModeRepeat
	AddressModeMirrorRepeat
)

// PrimitiveTopology selects how vertices assemble into primitives.
type PrimitiveTopology int8

const (
	TopologyPointList PrimitiveTopology = iota
	TopologyLineList
	TopologyLineStrip
	TopologyTriangleList
	TopologyTriangleStrip
)

// CullMode selects which primitive faces are discarded.
type CullMode int8

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// VertexFormat is the format of one vertex attribute.
type VertexFormat int8

const (
	VertexFormatFloat32 VertexFormat = iota
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
)

// Size returns the attribute's byte width.
func (f VertexFormat) Size() uint32 {
	switch f {
	case VertexFormatFloat32:
		return 4
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x3:
		return 12
	default:
		return 16
	}
}

// IndexFormat is the element width of an index buffer.
type IndexFormat int8

const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)

// Color is an RGBA clear value with components in [0,1].
type Color struct {
	R, G, B, A float64
}

// InstanceDescriptor configures a new Instance.
type InstanceDescriptor struct {
	// Label tags the instance in logs and driver debug layers.
	Label string

	// BackendOrder is the ordered backend preference used when
	// requesting adapters. Mandatory, at least one entry.
	BackendOrder []Backend
}

// AdapterOptions narrows adapter selection.
type AdapterOptions struct {
	PowerPreference PowerPreference
}

// AdapterInfo carries immutable identification of a physical
// GPU/backend pairing.
type AdapterInfo struct {
	Name          string `json:"name"`
	Vendor        string `json:"vendor"`
	Architecture  string `json:"architecture"`
	DriverVersion string `json:"driverVersion"`
}

// DeviceDescriptor configures a logical device.
type DeviceDescriptor struct {
	// Label tags the device and its queue.
	Label string

	// ShaderSource locates precompiled shader binaries by label.
	// Defaults to a directory source rooted at "shaders".
	ShaderSource ShaderSource
}

// BufferDescriptor configures buffer creation.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// TextureDescriptor configures texture creation.
type TextureDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format TextureFormat
	Usage  TextureUsage
}

// SamplerDescriptor configures sampler creation.
type SamplerDescriptor struct {
	Label       string
	MagFilter   FilterMode
	MinFilter   FilterMode
	AddressMode AddressMode
}

// ShaderModuleDescriptor names a precompiled shader binary. Label is
// mandatory; it is the lookup key for the binary resource.
type ShaderModuleDescriptor struct {
	Label string
}

// VertexAttribute describes one attribute within a vertex buffer layout.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexLayout describes the layout of one bound vertex buffer.
type VertexLayout struct {
	Stride     uint64
	Attributes []VertexAttribute
}

// RenderPipelineDescriptor configures a render pipeline.
type RenderPipelineDescriptor struct {
	Label        string
	Vertex       *ShaderModule
	Fragment     *ShaderModule
	VertexLayout VertexLayout
	Topology     PrimitiveTopology
	CullMode     CullMode
	ColorFormat  TextureFormat
	DepthFormat  TextureFormat // zero means no depth attachment
}

// SurfaceConfig binds presentation parameters to a Surface.
type SurfaceConfig struct {
	Format TextureFormat
	Usage  TextureUsage
	Width  uint32
	Height uint32
}

// RenderPassDescriptor configures one render pass.
type RenderPassDescriptor struct {
	// ColorView is the color attachment. Mandatory.
	ColorView *TextureView

	// ClearColor is applied to the color attachment when the pass begins.
	ClearColor Color

	// DepthView is an optional depth attachment.
	DepthView *TextureView

	// ClearDepth is applied to the depth attachment when present.
	ClearDepth float32
}
