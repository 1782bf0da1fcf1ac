package gpu

import "context"

// Driver is the entry point a backend implementation registers with this
// package. One Driver exists per backend tag; it probes platform support
// without allocating persistent resources, and opens instances when one of
// its backends is selected.
type Driver interface {
	// Backend returns the tag this driver registers under.
	Backend() Backend

	// Probe inspects the platform for support without allocating
	// anything that outlives the call. A probe error means the backend
	// is unusable here; the reason is recorded, never fatal.
	Probe(ctx context.Context) (*Probe, error)

	// CreateInstance opens the backend's top-level context.
	CreateInstance(label string) (DriverInstance, error)

	// ShaderWordSize is the alignment a shader binary's byte length must
	// satisfy (4 for SPIR-V backends, 1 for WGSL source).
	ShaderWordSize() int

	// ShaderSuffix is the file suffix of this backend's precompiled
	// shader binaries, including the leading dot.
	ShaderSuffix() string
}

// Probe is the result of a capability probe for one backend.
type Probe struct {
	DeviceID      string
	DeviceName    string
	Vendor        string
	DriverVersion string

	// Features holds statuses the driver determined directly.
	Features map[Feature]FeatureStatus

	// Extensions lists raw native capability names reported by the
	// platform (extension strings, adapter feature names). Translation
	// into Features is done by the caps package.
	Extensions []string
}

// DriverInstance is a backend's top-level context handle.
type DriverInstance interface {
	RequestAdapter(ctx context.Context, opts AdapterOptions) (DriverAdapter, error)

	// Native exposes the raw backend instance handle for windowing glue
	// (a vk.Instance on Vulkan builds). Backends without a native
	// context return nil.
	Native() interface{}

	Destroy()
}

// DriverAdapter is one physical-GPU handle within a backend.
type DriverAdapter interface {
	Info() AdapterInfo

	// RequestDevice opens the native device context. There is no partial
	// success: either the context opens fully or an error is returned.
	RequestDevice(ctx context.Context, label string) (DriverDevice, error)
}

// DriverDevice owns a native device context and creates native resources.
// All calls are made with already-validated arguments; drivers do not
// re-validate bounds or lifecycle state.
type DriverDevice interface {
	CreateBuffer(size uint64, usage BufferUsage) (DriverBuffer, error)
	CreateTexture(desc TextureDescriptor) (DriverTexture, error)
	CreateSampler(desc SamplerDescriptor) (DriverSampler, error)
	CreateShaderModule(label string, code []byte) (DriverShaderModule, error)
	CreateRenderPipeline(desc RenderPipelineDescriptor, vertex, fragment DriverShaderModule) (DriverRenderPipeline, error)
	CreateCommandEncoder(label string) (DriverCommandEncoder, error)
	CreateSurface(native uintptr, cfg SurfaceConfig) (DriverSurface, error)

	// Submit hands command buffers to the hardware queue and blocks
	// until execution completes, then releases their native resources.
	Submit(buffers []DriverCommandBuffer) error

	Destroy() error
}

// DriverBuffer is a native buffer allocation.
type DriverBuffer interface {
	Write(offset uint64, data []byte) error
	Read(offset uint64, dst []byte) error
	Destroy()
}

// DriverTexture is a native image allocation.
type DriverTexture interface {
	CreateView() (DriverTextureView, error)
	Destroy()
}

// DriverTextureView is a native view over a texture.
type DriverTextureView interface {
	Destroy()
}

// DriverSampler is a native sampler object.
type DriverSampler interface {
	Destroy()
}

// DriverShaderModule is a loaded shader binary.
type DriverShaderModule interface {
	Destroy()
}

// DriverRenderPipeline is a compiled pipeline state object.
type DriverRenderPipeline interface {
	Destroy()
}

// DriverRenderPassDescriptor is the driver-level view of a render pass:
// attachments resolved to native view handles.
type DriverRenderPassDescriptor struct {
	ColorView  DriverTextureView
	ClearColor Color

	// DepthView is nil when the pass has no depth attachment.
	DepthView  DriverTextureView
	ClearDepth float32
}

// DriverCommandEncoder records one native command buffer.
type DriverCommandEncoder interface {
	BeginRenderPass(desc DriverRenderPassDescriptor) (DriverRenderPass, error)

	// Finish seals the recording and transfers ownership of the native
	// buffer to the returned command buffer.
	Finish() (DriverCommandBuffer, error)
}

// DriverRenderPass records draw commands inside one render pass.
type DriverRenderPass interface {
	SetPipeline(p DriverRenderPipeline)
	SetVertexBuffer(slot uint32, b DriverBuffer, offset uint64)
	SetIndexBuffer(b DriverBuffer, format IndexFormat, offset uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End() error
}

// DriverCommandBuffer is a sealed, submittable unit of GPU work.
type DriverCommandBuffer interface {
	Destroy()
}

// DriverSurface is a native presentable target.
type DriverSurface interface {
	// Acquire obtains the next backing texture to render into.
	Acquire() (DriverTexture, error)

	// Present hands the most recently acquired texture to the
	// presentation engine and releases it.
	Present() error

	// Reconfigure applies a new size/format for subsequent acquires.
	Reconfigure(cfg SurfaceConfig) error

	Destroy()
}
