package gpu_test

import (
	"errors"
	"testing"

	"github.com/kaon3d/kaon/gpu"
)

// newColorTarget creates a render-attachment texture and a view over it.
func newColorTarget(t *testing.T, device *gpu.Device) *gpu.TextureView {
	t.Helper()
	texture, err := device.CreateTexture(gpu.TextureDescriptor{
		Label:  "target",
		Width:  16,
		Height: 16,
		Format: gpu.TextureFormatRGBA8Unorm,
		Usage:  gpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatal(err)
	}
	view, err := texture.CreateView()
	if err != nil {
		t.Fatal(err)
	}
	return view
}

func newTestPipeline(t *testing.T, device *gpu.Device) *gpu.RenderPipeline {
	t.Helper()
	vertex, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.vert"})
	if err != nil {
		t.Fatal(err)
	}
	fragment, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.frag"})
	if err != nil {
		t.Fatal(err)
	}
	pipeline, err := device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{
		Label:       "triangle",
		Vertex:      vertex,
		Fragment:    fragment,
		Topology:    gpu.TopologyTriangleList,
		ColorFormat: gpu.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		t.Fatal(err)
	}
	return pipeline
}

func TestEncoderFailsFastOnCorruptedDevice(t *testing.T) {
	device := newTestDevice(t)
	view := newColorTarget(t, device)
	pipeline := newTestPipeline(t, device)

	encoder, err := device.CreateCommandEncoder("doomed")
	if err != nil {
		t.Fatal(err)
	}
	pass, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{ColorView: view})
	if err != nil {
		t.Fatal(err)
	}

	// Acquiring twice without presenting is a native failure that
	// corrupts the device.
	surface := newTestSurface(t, device)
	if _, err := surface.AcquireFrame(); err != nil {
		t.Fatal(err)
	}
	if _, err := surface.AcquireFrame(); !errors.Is(err, gpu.ErrNative) {
		t.Fatalf("double acquire: expected ErrNative, got %v", err)
	}

	if err := pass.SetPipeline(pipeline); !errors.Is(err, gpu.ErrNative) {
		t.Errorf("recording on corrupted device: expected ErrNative, got %v", err)
	}
	if err := pass.End(); !errors.Is(err, gpu.ErrNative) {
		t.Errorf("ending pass on corrupted device: expected ErrNative, got %v", err)
	}
	if _, err := encoder.Finish(); !errors.Is(err, gpu.ErrNative) {
		t.Errorf("finishing on corrupted device: expected ErrNative, got %v", err)
	}
}

func TestEncoderRecordAndSubmit(t *testing.T) {
	device := newTestDevice(t)
	view := newColorTarget(t, device)
	pipeline := newTestPipeline(t, device)
	vertices := newTestBuffer(t, device, 60, gpu.BufferUsageVertex)

	encoder, err := device.CreateCommandEncoder("frame")
	if err != nil {
		t.Fatal(err)
	}
	pass, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{
		ColorView:  view,
		ClearColor: gpu.Color{R: 1, A: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := pass.SetPipeline(pipeline); err != nil {
		t.Fatal(err)
	}
	if err := pass.SetVertexBuffer(0, vertices, 0); err != nil {
		t.Fatal(err)
	}
	if err := pass.Draw(3, 1, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := pass.End(); err != nil {
		t.Fatal(err)
	}

	commands, err := encoder.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if err := device.Queue().Submit(commands); err != nil {
		t.Fatal(err)
	}
}

func TestEncoderFinishIsSingleUse(t *testing.T) {
	device := newTestDevice(t)

	encoder, err := device.CreateCommandEncoder("once")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := encoder.Finish(); err != nil {
		t.Fatal(err)
	}
	if _, err := encoder.Finish(); !errors.Is(err, gpu.ErrInvalidState) {
		t.Errorf("second finish: expected ErrInvalidState, got %v", err)
	}
	if _, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{ColorView: newColorTarget(t, device)}); !errors.Is(err, gpu.ErrInvalidState) {
		t.Errorf("recording after finish: expected ErrInvalidState, got %v", err)
	}
}

func TestEncoderSingleOpenPass(t *testing.T) {
	device := newTestDevice(t)
	view := newColorTarget(t, device)

	encoder, err := device.CreateCommandEncoder("passes")
	if err != nil {
		t.Fatal(err)
	}
	pass, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{ColorView: view})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{ColorView: view}); !errors.Is(err, gpu.ErrInvalidState) {
		t.Errorf("second open pass: expected ErrInvalidState, got %v", err)
	}
	if _, err := encoder.Finish(); !errors.Is(err, gpu.ErrInvalidState) {
		t.Errorf("finish with open pass: expected ErrInvalidState, got %v", err)
	}
	if err := pass.End(); err != nil {
		t.Fatal(err)
	}
	if err := pass.End(); !errors.Is(err, gpu.ErrInvalidState) {
		t.Errorf("double end: expected ErrInvalidState, got %v", err)
	}
	if err := pass.Draw(3, 1, 0, 0); !errors.Is(err, gpu.ErrInvalidState) {
		t.Errorf("draw after end: expected ErrInvalidState, got %v", err)
	}
}

func TestRenderPassUsageChecks(t *testing.T) {
	device := newTestDevice(t)
	view := newColorTarget(t, device)
	uniform := newTestBuffer(t, device, 16, gpu.BufferUsageUniform)

	encoder, err := device.CreateCommandEncoder("usage")
	if err != nil {
		t.Fatal(err)
	}
	pass, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{ColorView: view})
	if err != nil {
		t.Fatal(err)
	}
	if err := pass.SetVertexBuffer(0, uniform, 0); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("uniform as vertex buffer: expected ErrConfiguration, got %v", err)
	}
	if err := pass.SetIndexBuffer(uniform, gpu.IndexFormatUint16, 0); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("uniform as index buffer: expected ErrConfiguration, got %v", err)
	}
}

func TestCommandBufferSubmittedOnce(t *testing.T) {
	device := newTestDevice(t)

	encoder, err := device.CreateCommandEncoder("replay")
	if err != nil {
		t.Fatal(err)
	}
	commands, err := encoder.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if err := device.Queue().Submit(commands); err != nil {
		t.Fatal(err)
	}
	if err := device.Queue().Submit(commands); !errors.Is(err, gpu.ErrInvalidState) {
		t.Errorf("resubmission: expected ErrInvalidState, got %v", err)
	}
}

func TestSubmitEmptyIsNoOp(t *testing.T) {
	device := newTestDevice(t)
	if err := device.Queue().Submit(); err != nil {
		t.Errorf("empty submit: %v", err)
	}
}

func TestSubmitCrossDevice(t *testing.T) {
	deviceA := newTestDevice(t)
	deviceB := newTestDevice(t)

	encoder, err := deviceA.CreateCommandEncoder("foreign")
	if err != nil {
		t.Fatal(err)
	}
	commands, err := encoder.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if err := deviceB.Queue().Submit(commands); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("cross-device submit: expected ErrConfiguration, got %v", err)
	}
}

func TestRenderPassRejectsForeignAttachment(t *testing.T) {
	deviceA := newTestDevice(t)
	deviceB := newTestDevice(t)
	view := newColorTarget(t, deviceB)

	encoder, err := deviceA.CreateCommandEncoder("foreign-view")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{ColorView: view}); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("foreign attachment: expected ErrConfiguration, got %v", err)
	}
}
