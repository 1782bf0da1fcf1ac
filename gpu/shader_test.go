package gpu_test

import (
	"errors"
	"testing"

	"github.com/kaon3d/kaon/gpu"
)

func TestShaderModuleLookup(t *testing.T) {
	device := newTestDevice(t)

	module, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.vert"})
	if err != nil {
		t.Fatal(err)
	}
	if module.Label() != "triangle.vert" {
		t.Errorf("label = %q", module.Label())
	}
	if module.Size() == 0 {
		t.Error("module reports zero size")
	}

	other, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.frag"})
	if err != nil {
		t.Fatal(err)
	}
	if module.ID() == other.ID() {
		t.Error("module ids are not unique")
	}
}

func TestShaderModuleNotFound(t *testing.T) {
	device := newTestDevice(t)

	if _, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "missing"}); !errors.Is(err, gpu.ErrShaderNotFound) {
		t.Errorf("expected ErrShaderNotFound, got %v", err)
	}
}

func TestShaderModuleMalformed(t *testing.T) {
	device := newTestDevice(t)

	if _, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "broken"}); !errors.Is(err, gpu.ErrMalformedShader) {
		t.Errorf("expected ErrMalformedShader, got %v", err)
	}
}

func TestShaderModuleNeedsLabel(t *testing.T) {
	device := newTestDevice(t)

	if _, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{}); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestShaderModuleDoubleDestroy(t *testing.T) {
	device := newTestDevice(t)

	module, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.vert"})
	if err != nil {
		t.Fatal(err)
	}
	if err := module.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := module.Destroy(); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", err)
	}
}

func TestPipelineValidation(t *testing.T) {
	device := newTestDevice(t)
	vertex, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.vert"})
	if err != nil {
		t.Fatal(err)
	}
	fragment, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.frag"})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		desc gpu.RenderPipelineDescriptor
	}{
		{"missing modules", gpu.RenderPipelineDescriptor{Label: "p", ColorFormat: gpu.TextureFormatRGBA8Unorm}},
		{"no color format", gpu.RenderPipelineDescriptor{Label: "p", Vertex: vertex, Fragment: fragment}},
		{"depth as color", gpu.RenderPipelineDescriptor{Label: "p", Vertex: vertex, Fragment: fragment, ColorFormat: gpu.TextureFormatDepth24Plus}},
		{"color as depth", gpu.RenderPipelineDescriptor{Label: "p", Vertex: vertex, Fragment: fragment, ColorFormat: gpu.TextureFormatRGBA8Unorm, DepthFormat: gpu.TextureFormatRGBA8Unorm}},
	}
	for _, tc := range cases {
		if _, err := device.CreateRenderPipeline(tc.desc); !errors.Is(err, gpu.ErrConfiguration) {
			t.Errorf("%s: expected ErrConfiguration, got %v", tc.name, err)
		}
	}
}

func TestPipelineCrossDeviceModules(t *testing.T) {
	deviceA := newTestDevice(t)
	deviceB := newTestDevice(t)

	vertex, err := deviceA.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.vert"})
	if err != nil {
		t.Fatal(err)
	}
	fragment, err := deviceB.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.frag"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = deviceA.CreateRenderPipeline(gpu.RenderPipelineDescriptor{
		Label:       "mixed",
		Vertex:      vertex,
		Fragment:    fragment,
		ColorFormat: gpu.TextureFormatRGBA8Unorm,
	})
	if !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}
