package gpu_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/gobuffalo/envy"

	"github.com/kaon3d/kaon/gpu"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	envy.Temp(func() {
		cfg := gpu.ConfigFromEnv()
		want := gpu.DefaultBackendOrder()
		if len(cfg.BackendOrder) != len(want) {
			t.Fatalf("default order has %d entries, want %d", len(cfg.BackendOrder), len(want))
		}
		for i, b := range want {
			if cfg.BackendOrder[i] != b {
				t.Errorf("order[%d] = %s, want %s", i, cfg.BackendOrder[i], b)
			}
		}
		if cfg.ShaderDir != "shaders" {
			t.Errorf("shader dir = %q, want shaders", cfg.ShaderDir)
		}
		if cfg.Debug {
			t.Error("debug defaults to on")
		}
	})
}

func TestConfigFromEnvOverrides(t *testing.T) {
	envy.Temp(func() {
		envy.Set("KAON_BACKENDS", "software, webgpu, bogus")
		envy.Set("KAON_SHADER_DIR", "/srv/shaders")
		envy.Set("KAON_DEBUG", "1")

		cfg := gpu.ConfigFromEnv()
		if len(cfg.BackendOrder) != 2 ||
			cfg.BackendOrder[0] != gpu.BackendSoftware ||
			cfg.BackendOrder[1] != gpu.BackendWebGPU {
			t.Errorf("order = %v", cfg.BackendOrder)
		}
		if cfg.ShaderDir != "/srv/shaders" {
			t.Errorf("shader dir = %q", cfg.ShaderDir)
		}
		if !cfg.Debug {
			t.Error("debug not enabled")
		}
	})
}

func TestParseBackendRoundTrip(t *testing.T) {
	for _, b := range gpu.DefaultBackendOrder() {
		got, err := gpu.ParseBackend(b.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != b {
			t.Errorf("round trip of %s yields %s", b, got)
		}
	}
	if _, err := gpu.ParseBackend("quartz"); err == nil {
		t.Error("unknown backend parsed without error")
	}
}

func TestPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	pix := gpu.Pixels(img, 0)
	if len(pix) != 16 {
		t.Fatalf("pixel buffer is %d bytes, want 16", len(pix))
	}
	if pix[0] != 255 || pix[3] != 255 {
		t.Errorf("first texel = %v, want opaque red", pix[:4])
	}
}

func TestScaledPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	pix := gpu.ScaledPixels(img, 4, 2)
	if len(pix) != 4*4*2 {
		t.Errorf("scaled buffer is %d bytes, want %d", len(pix), 4*4*2)
	}
}
