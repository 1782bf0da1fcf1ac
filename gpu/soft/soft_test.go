package soft

import (
	"bytes"
	"context"
	"testing"

	"github.com/kaon3d/kaon/gpu"
)

func TestProbeReportsEmulation(t *testing.T) {
	probe, err := (&Driver{}).Probe(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if probe.DeviceID == "" || probe.DriverVersion == "" {
		t.Error("probe identity is blank")
	}
	for f, s := range probe.Features {
		if s != gpu.FeatureEmulated {
			t.Errorf("feature %s = %s, want EMULATED", f, s)
		}
	}
}

func TestUnorm8Clamps(t *testing.T) {
	cases := []struct {
		in   float64
		want byte
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{2.5, 255},
	}
	for _, tc := range cases {
		if got := unorm8(tc.in); got != tc.want {
			t.Errorf("unorm8(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFloat16Encoding(t *testing.T) {
	cases := []struct {
		in   float32
		want uint16
	}{
		{0, 0x0000},
		{1, 0x3C00},
		{0.5, 0x3800},
		{-2, 0xC000},
		{65504, 0x7BFF},
		{1e10, 0x7C00},  // overflow clamps to +inf
		{1e-10, 0x0000}, // underflow flushes to zero
	}
	for _, tc := range cases {
		if got := float16(tc.in); got != tc.want {
			t.Errorf("float16(%v) = %#04x, want %#04x", tc.in, got, tc.want)
		}
	}
}

func TestClearTexelSwizzlesBGRA(t *testing.T) {
	c := gpu.Color{R: 1, G: 0.5, B: 0, A: 1}

	rgba := clearTexel(gpu.TextureFormatRGBA8Unorm, c)
	if !bytes.Equal(rgba, []byte{255, 128, 0, 255}) {
		t.Errorf("rgba texel = %v", rgba)
	}
	bgra := clearTexel(gpu.TextureFormatBGRA8Unorm, c)
	if !bytes.Equal(bgra, []byte{0, 128, 255, 255}) {
		t.Errorf("bgra texel = %v", bgra)
	}
	f16 := clearTexel(gpu.TextureFormatRGBA16Float, c)
	if len(f16) != 8 {
		t.Fatalf("float texel is %d bytes", len(f16))
	}
	if f16[0] != 0x00 || f16[1] != 0x3C {
		t.Errorf("float texel red = %v, want 1.0 in binary16", f16[:2])
	}
}

func TestDepthTexelClamps(t *testing.T) {
	if got := depthTexel(2); !bytes.Equal(got, []byte{0xFF, 0xFF, 0xFF, 0x00}) {
		t.Errorf("depthTexel(2) = %v", got)
	}
	if got := depthTexel(-1); !bytes.Equal(got, []byte{0, 0, 0, 0}) {
		t.Errorf("depthTexel(-1) = %v", got)
	}
}

func TestSubmitReplaysClear(t *testing.T) {
	dev, err := newTestDriverDevice()
	if err != nil {
		t.Fatal(err)
	}

	target := newTexture(gpu.TextureDescriptor{
		Width:  4,
		Height: 4,
		Format: gpu.TextureFormatRGBA8Unorm,
		Usage:  gpu.TextureUsageRenderAttachment,
	})
	view, err := target.CreateView()
	if err != nil {
		t.Fatal(err)
	}

	enc, err := dev.CreateCommandEncoder("clear")
	if err != nil {
		t.Fatal(err)
	}
	pass, err := enc.BeginRenderPass(gpu.DriverRenderPassDescriptor{
		ColorView:  view,
		ClearColor: gpu.Color{R: 1, A: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := pass.End(); err != nil {
		t.Fatal(err)
	}
	cb, err := enc.Finish()
	if err != nil {
		t.Fatal(err)
	}

	// Nothing touches the pixels until submit replays the ops.
	if target.pix[0] != 0 {
		t.Error("clear ran before submit")
	}
	if err := dev.Submit([]gpu.DriverCommandBuffer{cb}); err != nil {
		t.Fatal(err)
	}
	if target.pix[0] != 255 || target.pix[3] != 255 {
		t.Errorf("first texel = %v, want opaque red", target.pix[:4])
	}
}

func TestSurfaceFrameLifecycle(t *testing.T) {
	s := &surface{cfg: gpu.SurfaceConfig{
		Width:  8,
		Height: 8,
		Format: gpu.TextureFormatBGRA8Unorm,
		Usage:  gpu.TextureUsageRenderAttachment,
	}}

	if err := s.Present(); err == nil {
		t.Error("present without an acquired frame succeeded")
	}
	if _, err := s.Acquire(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Acquire(); err == nil {
		t.Error("second acquire with a frame outstanding succeeded")
	}
	if err := s.Present(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Acquire(); err != nil {
		t.Errorf("acquire after present: %v", err)
	}
}

// newTestDriverDevice opens a device straight through the driver
// interfaces, bypassing the frontend.
func newTestDriverDevice() (gpu.DriverDevice, error) {
	di, err := (&Driver{}).CreateInstance("test")
	if err != nil {
		return nil, err
	}
	da, err := di.RequestAdapter(context.Background(), gpu.AdapterOptions{})
	if err != nil {
		return nil, err
	}
	return da.RequestDevice(context.Background(), "test")
}
