package gpu_test

import (
	"errors"
	"testing"

	"github.com/kaon3d/kaon/gpu"
)

func newTestSurface(t *testing.T, device *gpu.Device) *gpu.Surface {
	t.Helper()
	surface := gpu.NewSurface(0xBADC0FFEE, 640, 480)
	if err := surface.Configure(device, gpu.SurfaceConfig{
		Format: gpu.TextureFormatBGRA8Unorm,
		Usage:  gpu.TextureUsageRenderAttachment,
	}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(surface.Destroy)
	return surface
}

func TestSurfaceAcquireBeforeConfigure(t *testing.T) {
	surface := gpu.NewSurface(1, 640, 480)
	if _, err := surface.AcquireFrame(); !errors.Is(err, gpu.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestSurfaceConfigureRejectsDepthFormat(t *testing.T) {
	device := newTestDevice(t)
	surface := gpu.NewSurface(1, 640, 480)
	err := surface.Configure(device, gpu.SurfaceConfig{
		Format: gpu.TextureFormatDepth24Plus,
		Usage:  gpu.TextureUsageRenderAttachment,
	})
	if !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestSurfaceFrameTagsStrictlyIncrease(t *testing.T) {
	device := newTestDevice(t)
	surface := newTestSurface(t, device)

	var last uint64
	for i := 0; i < 5; i++ {
		frame, err := surface.AcquireFrame()
		if err != nil {
			t.Fatal(err)
		}
		if frame.Tag() <= last {
			t.Errorf("frame tag %d not greater than previous %d", frame.Tag(), last)
		}
		last = frame.Tag()
		if err := surface.Present(frame); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSurfaceDoublePresent(t *testing.T) {
	device := newTestDevice(t)
	surface := newTestSurface(t, device)

	frame, err := surface.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if err := surface.Present(frame); err != nil {
		t.Fatal(err)
	}
	if err := surface.Present(frame); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("second present: expected ErrDisposed, got %v", err)
	}
}

func TestSurfacePresentForeignFrame(t *testing.T) {
	device := newTestDevice(t)
	surfaceA := newTestSurface(t, device)
	surfaceB := newTestSurface(t, device)

	frame, err := surfaceA.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if err := surfaceB.Present(frame); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("foreign frame: expected ErrConfiguration, got %v", err)
	}
	if err := surfaceB.Present(nil); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("nil frame: expected ErrConfiguration, got %v", err)
	}
	if err := surfaceA.Present(frame); err != nil {
		t.Fatal(err)
	}
}

func TestSurfaceAcquireWhileOutstanding(t *testing.T) {
	device := newTestDevice(t)
	surface := newTestSurface(t, device)

	if _, err := surface.AcquireFrame(); err != nil {
		t.Fatal(err)
	}
	if _, err := surface.AcquireFrame(); !errors.Is(err, gpu.ErrNative) {
		t.Errorf("acquire with frame outstanding: expected ErrNative, got %v", err)
	}
	// The failure poisons the device; it must be discarded.
	if _, err := device.CreateCommandEncoder("after"); !errors.Is(err, gpu.ErrNative) {
		t.Errorf("poisoned device: expected ErrNative, got %v", err)
	}
}

func TestSurfaceResizeAppliesOnNextAcquire(t *testing.T) {
	device := newTestDevice(t)
	surface := newTestSurface(t, device)

	frame, err := surface.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if frame.Texture().Width() != 640 || frame.Texture().Height() != 480 {
		t.Errorf("frame is %dx%d, want 640x480", frame.Texture().Width(), frame.Texture().Height())
	}

	// The outstanding frame keeps its backing; only later acquires see
	// the new extents.
	surface.Resize(320, 240)
	if frame.Texture().Width() != 640 {
		t.Error("resize touched an outstanding frame")
	}
	if err := surface.Present(frame); err != nil {
		t.Fatal(err)
	}

	next, err := surface.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if next.Texture().Width() != 320 || next.Texture().Height() != 240 {
		t.Errorf("resized frame is %dx%d, want 320x240", next.Texture().Width(), next.Texture().Height())
	}
	if err := surface.Present(next); err != nil {
		t.Fatal(err)
	}
}

func TestSurfaceOneDeviceOnly(t *testing.T) {
	deviceA := newTestDevice(t)
	deviceB := newTestDevice(t)
	surface := newTestSurface(t, deviceA)

	err := surface.Configure(deviceB, gpu.SurfaceConfig{
		Format: gpu.TextureFormatBGRA8Unorm,
		Usage:  gpu.TextureUsageRenderAttachment,
	})
	if !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("rebinding surface: expected ErrConfiguration, got %v", err)
	}
}

func TestSurfaceRenderToFrame(t *testing.T) {
	device := newTestDevice(t)
	surface := newTestSurface(t, device)

	frame, err := surface.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}

	encoder, err := device.CreateCommandEncoder("present")
	if err != nil {
		t.Fatal(err)
	}
	pass, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{
		ColorView:  frame.View(),
		ClearColor: gpu.Color{G: 1, A: 1},
	})
	if err != nil {
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
	if err := surface.Present(frame); err != nil {
		t.Fatal(err)
	}
}
