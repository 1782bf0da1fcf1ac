package gpu_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kaon3d/kaon/gpu"
	_ "github.com/kaon3d/kaon/gpu/soft"
)

// newTestDevice opens a device on the software backend with a shader
// directory containing trivial triangle binaries.
func newTestDevice(t *testing.T) *gpu.Device {
	t.Helper()

	instance, err := gpu.NewInstance(gpu.InstanceDescriptor{
		Label:        "test",
		BackendOrder: []gpu.Backend{gpu.BackendSoftware},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(instance.Dispose)

	adapter, err := instance.RequestAdapter(context.Background(), gpu.AdapterOptions{})
	if err != nil {
		t.Fatal(err)
	}

	device, err := adapter.RequestDevice(context.Background(), gpu.DeviceDescriptor{
		Label:        "test-device",
		ShaderSource: newShaderDir(t),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { device.Destroy() })
	return device
}

// newShaderDir writes word-aligned stand-in shader binaries for the
// labels the tests use.
func newShaderDir(t *testing.T) gpu.DirSource {
	t.Helper()

	dir := t.TempDir()
	code := []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 0, 0}
	for _, name := range []string{"triangle.vert.main.spv", "triangle.frag.main.spv"} {
		if err := os.WriteFile(filepath.Join(dir, name), code, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// A binary that is not a multiple of the word size.
	if err := os.WriteFile(filepath.Join(dir, "broken.main.spv"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	return gpu.DirSource(dir)
}

func TestNewInstanceRejectsEmptyOrder(t *testing.T) {
	if _, err := gpu.NewInstance(gpu.InstanceDescriptor{Label: "empty"}); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewInstanceRejectsUnknownBackend(t *testing.T) {
	_, err := gpu.NewInstance(gpu.InstanceDescriptor{
		Label:        "bogus",
		BackendOrder: []gpu.Backend{gpu.Backend(42)},
	})
	if !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestRequestAdapterSkipsUnregisteredBackends(t *testing.T) {
	instance, err := gpu.NewInstance(gpu.InstanceDescriptor{
		Label:        "skip",
		BackendOrder: []gpu.Backend{gpu.BackendVulkanMobile, gpu.BackendSoftware},
	})
	if err != nil {
		t.Fatal(err)
	}

	adapter, err := instance.RequestAdapter(context.Background(), gpu.AdapterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if adapter.Backend() != gpu.BackendSoftware {
		t.Errorf("backend = %s, want software", adapter.Backend())
	}
	if adapter.Info().Name == "" {
		t.Error("adapter info has a blank name")
	}
}

func TestRequestAdapterNoBackendLinked(t *testing.T) {
	instance, err := gpu.NewInstance(gpu.InstanceDescriptor{
		Label:        "none",
		BackendOrder: []gpu.Backend{gpu.BackendVulkanMobile},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := instance.RequestAdapter(context.Background(), gpu.AdapterOptions{}); !errors.Is(err, gpu.ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
}

func TestDisposedInstanceRefusesAdapters(t *testing.T) {
	instance, err := gpu.NewInstance(gpu.InstanceDescriptor{
		Label:        "disposed",
		BackendOrder: []gpu.Backend{gpu.BackendSoftware},
	})
	if err != nil {
		t.Fatal(err)
	}
	instance.Dispose()
	if !instance.Disposed() {
		t.Error("instance does not report disposed")
	}

	if _, err := instance.RequestAdapter(context.Background(), gpu.AdapterOptions{}); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", err)
	}
}

func TestAdapterReleaseClosesBackend(t *testing.T) {
	instance, err := gpu.NewInstance(gpu.InstanceDescriptor{
		Label:        "release",
		BackendOrder: []gpu.Backend{gpu.BackendSoftware},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(instance.Dispose)

	adapter, err := instance.RequestAdapter(context.Background(), gpu.AdapterOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if adapter.NativeInstance() != nil {
		t.Error("software adapter reports a native instance handle")
	}

	adapter.Release()
	adapter.Release()

	_, err = adapter.RequestDevice(context.Background(), gpu.DeviceDescriptor{Label: "late"})
	if !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("device from released adapter: expected ErrDisposed, got %v", err)
	}
}

func TestQueueInheritsDeviceLabel(t *testing.T) {
	device := newTestDevice(t)

	if device.Queue().Label() != device.Label() {
		t.Errorf("queue label = %q, device label = %q", device.Queue().Label(), device.Label())
	}
	if device.Queue().Device() != device {
		t.Error("queue does not point back at its device")
	}
}

func TestDeviceUseAfterDestroy(t *testing.T) {
	device := newTestDevice(t)
	if err := device.Destroy(); err != nil {
		t.Fatal(err)
	}

	if _, err := device.CreateBuffer(gpu.BufferDescriptor{Label: "late", Size: 16, Usage: gpu.BufferUsageVertex}); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("expected ErrDisposed, got %v", err)
	}
	if err := device.Destroy(); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("second destroy: expected ErrDisposed, got %v", err)
	}
}
