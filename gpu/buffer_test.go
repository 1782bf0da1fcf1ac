package gpu_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kaon3d/kaon/gpu"
)

func newTestBuffer(t *testing.T, device *gpu.Device, size uint64, usage gpu.BufferUsage) *gpu.Buffer {
	t.Helper()
	buffer, err := device.CreateBuffer(gpu.BufferDescriptor{Label: "test", Size: size, Usage: usage})
	if err != nil {
		t.Fatal(err)
	}
	return buffer
}

func TestBufferZeroInitialized(t *testing.T) {
	device := newTestDevice(t)
	buffer := newTestBuffer(t, device, 64, gpu.BufferUsageUniform)

	got := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	if err := buffer.Read(got, 60); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, make([]byte, 4)) {
		t.Errorf("fresh buffer reads %v, want zeroes", got)
	}
}

func TestBufferWriteBounds(t *testing.T) {
	device := newTestDevice(t)
	buffer := newTestBuffer(t, device, 64, gpu.BufferUsageVertex)

	data := make([]byte, 16)
	if err := buffer.Write(data, 48); err != nil {
		t.Errorf("write of 16 bytes at 48 into 64: %v", err)
	}
	if err := buffer.Write(data, 56); !errors.Is(err, gpu.ErrResourceLimit) {
		t.Errorf("write of 16 bytes at 56 into 64: expected ErrResourceLimit, got %v", err)
	}
	if err := buffer.Write(data, -1); !errors.Is(err, gpu.ErrResourceLimit) {
		t.Errorf("negative offset: expected ErrResourceLimit, got %v", err)
	}
	if err := buffer.Write(nil, 64); err != nil {
		t.Errorf("empty write at the end: %v", err)
	}
}

func TestBufferWriteReadRoundTrip(t *testing.T) {
	device := newTestDevice(t)
	buffer := newTestBuffer(t, device, 32, gpu.BufferUsageCopySrc|gpu.BufferUsageCopyDst)

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := buffer.Write(want, 8); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 8)
	if err := buffer.Read(got, 8); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("read back %v, want %v", got, want)
	}
}

func TestBufferWriteFloatsLittleEndian(t *testing.T) {
	device := newTestDevice(t)
	buffer := newTestBuffer(t, device, 16, gpu.BufferUsageUniform)

	if err := buffer.WriteFloats([]float32{1.0, -2.0, 0.5}, 4); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 12)
	if err := buffer.Read(got, 4); err != nil {
		t.Fatal(err)
	}
	// 0x3F800000, 0xC0000000 and 0x3F000000, each laid out little-endian.
	want := []byte{
		0x00, 0x00, 0x80, 0x3F,
		0x00, 0x00, 0x00, 0xC0,
		0x00, 0x00, 0x00, 0x3F,
	}
	for i := 0; i < len(want); i += 4 {
		if !bytes.Equal(got[i:i+4], want[i:i+4]) {
			t.Errorf("float %d bytes = %v, want %v", i/4, got[i:i+4], want[i:i+4])
		}
	}
}

func TestBufferUseAfterDestroy(t *testing.T) {
	device := newTestDevice(t)
	buffer := newTestBuffer(t, device, 16, gpu.BufferUsageVertex)

	if err := buffer.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := buffer.Write([]byte{1}, 0); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("write after destroy: expected ErrDisposed, got %v", err)
	}
	if err := buffer.Read(make([]byte, 1), 0); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("read after destroy: expected ErrDisposed, got %v", err)
	}
	if err := buffer.Destroy(); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("double destroy: expected ErrDisposed, got %v", err)
	}
}

func TestCreateBufferValidation(t *testing.T) {
	device := newTestDevice(t)

	if _, err := device.CreateBuffer(gpu.BufferDescriptor{Label: "zero", Usage: gpu.BufferUsageVertex}); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("zero size: expected ErrConfiguration, got %v", err)
	}
	if _, err := device.CreateBuffer(gpu.BufferDescriptor{Label: "no-usage", Size: 16}); !errors.Is(err, gpu.ErrConfiguration) {
		t.Errorf("no usage: expected ErrConfiguration, got %v", err)
	}
}
