package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Buffer is a GPU-resident allocation created zero-initialized by a
// Device. Writes are bounded by the buffer's size; after Destroy every
// access fails with ErrDisposed.
type Buffer struct {
	device    *Device
	handle    DriverBuffer
	label     string
	size      uint64
	usage     BufferUsage
	destroyed bool
}

// Label returns the buffer's label.
func (b *Buffer) Label() string { return b.label }

// Size returns the buffer's size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() BufferUsage { return b.usage }

func (b *Buffer) checkRange(offset int64, length int) error {
	if b.destroyed {
		return fmt.Errorf("%w: buffer %q accessed after destroy", ErrDisposed, b.label)
	}
	if offset < 0 || uint64(offset)+uint64(length) > b.size {
		return fmt.Errorf("%w: range [%d,%d) exceeds buffer %q of %d bytes",
			ErrResourceLimit, offset, offset+int64(length), b.label, b.size)
	}
	return nil
}

// Write copies data into the buffer at offset. It succeeds iff offset is
// non-negative and offset+len(data) fits within the buffer's size.
func (b *Buffer) Write(data []byte, offset int64) error {
	if err := b.checkRange(offset, len(data)); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := b.handle.Write(uint64(offset), data); err != nil {
		err = fmt.Errorf("%w: writing buffer %q: %v", ErrNative, b.label, err)
		b.device.poison(err)
		return err
	}
	return nil
}

// WriteFloats packs values in IEEE-754 little-endian order, byte for
// byte, and writes them at offset. Every backend preserves this layout
// exactly.
func (b *Buffer) WriteFloats(values []float32, offset int64) error {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return b.Write(buf, offset)
}

// Read copies len(dst) bytes from the buffer at offset into dst. Bounds
// rules match Write.
func (b *Buffer) Read(dst []byte, offset int64) error {
	if err := b.checkRange(offset, len(dst)); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	if err := b.handle.Read(uint64(offset), dst); err != nil {
		err = fmt.Errorf("%w: reading buffer %q: %v", ErrNative, b.label, err)
		b.device.poison(err)
		return err
	}
	return nil
}

// Destroy releases the native allocation. Further writes and reads fail
// with ErrDisposed. Destroying twice fails the same way.
func (b *Buffer) Destroy() error {
	if b.destroyed {
		return fmt.Errorf("%w: buffer %q destroyed twice", ErrDisposed, b.label)
	}
	b.destroyed = true
	b.handle.Destroy()
	return nil
}
