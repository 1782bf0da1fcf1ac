package gpu

import "fmt"

// Queue serializes command buffer submission to the GPU. Every Device
// owns exactly one Queue; submission establishes a strict happens-before
// order among the buffers of one call and between successive calls.
type Queue struct {
	device *Device
	label  string
}

// Label returns the queue's label, inherited from its device descriptor.
func (q *Queue) Label() string { return q.label }

// Device returns the owning device.
func (q *Queue) Device() *Device { return q.device }

// Submit hands sealed command buffers to the hardware and blocks until
// execution completes, after which their native resources are released.
// An empty call is a safe no-op. Every buffer must come from an encoder
// of this queue's device and may be submitted exactly once. A native
// submission failure is fatal for the owning device.
func (q *Queue) Submit(buffers ...*CommandBuffer) error {
	if len(buffers) == 0 {
		return nil
	}
	if err := q.device.usable(); err != nil {
		return err
	}
	handles := make([]DriverCommandBuffer, len(buffers))
	for i, cb := range buffers {
		if cb == nil {
			return fmt.Errorf("%w: nil command buffer at index %d", ErrConfiguration, i)
		}
		if cb.device != q.device {
			return fmt.Errorf("%w: command buffer %q belongs to device %q, queue is on %q",
				ErrConfiguration, cb.label, cb.device.label, q.device.label)
		}
		if cb.consumed {
			return fmt.Errorf("%w: command buffer %q already submitted", ErrInvalidState, cb.label)
		}
		handles[i] = cb.handle
	}
	// Mark consumption before the blocking wait so a failed submission
	// cannot be retried with the same buffers.
	for _, cb := range buffers {
		cb.consumed = true
	}
	if err := q.device.handle.Submit(handles); err != nil {
		err = fmt.Errorf("%w: Submit(): %v", ErrNative, err)
		q.device.poison(err)
		return err
	}
	return nil
}
