package gpu

import "errors"

// Package error kinds. Failures are reported by wrapping one of these
// sentinels, so callers can classify with errors.Is.
var (
	// ErrConfiguration marks an invalid descriptor or a missing
	// mandatory field.
	ErrConfiguration = errors.New("gpu: invalid configuration")

	// ErrResourceLimit marks an out-of-range resource access, such as a
	// buffer write past the end of its allocation.
	ErrResourceLimit = errors.New("gpu: resource limit exceeded")

	// ErrNative wraps an underlying native API failure. A Device that has
	// surfaced one is presumed corrupted and must be discarded; it is
	// never returned to a healthy state.
	ErrNative = errors.New("gpu: native api failure")

	// ErrDisposed marks an operation on a disposed Instance or a
	// destroyed resource.
	ErrDisposed = errors.New("gpu: object disposed")

	// ErrInvalidState marks a call that is not legal in the object's
	// current lifecycle state, such as recording into a finished
	// command encoder.
	ErrInvalidState = errors.New("gpu: invalid state")

	// ErrNoBackend is returned when an adapter request exhausts the
	// instance's backend preference list.
	ErrNoBackend = errors.New("gpu: no usable backend")

	// ErrShaderNotFound is returned when no precompiled binary exists
	// for a shader module label.
	ErrShaderNotFound = errors.New("gpu: shader binary not found")

	// ErrMalformedShader is returned when a shader binary's byte length
	// is not a multiple of the backend's word size.
	ErrMalformedShader = errors.New("gpu: malformed shader binary")
)
