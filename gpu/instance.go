package gpu

import (
	"context"
	"fmt"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// NewInstance creates the layer's entry point. The descriptor's backend
// order is fixed for the instance's lifetime; adapter requests walk it
// front to back.
func NewInstance(desc InstanceDescriptor) (*Instance, error) {
	if len(desc.BackendOrder) == 0 {
		return nil, fmt.Errorf("%w: instance needs at least one backend preference", ErrConfiguration)
	}
	for _, b := range desc.BackendOrder {
		if b <= BackendInvalid || b > BackendSoftware {
			return nil, fmt.Errorf("%w: unknown backend in preference order: %d", ErrConfiguration, b)
		}
	}
	order := make([]Backend, len(desc.BackendOrder))
	copy(order, desc.BackendOrder)
	return &Instance{
		label: desc.Label,
		order: order,
	}, nil
}

// Instance is the root object of the layer. It holds the ordered backend
// preference and acts as the factory for Adapters. Instances hold no
// native resources themselves; backend contexts are opened lazily per
// adapter request.
type Instance struct {
	label string
	order []Backend

	disposed atomic.Bool

	// moduleIDs feeds shader-module identifiers for every device created
	// under this instance.
	moduleIDs atomic.Uint64
}

// Label returns the instance's label.
func (in *Instance) Label() string { return in.label }

// BackendOrder returns a copy of the instance's backend preference.
func (in *Instance) BackendOrder() []Backend {
	order := make([]Backend, len(in.order))
	copy(order, in.order)
	return order
}

// RequestAdapter picks the first backend in the preference order that is
// registered and can produce an adapter honoring opts. The call may block
// on out-of-process driver negotiation; concurrent requests on the same
// instance must be serialized by the caller.
func (in *Instance) RequestAdapter(ctx context.Context, opts AdapterOptions) (*Adapter, error) {
	if in.disposed.Load() {
		return nil, fmt.Errorf("%w: adapter requested from disposed instance", ErrDisposed)
	}

	var lastErr error
	for _, backend := range in.order {
		drv, ok := LookupDriver(backend)
		if !ok {
			log.WithField("backend", backend.String()).Debug("gpu: backend not linked in, skipping")
			continue
		}
		di, err := drv.CreateInstance(in.label)
		if err != nil {
			lastErr = err
			log.WithField("backend", backend.String()).WithError(err).Warn("gpu: backend instance failed")
			continue
		}
		da, err := di.RequestAdapter(ctx, opts)
		if err != nil {
			di.Destroy()
			lastErr = err
			log.WithField("backend", backend.String()).WithError(err).Warn("gpu: adapter request failed")
			continue
		}
		return &Adapter{
			instance: in,
			backend:  backend,
			driver:   drv,
			native:   di,
			handle:   da,
			options:  opts,
			info:     da.Info(),
		}, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: all preferred backends failed: %v", ErrNoBackend, lastErr)
	}
	return nil, fmt.Errorf("%w: none of %v is linked into this binary", ErrNoBackend, in.order)
}

// Dispose marks the instance unusable. Further adapter requests fail.
// Devices and resources already created remain valid and are torn down
// through their own destroy calls.
func (in *Instance) Dispose() {
	in.disposed.Store(true)
}

// Disposed reports whether Dispose has been called.
func (in *Instance) Disposed() bool {
	return in.disposed.Load()
}

func (in *Instance) nextModuleID() uint64 {
	return in.moduleIDs.Add(1)
}
