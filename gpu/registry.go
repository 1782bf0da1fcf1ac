package gpu

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	driversMu sync.RWMutex
	drivers   = make(map[Backend]Driver)
)

// RegisterDriver makes a backend available under its tag. It is intended
// to be called from a driver package's init function; registering two
// drivers for the same backend panics, as does a nil driver.
func RegisterDriver(d Driver) {
	if d == nil {
		panic("gpu: RegisterDriver called with nil driver")
	}
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, dup := drivers[d.Backend()]; dup {
		panic(fmt.Sprintf("gpu: RegisterDriver called twice for backend %s", d.Backend()))
	}
	drivers[d.Backend()] = d
	log.WithField("backend", d.Backend().String()).Debug("gpu: driver registered")
}

// LookupDriver returns the driver registered for a backend, if any.
func LookupDriver(b Backend) (Driver, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[b]
	return d, ok
}

// RegisteredBackends returns the tags of all registered drivers in
// ascending order.
func RegisteredBackends() []Backend {
	driversMu.RLock()
	defer driversMu.RUnlock()
	bs := make([]Backend, 0, len(drivers))
	for b := range drivers {
		bs = append(bs, b)
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	return bs
}
