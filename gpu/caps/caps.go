// Package caps probes the platform for backend availability and selects
// a backend before any persistent GPU resource is allocated. Probing is
// non-destructive: a Negotiator only reports what would work, and the
// result is always a report, never an error, when nothing usable exists.
package caps

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kaon3d/kaon/gpu"
)

// Report describes what the platform can do. It is the hand-off format
// to upstream backend selection and serializes directly to JSON.
type Report struct {
	DeviceID      string `json:"deviceId"`
	DriverVersion string `json:"driverVersion"`
	OSBuild       string `json:"osBuild"`

	// FeatureFlags holds the tri-state status of every named feature,
	// taken from the best backend probed.
	FeatureFlags map[string]string `json:"featureFlags"`

	// PreferredBackend is nil when no probed backend had every required
	// feature fully supported. Emulated support is not enough.
	PreferredBackend *gpu.Backend `json:"preferredBackend"`

	// Limitations lists human-readable reasons for every backend that
	// was skipped or disqualified, in probe order. Non-empty whenever
	// PreferredBackend is nil.
	Limitations []string `json:"limitations"`

	Timestamp string `json:"timestamp"`
}

// Negotiator probes registered drivers in preference order and owns the
// backend choice for every surface it initializes.
type Negotiator struct {
	order []gpu.Backend

	// clock is swapped in tests.
	clock func() time.Time

	mu       sync.Mutex
	surfaces map[uintptr]gpu.Backend
}

// NewNegotiator builds a Negotiator probing the given backends in order.
// An empty order falls back to the default preference.
func NewNegotiator(order ...gpu.Backend) *Negotiator {
	if len(order) == 0 {
		order = gpu.DefaultBackendOrder()
	}
	return &Negotiator{
		order:    order,
		clock:    time.Now,
		surfaces: make(map[uintptr]gpu.Backend),
	}
}

// Detect probes every backend in the negotiator's preference order and
// returns a capability report. A platform without a single usable
// backend is not an error: the report comes back with a nil
// PreferredBackend and the reasons listed in Limitations. The returned
// error is reserved for environment-level faults, such as a cancelled
// context.
func (n *Negotiator) Detect(ctx context.Context) (*Report, error) {
	report := &Report{
		OSBuild:      runtime.GOOS + "/" + runtime.GOARCH,
		FeatureFlags: make(map[string]string, len(gpu.Features())),
		Timestamp:    n.clock().UTC().Format(time.RFC3339),
	}
	for _, f := range gpu.Features() {
		report.FeatureFlags[f.String()] = gpu.FeatureMissing.String()
	}

	for _, backend := range n.order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("caps: probe interrupted: %w", err)
		}

		driver, ok := gpu.LookupDriver(backend)
		if !ok {
			report.Limitations = append(report.Limitations,
				fmt.Sprintf("%s: no driver registered in this build", backend))
			continue
		}

		probe, err := driver.Probe(ctx)
		if err != nil {
			log.WithField("backend", backend).WithError(err).Debug("caps: probe failed")
			report.Limitations = append(report.Limitations,
				fmt.Sprintf("%s: %s", backend, err.Error()))
			continue
		}

		flags := mergeFeatures(backend, probe)
		if report.DeviceID == "" {
			report.DeviceID = probe.DeviceID
			report.DriverVersion = probe.DriverVersion
			for f, s := range flags {
				report.FeatureFlags[f.String()] = s.String()
			}
		}

		if feature, status, ok := disqualifier(backend, flags); !ok {
			report.Limitations = append(report.Limitations,
				fmt.Sprintf("%s: required feature %s is %s", backend, feature, status))
			continue
		}

		b := backend
		report.PreferredBackend = &b
		report.DeviceID = probe.DeviceID
		report.DriverVersion = probe.DriverVersion
		for f, s := range flags {
			report.FeatureFlags[f.String()] = s.String()
		}
		break
	}

	if report.PreferredBackend == nil && len(report.Limitations) == 0 {
		report.Limitations = append(report.Limitations, "no backends were requested")
	}
	return report, nil
}
