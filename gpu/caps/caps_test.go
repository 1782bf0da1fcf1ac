package caps

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kaon3d/kaon/gpu"
	_ "github.com/kaon3d/kaon/gpu/soft"
)

func TestDetectSoftwareIsNeverPreferred(t *testing.T) {
	n := NewNegotiator(gpu.BackendSoftware)
	report, err := n.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.PreferredBackend != nil {
		t.Errorf("software backend preferred: %s", *report.PreferredBackend)
	}
	if len(report.Limitations) == 0 {
		t.Fatal("nil preferred backend without limitations")
	}
	if !strings.Contains(report.Limitations[0], "EMULATED") {
		t.Errorf("limitation %q does not name the emulated feature", report.Limitations[0])
	}

	// The probe still fills identity and flags from the best backend.
	if report.DeviceID == "" {
		t.Error("device id is blank despite a successful probe")
	}
	if report.FeatureFlags[gpu.FeatureCoreRendering.String()] != gpu.FeatureEmulated.String() {
		t.Errorf("core-rendering = %s, want EMULATED", report.FeatureFlags[gpu.FeatureCoreRendering.String()])
	}
}

func TestDetectSkipsUnregisteredBackends(t *testing.T) {
	n := NewNegotiator(gpu.BackendVulkanMobile)
	report, err := n.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.PreferredBackend != nil {
		t.Error("unregistered backend got preferred")
	}
	if len(report.Limitations) != 1 || !strings.Contains(report.Limitations[0], "no driver registered") {
		t.Errorf("limitations = %v", report.Limitations)
	}
	for f, s := range report.FeatureFlags {
		if s != gpu.FeatureMissing.String() {
			t.Errorf("feature %s = %s without any probe", f, s)
		}
	}
}

func TestDetectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewNegotiator(gpu.BackendSoftware).Detect(ctx); err == nil {
		t.Error("cancelled context did not fail detection")
	}
}

func TestDetectReportSerializes(t *testing.T) {
	n := NewNegotiator(gpu.BackendSoftware)
	n.clock = func() time.Time {
		return time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	}

	report, err := n.Detect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Timestamp != "2026-03-14T09:26:53Z" {
		t.Errorf("timestamp = %q", report.Timestamp)
	}

	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"preferredBackend":null`) {
		t.Errorf("nil preferred backend does not serialize as null: %s", raw)
	}
	if !strings.Contains(string(raw), `"core-rendering":"EMULATED"`) {
		t.Errorf("feature flags missing from report: %s", raw)
	}
}
