// Package gpu unifies heterogeneous native graphics APIs behind one
// instance→adapter→device→queue model. Resources (buffers, textures,
// samplers, shader modules, pipelines) are created from a Device, commands
// are recorded through a CommandEncoder and submitted through the device's
// Queue. Presentable output goes through a Surface.
//
// Concrete backends live in subpackages (vkg, webgpu, soft) and register
// themselves with this package's driver registry. Importers pick the
// backends they want available with blank imports.
package gpu

import "fmt"

// Backend identifies an underlying native graphics API. The numeric values
// are part of the wire contract and must not be reordered.
type Backend int8

// Recognized backends.
const (
	BackendInvalid Backend = iota
	BackendWebGPU
	BackendVulkan
	BackendVulkanMobile
	BackendSoftware
)

// String implements fmt.Stringer.
func (b Backend) String() string {
	switch b {
	case BackendWebGPU:
		return "webgpu"
	case BackendVulkan:
		return "vulkan"
	case BackendVulkanMobile:
		return "vulkan-mobile"
	case BackendSoftware:
		return "software"
	default:
		return fmt.Sprintf("backend(%d)", int8(b))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ParseBackend resolves a backend name as used in configuration
// and environment variables.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "webgpu":
		return BackendWebGPU, nil
	case "vulkan":
		return BackendVulkan, nil
	case "vulkan-mobile":
		return BackendVulkanMobile, nil
	case "software":
		return BackendSoftware, nil
	}
	return BackendInvalid, fmt.Errorf("%w: unknown backend %q", ErrConfiguration, s)
}

// PowerPreference hints which physical adapter a backend should pick.
type PowerPreference int8

const (
	PowerPreferenceNone PowerPreference = iota
	PowerPreferenceLowPower
	PowerPreferenceHighPerformance
)

// String implements fmt.Stringer.
func (p PowerPreference) String() string {
	switch p {
	case PowerPreferenceLowPower:
		return "low-power"
	case PowerPreferenceHighPerformance:
		return "high-performance"
	default:
		return "none"
	}
}

// Feature names a capability a backend may provide. The set is closed;
// drivers translate their stringly-typed extension and feature names into
// these values during probing.
type Feature int8

const (
	FeatureCoreRendering Feature = iota
	FeaturePresentation
	FeatureDepthTextures
	FeatureFloat16Textures
	FeatureAnisotropicFiltering
	FeatureComputeShaders

	featureCount
)

// Features lists every recognized feature, in declaration order.
func Features() []Feature {
	fs := make([]Feature, featureCount)
	for i := range fs {
		fs[i] = Feature(i)
	}
	return fs
}

// String implements fmt.Stringer.
func (f Feature) String() string {
	switch f {
	case FeatureCoreRendering:
		return "core-rendering"
	case FeaturePresentation:
		return "presentation"
	case FeatureDepthTextures:
		return "depth-textures"
	case FeatureFloat16Textures:
		return "float16-textures"
	case FeatureAnisotropicFiltering:
		return "anisotropic-filtering"
	case FeatureComputeShaders:
		return "compute-shaders"
	default:
		return fmt.Sprintf("feature(%d)", int8(f))
	}
}

// MarshalText implements encoding.TextMarshaler, so feature-keyed maps
// serialize with readable keys.
func (f Feature) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// FeatureStatus is the tri-state support level of a Feature. Emulated
// denotes a functionally correct software or reduced-performance fallback
// and is distinct from Missing.
type FeatureStatus int8

const (
	FeatureMissing FeatureStatus = iota
	FeatureEmulated
	FeatureSupported
)

// String implements fmt.Stringer.
func (s FeatureStatus) String() string {
	switch s {
	case FeatureSupported:
		return "SUPPORTED"
	case FeatureEmulated:
		return "EMULATED"
	default:
		return "MISSING"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s FeatureStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
