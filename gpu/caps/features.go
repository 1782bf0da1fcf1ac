package caps

import "github.com/kaon3d/kaon/gpu"

// requiredFeatures maps each backend to the features that must be fully
// supported before negotiation will prefer it. An emulated feature keeps
// the backend usable but disqualifies it from automatic preference.
var requiredFeatures = map[gpu.Backend][]gpu.Feature{
	gpu.BackendWebGPU: {
		gpu.FeatureCoreRendering,
		gpu.FeaturePresentation,
		gpu.FeatureDepthTextures,
	},
	gpu.BackendVulkan: {
		gpu.FeatureCoreRendering,
		gpu.FeaturePresentation,
		gpu.FeatureDepthTextures,
	},
	gpu.BackendVulkanMobile: {
		gpu.FeatureCoreRendering,
		gpu.FeaturePresentation,
	},
	gpu.BackendSoftware: {
		gpu.FeatureCoreRendering,
	},
}

// grant is one entry of a string-matching table: seeing the raw native
// capability name confers the feature at the given status.
type grant struct {
	feature gpu.Feature
	status  gpu.FeatureStatus
}

// extensionGrants translates raw platform capability strings into typed
// features, per backend. Probing is stringly-typed at the native edge;
// everything above this table works with the closed Feature enum.
var extensionGrants = map[gpu.Backend]map[string]grant{
	gpu.BackendVulkan: {
		"VK_KHR_swapchain":              {gpu.FeaturePresentation, gpu.FeatureSupported},
		"VK_KHR_shader_float16_int8":    {gpu.FeatureFloat16Textures, gpu.FeatureSupported},
		"samplerAnisotropy":             {gpu.FeatureAnisotropicFiltering, gpu.FeatureSupported},
		"VK_KHR_portability_subset":     {gpu.FeatureComputeShaders, gpu.FeatureEmulated},
		"VK_EXT_shader_subgroup_ballot": {gpu.FeatureComputeShaders, gpu.FeatureSupported},
	},
	gpu.BackendVulkanMobile: {
		"VK_KHR_swapchain":          {gpu.FeaturePresentation, gpu.FeatureSupported},
		"samplerAnisotropy":         {gpu.FeatureAnisotropicFiltering, gpu.FeatureSupported},
		"VK_KHR_portability_subset": {gpu.FeatureComputeShaders, gpu.FeatureEmulated},
	},
	gpu.BackendWebGPU: {
		"depth-clip-control":     {gpu.FeatureDepthTextures, gpu.FeatureSupported},
		"shader-f16":             {gpu.FeatureFloat16Textures, gpu.FeatureSupported},
		"float32-filterable":     {gpu.FeatureAnisotropicFiltering, gpu.FeatureSupported},
		"timestamp-query":        {gpu.FeatureComputeShaders, gpu.FeatureSupported},
		"texture-compression-bc": {gpu.FeatureCoreRendering, gpu.FeatureSupported},
	},
}

// mergeFeatures combines a probe's typed feature statuses with grants
// derived from its raw extension strings. Typed statuses win; a grant
// never downgrades an existing status.
func mergeFeatures(backend gpu.Backend, probe *gpu.Probe) map[gpu.Feature]gpu.FeatureStatus {
	flags := make(map[gpu.Feature]gpu.FeatureStatus, len(gpu.Features()))
	for _, f := range gpu.Features() {
		flags[f] = gpu.FeatureMissing
	}
	table := extensionGrants[backend]
	for _, name := range probe.Extensions {
		g, ok := table[name]
		if !ok {
			continue
		}
		if g.status > flags[g.feature] {
			flags[g.feature] = g.status
		}
	}
	for f, s := range probe.Features {
		if s > flags[f] {
			flags[f] = s
		}
	}
	return flags
}

// disqualifier returns the first required feature that keeps the backend
// from being preferred, or featureOK when every requirement is met.
func disqualifier(backend gpu.Backend, flags map[gpu.Feature]gpu.FeatureStatus) (gpu.Feature, gpu.FeatureStatus, bool) {
	for _, f := range requiredFeatures[backend] {
		if flags[f] != gpu.FeatureSupported {
			return f, flags[f], false
		}
	}
	return 0, 0, true
}
