//go:build android

package vkg

import "github.com/kaon3d/kaon/gpu"

var platformSurfaceExtension = "VK_KHR_android_surface"

func init() {
	gpu.RegisterDriver(&Driver{backend: gpu.BackendVulkanMobile})
}
