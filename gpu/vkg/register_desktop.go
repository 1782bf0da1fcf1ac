//go:build !android

package vkg

import (
	"runtime"

	"github.com/kaon3d/kaon/gpu"
)

// platformSurfaceExtension names the windowing-system surface extension
// for the host OS.
var platformSurfaceExtension = func() string {
	switch runtime.GOOS {
	case "windows":
		return "VK_KHR_win32_surface"
	case "darwin":
		return "VK_MVK_macos_surface"
	default:
		return "VK_KHR_xlib_surface"
	}
}()

func init() {
	gpu.RegisterDriver(&Driver{backend: gpu.BackendVulkan})
}
