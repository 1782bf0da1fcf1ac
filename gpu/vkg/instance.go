package vkg

import (
	"context"
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

type instance struct {
	raw     vk.Instance
	devices []vk.PhysicalDevice
}

// RequestAdapter selects a physical device honoring the power
// preference: high performance favors a discrete GPU, low power an
// integrated one. Without a matching type the first device wins.
func (in *instance) RequestAdapter(ctx context.Context, opts gpu.AdapterOptions) (gpu.DriverAdapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var wanted vk.PhysicalDeviceType
	switch opts.PowerPreference {
	case gpu.PowerPreferenceHighPerformance:
		wanted = vk.PhysicalDeviceTypeDiscreteGpu
	case gpu.PowerPreferenceLowPower:
		wanted = vk.PhysicalDeviceTypeIntegratedGpu
	default:
		return in.adapterFor(in.devices[0]), nil
	}

	for _, dev := range in.devices {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(dev, &props)
		props.Deref()
		if props.DeviceType == wanted {
			return in.adapterFor(dev), nil
		}
	}
	return in.adapterFor(in.devices[0]), nil
}

func (in *instance) adapterFor(dev vk.PhysicalDevice) *adapter {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(dev, &props)
	props.Deref()
	return &adapter{
		instance: in,
		physical: dev,
		props:    props,
	}
}

// Native returns the raw vk.Instance; SDL's VulkanCreateSurface takes
// it to build the window surface.
func (in *instance) Native() interface{} {
	return in.raw
}

func (in *instance) Destroy() {
	in.devices = nil
	vk.DestroyInstance(in.raw, nil)
}

type adapter struct {
	instance *instance
	physical vk.PhysicalDevice
	props    vk.PhysicalDeviceProperties
}

func (a *adapter) Info() gpu.AdapterInfo {
	return gpu.AdapterInfo{
		Name:          vk.ToString(a.props.DeviceName[:]),
		Vendor:        fmt.Sprintf("%#x", a.props.VendorID),
		Architecture:  deviceTypeName(a.props.DeviceType),
		DriverVersion: versionString(a.props.DriverVersion),
	}
}

func deviceTypeName(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}
