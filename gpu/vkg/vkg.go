// Package vkg is the Vulkan backend, built on vulkan-go bindings. One
// registration exists per build: the desktop variant registers under the
// Vulkan tag, the Android variant under the mobile tag. Import it for
// side effects:
//
//	import _ "github.com/kaon3d/kaon/gpu/vkg"
package vkg

import (
	"context"
	"errors"
	"fmt"
	"sync"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

var appInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   "Kaon\x00",
	PEngineName:        "Kaon\x00",
}

// loadOnce guards loader initialization; vk.Init must run exactly once
// per process.
var (
	loadOnce sync.Once
	loadErr  error
)

func loadVulkan() error {
	loadOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			loadErr = errors.New("vk.InstanceProcAddr(): " + err.Error())
			return
		}
		if err := vk.Init(); err != nil {
			loadErr = errors.New("vk.Init(): " + err.Error())
		}
	})
	return loadErr
}

// Driver is the Vulkan backend's registration entry.
type Driver struct {
	backend gpu.Backend
}

// Backend returns the tag this build registered under.
func (d *Driver) Backend() gpu.Backend { return d.backend }

// Probe loads the Vulkan library, enumerates physical devices and reads
// their properties. Nothing created here outlives the call.
func (d *Driver) Probe(ctx context.Context) (*gpu.Probe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := loadVulkan(); err != nil {
		return nil, err
	}

	raw, err := createRawInstance("probe")
	if err != nil {
		return nil, err
	}
	defer vk.DestroyInstance(raw, nil)

	devices, err := enumerateDevices(raw)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, errors.New("vk.EnumeratePhysicalDevices(): no devices")
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(devices[0], &props)
	props.Deref()

	probe := &gpu.Probe{
		DeviceID:      fmt.Sprintf("%#x", props.DeviceID),
		DeviceName:    vk.ToString(props.DeviceName[:]),
		Vendor:        fmt.Sprintf("%#x", props.VendorID),
		DriverVersion: versionString(props.DriverVersion),
		Features: map[gpu.Feature]gpu.FeatureStatus{
			gpu.FeatureCoreRendering: gpu.FeatureSupported,
			gpu.FeatureDepthTextures: gpu.FeatureSupported,
		},
		Extensions: deviceExtensions(devices[0]),
	}

	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(devices[0], &features)
	features.Deref()
	if features.SamplerAnisotropy.B() {
		probe.Extensions = append(probe.Extensions, "samplerAnisotropy")
	}
	return probe, nil
}

// CreateInstance opens the Vulkan instance used for adapter requests.
func (d *Driver) CreateInstance(label string) (gpu.DriverInstance, error) {
	if err := loadVulkan(); err != nil {
		return nil, err
	}
	raw, err := createRawInstance(label)
	if err != nil {
		return nil, err
	}
	devices, err := enumerateDevices(raw)
	if err != nil {
		vk.DestroyInstance(raw, nil)
		return nil, err
	}
	if len(devices) == 0 {
		vk.DestroyInstance(raw, nil)
		return nil, errors.New("vk.EnumeratePhysicalDevices(): no devices")
	}
	return &instance{raw: raw, devices: devices}, nil
}

// ShaderWordSize returns the SPIR-V word size.
func (d *Driver) ShaderWordSize() int { return 4 }

// ShaderSuffix returns the SPIR-V binary suffix.
func (d *Driver) ShaderSuffix() string { return ".spv" }

func createRawInstance(label string) (vk.Instance, error) {
	extensions := []string{
		"VK_KHR_surface\x00",
		platformSurfaceExtension + "\x00",
	}
	info := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}
	var raw vk.Instance
	if err := vk.Error(vk.CreateInstance(&info, nil, &raw)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(raw)
	return raw, nil
}

func enumerateDevices(raw vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(raw, &count, nil)); err != nil {
		return nil, errors.New("vk.EnumeratePhysicalDevices(): " + err.Error())
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(raw, &count, devices)); err != nil {
		return nil, errors.New("vk.EnumeratePhysicalDevices(): " + err.Error())
	}
	return devices, nil
}

func deviceExtensions(device vk.PhysicalDevice) []string {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(device, "", &count, nil)); err != nil {
		return nil
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(device, "", &count, props)); err != nil {
		return nil
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names
}

// versionString decodes a packed Vulkan version number.
func versionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, v>>12&0x3FF, v&0xFFF)
}
