package vkg

import (
	"errors"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

// CreateShaderModule wraps a precompiled SPIR-V binary. Word alignment
// is validated upstream.
func (d *device) CreateShaderModule(label string, code []byte) (gpu.DriverShaderModule, error) {
	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}

	var raw vk.ShaderModule
	if err := vk.Error(vk.CreateShaderModule(d.logical, &smci, nil, &raw)); err != nil {
		return nil, errors.New("vk.CreateShaderModule(" + label + "): " + err.Error())
	}
	return &shaderModule{device: d, raw: raw}, nil
}

type shaderModule struct {
	device *device
	raw    vk.ShaderModule
}

func (m *shaderModule) Destroy() {
	vk.DestroyShaderModule(m.device.logical, m.raw, nil)
}

// sliceUint32 reslices SPIR-V bytes into the words Vulkan consumes.
func sliceUint32(data []byte) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(data))), len(data)/4)
}
