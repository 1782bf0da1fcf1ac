package vkg

import (
	"errors"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

// CreateBuffer allocates host-visible, host-coherent memory and keeps it
// mapped for the buffer's lifetime. The mapping is zeroed on creation;
// fresh device memory carries no such guarantee.
func (d *device) CreateBuffer(size uint64, usage gpu.BufferUsage) (gpu.DriverBuffer, error) {
	bci := vk.BufferCreateInfo{
		SType: vk.StructureTypeBufferCreateInfo,
		Size:  vk.DeviceSize(size),
		Usage: vkBufferUsage(usage),
	}

	var raw vk.Buffer
	if err := vk.Error(vk.CreateBuffer(d.logical, &bci, nil, &raw)); err != nil {
		return nil, errors.New("vk.CreateBuffer(): " + err.Error())
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.logical, raw, &requirements)
	requirements.Deref()

	memoryType, err := d.memoryType(requirements.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		vk.DestroyBuffer(d.logical, raw, nil)
		return nil, err
	}

	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryType,
	}
	var memory vk.DeviceMemory
	if err := vk.Error(vk.AllocateMemory(d.logical, &mai, nil, &memory)); err != nil {
		vk.DestroyBuffer(d.logical, raw, nil)
		return nil, errors.New("vk.AllocateMemory(): " + err.Error())
	}
	if err := vk.Error(vk.BindBufferMemory(d.logical, raw, memory, 0)); err != nil {
		vk.FreeMemory(d.logical, memory, nil)
		vk.DestroyBuffer(d.logical, raw, nil)
		return nil, errors.New("vk.BindBufferMemory(): " + err.Error())
	}

	var mapped unsafe.Pointer
	if err := vk.Error(vk.MapMemory(d.logical, memory, 0, vk.DeviceSize(size), 0, &mapped)); err != nil {
		vk.FreeMemory(d.logical, memory, nil)
		vk.DestroyBuffer(d.logical, raw, nil)
		return nil, errors.New("vk.MapMemory(): " + err.Error())
	}

	b := &buffer{
		device: d,
		raw:    raw,
		memory: memory,
		mapped: unsafe.Slice((*byte)(mapped), size),
	}
	for i := range b.mapped {
		b.mapped[i] = 0
	}
	return b, nil
}

func (d *device) memoryType(typeBits uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.physical, &memoryProperties)
	memoryProperties.Deref()

	for idx := uint32(0); idx < memoryProperties.MemoryTypeCount; idx++ {
		if (typeBits & 1) == 1 {
			memoryProperties.MemoryTypes[idx].Deref()
			if (memoryProperties.MemoryTypes[idx].PropertyFlags & properties) == properties {
				return idx, nil
			}
		}
		typeBits >>= 1
	}
	return 0, errors.New("requested memory type not found")
}

type buffer struct {
	device *device
	raw    vk.Buffer
	memory vk.DeviceMemory
	mapped []byte
}

func (b *buffer) Write(offset uint64, data []byte) error {
	copy(b.mapped[offset:], data)
	return nil
}

func (b *buffer) Read(offset uint64, dst []byte) error {
	copy(dst, b.mapped[offset:])
	return nil
}

func (b *buffer) Destroy() {
	vk.UnmapMemory(b.device.logical, b.memory)
	b.mapped = nil
	vk.FreeMemory(b.device.logical, b.memory, nil)
	vk.DestroyBuffer(b.device.logical, b.raw, nil)
}
