package vkg

import (
	"context"
	"errors"
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

// RequestDevice opens the logical device, its graphics queue and the
// command pool every encoder allocates from. All or nothing: any failure
// tears down what was opened and reports the original error.
func (a *adapter) RequestDevice(ctx context.Context, label string) (gpu.DriverDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queueIndex, err := graphicsQueueFamily(a.physical)
	if err != nil {
		return nil, err
	}

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: queueIndex,
		QueueCount:       1,
		PQueuePriorities: []float32{1},
	}}
	requiredExtensions := []string{
		vk.KhrSwapchainExtensionName + "\x00",
	}

	var logical vk.Device
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(requiredExtensions)),
		PpEnabledExtensionNames: requiredExtensions,
	}
	if err := vk.Error(vk.CreateDevice(a.physical, &dci, nil, &logical)); err != nil {
		return nil, errors.New("vk.CreateDevice(): " + err.Error())
	}

	var queue vk.Queue
	vk.GetDeviceQueue(logical, queueIndex, 0, &queue)

	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: queueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(logical, &cpci, nil, &pool)); err != nil {
		vk.DestroyDevice(logical, nil)
		return nil, errors.New("vk.CreateCommandPool(): " + err.Error())
	}

	return &device{
		instance:   a.instance,
		physical:   a.physical,
		logical:    logical,
		queue:      queue,
		queueIndex: queueIndex,
		pool:       pool,
	}, nil
}

func graphicsQueueFamily(physical vk.PhysicalDevice) (uint32, error) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &count, nil)
	if count == 0 {
		return 0, errors.New("vk.GetPhysicalDeviceQueueFamilyProperties(): no queue families on GPU")
	}
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(physical, &count, families)

	for i := uint32(0); i < count; i++ {
		families[i].Deref()
		if families[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			return i, nil
		}
	}
	return 0, errors.New("vulkan error: could not find a graphics queue family")
}

type device struct {
	instance   *instance
	physical   vk.PhysicalDevice
	logical    vk.Device
	queue      vk.Queue
	queueIndex uint32
	pool       vk.CommandPool
}

// Submit pushes the sealed command buffers to the graphics queue and
// waits for idle, then releases their native resources. Blocking keeps
// the single-writer resource model sound without fences.
func (d *device) Submit(buffers []gpu.DriverCommandBuffer) error {
	native := make([]vk.CommandBuffer, 0, len(buffers))
	sealed := make([]*commandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*commandBuffer)
		if !ok {
			return fmt.Errorf("vkg: foreign command buffer %T", b)
		}
		native = append(native, cb.raw)
		sealed = append(sealed, cb)
	}

	submit := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(native)),
		PCommandBuffers:    native,
	}}
	if err := vk.Error(vk.QueueSubmit(d.queue, 1, submit, nil)); err != nil {
		return errors.New("vk.QueueSubmit(): " + err.Error())
	}
	if err := vk.Error(vk.QueueWaitIdle(d.queue)); err != nil {
		return errors.New("vk.QueueWaitIdle(): " + err.Error())
	}

	for _, cb := range sealed {
		cb.Destroy()
	}
	return nil
}

func (d *device) Destroy() error {
	if err := vk.Error(vk.DeviceWaitIdle(d.logical)); err != nil {
		return errors.New("vk.DeviceWaitIdle(): " + err.Error())
	}
	vk.DestroyCommandPool(d.logical, d.pool, nil)
	vk.DestroyDevice(d.logical, nil)
	return nil
}
