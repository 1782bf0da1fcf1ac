package vkg

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

// CreateTexture allocates a device-local 2D image and binds its memory.
func (d *device) CreateTexture(desc gpu.TextureDescriptor) (gpu.DriverTexture, error) {
	format := vkFormat(desc.Format)
	ici := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  desc.Width,
			Height: desc.Height,
			Depth:  1,
		},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     vk.SampleCount1Bit,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       vkImageUsage(desc.Usage, desc.Format.IsDepth()),
	}

	var image vk.Image
	if err := vk.Error(vk.CreateImage(d.logical, &ici, nil, &image)); err != nil {
		return nil, errors.New("vk.CreateImage(): " + err.Error())
	}

	var requirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.logical, image, &requirements)
	requirements.Deref()

	memoryType, err := d.memoryType(requirements.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		vk.DestroyImage(d.logical, image, nil)
		return nil, err
	}

	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryType,
	}
	var memory vk.DeviceMemory
	if err := vk.Error(vk.AllocateMemory(d.logical, &mai, nil, &memory)); err != nil {
		vk.DestroyImage(d.logical, image, nil)
		return nil, errors.New("vk.AllocateMemory(): " + err.Error())
	}
	if err := vk.Error(vk.BindImageMemory(d.logical, image, memory, 0)); err != nil {
		vk.FreeMemory(d.logical, memory, nil)
		vk.DestroyImage(d.logical, image, nil)
		return nil, errors.New("vk.BindImageMemory(): " + err.Error())
	}

	return &texture{
		device: d,
		raw:    image,
		memory: memory,
		desc:   desc,
	}, nil
}

type texture struct {
	device *device
	raw    vk.Image
	memory vk.DeviceMemory
	desc   gpu.TextureDescriptor

	// swapchainImage marks images owned by a swapchain; those are not
	// destroyed individually.
	swapchainImage bool
}

func (t *texture) CreateView() (gpu.DriverTextureView, error) {
	aspect := vk.ImageAspectFlags(vk.ImageAspectColorBit)
	if t.desc.Format.IsDepth() {
		aspect = vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	}
	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    t.raw,
		ViewType: vk.ImageViewType2d,
		Format:   vkFormat(t.desc.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspect,
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(t.device.logical, &ivci, nil, &view)); err != nil {
		return nil, errors.New("vk.CreateImageView(): " + err.Error())
	}
	return &textureView{texture: t, raw: view}, nil
}

func (t *texture) Destroy() {
	if t.swapchainImage {
		return
	}
	vk.FreeMemory(t.device.logical, t.memory, nil)
	vk.DestroyImage(t.device.logical, t.raw, nil)
}

type textureView struct {
	texture *texture
	raw     vk.ImageView
}

func (v *textureView) Destroy() {
	vk.DestroyImageView(v.texture.device.logical, v.raw, nil)
}

// CreateSampler builds a sampler from the descriptor's filtering and
// addressing modes.
func (d *device) CreateSampler(desc gpu.SamplerDescriptor) (gpu.DriverSampler, error) {
	sci := vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    vkFilter(desc.MagFilter),
		MinFilter:    vkFilter(desc.MinFilter),
		AddressModeU: vkAddressMode(desc.AddressMode),
		AddressModeV: vkAddressMode(desc.AddressMode),
		AddressModeW: vkAddressMode(desc.AddressMode),
		MaxLod:       1,
	}

	var raw vk.Sampler
	if err := vk.Error(vk.CreateSampler(d.logical, &sci, nil, &raw)); err != nil {
		return nil, errors.New("vk.CreateSampler(): " + err.Error())
	}
	return &sampler{device: d, raw: raw}, nil
}

func vkFilter(f gpu.FilterMode) vk.Filter {
	if f == gpu.FilterModeLinear {
		return vk.FilterLinear
	}
	return vk.FilterNearest
}

func vkAddressMode(m gpu.AddressMode) vk.SamplerAddressMode {
	switch m {
	case gpu.AddressModeRepeat:
		return vk.SamplerAddressModeRepeat
	case gpu.AddressModeMirrorRepeat:
		return vk.SamplerAddressModeMirroredRepeat
	default:
		return vk.SamplerAddressModeClampToEdge
	}
}

type sampler struct {
	device *device
	raw    vk.Sampler
}

func (s *sampler) Destroy() {
	vk.DestroySampler(s.device.logical, s.raw, nil)
}
