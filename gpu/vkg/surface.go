package vkg

import (
	"errors"
	"math"

	vk "github.com/vulkan-go/vulkan"

	"github.com/kaon3d/kaon/gpu"
)

// CreateSurface wraps a window surface handle in a FIFO swapchain.
// Acquisition synchronizes through a fence rather than semaphores; the
// blocking submit model leaves nothing in flight for a semaphore to
// order against.
func (d *device) CreateSurface(native uintptr, cfg gpu.SurfaceConfig) (gpu.DriverSurface, error) {
	raw := vk.SurfaceFromPointer(native)

	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(d.physical, d.queueIndex, raw, &supported)); err != nil {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceSupport(): " + err.Error())
	}
	if !supported.B() {
		return nil, errors.New("vk.GetPhysicalDeviceSurfaceSupport(): surface is not supported")
	}

	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	var fence vk.Fence
	if err := vk.Error(vk.CreateFence(d.logical, &fci, nil, &fence)); err != nil {
		return nil, errors.New("vk.CreateFence(): " + err.Error())
	}

	s := &surface{
		device:       d,
		raw:          raw,
		acquireFence: fence,
		cfg:          cfg,
	}
	if err := s.createSwapchain(nil); err != nil {
		vk.DestroyFence(d.logical, fence, nil)
		return nil, err
	}
	return s, nil
}

type surface struct {
	device       *device
	raw          vk.Surface
	swapchain    vk.Swapchain
	images       []*texture
	acquireFence vk.Fence
	imageIndex   uint32
	cfg          gpu.SurfaceConfig
}

func (s *surface) createSwapchain(old vk.Swapchain) error {
	d := s.device

	var capabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(d.physical, s.raw, &capabilities)); err != nil {
		return errors.New("vk.GetPhysicalDeviceSurfaceCapabilities(): " + err.Error())
	}
	capabilities.Deref()

	var formatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.physical, s.raw, &formatCount, nil)); err != nil {
		return errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(d.physical, s.raw, &formatCount, formats)); err != nil {
		return errors.New("vk.GetPhysicalDeviceSurfaceFormats(): " + err.Error())
	}

	wanted := vkFormat(s.cfg.Format)
	formats[0].Deref()
	chosen := formats[0]
	for _, f := range formats {
		f.Deref()
		if f.Format == wanted {
			chosen = f
			break
		}
	}

	minImages := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && minImages > capabilities.MaxImageCount {
		minImages = capabilities.MaxImageCount
	}

	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         s.raw,
		MinImageCount:   minImages,
		ImageFormat:     chosen.Format,
		ImageColorSpace: chosen.ColorSpace,
		ImageExtent: vk.Extent2D{
			Width:  s.cfg.Width,
			Height: s.cfg.Height,
		},
		ImageUsage:       vkImageUsage(s.cfg.Usage, false),
		PreTransform:     vk.SurfaceTransformIdentityBit,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     old,
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(d.logical, &scci, nil, &swapchain)); err != nil {
		return errors.New("vk.CreateSwapchain(): " + err.Error())
	}
	if old != nil {
		vk.DestroySwapchain(d.logical, old, nil)
	}
	s.swapchain = swapchain

	var imageCount uint32
	if err := vk.Error(vk.GetSwapchainImages(d.logical, s.swapchain, &imageCount, nil)); err != nil {
		return errors.New("vk.GetSwapchainImages(): " + err.Error())
	}
	rawImages := make([]vk.Image, imageCount)
	if err := vk.Error(vk.GetSwapchainImages(d.logical, s.swapchain, &imageCount, rawImages)); err != nil {
		return errors.New("vk.GetSwapchainImages(): " + err.Error())
	}

	s.images = make([]*texture, imageCount)
	for i, img := range rawImages {
		s.images[i] = &texture{
			device: d,
			raw:    img,
			desc: gpu.TextureDescriptor{
				Width:  s.cfg.Width,
				Height: s.cfg.Height,
				Format: s.cfg.Format,
				Usage:  s.cfg.Usage,
			},
			swapchainImage: true,
		}
	}
	return nil
}

func (s *surface) Acquire() (gpu.DriverTexture, error) {
	d := s.device
	if err := vk.Error(vk.AcquireNextImage(d.logical, s.swapchain, math.MaxUint64, nil, s.acquireFence, &s.imageIndex)); err != nil {
		return nil, errors.New("vk.AcquireNextImage(): " + err.Error())
	}
	fences := []vk.Fence{s.acquireFence}
	if err := vk.Error(vk.WaitForFences(d.logical, 1, fences, vk.True, math.MaxUint64)); err != nil {
		return nil, errors.New("vk.WaitForFences(): " + err.Error())
	}
	if err := vk.Error(vk.ResetFences(d.logical, 1, fences)); err != nil {
		return nil, errors.New("vk.ResetFences(): " + err.Error())
	}
	return s.images[s.imageIndex], nil
}

func (s *surface) Present() error {
	presentInfo := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{s.swapchain},
		PImageIndices:  []uint32{s.imageIndex},
	}
	if err := vk.Error(vk.QueuePresent(s.device.queue, &presentInfo)); err != nil {
		return errors.New("vk.QueuePresent(): " + err.Error())
	}
	return nil
}

func (s *surface) Reconfigure(cfg gpu.SurfaceConfig) error {
	if err := vk.Error(vk.DeviceWaitIdle(s.device.logical)); err != nil {
		return errors.New("vk.DeviceWaitIdle(): " + err.Error())
	}
	s.cfg = cfg
	return s.createSwapchain(s.swapchain)
}

func (s *surface) Destroy() {
	vk.DeviceWaitIdle(s.device.logical)
	vk.DestroyFence(s.device.logical, s.acquireFence, nil)
	vk.DestroySwapchain(s.device.logical, s.swapchain, nil)
	s.images = nil
}
