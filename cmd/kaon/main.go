package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/kaon3d/kaon/gpu"
	"github.com/kaon3d/kaon/gpu/caps"
	_ "github.com/kaon3d/kaon/gpu/soft"
	_ "github.com/kaon3d/kaon/gpu/vkg"
)

func init() {
	runtime.LockOSThread()
}

const (
	screenWidth  = 800
	screenHeight = 600
)

// Triangle vertices: vec2 position, vec3 color.
var triangle = []float32{
	0.0, -0.5, 1, 0, 0,
	0.5, 0.5, 0, 1, 0,
	-0.5, 0.5, 0, 0, 1,
}

// presentable reports whether this demo can build a native surface
// handle for the backend. The wgpu backend needs per-platform surface
// descriptor glue that SDL does not provide, so it is left to windowing
// layers that carry it.
func presentable(b gpu.Backend) bool {
	switch b {
	case gpu.BackendVulkan, gpu.BackendVulkanMobile, gpu.BackendSoftware:
		return true
	default:
		return false
	}
}

func windowFlags(backend gpu.Backend) uint32 {
	flags := uint32(sdl.WINDOW_SHOWN)
	if backend == gpu.BackendVulkan || backend == gpu.BackendVulkanMobile {
		flags |= sdl.WINDOW_VULKAN
	}
	return flags
}

func newWindow(flags uint32) *sdl.Window {
	window, err := sdl.CreateWindow("Kaon",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		screenWidth,
		screenHeight,
		flags)
	if err != nil {
		panic(err)
	}
	return window
}

// surfaceHandle builds the backend's native surface handle from the SDL
// window. Vulkan builds get a VkSurfaceKHR created against the
// adapter's vk.Instance; the software backend ignores the handle.
func surfaceHandle(backend gpu.Backend, adapter *gpu.Adapter, window *sdl.Window) (uintptr, error) {
	switch backend {
	case gpu.BackendVulkan, gpu.BackendVulkanMobile:
		srf, err := window.VulkanCreateSurface(adapter.NativeInstance())
		if err != nil {
			return 0, err
		}
		return uintptr(srf), nil
	case gpu.BackendSoftware:
		return 0, nil
	default:
		return 0, fmt.Errorf("no surface glue for backend %s", backend)
	}
}

// rotated returns the triangle spun by angle radians around the origin.
func rotated(angle float32) []float32 {
	rot := mgl32.Rotate2D(angle)
	out := make([]float32, len(triangle))
	copy(out, triangle)
	for i := 0; i < len(out); i += 5 {
		v := rot.Mul2x1(mgl32.Vec2{out[i], out[i+1]})
		out[i], out[i+1] = v.X(), v.Y()
	}
	return out
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}
	cfg := gpu.ConfigFromEnv()
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx := context.Background()

	order := make([]gpu.Backend, 0, len(cfg.BackendOrder))
	for _, b := range cfg.BackendOrder {
		if presentable(b) {
			order = append(order, b)
		}
	}
	if len(order) == 0 {
		order = []gpu.Backend{gpu.BackendSoftware}
	}

	report, err := caps.NewNegotiator(order...).Detect(ctx)
	if err != nil {
		panic(err)
	}
	backend := gpu.BackendSoftware
	if report.PreferredBackend != nil {
		backend = *report.PreferredBackend
	}
	log.WithFields(log.Fields{
		"backend": backend,
		"device":  report.DeviceID,
		"driver":  report.DriverVersion,
	}).Info("backend negotiated")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		panic(err)
	}
	defer sdl.Quit()

	if backend == gpu.BackendVulkan || backend == gpu.BackendVulkanMobile {
		if err := sdl.VulkanLoadLibrary(""); err != nil {
			panic(err)
		}
		defer sdl.VulkanUnloadLibrary()
	}

	instance, err := gpu.NewInstance(gpu.InstanceDescriptor{
		Label:        "kaon",
		BackendOrder: []gpu.Backend{backend},
	})
	if err != nil {
		panic(err)
	}
	defer instance.Dispose()

	adapter, err := instance.RequestAdapter(ctx, gpu.AdapterOptions{
		PowerPreference: gpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	defer adapter.Release()
	log.WithField("adapter", adapter.Info().Name).Info("adapter selected")

	device, err := adapter.RequestDevice(ctx, gpu.DeviceDescriptor{
		Label:        "kaon-main",
		ShaderSource: gpu.DirSource(cfg.ShaderDir),
	})
	if err != nil {
		panic(err)
	}
	defer device.Destroy()

	vertexBuffer, err := device.CreateBuffer(gpu.BufferDescriptor{
		Label: "triangle",
		Size:  uint64(4 * len(triangle)),
		Usage: gpu.BufferUsageVertex,
	})
	if err != nil {
		panic(err)
	}
	defer vertexBuffer.Destroy()

	vertexShader, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.vert"})
	if err != nil {
		panic(err)
	}
	defer vertexShader.Destroy()
	fragmentShader, err := device.CreateShaderModule(gpu.ShaderModuleDescriptor{Label: "triangle.frag"})
	if err != nil {
		panic(err)
	}
	defer fragmentShader.Destroy()

	pipeline, err := device.CreateRenderPipeline(gpu.RenderPipelineDescriptor{
		Label:    "triangle",
		Vertex:   vertexShader,
		Fragment: fragmentShader,
		VertexLayout: gpu.VertexLayout{
			Stride: 20,
			Attributes: []gpu.VertexAttribute{
				{Format: gpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gpu.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 1},
			},
		},
		Topology:    gpu.TopologyTriangleList,
		CullMode:    gpu.CullModeBack,
		ColorFormat: gpu.TextureFormatBGRA8Unorm,
	})
	if err != nil {
		panic(err)
	}
	defer pipeline.Destroy()

	window := newWindow(windowFlags(backend))
	defer window.Destroy()

	native, err := surfaceHandle(backend, adapter, window)
	if err != nil {
		panic(err)
	}

	surface := gpu.NewSurface(native, screenWidth, screenHeight)
	if err := surface.Configure(device, gpu.SurfaceConfig{
		Format: gpu.TextureFormatBGRA8Unorm,
		Usage:  gpu.TextureUsageRenderAttachment,
		Width:  screenWidth,
		Height: screenHeight,
	}); err != nil {
		panic(err)
	}
	defer surface.Destroy()

	fps := newTicker(60)
	defer fps.Stop()

	var angle float32
	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-fps.C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}

			angle += 0.02
			if err := drawFrame(device, surface, pipeline, vertexBuffer, angle); err != nil {
				log.WithError(err).Error("frame failed")
				exitC <- struct{}{}
			}
		}
	}
}

func drawFrame(device *gpu.Device, surface *gpu.Surface, pipeline *gpu.RenderPipeline, vertexBuffer *gpu.Buffer, angle float32) error {
	if err := vertexBuffer.WriteFloats(rotated(angle), 0); err != nil {
		return err
	}

	frame, err := surface.AcquireFrame()
	if err != nil {
		return err
	}

	encoder, err := device.CreateCommandEncoder("frame")
	if err != nil {
		return err
	}
	pass, err := encoder.BeginRenderPass(gpu.RenderPassDescriptor{
		ColorView:  frame.View(),
		ClearColor: gpu.Color{R: 0.01, G: 0.01, B: 0.03, A: 1},
	})
	if err != nil {
		return err
	}
	if err := pass.SetPipeline(pipeline); err != nil {
		return err
	}
	if err := pass.SetVertexBuffer(0, vertexBuffer, 0); err != nil {
		return err
	}
	if err := pass.Draw(3, 1, 0, 0); err != nil {
		return err
	}
	if err := pass.End(); err != nil {
		return err
	}

	commands, err := encoder.Finish()
	if err != nil {
		return err
	}
	if err := device.Queue().Submit(commands); err != nil {
		return err
	}
	return surface.Present(frame)
}
