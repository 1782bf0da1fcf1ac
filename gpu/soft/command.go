package soft

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/kaon3d/kaon/gpu"
)

// encoder collects closures; the device replays them on submit. Deferred
// replay keeps recording cheap and gives submit its ordering guarantee
// for free.
type encoder struct {
	label string
	ops   []func() error
}

func (e *encoder) BeginRenderPass(desc gpu.DriverRenderPassDescriptor) (gpu.DriverRenderPass, error) {
	color, ok := desc.ColorView.(*textureView)
	if !ok {
		return nil, errors.New("soft: foreign color attachment")
	}
	clearColor := desc.ClearColor
	e.ops = append(e.ops, func() error {
		color.texture.fill(clearTexel(color.texture.desc.Format, clearColor))
		return nil
	})
	if desc.DepthView != nil {
		depth, ok := desc.DepthView.(*textureView)
		if !ok {
			return nil, errors.New("soft: foreign depth attachment")
		}
		clearDepth := desc.ClearDepth
		e.ops = append(e.ops, func() error {
			depth.texture.fill(depthTexel(clearDepth))
			return nil
		})
	}
	return &renderPass{encoder: e}, nil
}

func (e *encoder) Finish() (gpu.DriverCommandBuffer, error) {
	cb := &commandBuffer{ops: e.ops}
	e.ops = nil
	return cb, nil
}

// renderPass records binds and draws. The rasterizer executes clears
// only; draw calls update counters so a host can assert what was
// recorded.
type renderPass struct {
	encoder *encoder

	draws     int
	instances int
}

func (r *renderPass) SetPipeline(p gpu.DriverRenderPipeline) {}

func (r *renderPass) SetVertexBuffer(slot uint32, b gpu.DriverBuffer, offset uint64) {}

func (r *renderPass) SetIndexBuffer(b gpu.DriverBuffer, format gpu.IndexFormat, offset uint64) {}

func (r *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.draws++
	r.instances += int(instanceCount)
}

func (r *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	r.draws++
	r.instances += int(instanceCount)
}

func (r *renderPass) End() error { return nil }

type commandBuffer struct {
	ops []func() error
}

func (c *commandBuffer) Destroy() {
	c.ops = nil
}

// clearTexel encodes one clear color in the target format.
func clearTexel(f gpu.TextureFormat, c gpu.Color) []byte {
	switch f {
	case gpu.TextureFormatBGRA8Unorm:
		return []byte{unorm8(c.B), unorm8(c.G), unorm8(c.R), unorm8(c.A)}
	case gpu.TextureFormatRGBA16Float:
		texel := make([]byte, 8)
		binary.LittleEndian.PutUint16(texel[0:], float16(float32(c.R)))
		binary.LittleEndian.PutUint16(texel[2:], float16(float32(c.G)))
		binary.LittleEndian.PutUint16(texel[4:], float16(float32(c.B)))
		binary.LittleEndian.PutUint16(texel[6:], float16(float32(c.A)))
		return texel
	default:
		return []byte{unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A)}
	}
}

// depthTexel packs a depth clear into the 24-bit normalized layout.
func depthTexel(d float32) []byte {
	if d < 0 {
		d = 0
	} else if d > 1 {
		d = 1
	}
	texel := make([]byte, 4)
	binary.LittleEndian.PutUint32(texel, uint32(d*float32(0xFFFFFF)))
	return texel
}

func unorm8(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return byte(v*255 + 0.5)
}

// float16 converts a float32 to IEEE-754 binary16, round-to-nearest.
func float16(v float32) uint16 {
	bits := math.Float32bits(v)
	sign := uint16(bits>>16) & 0x8000
	exp := int32(bits>>23&0xFF) - 127 + 15
	mant := bits & 0x7FFFFF
	switch {
	case exp <= 0:
		return sign // flush denormals and underflow to signed zero
	case exp >= 0x1F:
		return sign | 0x7C00
	default:
		return sign | uint16(exp)<<10 | uint16(mant>>13)
	}
}
