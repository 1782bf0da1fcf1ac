package soft

import "github.com/kaon3d/kaon/gpu"

// buffer is a plain byte slice. The frontend validates all bounds before
// calling in, so reads and writes copy unconditionally.
type buffer struct {
	data []byte
}

func (b *buffer) Write(offset uint64, data []byte) error {
	copy(b.data[offset:], data)
	return nil
}

func (b *buffer) Read(offset uint64, dst []byte) error {
	copy(dst, b.data[offset:])
	return nil
}

func (b *buffer) Destroy() {
	b.data = nil
}

// texelSize returns the bytes per texel of a format.
func texelSize(f gpu.TextureFormat) int {
	switch f {
	case gpu.TextureFormatRGBA16Float:
		return 8
	default:
		// RGBA8, BGRA8 and the packed depth format all take four bytes.
		return 4
	}
}

// texture holds its texels in a flat slice, row-major.
type texture struct {
	desc gpu.TextureDescriptor
	pix  []byte
}

func newTexture(desc gpu.TextureDescriptor) *texture {
	return &texture{
		desc: desc,
		pix:  make([]byte, int(desc.Width)*int(desc.Height)*texelSize(desc.Format)),
	}
}

func (t *texture) CreateView() (gpu.DriverTextureView, error) {
	return &textureView{texture: t}, nil
}

func (t *texture) Destroy() {
	t.pix = nil
}

// fill writes one texel pattern across the whole image.
func (t *texture) fill(texel []byte) {
	if t.pix == nil {
		return
	}
	for i := 0; i < len(t.pix); i += len(texel) {
		copy(t.pix[i:], texel)
	}
}

type textureView struct {
	texture *texture
}

func (v *textureView) Destroy() {}

type sampler struct {
	desc gpu.SamplerDescriptor
}

func (s *sampler) Destroy() {}

type shaderModule struct {
	label string
	code  []byte
}

func (m *shaderModule) Destroy() {
	m.code = nil
}

type pipeline struct {
	desc gpu.RenderPipelineDescriptor
}

func (p *pipeline) Destroy() {}
