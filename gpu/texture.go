package gpu

import "fmt"

// Texture is a GPU-resident image with an explicit create/destroy
// lifecycle matching Buffer's.
type Texture struct {
	device    *Device
	handle    DriverTexture
	label     string
	desc      TextureDescriptor
	destroyed bool
}

// Label returns the texture's label.
func (t *Texture) Label() string { return t.label }

// Format returns the texel format.
func (t *Texture) Format() TextureFormat { return t.desc.Format }

// Width returns the texture width in texels.
func (t *Texture) Width() uint32 { return t.desc.Width }

// Height returns the texture height in texels.
func (t *Texture) Height() uint32 { return t.desc.Height }

// CreateView creates a view over the whole texture, usable as a render
// pass attachment.
func (t *Texture) CreateView() (*TextureView, error) {
	if t.destroyed {
		return nil, fmt.Errorf("%w: view requested on destroyed texture %q", ErrDisposed, t.label)
	}
	h, err := t.handle.CreateView()
	if err != nil {
		err = fmt.Errorf("%w: CreateView(%q): %v", ErrNative, t.label, err)
		t.device.poison(err)
		return nil, err
	}
	return &TextureView{texture: t, handle: h}, nil
}

// Destroy releases the native image. Destroying twice fails.
func (t *Texture) Destroy() error {
	if t.destroyed {
		return fmt.Errorf("%w: texture %q destroyed twice", ErrDisposed, t.label)
	}
	t.destroyed = true
	t.handle.Destroy()
	return nil
}

// TextureView is a non-owning view over a Texture's texels.
type TextureView struct {
	texture *Texture
	handle  DriverTextureView
}

// Texture returns the viewed texture.
func (v *TextureView) Texture() *Texture { return v.texture }

// Destroy releases the native view. The underlying texture is unaffected.
func (v *TextureView) Destroy() {
	v.handle.Destroy()
}
