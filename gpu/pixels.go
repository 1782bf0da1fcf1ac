package gpu

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Pixels transforms a given image into the byte arrangement texture
// uploads expect by drawing the decoded image onto a controlled RGBA
// canvas. A rowPitch of 0 keeps the natural stride.
func Pixels(img image.Image, rowPitch int) []uint8 {
	out := image.NewRGBA(img.Bounds())
	if rowPitch > 0 && rowPitch <= 4*img.Bounds().Dy() {
		// apply the proposed row pitch only if supported,
		// as we're using only optimal textures.
		out.Stride = rowPitch
	}
	xdraw.Draw(out, out.Bounds(), img, image.Point{}, xdraw.Src)
	return out.Pix
}

// ScaledPixels resamples an image to the given texture extents and
// returns the RGBA bytes, tightly packed.
func ScaledPixels(img image.Image, width, height int) []uint8 {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out.Pix
}
