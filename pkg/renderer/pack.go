package renderer

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ConvertToRGBA clamps a linear color to [0,1] and packs it as A<<24 | B<<16 | G<<8 | R.
// Channels are scaled by 255 and truncated.
func ConvertToRGBA(c mgl32.Vec4) uint32 {
	c = core.ClampVec4(c, 0, 1)

	r := uint32(uint8(c[0] * 255.0))
	g := uint32(uint8(c[1] * 255.0))
	b := uint32(uint8(c[2] * 255.0))
	a := uint32(uint8(c[3] * 255.0))

	return a<<24 | b<<16 | g<<8 | r
}

// UnpackRGBA splits a packed pixel into its channels
func UnpackRGBA(p uint32) color.RGBA {
	return color.RGBA{
		R: uint8(p),
		G: uint8(p >> 8),
		B: uint8(p >> 16),
		A: uint8(p >> 24),
	}
}

// PixelsToRGBA copies packed pixels into an RGBA image. The packed layout
// stored little-endian is exactly the R,G,B,A byte order of image.RGBA.
func PixelsToRGBA(pixels []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height && i < len(pixels); i++ {
		binary.LittleEndian.PutUint32(img.Pix[i*4:], pixels[i])
	}
	return img
}

// extractRegion copies the pixels inside bounds into a bounds-sized RGBA image
func extractRegion(pixels []uint32, stride int, bounds image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[(y-bounds.Min.Y)*img.Stride:]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			binary.LittleEndian.PutUint32(row[(x-bounds.Min.X)*4:], pixels[x+y*stride])
		}
	}
	return img
}
