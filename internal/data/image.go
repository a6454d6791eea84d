package data

import (
	"encoding/binary"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type PixelFormat uint8

const (
	FormatRGBA8 PixelFormat = iota + 1
	FormatRGBA32F
	FormatR32F
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "R8G8B8A8_UNORM"
	case FormatRGBA32F:
		return "R32G32B32A32_SFLOAT"
	case FormatR32F:
		return "R32_SFLOAT"
	}
	return "UNDEFINED"
}

// Bytes per pixel, zero for unknown formats
func (f PixelFormat) Stride() int {
	switch f {
	case FormatRGBA8:
		return 4
	case FormatRGBA32F:
		return 16
	case FormatR32F:
		return 4
	}
	return 0
}

// Image is a tightly packed 2D pixel array. Float formats are little endian.
type Image struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Format PixelFormat `json:"format"`
	Pix    []byte      `json:"pix"`
}

func NewImage(width, height int, format PixelFormat) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Format: format,
		Pix:    make([]byte, width*height*format.Stride()),
	}
}

// NewUniformRGBA32F builds a width x height float image filled with c
func NewUniformRGBA32F(width, height int, c mgl32.Vec4) *Image {
	img := NewImage(width, height, FormatRGBA32F)
	var pixel [16]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(pixel[i*4:], math.Float32bits(c[i]))
	}
	for off := 0; off < len(img.Pix); off += len(pixel) {
		copy(img.Pix[off:], pixel[:])
	}
	return img
}

// NewUniformR32F builds a single channel float image filled with value
func NewUniformR32F(width, height int, value float32) *Image {
	img := NewImage(width, height, FormatR32F)
	bits := math.Float32bits(value)
	for off := 0; off < len(img.Pix); off += 4 {
		binary.LittleEndian.PutUint32(img.Pix[off:], bits)
	}
	return img
}

// NewR32FFromSamples packs row-major samples into a single channel float image
func NewR32FFromSamples(width, height int, samples []float32) *Image {
	img := NewImage(width, height, FormatR32F)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(img.Pix[i*4:], math.Float32bits(v))
	}
	return img
}

// FromGoImage converts any decoded image to 8 bit non premultiplied RGBA
func FromGoImage(src image.Image) *Image {
	bounds := src.Bounds()
	img := NewImage(bounds.Dx(), bounds.Dy(), FormatRGBA8)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
			i += 4
		}
	}
	return img
}

// Float32At reads channel ch of the pixel at (x, y) of a float image
func (img *Image) Float32At(x, y, ch int) float32 {
	off := (y*img.Width+x)*img.Format.Stride() + ch*4
	return math.Float32frombits(binary.LittleEndian.Uint32(img.Pix[off:]))
}
