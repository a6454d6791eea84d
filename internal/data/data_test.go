package data

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoTransformApply(t *testing.T) {
	g := GeoTransform{10, 0.5, 0, 45, 0, -0.25}

	x, y := g.Apply(0, 0)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 45.0, y)

	x, y = g.Apply(4, 8)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 43.0, y)

	assert.Equal(t, 0.5, g.Aspect())
}

func TestGeoTransformScaled(t *testing.T) {
	g := GeoTransform{10, 0.5, 0.1, 45, 0.2, -0.25}
	s := g.Scaled(16, 4)

	assert.Equal(t, GeoTransform{10, 8, 0.4, 45, 3.2, -1}, s)
}

func TestUniformImages(t *testing.T) {
	rgba := NewUniformRGBA32F(3, 2, mgl32.Vec4{0.25, 0.5, 0.75, 1})
	require.Len(t, rgba.Pix, 3*2*16)
	assert.Equal(t, float32(0.5), rgba.Float32At(2, 1, 1))
	assert.Equal(t, float32(1), rgba.Float32At(0, 0, 3))

	ao := NewUniformR32F(4, 4, 1)
	require.Len(t, ao.Pix, 4*4*4)
	assert.Equal(t, float32(1), ao.Float32At(3, 3, 0))

	elevation := NewR32FFromSamples(2, 1, []float32{12.5, -3})
	assert.Equal(t, float32(-3), elevation.Float32At(1, 0, 0))
}

func TestFromGoImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	img := FromGoImage(src)
	assert.Equal(t, FormatRGBA8, img.Format)
	assert.Equal(t, []byte{0, 0, 0, 0, 10, 20, 30, 255}, img.Pix)
}
