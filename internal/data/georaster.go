package data

import "math"

// Six coefficient affine map from raster grid indices to coordinates, in GDAL order:
// [originX, pixelSizeX, rotX, originY, rotY, pixelSizeY]
//
//	X = originX + col*pixelSizeX + row*rotX
//	Y = originY + col*rotY + row*pixelSizeY
type GeoTransform [6]float64

func (g GeoTransform) OriginX() float64 {
	return g[0]
}

func (g GeoTransform) PixelSizeX() float64 {
	return g[1]
}

func (g GeoTransform) OriginY() float64 {
	return g[3]
}

func (g GeoTransform) PixelSizeY() float64 {
	return g[5]
}

// Apply maps the (possibly fractional) grid position to coordinates
func (g GeoTransform) Apply(col, row float64) (x, y float64) {
	x = g[0] + col*g[1] + row*g[2]
	y = g[3] + col*g[4] + row*g[5]
	return x, y
}

// Aspect is |pixelSizeY| / pixelSizeX
func (g GeoTransform) Aspect() float64 {
	return math.Abs(g[5]) / g[1]
}

// Scaled returns the transform whose columns step scaleX source pixels and rows step scaleY
func (g GeoTransform) Scaled(scaleX, scaleY float64) GeoTransform {
	return GeoTransform{
		g[0], g[1] * scaleX, g[2] * scaleY,
		g[3], g[4] * scaleX, g[5] * scaleY,
	}
}

// Single band elevation raster. GeoTransform is nil when the source carries no georeferencing.
type GeoRaster struct {
	Path         string
	Width        int
	Height       int
	Srid         int
	GeoTransform *GeoTransform
	Data         []float32 // row-major, Width*Height samples
}

func (r *GeoRaster) At(col, row int) float32 {
	return r.Data[row*r.Width+col]
}

func (r *GeoRaster) HasGeoTransform() bool {
	return r.GeoTransform != nil
}
