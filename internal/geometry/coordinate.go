package geometry

// Geodetic or projected coordinate. For geodetic coordinates X is the longitude and Y the latitude,
// both in degrees, and Z the altitude in meters above the ellipsoid.
type Coordinate struct {
	X float64
	Y float64
	Z float64
}
