package ellipsoid

import (
	"math"

	"github.com/ecopia-map/terrain_tiler/internal/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	WGS84RadiusEquator = 6378137.0
	WGS84RadiusPolar   = 6356752.314245
)

// Model is an oblate ellipsoid of revolution. All methods are pure and safe for concurrent use.
type Model struct {
	radiusEquator       float64
	radiusPolar         float64
	eccentricitySquared float64
}

// TangentFrame places a local east/north/up plane at a geodetic centroid.
// LocalToWorld maps local coordinates to ECEF, WorldToLocal is its inverse.
type TangentFrame struct {
	Centroid     geometry.Coordinate
	LocalToWorld mgl64.Mat4
	WorldToLocal mgl64.Mat4
}

func NewModel(radiusEquator, radiusPolar float64) *Model {
	flattening := (radiusEquator - radiusPolar) / radiusEquator
	return &Model{
		radiusEquator:       radiusEquator,
		radiusPolar:         radiusPolar,
		eccentricitySquared: 2*flattening - flattening*flattening,
	}
}

func NewWGS84() *Model {
	return NewModel(WGS84RadiusEquator, WGS84RadiusPolar)
}

func (m *Model) RadiusEquator() float64 {
	return m.radiusEquator
}

func (m *Model) RadiusPolar() float64 {
	return m.radiusPolar
}

// ToECEF converts longitude/latitude in degrees and altitude in meters to Earth-centered cartesian
func (m *Model) ToECEF(lla geometry.Coordinate) mgl64.Vec3 {
	longitude := mgl64.DegToRad(lla.X)
	latitude := mgl64.DegToRad(lla.Y)
	height := lla.Z

	sinLatitude := math.Sin(latitude)
	cosLatitude := math.Cos(latitude)
	n := m.radiusEquator / math.Sqrt(1.0-m.eccentricitySquared*sinLatitude*sinLatitude)

	return mgl64.Vec3{
		(n + height) * cosLatitude * math.Cos(longitude),
		(n + height) * cosLatitude * math.Sin(longitude),
		(n*(1-m.eccentricitySquared) + height) * sinLatitude,
	}
}

// FromECEF converts Earth-centered cartesian back to longitude/latitude in degrees and altitude
func (m *Model) FromECEF(p mgl64.Vec3) geometry.Coordinate {
	a := m.radiusEquator
	b := m.radiusPolar
	ep2 := (a*a - b*b) / (b * b)

	horizontal := math.Sqrt(p.X()*p.X() + p.Y()*p.Y())
	if horizontal == 0 {
		latitude := 90.0
		if p.Z() < 0 {
			latitude = -90.0
		}
		return geometry.Coordinate{X: 0, Y: latitude, Z: math.Abs(p.Z()) - b}
	}

	theta := math.Atan2(p.Z()*a, horizontal*b)
	sinTheta := math.Sin(theta)
	cosTheta := math.Cos(theta)

	longitude := math.Atan2(p.Y(), p.X())
	latitude := math.Atan2(
		p.Z()+ep2*b*sinTheta*sinTheta*sinTheta,
		horizontal-m.eccentricitySquared*a*cosTheta*cosTheta*cosTheta,
	)

	sinLatitude := math.Sin(latitude)
	n := a / math.Sqrt(1.0-m.eccentricitySquared*sinLatitude*sinLatitude)
	height := horizontal/math.Cos(latitude) - n

	return geometry.Coordinate{
		X: mgl64.RadToDeg(longitude),
		Y: mgl64.RadToDeg(latitude),
		Z: height,
	}
}

// LocalFrame builds the tangent frame at the given centroid. The local z axis is the ellipsoid
// normal, x points east and y points north.
func (m *Model) LocalFrame(centroid geometry.Coordinate) TangentFrame {
	longitude := mgl64.DegToRad(centroid.X)
	latitude := mgl64.DegToRad(centroid.Y)

	sinLongitude, cosLongitude := math.Sin(longitude), math.Cos(longitude)
	sinLatitude, cosLatitude := math.Sin(latitude), math.Cos(latitude)

	up := mgl64.Vec3{cosLatitude * cosLongitude, cosLatitude * sinLongitude, sinLatitude}
	east := mgl64.Vec3{-sinLongitude, cosLongitude, 0}
	north := up.Cross(east)
	origin := m.ToECEF(centroid)

	localToWorld := mgl64.Mat4FromCols(
		east.Vec4(0),
		north.Vec4(0),
		up.Vec4(0),
		origin.Vec4(1),
	)

	// rigid inverse: transpose the rotation and rotate the negated translation
	worldToLocal := mgl64.Mat4FromRows(
		east.Vec4(-east.Dot(origin)),
		north.Vec4(-north.Dot(origin)),
		up.Vec4(-up.Dot(origin)),
		mgl64.Vec4{0, 0, 0, 1},
	)

	return TangentFrame{
		Centroid:     centroid,
		LocalToWorld: localToWorld,
		WorldToLocal: worldToLocal,
	}
}

// ToLocal moves an ECEF position into the frame
func (f TangentFrame) ToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return f.WorldToLocal.Mul4x1(p.Vec4(1)).Vec3()
}

// ToWorld moves a local position back to ECEF
func (f TangentFrame) ToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return f.LocalToWorld.Mul4x1(p.Vec4(1)).Vec3()
}
