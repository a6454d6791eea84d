package geometry

import "github.com/go-gl/mathgl/mgl64"

// Sphere in Earth-centered cartesian space used for culling and LOD activation
type BoundingSphere struct {
	Center mgl64.Vec3 `json:"center"`
	Radius float64    `json:"radius"`
}

func NewBoundingSphere(center mgl64.Vec3, radius float64) BoundingSphere {
	return BoundingSphere{Center: center, Radius: radius}
}

// Contains reports whether p lies inside the sphere, allowing tolerance meters of slack
func (s BoundingSphere) Contains(p mgl64.Vec3, tolerance float64) bool {
	return p.Sub(s.Center).Len() <= s.Radius+tolerance
}

// ExpandBy grows the radius so that p is enclosed. The center does not move.
func (s *BoundingSphere) ExpandBy(p mgl64.Vec3) {
	if d := p.Sub(s.Center).Len(); d > s.Radius {
		s.Radius = d
	}
}

// Distance from the eye to the sphere surface, zero when the eye is inside
func (s BoundingSphere) Distance(eye mgl64.Vec3) float64 {
	d := eye.Sub(s.Center).Len() - s.Radius
	if d < 0 {
		return 0
	}
	return d
}
