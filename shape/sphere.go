package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere represents a sphere by its center and radius.
// A negative radius marks an empty sphere; a zero radius holds the center point only.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// NewSphere returns the sphere of the given center and radius.
func NewSphere(center mgl64.Vec3, radius float64) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// EmptySphere returns a sphere containing no point.
func EmptySphere() Sphere {
	return Sphere{Radius: -1}
}

// SphereFromPoints returns a sphere enclosing points. When center is nil, the center of
// the points' bounding box is used.
func SphereFromPoints(points []mgl64.Vec3, center *mgl64.Vec3) Sphere {
	var s Sphere
	if center != nil {
		s.Center = *center
	} else {
		s.Center = AABBFromPoints(points...).Center()
	}

	maxRadiusSq := 0.0
	for _, p := range points {
		maxRadiusSq = math.Max(maxRadiusSq, p.Sub(s.Center).LenSqr())
	}
	s.Radius = math.Sqrt(maxRadiusSq)

	return s
}

// MakeEmpty resets the sphere to the empty sphere.
func (s *Sphere) MakeEmpty() {
	*s = EmptySphere()
}

// IsEmpty reports whether the radius is negative.
func (s Sphere) IsEmpty() bool {
	return s.Radius < 0
}

// ContainsPoint checks if point lies inside the sphere or on its surface.
func (s Sphere) ContainsPoint(point mgl64.Vec3) bool {
	if s.IsEmpty() {
		return false
	}
	return point.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

// DistanceToPoint returns the signed distance from point to the surface,
// negative inside.
func (s Sphere) DistanceToPoint(point mgl64.Vec3) float64 {
	return point.Sub(s.Center).Len() - s.Radius
}

// IntersectsSphere checks if both spheres overlap, touching included.
func (s Sphere) IntersectsSphere(other Sphere) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return false
	}
	radiusSum := s.Radius + other.Radius
	return other.Center.Sub(s.Center).LenSqr() <= radiusSum*radiusSum
}

// IntersectsBox checks if the sphere overlaps box.
func (s Sphere) IntersectsBox(box AABB) bool {
	return box.IntersectsSphere(s)
}

// IntersectsPlane checks if the plane cuts or touches the sphere.
func (s Sphere) IntersectsPlane(p Plane) bool {
	return math.Abs(p.DistanceToPoint(s.Center)) <= s.Radius
}

// IntersectsTriangle checks if the triangle comes within Radius of the center.
func (s Sphere) IntersectsTriangle(t Triangle) bool {
	if s.IsEmpty() {
		return false
	}
	closest := t.ClosestPointToPoint(s.Center)
	return closest.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

// ClampPoint returns point if it is inside the sphere, or its projection on the
// surface otherwise. Like an empty box, an empty sphere clamps to +Inf on every axis.
func (s Sphere) ClampPoint(point mgl64.Vec3) mgl64.Vec3 {
	if s.IsEmpty() {
		return mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	}
	delta := point.Sub(s.Center)
	if delta.LenSqr() > s.Radius*s.Radius {
		return s.Center.Add(delta.Normalize().Mul(s.Radius))
	}
	return point
}

// BoundingBox returns the box of the sphere, empty for an empty sphere.
func (s Sphere) BoundingBox() AABB {
	if s.IsEmpty() {
		return EmptyAABB()
	}
	box := AABB{Min: s.Center, Max: s.Center}
	box.ExpandByScalar(s.Radius)
	return box
}

// ApplyMatrix4 transforms the center by m and scales the radius by the largest axis
// scale of m, since a non-uniformly scaled sphere is no longer a sphere.
func (s *Sphere) ApplyMatrix4(m mgl64.Mat4) {
	s.Center = mgl64.TransformCoordinate(s.Center, m)
	s.Radius *= maxScaleOnAxis(m)
}

// Translate moves the sphere by offset.
func (s *Sphere) Translate(offset mgl64.Vec3) {
	s.Center = s.Center.Add(offset)
}

// ExpandByPoint grows the sphere just enough to contain point.
// The center moves halfway toward point by the missing distance, and the radius grows by
// the same amount, so the far side of the sphere stays in place.
func (s *Sphere) ExpandByPoint(point mgl64.Vec3) {
	if s.IsEmpty() {
		s.Center = point
		s.Radius = 0
		return
	}

	delta := point.Sub(s.Center)
	lengthSq := delta.LenSqr()

	if lengthSq > s.Radius*s.Radius {
		length := math.Sqrt(lengthSq)
		half := (length - s.Radius) * 0.5

		s.Center = s.Center.Add(delta.Mul(half / length))
		s.Radius += half
	}
}

// Union grows the sphere to contain other.
// Expanding by the two points of other lying on the center-to-center axis covers other
// entirely, including when one sphere already contains the other.
func (s *Sphere) Union(other Sphere) {
	if other.IsEmpty() {
		return
	}
	if s.IsEmpty() {
		*s = other
		return
	}

	if s.Center == other.Center {
		s.Radius = math.Max(s.Radius, other.Radius)
		return
	}

	axis := other.Center.Sub(s.Center).Normalize().Mul(other.Radius)
	s.ExpandByPoint(other.Center.Add(axis))
	s.ExpandByPoint(other.Center.Sub(axis))
}

// Equals reports whether center and radius match exactly.
func (s Sphere) Equals(other Sphere) bool {
	return s.Center == other.Center && s.Radius == other.Radius
}

// Support returns the point of the sphere furthest along direction.
func (s Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() == 0 {
		return s.Center
	}
	return s.Center.Add(direction.Normalize().Mul(s.Radius))
}

// Centroid returns the center of the sphere.
func (s Sphere) Centroid() mgl64.Vec3 {
	return s.Center
}

// Kind implements Shape.
func (s Sphere) Kind() Kind { return KindSphere }

// Bounds implements Shape.
func (s Sphere) Bounds() AABB { return s.BoundingBox() }

func (Sphere) sealed() {}

// maxScaleOnAxis returns the length of the longest basis vector of m.
func maxScaleOnAxis(m mgl64.Mat4) float64 {
	sx := m.Col(0).Vec3().LenSqr()
	sy := m.Col(1).Vec3().LenSqr()
	sz := m.Col(2).Vec3().LenSqr()
	return math.Sqrt(max(sx, sy, sz))
}
