package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane represents an infinite plane in Hessian normal form.
// A point p lies on the plane when Normal · p + Constant = 0, where Normal is the
// plane's normal vector (must be normalized) and Constant is the signed distance from
// the origin along the normal.
//
// Normal is not renormalized on edit: call Normalize after changing it by hand.
type Plane struct {
	Normal   mgl64.Vec3
	Constant float64
}

// NewPlane returns the plane of the given normal and constant.
func NewPlane(normal mgl64.Vec3, constant float64) Plane {
	return Plane{Normal: normal, Constant: constant}
}

// PlaneFromComponents returns the plane x*X + y*Y + z*Z + w = 0.
func PlaneFromComponents(x, y, z, w float64) Plane {
	return Plane{Normal: mgl64.Vec3{x, y, z}, Constant: w}
}

// PlaneFromNormalAndCoplanarPoint returns the plane of normal passing through point.
func PlaneFromNormalAndCoplanarPoint(normal, point mgl64.Vec3) Plane {
	return Plane{Normal: normal, Constant: -point.Dot(normal)}
}

// PlaneFromCoplanarPoints returns the plane through a, b and c. The normal follows the
// triangle winding: normalize((c-b) × (a-b)).
func PlaneFromCoplanarPoints(a, b, c mgl64.Vec3) Plane {
	normal := c.Sub(b).Cross(a.Sub(b)).Normalize()
	return PlaneFromNormalAndCoplanarPoint(normal, a)
}

// Normalize scales normal and constant so that the normal has unit length.
func (p *Plane) Normalize() {
	inverseLength := 1.0 / p.Normal.Len()
	p.Normal = p.Normal.Mul(inverseLength)
	p.Constant *= inverseLength
}

// Negate flips the plane orientation without moving it.
func (p *Plane) Negate() {
	p.Constant *= -1
	p.Normal = p.Normal.Mul(-1)
}

// DistanceToPoint returns the signed distance from point to the plane, positive on the
// side the normal points to.
func (p Plane) DistanceToPoint(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Constant
}

// DistanceToSphere returns the signed distance from the sphere surface to the plane.
func (p Plane) DistanceToSphere(s Sphere) float64 {
	return p.DistanceToPoint(s.Center) - s.Radius
}

// ProjectPoint returns the orthogonal projection of point on the plane.
func (p Plane) ProjectPoint(point mgl64.Vec3) mgl64.Vec3 {
	return point.Add(p.Normal.Mul(-p.DistanceToPoint(point)))
}

// CoplanarPoint returns the point of the plane closest to the origin.
func (p Plane) CoplanarPoint() mgl64.Vec3 {
	return p.Normal.Mul(-p.Constant)
}

// IntersectLine returns the point where the segment crosses the plane.
// A segment parallel to the plane only hits when its start lies exactly on it, in which
// case the start is returned.
func (p Plane) IntersectLine(line Segment) (mgl64.Vec3, bool) {
	direction := line.Delta()

	denominator := p.Normal.Dot(direction)
	if denominator == 0 {
		if p.DistanceToPoint(line.Start) == 0 {
			return line.Start, true
		}
		return mgl64.Vec3{}, false
	}

	t := -(line.Start.Dot(p.Normal) + p.Constant) / denominator
	if t < 0 || t > 1 {
		return mgl64.Vec3{}, false
	}

	return line.Start.Add(direction.Mul(t)), true
}

// IntersectsLine reports whether the segment endpoints lie strictly on opposite sides of
// the plane. An endpoint resting on the plane does not count as a crossing.
func (p Plane) IntersectsLine(line Segment) bool {
	startSign := p.DistanceToPoint(line.Start)
	endSign := p.DistanceToPoint(line.End)

	return (startSign < 0 && endSign > 0) || (endSign < 0 && startSign > 0)
}

// IntersectsBox checks if the plane passes through box.
func (p Plane) IntersectsBox(box AABB) bool {
	return box.IntersectsPlane(p)
}

// IntersectsSphere checks if the plane cuts or touches s.
func (p Plane) IntersectsSphere(s Sphere) bool {
	return s.IntersectsPlane(p)
}

// IntersectsPlane reports whether two planes share at least one point: they do unless
// they are parallel and distinct.
func (p Plane) IntersectsPlane(other Plane) bool {
	if p.Normal.Cross(other.Normal).LenSqr() > Epsilon*Epsilon {
		return true
	}
	// Parallel: coincident if a point of one lies on the other
	return math.Abs(other.DistanceToPoint(p.CoplanarPoint())) <= Epsilon
}

// ApplyMatrix4 transforms the plane by m.
func (p *Plane) ApplyMatrix4(m mgl64.Mat4) {
	p.ApplyMatrix4WithNormal(m, normalMatrix(m))
}

// ApplyMatrix4WithNormal transforms the plane by m, using the precomputed normalMatrix
// (inverse transpose of the upper 3x3 of m) for the normal.
func (p *Plane) ApplyMatrix4WithNormal(m mgl64.Mat4, normalMatrix mgl64.Mat3) {
	reference := mgl64.TransformCoordinate(p.CoplanarPoint(), m)
	p.Normal = normalMatrix.Mul3x1(p.Normal).Normalize()
	p.Constant = -reference.Dot(p.Normal)
}

// Translate moves the plane by offset.
func (p *Plane) Translate(offset mgl64.Vec3) {
	p.Constant -= offset.Dot(p.Normal)
}

// Equals reports whether normal and constant match exactly.
func (p Plane) Equals(other Plane) bool {
	return p.Normal == other.Normal && p.Constant == other.Constant
}

// Kind implements Shape.
func (p Plane) Kind() Kind { return KindPlane }

// Bounds implements Shape. A plane is unbounded.
func (p Plane) Bounds() AABB { return infiniteAABB() }

func (Plane) sealed() {}

func normalMatrix(m mgl64.Mat4) mgl64.Mat3 {
	return m.Mat3().Inv().Transpose()
}

func infiniteAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{-inf, -inf, -inf},
		Max: mgl64.Vec3{inf, inf, inf},
	}
}
