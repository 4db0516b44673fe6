package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box.
// The zero value is a box containing only the origin; use EmptyAABB for a box that
// contains nothing.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB returns the box spanning min and max.
func NewAABB(min, max mgl64.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the empty sentinel box: Min at +Inf and Max at -Inf on every axis.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// AABBFromPoints returns the smallest box enclosing points.
func AABBFromPoints(points ...mgl64.Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b.ExpandByPoint(p)
	}
	return b
}

// AABBFromCenterAndSize returns a box centered on center, size being the full extent.
func AABBFromCenterAndSize(center, size mgl64.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// MakeEmpty resets the box to the empty sentinel.
func (a *AABB) MakeEmpty() {
	*a = EmptyAABB()
}

// IsEmpty reports whether max < min on any axis.
func (a AABB) IsEmpty() bool {
	return a.Max.X() < a.Min.X() || a.Max.Y() < a.Min.Y() || a.Max.Z() < a.Min.Z()
}

// Center returns the center of the box, or the origin for an empty box.
func (a AABB) Center() mgl64.Vec3 {
	if a.IsEmpty() {
		return mgl64.Vec3{}
	}
	return a.Min.Add(a.Max).Mul(0.5)
}

// Size returns the full extent of the box, or zero for an empty box.
func (a AABB) Size() mgl64.Vec3 {
	if a.IsEmpty() {
		return mgl64.Vec3{}
	}
	return a.Max.Sub(a.Min)
}

// ExpandByPoint grows the box to include point.
func (a *AABB) ExpandByPoint(point mgl64.Vec3) {
	a.Min = minVec(a.Min, point)
	a.Max = maxVec(a.Max, point)
}

// ExpandByVector subtracts v from Min and adds it to Max.
func (a *AABB) ExpandByVector(v mgl64.Vec3) {
	a.Min = a.Min.Sub(v)
	a.Max = a.Max.Add(v)
}

// ExpandByScalar pads every side of the box by s.
func (a *AABB) ExpandByScalar(s float64) {
	a.ExpandByVector(mgl64.Vec3{s, s, s})
}

// ExpandByBox grows the box to include other.
func (a *AABB) ExpandByBox(other AABB) {
	a.Union(other)
}

// ContainsPoint checks if a point is inside the AABB, boundary included.
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// ContainsBox checks if other lies entirely inside the AABB, touching faces included.
func (a AABB) ContainsBox(other AABB) bool {
	return a.Min.X() <= other.Min.X() && other.Max.X() <= a.Max.X() &&
		a.Min.Y() <= other.Min.Y() && other.Max.Y() <= a.Max.Y() &&
		a.Min.Z() <= other.Min.Z() && other.Max.Z() <= a.Max.Z()
}

// Parameter returns the position of point relative to the box, such that Min maps to
// (0,0,0) and Max maps to (1,1,1).
func (a AABB) Parameter(point mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		(point.X() - a.Min.X()) / (a.Max.X() - a.Min.X()),
		(point.Y() - a.Min.Y()) / (a.Max.Y() - a.Min.Y()),
		(point.Z() - a.Min.Z()) / (a.Max.Z() - a.Min.Z()),
	}
}

// IntersectsBox checks if two AABBs overlap. Touching boxes overlap.
func (a AABB) IntersectsBox(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// IntersectsSphere checks if the sphere overlaps the box.
func (a AABB) IntersectsSphere(s Sphere) bool {
	if a.IsEmpty() || s.IsEmpty() {
		return false
	}
	closest := a.ClampPoint(s.Center)
	d := closest.Sub(s.Center)
	return d.LenSqr() <= s.Radius*s.Radius
}

// IntersectsPlane checks if the plane passes through the box.
func (a AABB) IntersectsPlane(p Plane) bool {
	var min, max float64

	// For each axis pick the corner coordinate that extends the projection interval
	// in the direction of the normal's sign.
	for i := 0; i < 3; i++ {
		n := p.Normal[i]
		if n > 0 {
			min += n * a.Min[i]
			max += n * a.Max[i]
		} else {
			min += n * a.Max[i]
			max += n * a.Min[i]
		}
	}

	return min <= -p.Constant && max >= -p.Constant
}

// IntersectsTriangle checks if the triangle overlaps the box, using the separating axis
// theorem over the 13 candidate axes of a box/triangle pair.
func (a AABB) IntersectsTriangle(t Triangle) bool {
	if a.IsEmpty() {
		return false
	}

	center := a.Center()
	extents := a.Max.Sub(center)

	// Work in box-centered coordinates
	v0 := t.A.Sub(center)
	v1 := t.B.Sub(center)
	v2 := t.C.Sub(center)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	// u_i × f_j for the box face normals u_i
	crossAxes := [9]mgl64.Vec3{
		{0, -f0.Z(), f0.Y()}, {0, -f1.Z(), f1.Y()}, {0, -f2.Z(), f2.Y()},
		{f0.Z(), 0, -f0.X()}, {f1.Z(), 0, -f1.X()}, {f2.Z(), 0, -f2.X()},
		{-f0.Y(), f0.X(), 0}, {-f1.Y(), f1.X(), 0}, {-f2.Y(), f2.X(), 0},
	}
	if !satForAxes(crossAxes[:], v0, v1, v2, extents) {
		return false
	}

	faceAxes := [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if !satForAxes(faceAxes[:], v0, v1, v2, extents) {
		return false
	}

	normal := [1]mgl64.Vec3{f0.Cross(f1)}
	return satForAxes(normal[:], v0, v1, v2, extents)
}

// ClampPoint returns the point of the box closest to point.
func (a AABB) ClampPoint(point mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(a.Min.X(), math.Min(a.Max.X(), point.X())),
		math.Max(a.Min.Y(), math.Min(a.Max.Y(), point.Y())),
		math.Max(a.Min.Z(), math.Min(a.Max.Z(), point.Z())),
	}
}

// DistanceToPoint returns the distance from point to the box, 0 when inside.
func (a AABB) DistanceToPoint(point mgl64.Vec3) float64 {
	return a.ClampPoint(point).Sub(point).Len()
}

// BoundingSphere returns the sphere through the box corners.
func (a AABB) BoundingSphere() Sphere {
	if a.IsEmpty() {
		return EmptySphere()
	}
	return Sphere{Center: a.Center(), Radius: a.Size().Len() * 0.5}
}

// Intersect shrinks the box to its overlap with other. Disjoint boxes leave the
// empty sentinel rather than an inverted box.
func (a *AABB) Intersect(other AABB) {
	a.Min = maxVec(a.Min, other.Min)
	a.Max = minVec(a.Max, other.Max)

	if a.IsEmpty() {
		a.MakeEmpty()
	}
}

// Union grows the box to enclose other.
func (a *AABB) Union(other AABB) {
	a.Min = minVec(a.Min, other.Min)
	a.Max = maxVec(a.Max, other.Max)
}

// ApplyMatrix4 transforms the 8 corners of the box by m and re-bounds them.
// The result encloses the transformed box but is not minimal under shear.
func (a *AABB) ApplyMatrix4(m mgl64.Mat4) {
	if a.IsEmpty() {
		return
	}

	corners := [8]mgl64.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}

	a.MakeEmpty()
	for _, c := range corners {
		a.ExpandByPoint(mgl64.TransformCoordinate(c, m))
	}
}

// Translate moves the box by offset.
func (a *AABB) Translate(offset mgl64.Vec3) {
	a.Min = a.Min.Add(offset)
	a.Max = a.Max.Add(offset)
}

// Equals reports whether both corners match exactly.
func (a AABB) Equals(other AABB) bool {
	return a.Min == other.Min && a.Max == other.Max
}

// Support returns the corner of the box furthest along direction.
func (a AABB) Support(direction mgl64.Vec3) mgl64.Vec3 {
	var s mgl64.Vec3
	for i := 0; i < 3; i++ {
		if direction[i] < 0 {
			s[i] = a.Min[i]
		} else {
			s[i] = a.Max[i]
		}
	}
	return s
}

// Centroid returns the center of the box.
func (a AABB) Centroid() mgl64.Vec3 {
	return a.Center()
}

// Kind implements Shape.
func (a AABB) Kind() Kind { return KindBox }

// Bounds implements Shape.
func (a AABB) Bounds() AABB { return a }

func (AABB) sealed() {}

func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}
