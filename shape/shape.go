// Package shape implements the primitive shapes of the kernel (axis-aligned boxes,
// spheres, planes, rays, triangles and oriented boxes) and the pairwise queries between
// them: intersection tests, closest points and distances.
//
// Every type is a small value type. Queries use value receivers and keep their
// temporaries on the stack, so shapes can be queried from several goroutines at once.
// Methods that modify a shape use pointer receivers and only ever touch the receiver.
//
// Missing intersections are not errors: queries return (point, false) or false.
// Degenerate inputs (zero-area triangles, empty boxes, empty spheres) produce documented
// fallback values instead of panicking.
package shape

import "github.com/go-gl/mathgl/mgl64"

// Epsilon is the tolerance used by the few queries that cannot be answered exactly,
// such as whether two rays meet.
const Epsilon = 1e-9

// Kind represents the type of a shape
type Kind int

const (
	KindBox Kind = iota
	KindSphere
	KindPlane
	KindRay
	KindTriangle
	KindOrientedBox
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	case KindRay:
		return "ray"
	case KindTriangle:
		return "triangle"
	case KindOrientedBox:
		return "oriented_box"
	}
	return "unknown"
}

// Shape is implemented by AABB, Sphere, Plane, Ray, Triangle and OrientedBox only.
type Shape interface {
	Kind() Kind
	// Bounds returns an axis-aligned box enclosing the shape. Unbounded shapes
	// return boxes with infinite sides.
	Bounds() AABB

	sealed()
}

// Intersects reports whether a and b share at least one point.
// Each pair is answered by one canonical implementation whatever the argument order.
// Pointers to shapes are accepted as well as values.
func Intersects(a, b Shape) bool {
	a, b = deref(a), deref(b)
	if a.Kind() > b.Kind() {
		a, b = b, a
	}

	switch a := a.(type) {
	case AABB:
		switch b := b.(type) {
		case AABB:
			return a.IntersectsBox(b)
		case Sphere:
			return a.IntersectsSphere(b)
		case Plane:
			return a.IntersectsPlane(b)
		case Ray:
			return b.IntersectsBox(a)
		case Triangle:
			return a.IntersectsTriangle(b)
		case OrientedBox:
			return b.IntersectsBox(a)
		}
	case Sphere:
		switch b := b.(type) {
		case Sphere:
			return a.IntersectsSphere(b)
		case Plane:
			return a.IntersectsPlane(b)
		case Ray:
			return b.IntersectsSphere(a)
		case Triangle:
			return a.IntersectsTriangle(b)
		case OrientedBox:
			return b.IntersectsSphere(a)
		}
	case Plane:
		switch b := b.(type) {
		case Plane:
			return a.IntersectsPlane(b)
		case Ray:
			return b.IntersectsPlane(a)
		case Triangle:
			return b.IntersectsPlane(a)
		case OrientedBox:
			return b.IntersectsPlane(a)
		}
	case Ray:
		switch b := b.(type) {
		case Ray:
			return a.IntersectsRay(b)
		case Triangle:
			return a.IntersectsTriangle(b)
		case OrientedBox:
			return b.IntersectsRay(a)
		}
	case Triangle:
		switch b := b.(type) {
		case Triangle:
			return a.IntersectsTriangle(b)
		case OrientedBox:
			return b.IntersectsTriangle(a)
		}
	case OrientedBox:
		if b, ok := b.(OrientedBox); ok {
			return a.IntersectsOrientedBox(b)
		}
	}

	return false
}

// deref turns pointers to shapes into values so the type switches only see values.
func deref(s Shape) Shape {
	switch v := s.(type) {
	case *AABB:
		return *v
	case *Sphere:
		return *v
	case *Plane:
		return *v
	case *Ray:
		return *v
	case *Triangle:
		return *v
	case *OrientedBox:
		return *v
	}
	return s
}

// ClosestPoint returns the point of s closest to point. For a ray the result is on the
// half-line, for a plane it is the orthogonal projection.
func ClosestPoint(s Shape, point mgl64.Vec3) mgl64.Vec3 {
	switch v := deref(s).(type) {
	case AABB:
		return v.ClampPoint(point)
	case Sphere:
		return v.ClampPoint(point)
	case Plane:
		return v.ProjectPoint(point)
	case Ray:
		return v.ClosestPointToPoint(point)
	case Triangle:
		return v.ClosestPointToPoint(point)
	case OrientedBox:
		return v.ClampPoint(point)
	}
	return point
}

// Distance returns the distance from point to s, 0 when the point is inside.
func Distance(s Shape, point mgl64.Vec3) float64 {
	return ClosestPoint(s, point).Sub(point).Len()
}

// Raycast returns the first point of s hit by r. Rays have no surface and are never hit.
// With backfaceCulling set, triangles seen from behind are skipped.
func Raycast(r Ray, s Shape, backfaceCulling bool) (mgl64.Vec3, bool) {
	switch v := deref(s).(type) {
	case AABB:
		return r.IntersectBox(v)
	case Sphere:
		return r.IntersectSphere(v)
	case Plane:
		return r.IntersectPlane(v)
	case Triangle:
		return r.IntersectTriangle(v.A, v.B, v.C, backfaceCulling)
	case OrientedBox:
		return v.IntersectRay(r)
	}
	return mgl64.Vec3{}, false
}
