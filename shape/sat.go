package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// satForAxes tests a triangle (v0, v1, v2), expressed relative to a box center, against
// the box of half-size extents on every axis. It returns false as soon as one axis
// separates the two. Axes are not normalized: a zero axis projects everything to 0 and
// never separates.
func satForAxes(axes []mgl64.Vec3, v0, v1, v2, extents mgl64.Vec3) bool {
	for _, axis := range axes {
		// Projection radius of the box
		r := extents.X()*math.Abs(axis.X()) +
			extents.Y()*math.Abs(axis.Y()) +
			extents.Z()*math.Abs(axis.Z())

		p0 := v0.Dot(axis)
		p1 := v1.Dot(axis)
		p2 := v2.Dot(axis)

		if math.Max(-max(p0, p1, p2), min(p0, p1, p2)) > r {
			return false
		}
	}
	return true
}

// projectTriangle returns the projection interval of a triangle on axis.
func projectTriangle(axis mgl64.Vec3, t Triangle) (float64, float64) {
	p0 := t.A.Dot(axis)
	p1 := t.B.Dot(axis)
	p2 := t.C.Dot(axis)
	return min(p0, p1, p2), max(p0, p1, p2)
}

// separatedOnAxis reports whether the projections of both triangles on axis are disjoint.
func separatedOnAxis(axis mgl64.Vec3, t1, t2 Triangle) bool {
	min1, max1 := projectTriangle(axis, t1)
	min2, max2 := projectTriangle(axis, t2)
	return max1 < min2 || max2 < min1
}

// trianglesOverlap runs the separating axis test between two triangles.
// Candidate axes: both face normals, the 9 edge cross products, and the in-plane edge
// normals that separate coplanar triangles.
func trianglesOverlap(t1, t2 Triangle) bool {
	e1 := [3]mgl64.Vec3{t1.B.Sub(t1.A), t1.C.Sub(t1.B), t1.A.Sub(t1.C)}
	e2 := [3]mgl64.Vec3{t2.B.Sub(t2.A), t2.C.Sub(t2.B), t2.A.Sub(t2.C)}

	n1 := e1[0].Cross(e1[1])
	n2 := e2[0].Cross(e2[1])

	if separatedOnAxis(n1, t1, t2) || separatedOnAxis(n2, t1, t2) {
		return false
	}

	for _, a := range e1 {
		for _, b := range e2 {
			if separatedOnAxis(a.Cross(b), t1, t2) {
				return false
			}
		}
	}

	// Coplanar case. Crossing each normal with the other triangle's edges as well keeps a
	// degenerate (zero normal) triangle separable from a coplanar one.
	for i := 0; i < 3; i++ {
		if separatedOnAxis(n1.Cross(e1[i]), t1, t2) || separatedOnAxis(n2.Cross(e2[i]), t1, t2) ||
			separatedOnAxis(n2.Cross(e1[i]), t1, t2) || separatedOnAxis(n1.Cross(e2[i]), t1, t2) {
			return false
		}
	}

	return true
}
