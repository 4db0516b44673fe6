package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is made of three vertices. The vertex order defines the winding used for the
// normal: normalize((C-B) × (A-B)).
type Triangle struct {
	A mgl64.Vec3
	B mgl64.Vec3
	C mgl64.Vec3
}

// degenerateBarycoord is returned for collinear or coincident vertices. It lies outside
// every triangle.
var degenerateBarycoord = mgl64.Vec3{-2, -1, -1}

// NewTriangle returns the triangle (a, b, c).
func NewTriangle(a, b, c mgl64.Vec3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// TriangleFromPointsAndIndices returns the triangle made of points[i0], points[i1] and
// points[i2].
func TriangleFromPointsAndIndices(points []mgl64.Vec3, i0, i1, i2 int) Triangle {
	return Triangle{A: points[i0], B: points[i1], C: points[i2]}
}

// TriangleNormal returns the unit normal of (a, b, c), or the zero vector when the
// triangle is degenerate.
func TriangleNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := c.Sub(b).Cross(a.Sub(b))
	lenSq := n.LenSqr()
	if lenSq > 0 {
		return n.Mul(1 / math.Sqrt(lenSq))
	}
	return mgl64.Vec3{}
}

// Barycoord returns the barycentric weights of point relative to (a, b, c), in the order
// (wA, wB, wC). Degenerate triangles return (-2, -1, -1).
//
// Based on http://www.blackpawn.com/texts/pointinpoly/default.html
func Barycoord(point, a, b, c mgl64.Vec3) mgl64.Vec3 {
	v0 := c.Sub(a)
	v1 := b.Sub(a)
	v2 := point.Sub(a)

	dot00 := v0.Dot(v0)
	dot01 := v0.Dot(v1)
	dot02 := v0.Dot(v2)
	dot11 := v1.Dot(v1)
	dot12 := v1.Dot(v2)

	denom := dot00*dot11 - dot01*dot01

	// collinear or singular triangle
	if denom == 0 {
		return degenerateBarycoord
	}

	invDenom := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	// barycentric weights always sum to 1
	return mgl64.Vec3{1 - u - v, v, u}
}

// TriangleContainsPoint reports whether point projects inside (a, b, c), edges and
// vertices included.
func TriangleContainsPoint(point, a, b, c mgl64.Vec3) bool {
	w := Barycoord(point, a, b, c)
	return w.X() >= 0 && w.Y() >= 0 && w.X()+w.Y() <= 1
}

// Interpolate blends the values v1, v2, v3 attached to p1, p2, p3 with the barycentric
// weights of point. A degenerate triangle returns ok == false.
func Interpolate(point, p1, p2, p3, v1, v2, v3 mgl64.Vec3) (mgl64.Vec3, bool) {
	w := Barycoord(point, p1, p2, p3)
	if w == degenerateBarycoord {
		return mgl64.Vec3{}, false
	}
	return v1.Mul(w.X()).Add(v2.Mul(w.Y())).Add(v3.Mul(w.Z())), true
}

// IsFrontFacing reports whether (a, b, c) faces against direction. A triangle seen
// edge-on is not front facing.
func IsFrontFacing(a, b, c, direction mgl64.Vec3) bool {
	return c.Sub(b).Cross(a.Sub(b)).Dot(direction) < 0
}

// Area returns the area of the triangle.
func (t Triangle) Area() float64 {
	return t.C.Sub(t.B).Cross(t.A.Sub(t.B)).Len() * 0.5
}

// Midpoint returns the centroid of the triangle.
func (t Triangle) Midpoint() mgl64.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// Normal returns the unit normal of the triangle, zero when degenerate.
func (t Triangle) Normal() mgl64.Vec3 {
	return TriangleNormal(t.A, t.B, t.C)
}

// Plane returns the plane supporting the triangle.
func (t Triangle) Plane() Plane {
	return PlaneFromCoplanarPoints(t.A, t.B, t.C)
}

// Barycoord returns the barycentric weights of point.
func (t Triangle) Barycoord(point mgl64.Vec3) mgl64.Vec3 {
	return Barycoord(point, t.A, t.B, t.C)
}

// ContainsPoint reports whether point projects inside the triangle.
func (t Triangle) ContainsPoint(point mgl64.Vec3) bool {
	return TriangleContainsPoint(point, t.A, t.B, t.C)
}

// Interpolate blends v1, v2, v3 attached to A, B, C at point.
func (t Triangle) Interpolate(point, v1, v2, v3 mgl64.Vec3) (mgl64.Vec3, bool) {
	return Interpolate(point, t.A, t.B, t.C, v1, v2, v3)
}

// IsFrontFacing reports whether the triangle faces against direction.
func (t Triangle) IsFrontFacing(direction mgl64.Vec3) bool {
	return IsFrontFacing(t.A, t.B, t.C, direction)
}

// IntersectsBox checks if the triangle overlaps box.
func (t Triangle) IntersectsBox(box AABB) bool {
	return box.IntersectsTriangle(t)
}

// IntersectsSphere checks if the triangle overlaps s.
func (t Triangle) IntersectsSphere(s Sphere) bool {
	return s.IntersectsTriangle(t)
}

// IntersectsPlane checks if the plane cuts or touches the triangle.
func (t Triangle) IntersectsPlane(p Plane) bool {
	da := p.DistanceToPoint(t.A)
	db := p.DistanceToPoint(t.B)
	dc := p.DistanceToPoint(t.C)
	return min(da, db, dc) <= 0 && max(da, db, dc) >= 0
}

// IntersectsTriangle checks if two triangles overlap, coplanar ones included.
func (t Triangle) IntersectsTriangle(other Triangle) bool {
	return trianglesOverlap(t, other)
}

// ClosestPointToPoint returns the point of the triangle closest to p.
//
// p is classified into one of the 7 Voronoi regions of the triangle (3 vertices, 3 edges,
// the face), reusing the dot products of earlier tests.
// Algorithm from "Real-Time Collision Detection" by Christer Ericson, section 5.1.5.
func (t Triangle) ClosestPointToPoint(p mgl64.Vec3) mgl64.Vec3 {
	a, b, c := t.A, t.B, t.C

	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		// vertex region of A
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		// vertex region of B
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		// edge region of AB
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		// vertex region of C
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		// edge region of AC
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		// edge region of BC
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	// face region
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// DistanceToPoint returns the distance from p to the closest point of the triangle.
func (t Triangle) DistanceToPoint(p mgl64.Vec3) float64 {
	return t.ClosestPointToPoint(p).Sub(p).Len()
}

// Equals reports whether the vertices match exactly, in order.
func (t Triangle) Equals(other Triangle) bool {
	return t.A == other.A && t.B == other.B && t.C == other.C
}

// Support returns the vertex furthest along direction.
func (t Triangle) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := t.A
	bestDot := t.A.Dot(direction)
	if d := t.B.Dot(direction); d > bestDot {
		best, bestDot = t.B, d
	}
	if d := t.C.Dot(direction); d > bestDot {
		best = t.C
	}
	return best
}

// Centroid returns the midpoint of the triangle.
func (t Triangle) Centroid() mgl64.Vec3 {
	return t.Midpoint()
}

// Kind implements Shape.
func (t Triangle) Kind() Kind { return KindTriangle }

// Bounds implements Shape.
func (t Triangle) Bounds() AABB { return AABBFromPoints(t.A, t.B, t.C) }

func (Triangle) sealed() {}
