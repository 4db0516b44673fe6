// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for boolean overlap
// of convex shapes.
//
// GJK detects whether two convex shapes overlap by testing if their Minkowski difference
// contains the origin. Shapes only expose a support mapping; the algorithm builds a
// simplex incrementally, converging toward the origin in typically 3-6 iterations.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations bounds the refinement loop. Convergence failures report no overlap.
	MaxIterations = 32

	degenerateLenSqr = 1e-10
	touchingLenSqr   = 1e-16
)

// Convex is a convex shape described by its support mapping.
type Convex interface {
	// Support returns the point of the shape furthest along direction, in world space.
	Support(direction mgl64.Vec3) mgl64.Vec3
	// Centroid returns a point inside the shape, used to seed the search direction.
	Centroid() mgl64.Vec3
}

// Simplex represents a set of 1-4 points in the Minkowski difference space.
// Points[Count-1] is always the most recently added support point.
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

// Reset empties the simplex.
func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) push(p mgl64.Vec3) {
	s.Points[s.Count] = p
	s.Count++
}

// set replaces the simplex content, the last point being the most recent one.
func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

// SimplexPool recycles simplices across queries running on several goroutines.
var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport computes a support point of the Minkowski difference A - B:
// furthestPoint(A, direction) - furthestPoint(B, -direction).
func MinkowskiSupport(a, b Convex, direction mgl64.Vec3) mgl64.Vec3 {
	return a.Support(direction).Sub(b.Support(direction.Mul(-1)))
}

// Intersects reports whether two convex shapes overlap, borrowing a simplex from
// SimplexPool for the duration of the call.
func Intersects(a, b Convex) bool {
	simplex := SimplexPool.Get().(*Simplex)
	simplex.Reset()
	defer SimplexPool.Put(simplex)

	return GJK(a, b, simplex)
}

// GJK reports whether a and b overlap, refining simplex in place.
//
// When the shapes overlap with a non-zero volume the simplex ends as a tetrahedron
// enclosing the origin. Shapes exactly touching may be reported either way.
func GJK(a, b Convex, simplex *Simplex) bool {
	// Starting toward the other shape typically saves iterations
	direction := b.Centroid().Sub(a.Centroid())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.set(MinkowskiSupport(a, b, direction))
	direction = simplex.Points[0].Mul(-1)

	// First support point at the origin: the shapes touch
	if direction.LenSqr() < touchingLenSqr {
		return true
	}

	for i := 0; i < MaxIterations; i++ {
		p := MinkowskiSupport(a, b, direction)

		// The new point does not pass the origin: the origin is out of reach
		if p.Dot(direction) <= 0 {
			return false
		}

		simplex.push(p)
		if simplex.evolve(&direction) {
			return true
		}
	}

	return false
}

// evolve reduces the simplex to its feature closest to the origin and points direction
// at the origin from there. It returns true once the origin is enclosed.
func (s *Simplex) evolve(direction *mgl64.Vec3) bool {
	switch s.Count {
	case 2:
		return s.line(direction)
	case 3:
		return s.triangle(direction)
	case 4:
		return s.tetrahedron(direction)
	}
	return false
}

// line handles the segment simplex [B, A], A being the newest point.
func (s *Simplex) line(direction *mgl64.Vec3) bool {
	a := s.Points[1]
	b := s.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	// Both points coincide
	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		s.set(a)
		*direction = ao
		return false
	}

	// Origin behind A: vertex region of A
	if ab.Dot(ao) <= 0 {
		s.set(a)
		*direction = ao
		return false
	}

	// Edge region of AB
	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < 1e-8 {
		// origin on the segment
		return true
	}

	*direction = perp
	return false
}

// triangle handles the simplex [C, B, A], A being the newest point.
func (s *Simplex) triangle(direction *mgl64.Vec3) bool {
	a := s.Points[2]
	b := s.Points[1]
	c := s.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	abc := ab.Cross(ac)

	// Collinear points: keep the newest edge
	if abc.LenSqr() < degenerateLenSqr {
		s.set(b, a)
		return s.line(direction)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		s.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	if abc.Cross(ac).Dot(ao) > 0 {
		s.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if abc.Dot(ao) > 0 {
		*direction = abc
	} else {
		// Below the face: flip the winding so the normal faces the origin
		s.set(b, c, a)
		*direction = abc.Mul(-1)
	}

	return false
}

// tetrahedron handles the simplex [D, C, B, A], A being the newest point. It is the only
// case able to enclose the origin.
func (s *Simplex) tetrahedron(direction *mgl64.Vec3) bool {
	a := s.Points[3]
	b := s.Points[2]
	c := s.Points[1]
	d := s.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	// Face normals point away from the opposite vertex
	abc := outward(ab.Cross(ac), ad)
	acd := outward(ac.Cross(ad), ab)
	adb := outward(ad.Cross(ab), ac)

	if abc.LenSqr() < degenerateLenSqr || acd.LenSqr() < degenerateLenSqr || adb.LenSqr() < degenerateLenSqr {
		s.set(c, b, a)
		return s.triangle(direction)
	}

	switch {
	case abc.Dot(ao) > 0:
		s.set(c, b, a)
		return s.triangle(direction)
	case acd.Dot(ao) > 0:
		s.set(d, c, a)
		return s.triangle(direction)
	case adb.Dot(ao) > 0:
		s.set(b, d, a)
		return s.triangle(direction)
	}

	return true
}

// outward flips normal if it points toward the vertex at offset opposite.
func outward(normal, opposite mgl64.Vec3) mgl64.Vec3 {
	if normal.Dot(opposite) > 0 {
		return normal.Mul(-1)
	}
	return normal
}
