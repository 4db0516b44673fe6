package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line starting at Origin and going along Direction.
// Direction must have unit length for distances to be metric; it is never normalized
// implicitly.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay returns the ray from origin along direction.
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns Origin + t*Direction.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// LookAt points the ray toward target.
func (r *Ray) LookAt(target mgl64.Vec3) {
	r.Direction = target.Sub(r.Origin).Normalize()
}

// Recast moves the origin to the point at parameter t.
func (r *Ray) Recast(t float64) {
	r.Origin = r.At(t)
}

// ClosestPointToPoint returns the point of the ray closest to point. Points behind the
// origin map to the origin.
func (r Ray) ClosestPointToPoint(point mgl64.Vec3) mgl64.Vec3 {
	t := point.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		return r.Origin
	}
	return r.At(t)
}

// DistanceToPoint returns the distance from point to the ray.
func (r Ray) DistanceToPoint(point mgl64.Vec3) float64 {
	return math.Sqrt(r.DistanceSqToPoint(point))
}

// DistanceSqToPoint returns the squared distance from point to the ray.
func (r Ray) DistanceSqToPoint(point mgl64.Vec3) float64 {
	return r.ClosestPointToPoint(point).Sub(point).LenSqr()
}

// DistanceSqToSegment returns the squared distance between the ray and the segment
// [v0, v1], along with the closest point on each.
//
// The segment is parametrized around its center, s1 ∈ [-extent, extent], the ray by
// s0 >= 0, and the squared distance is minimized over that region.
// See https://www.geometrictools.com/GTE/Mathematics/DistRaySegment.h
func (r Ray) DistanceSqToSegment(v0, v1 mgl64.Vec3) (float64, mgl64.Vec3, mgl64.Vec3) {
	segCenter := v0.Add(v1).Mul(0.5)
	segDir := v1.Sub(v0).Normalize()
	diff := r.Origin.Sub(segCenter)

	segExtent := v1.Sub(v0).Len() * 0.5
	a01 := -r.Direction.Dot(segDir)
	b0 := diff.Dot(r.Direction)
	b1 := -diff.Dot(segDir)
	c := diff.LenSqr()
	det := math.Abs(1 - a01*a01)

	var s0, s1, sqrDist float64

	if det > 0 {
		// The ray and segment are not parallel
		s0 = a01*b1 - b0
		s1 = a01*b0 - b1
		extDet := segExtent * det

		if s0 >= 0 {
			if s1 >= -extDet {
				if s1 <= extDet {
					// region 0: minimum at interior points of ray and segment
					invDet := 1 / det
					s0 *= invDet
					s1 *= invDet
					sqrDist = s0*(s0+a01*s1+2*b0) + s1*(a01*s0+s1+2*b1) + c
				} else {
					// region 1
					s1 = segExtent
					s0 = math.Max(0, -(a01*s1 + b0))
					sqrDist = -s0*s0 + s1*(s1+2*b1) + c
				}
			} else {
				// region 5
				s1 = -segExtent
				s0 = math.Max(0, -(a01*s1 + b0))
				sqrDist = -s0*s0 + s1*(s1+2*b1) + c
			}
		} else {
			if s1 <= -extDet {
				// region 4
				s0 = math.Max(0, -(-a01*segExtent + b0))
				if s0 > 0 {
					s1 = -segExtent
				} else {
					s1 = math.Min(math.Max(-segExtent, -b1), segExtent)
				}
				sqrDist = -s0*s0 + s1*(s1+2*b1) + c
			} else if s1 <= extDet {
				// region 3
				s0 = 0
				s1 = math.Min(math.Max(-segExtent, -b1), segExtent)
				sqrDist = s1*(s1+2*b1) + c
			} else {
				// region 2
				s0 = math.Max(0, -(a01*segExtent + b0))
				if s0 > 0 {
					s1 = segExtent
				} else {
					s1 = math.Min(math.Max(-segExtent, -b1), segExtent)
				}
				sqrDist = -s0*s0 + s1*(s1+2*b1) + c
			}
		}
	} else {
		// Ray and segment are parallel
		if a01 > 0 {
			s1 = -segExtent
		} else {
			s1 = segExtent
		}
		s0 = math.Max(0, -(a01*s1 + b0))
		sqrDist = -s0*s0 + s1*(s1+2*b1) + c
	}

	return sqrDist, r.At(s0), segCenter.Add(segDir.Mul(s1))
}

// IntersectSphere returns the first point where the ray enters s. When the origin is
// inside the sphere the exit point is returned, so the hit is never behind the ray.
func (r Ray) IntersectSphere(s Sphere) (mgl64.Vec3, bool) {
	if s.IsEmpty() {
		return mgl64.Vec3{}, false
	}
	v := s.Center.Sub(r.Origin)
	tca := v.Dot(r.Direction)
	d2 := v.Dot(v) - tca*tca
	radius2 := s.Radius * s.Radius

	if d2 > radius2 {
		return mgl64.Vec3{}, false
	}

	thc := math.Sqrt(radius2 - d2)

	// t0 first intersect point - entrance on front of sphere
	t0 := tca - thc
	// t1 second intersect point - exit point on back of sphere
	t1 := tca + thc

	// Sphere is behind the ray
	if t0 < 0 && t1 < 0 {
		return mgl64.Vec3{}, false
	}

	// Origin inside the sphere
	if t0 < 0 {
		return r.At(t1), true
	}

	return r.At(t0), true
}

// IntersectsSphere checks if the ray passes within the sphere.
func (r Ray) IntersectsSphere(s Sphere) bool {
	if s.IsEmpty() {
		return false
	}
	return r.DistanceSqToPoint(s.Center) <= s.Radius*s.Radius
}

// DistanceToPlane returns the ray parameter at which it meets the plane. A ray lying in
// the plane returns 0; a parallel ray off the plane, or a plane behind the origin, does
// not meet it.
func (r Ray) DistanceToPlane(p Plane) (float64, bool) {
	denominator := p.Normal.Dot(r.Direction)
	if denominator == 0 {
		if p.DistanceToPoint(r.Origin) == 0 {
			return 0, true
		}
		return 0, false
	}

	t := -(r.Origin.Dot(p.Normal) + p.Constant) / denominator
	if t >= 0 {
		return t, true
	}
	return 0, false
}

// IntersectPlane returns the point where the ray meets the plane.
func (r Ray) IntersectPlane(p Plane) (mgl64.Vec3, bool) {
	t, ok := r.DistanceToPlane(p)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectsPlane checks if the ray starts on the plane or heads toward it.
func (r Ray) IntersectsPlane(p Plane) bool {
	distToPoint := p.DistanceToPoint(r.Origin)
	if distToPoint == 0 {
		return true
	}

	denominator := p.Normal.Dot(r.Direction)
	return denominator*distToPoint < 0
}

// IntersectBox returns the nearest point of box hit by the ray (the exit point when the
// origin is inside), using the slab method.
func (r Ray) IntersectBox(box AABB) (mgl64.Vec3, bool) {
	tmin, tmax, ok := r.slabs(box)
	if !ok {
		return mgl64.Vec3{}, false
	}

	if tmin >= 0 {
		return r.At(tmin), true
	}
	return r.At(tmax), true
}

// slabs returns the parameter interval over which the ray is inside box.
// Division by a zero direction component yields ±Inf; 0*Inf products give NaN, which is
// skipped when narrowing the interval.
func (r Ray) slabs(box AABB) (float64, float64, bool) {
	var tmin, tmax float64

	for axis := 0; axis < 3; axis++ {
		invDir := 1 / r.Direction[axis]
		origin := r.Origin[axis]

		var lo, hi float64
		if invDir >= 0 {
			lo = (box.Min[axis] - origin) * invDir
			hi = (box.Max[axis] - origin) * invDir
		} else {
			lo = (box.Max[axis] - origin) * invDir
			hi = (box.Min[axis] - origin) * invDir
		}

		if axis == 0 {
			tmin, tmax = lo, hi
			continue
		}

		if tmin > hi || lo > tmax {
			return 0, 0, false
		}

		if lo > tmin || math.IsNaN(tmin) {
			tmin = lo
		}
		if hi < tmax || math.IsNaN(tmax) {
			tmax = hi
		}
	}

	// Box entirely behind the ray
	if tmax < 0 {
		return 0, 0, false
	}

	return tmin, tmax, true
}

// IntersectsBox checks if the ray hits box.
func (r Ray) IntersectsBox(box AABB) bool {
	_, ok := r.IntersectBox(box)
	return ok
}

// IntersectTriangle returns the point where the ray crosses the triangle (a, b, c).
// With backfaceCulling set, triangles seen from behind (winding clockwise from the ray)
// are ignored.
//
// The barycentric test compares signed determinants against |DdN| and defers the only
// division to the final parameter.
// See https://www.geometrictools.com/GTE/Mathematics/IntrRay3Triangle3.h
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3, backfaceCulling bool) (mgl64.Vec3, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	normal := edge1.Cross(edge2)

	// Solve Q + t*D = b1*E1 + b2*E2 (Q = kDiff, D = ray direction,
	// E1 = kEdge1, E2 = kEdge2, N = Cross(E1,E2)) by
	//   |Dot(D,N)|*b1 = sign(Dot(D,N))*Dot(D,Cross(Q,E2))
	//   |Dot(D,N)|*b2 = sign(Dot(D,N))*Dot(D,Cross(E1,Q))
	//   |Dot(D,N)|*t = -sign(Dot(D,N))*Dot(Q,N)
	DdN := r.Direction.Dot(normal)
	var sign float64

	if DdN > 0 {
		if backfaceCulling {
			return mgl64.Vec3{}, false
		}
		sign = 1
	} else if DdN < 0 {
		sign = -1
		DdN = -DdN
	} else {
		return mgl64.Vec3{}, false
	}

	diff := r.Origin.Sub(a)

	DdQxE2 := sign * r.Direction.Dot(diff.Cross(edge2))
	// b1 < 0, no intersection
	if DdQxE2 < 0 {
		return mgl64.Vec3{}, false
	}

	DdE1xQ := sign * r.Direction.Dot(edge1.Cross(diff))
	// b2 < 0, no intersection
	if DdE1xQ < 0 {
		return mgl64.Vec3{}, false
	}

	// b1+b2 > 1, no intersection
	if DdQxE2+DdE1xQ > DdN {
		return mgl64.Vec3{}, false
	}

	// Line intersects triangle, check if ray does.
	QdN := -sign * diff.Dot(normal)
	// t < 0, no intersection
	if QdN < 0 {
		return mgl64.Vec3{}, false
	}

	return r.At(QdN / DdN), true
}

// IntersectsTriangle checks if the ray crosses t from either side.
func (r Ray) IntersectsTriangle(t Triangle) bool {
	_, ok := r.IntersectTriangle(t.A, t.B, t.C, false)
	return ok
}

// IntersectsRay reports whether two rays pass within Epsilon of each other.
func (r Ray) IntersectsRay(other Ray) bool {
	return r.distanceSqToRay(other) <= Epsilon*Epsilon
}

// distanceSqToRay minimizes the squared distance between two rays, both parameters
// restricted to be non-negative.
func (r Ray) distanceSqToRay(other Ray) float64 {
	w := r.Origin.Sub(other.Origin)
	a := r.Direction.Dot(r.Direction)
	b := r.Direction.Dot(other.Direction)
	c := other.Direction.Dot(other.Direction)
	d := r.Direction.Dot(w)
	e := other.Direction.Dot(w)

	distSq := func(s, t float64) float64 {
		return r.At(s).Sub(other.At(t)).LenSqr()
	}

	// Unconstrained minimum of the lines, when it lies on both half-lines
	denom := a*c - b*b
	if denom > Epsilon {
		s := (b*e - c*d) / denom
		t := (a*e - b*d) / denom
		if s >= 0 && t >= 0 {
			return distSq(s, t)
		}
	}

	// Otherwise the minimum lies on the boundary s = 0 or t = 0
	t := 0.0
	if c > 0 {
		t = math.Max(0, e/c)
	}
	s := 0.0
	if a > 0 {
		s = math.Max(0, -d/a)
	}

	return math.Min(distSq(0, t), distSq(s, 0))
}

// ApplyMatrix4 transforms the origin as a point and the direction as a direction.
func (r *Ray) ApplyMatrix4(m mgl64.Mat4) {
	r.Origin = mgl64.TransformCoordinate(r.Origin, m)
	r.Direction = mgl64.TransformNormal(r.Direction, m).Normalize()
}

// Equals reports whether origin and direction match exactly.
func (r Ray) Equals(other Ray) bool {
	return r.Origin == other.Origin && r.Direction == other.Direction
}

// Kind implements Shape.
func (r Ray) Kind() Kind { return KindRay }

// Bounds implements Shape. The box is unbounded along every axis the ray moves on.
func (r Ray) Bounds() AABB {
	inf := math.Inf(1)
	b := AABB{Min: r.Origin, Max: r.Origin}
	for i := 0; i < 3; i++ {
		if r.Direction[i] > 0 {
			b.Max[i] = inf
		} else if r.Direction[i] < 0 {
			b.Min[i] = -inf
		}
	}
	return b
}

func (Ray) sealed() {}
