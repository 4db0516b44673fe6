package shape

import (
	"math"

	"github.com/akmonengine/prism/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// OrientedBox represents a box rotated in space.
// The box is defined by its half-extents (half-width, half-height, half-depth) around the
// transform position.
type OrientedBox struct {
	HalfExtents mgl64.Vec3
	Transform   Transform
}

// NewOrientedBox returns the box of halfExtents centered on center and rotated by rotation.
func NewOrientedBox(center, halfExtents mgl64.Vec3, rotation mgl64.Quat) OrientedBox {
	return OrientedBox{
		HalfExtents: halfExtents,
		Transform:   Transform{Position: center, Rotation: rotation},
	}
}

// local returns the box in its own frame.
func (o OrientedBox) local() AABB {
	return AABB{Min: o.HalfExtents.Mul(-1), Max: o.HalfExtents}
}

// Corners returns the 8 corners of the box in world space.
func (o OrientedBox) Corners() [8]mgl64.Vec3 {
	hx, hy, hz := o.HalfExtents.X(), o.HalfExtents.Y(), o.HalfExtents.Z()
	corners := [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}
	for i := range corners {
		corners[i] = o.Transform.Apply(corners[i])
	}
	return corners
}

// Axes returns the world space directions of the box local x, y and z axes.
func (o OrientedBox) Axes() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		o.Transform.Rotation.Rotate(mgl64.Vec3{1, 0, 0}),
		o.Transform.Rotation.Rotate(mgl64.Vec3{0, 1, 0}),
		o.Transform.Rotation.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

// ContainsPoint checks if point lies inside the box, boundary included.
func (o OrientedBox) ContainsPoint(point mgl64.Vec3) bool {
	return o.local().ContainsPoint(o.Transform.ApplyInverse(point))
}

// ClampPoint returns the point of the box closest to point.
func (o OrientedBox) ClampPoint(point mgl64.Vec3) mgl64.Vec3 {
	return o.Transform.Apply(o.local().ClampPoint(o.Transform.ApplyInverse(point)))
}

// IntersectRay returns the nearest point of the box hit by r.
// The ray is moved into the box frame, where the box is axis aligned. Rotations keep
// lengths, so the hit parameter is the same in both frames.
func (o OrientedBox) IntersectRay(r Ray) (mgl64.Vec3, bool) {
	local := Ray{
		Origin:    o.Transform.ApplyInverse(r.Origin),
		Direction: o.Transform.Rotation.Inverse().Rotate(r.Direction),
	}

	hit, ok := local.IntersectBox(o.local())
	if !ok {
		return mgl64.Vec3{}, false
	}
	return o.Transform.Apply(hit), true
}

// IntersectsRay checks if r hits the box.
func (o OrientedBox) IntersectsRay(r Ray) bool {
	_, ok := o.IntersectRay(r)
	return ok
}

// IntersectsPlane checks if the plane passes through the box.
func (o OrientedBox) IntersectsPlane(p Plane) bool {
	axes := o.Axes()
	r := o.HalfExtents.X()*math.Abs(p.Normal.Dot(axes[0])) +
		o.HalfExtents.Y()*math.Abs(p.Normal.Dot(axes[1])) +
		o.HalfExtents.Z()*math.Abs(p.Normal.Dot(axes[2]))

	return math.Abs(p.DistanceToPoint(o.Transform.Position)) <= r
}

// IntersectsSphere checks if s overlaps the box.
func (o OrientedBox) IntersectsSphere(s Sphere) bool {
	local := Sphere{Center: o.Transform.ApplyInverse(s.Center), Radius: s.Radius}
	return o.local().IntersectsSphere(local)
}

// IntersectsTriangle checks if t overlaps the box, running the box/triangle separating
// axis test in the box frame.
func (o OrientedBox) IntersectsTriangle(t Triangle) bool {
	local := Triangle{
		A: o.Transform.ApplyInverse(t.A),
		B: o.Transform.ApplyInverse(t.B),
		C: o.Transform.ApplyInverse(t.C),
	}
	return o.local().IntersectsTriangle(local)
}

// IntersectsBox checks if the axis-aligned box overlaps this one.
func (o OrientedBox) IntersectsBox(box AABB) bool {
	if box.IsEmpty() || !o.Bounds().IntersectsBox(box) {
		return false
	}
	return gjk.Intersects(o, box)
}

// IntersectsOrientedBox checks if two oriented boxes overlap.
func (o OrientedBox) IntersectsOrientedBox(other OrientedBox) bool {
	if !o.Bounds().IntersectsBox(other.Bounds()) {
		return false
	}
	return gjk.Intersects(o, other)
}

// Support returns the corner of the box furthest along direction.
func (o OrientedBox) Support(direction mgl64.Vec3) mgl64.Vec3 {
	localDirection := o.Transform.Rotation.Inverse().Rotate(direction)
	return o.Transform.Apply(o.local().Support(localDirection))
}

// Centroid returns the center of the box.
func (o OrientedBox) Centroid() mgl64.Vec3 {
	return o.Transform.Position
}

// Kind implements Shape.
func (o OrientedBox) Kind() Kind { return KindOrientedBox }

// Bounds implements Shape. The corners are re-bounded after rotation.
func (o OrientedBox) Bounds() AABB {
	corners := o.Corners()
	return AABBFromPoints(corners[:]...)
}

func (OrientedBox) sealed() {}
