package shape

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond is a unit cube turned 45 degrees around z: its cross-section in z is the
// square |x| + |y| <= sqrt(2).
func diamond(center mgl64.Vec3) OrientedBox {
	return NewOrientedBox(center, mgl64.Vec3{1, 1, 1}, mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}))
}

func TestTransformApply(t *testing.T) {
	tr := Transform{
		Position: mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
	}

	world := tr.Apply(mgl64.Vec3{1, 0, 0})
	assert.True(t, vec3Equal(world, mgl64.Vec3{1, 3, 3}, 1e-9), "world = %v", world)
	assert.True(t, vec3Equal(tr.ApplyInverse(world), mgl64.Vec3{1, 0, 0}, 1e-9))

	viaMatrix := mgl64.TransformCoordinate(mgl64.Vec3{1, 0, 0}, tr.Mat4())
	assert.True(t, vec3Equal(viaMatrix, world, 1e-9))

	identity := NewTransform()
	assert.Equal(t, mgl64.Vec3{4, 5, 6}, identity.Apply(mgl64.Vec3{4, 5, 6}))
}

func TestOrientedBoxContainsPoint(t *testing.T) {
	d := diamond(mgl64.Vec3{})

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected bool
	}{
		{"center", mgl64.Vec3{0, 0, 0}, true},
		{"beyond the unrotated face", mgl64.Vec3{1.2, 0, 0}, true},
		{"unrotated corner", mgl64.Vec3{1, 1, 0}, false},
		{"above", mgl64.Vec3{0, 0, 1.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.ContainsPoint(tt.point))
		})
	}
}

func TestOrientedBoxGeometry(t *testing.T) {
	d := diamond(mgl64.Vec3{})

	b := d.Bounds()
	assert.True(t, vec3Equal(b.Max, mgl64.Vec3{math.Sqrt2, math.Sqrt2, 1}, 1e-9), "max = %v", b.Max)
	assert.True(t, vec3Equal(b.Min, mgl64.Vec3{-math.Sqrt2, -math.Sqrt2, -1}, 1e-9), "min = %v", b.Min)

	for _, c := range d.Corners() {
		assert.True(t, floatEqual(c.Sub(d.Centroid()).Len(), math.Sqrt(3), 1e-9))
	}

	axes := d.Axes()
	assert.True(t, floatEqual(axes[0].Dot(axes[1]), 0, 1e-12))
	assert.True(t, vec3Equal(axes[2], mgl64.Vec3{0, 0, 1}, 1e-12))

	support := d.Support(mgl64.Vec3{1, 0, 0})
	assert.True(t, floatEqual(support.X(), math.Sqrt2, 1e-9), "support = %v", support)

	upright := NewOrientedBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent())
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, upright.ClampPoint(mgl64.Vec3{3, 0, 0}))
}

func TestOrientedBoxIntersectRay(t *testing.T) {
	// Long box standing along y once turned
	box := NewOrientedBox(mgl64.Vec3{}, mgl64.Vec3{2, 1, 1}, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

	tests := []struct {
		name     string
		ray      Ray
		expected mgl64.Vec3
		hit      bool
	}{
		{"head on", NewRay(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{1, 0, 0}), mgl64.Vec3{-1, 0, 0}, true},
		{"along the long side", NewRay(mgl64.Vec3{-5, 1.5, 0}, mgl64.Vec3{1, 0, 0}), mgl64.Vec3{-1, 1.5, 0}, true},
		{"past the end", NewRay(mgl64.Vec3{-5, 2.5, 0}, mgl64.Vec3{1, 0, 0}), mgl64.Vec3{}, false},
		{"from above", NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1}), mgl64.Vec3{0, 0, 1}, true},
		{"pointing away", NewRay(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{-1, 0, 0}), mgl64.Vec3{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, ok := box.IntersectRay(tt.ray)
			require.Equal(t, tt.hit, ok)
			assert.Equal(t, tt.hit, box.IntersectsRay(tt.ray))
			if ok {
				assert.True(t, vec3Equal(point, tt.expected, 1e-9), "point = %v", point)
			}
		})
	}
}

func TestOrientedBoxIntersectsPlaneAndSphere(t *testing.T) {
	d := diamond(mgl64.Vec3{})

	assert.True(t, d.IntersectsPlane(NewPlane(mgl64.Vec3{1, 0, 0}, -1.3)))
	assert.False(t, d.IntersectsPlane(NewPlane(mgl64.Vec3{1, 0, 0}, -1.5)))
	assert.True(t, d.IntersectsPlane(NewPlane(mgl64.Vec3{0, 0, 1}, -0.9)))
	assert.False(t, d.IntersectsPlane(NewPlane(mgl64.Vec3{0, 0, 1}, -1.1)))

	assert.True(t, d.IntersectsSphere(NewSphere(mgl64.Vec3{1.3, 0, 0}, 0.05)))
	assert.False(t, d.IntersectsSphere(NewSphere(mgl64.Vec3{1.6, 0, 0}, 0.1)))
	assert.False(t, d.IntersectsSphere(NewSphere(mgl64.Vec3{1.2, 1.2, 0}, 0.5)))
}

func TestOrientedBoxIntersectsTriangle(t *testing.T) {
	d := diamond(mgl64.Vec3{})

	near := NewTriangle(mgl64.Vec3{1.3, 0, 0}, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{3, 1, 0})
	far := NewTriangle(mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{3, 1, 0})

	assert.True(t, d.IntersectsTriangle(near))
	assert.False(t, d.IntersectsTriangle(far))
}

func TestOrientedBoxIntersectsBox(t *testing.T) {
	d := diamond(mgl64.Vec3{})

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"reaching the tip", NewAABB(mgl64.Vec3{1.2, -0.1, -0.1}, mgl64.Vec3{2, 0.1, 0.1}), true},
		{"beyond the tip", NewAABB(mgl64.Vec3{1.5, -0.1, -0.1}, mgl64.Vec3{2, 0.1, 0.1}), false},
		{"bounds overlap, shapes do not", NewAABB(mgl64.Vec3{1.1, 1.1, -1}, mgl64.Vec3{2, 2, 1}), false},
		{"enclosing", NewAABB(mgl64.Vec3{-5, -5, -5}, mgl64.Vec3{5, 5, 5}), true},
		{"empty", EmptyAABB(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.IntersectsBox(tt.box))
		})
	}
}

func TestOrientedBoxIntersectsOrientedBox(t *testing.T) {
	d := diamond(mgl64.Vec3{})

	tests := []struct {
		name     string
		other    OrientedBox
		expected bool
	}{
		{"tips overlapping", diamond(mgl64.Vec3{2.5, 0, 0}), true},
		{"tips apart", diamond(mgl64.Vec3{3, 0, 0}), false},
		{"upright box against the tip", NewOrientedBox(mgl64.Vec3{2.3, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()), true},
		{"upright box off the edge", NewOrientedBox(mgl64.Vec3{2.2, 2.2, 0}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()), false},
		{"same box", d, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.IntersectsOrientedBox(tt.other))
			assert.Equal(t, tt.expected, tt.other.IntersectsOrientedBox(d))
		})
	}
}
