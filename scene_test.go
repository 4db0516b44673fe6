package prism

import (
	"testing"

	"github.com/akmonengine/prism/shape"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// hitIDs returns the IDs of the hits, in order.
func hitIDs(hits []Hit) []uint64 {
	ids := make([]uint64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids
}

// pairIDs returns the IDs of the pairs, in order.
func pairIDs(pairs []Pair) [][2]uint64 {
	ids := make([][2]uint64, len(pairs))
	for i, p := range pairs {
		ids[i] = [2]uint64{p.A.ID, p.B.ID}
	}
	return ids
}

// =============================================================================
// Object management Tests
// =============================================================================

func TestScene_AddGetRemove(t *testing.T) {
	scene := NewScene(2, nil, nil)

	idA := scene.Add(shape.NewSphere(mgl64.Vec3{}, 1))
	idB := scene.Add(shape.NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))
	idC := scene.Add(shape.NewPlane(mgl64.Vec3{0, 1, 0}, 0))

	assert.Equal(t, []uint64{1, 2, 3}, []uint64{idA, idB, idC})
	assert.Equal(t, uint64(0), scene.Add(nil))
	assert.Len(t, scene.Objects, 3)

	object, ok := scene.Get(idB)
	require.True(t, ok)
	assert.Equal(t, shape.KindBox, object.Shape.Kind())

	assert.True(t, scene.Remove(idB))
	assert.False(t, scene.Remove(idB))
	_, ok = scene.Get(idB)
	assert.False(t, ok)

	object, ok = scene.Get(idC)
	require.True(t, ok)
	assert.Equal(t, shape.KindPlane, object.Shape.Kind())

	// IDs are never reused
	assert.Equal(t, uint64(4), scene.Add(shape.NewSphere(mgl64.Vec3{}, 1)))
}

func TestNewScene_Defaults(t *testing.T) {
	scene := NewScene(0, nil, nil)

	assert.Equal(t, DEFAULT_WORKERS, scene.Workers)
	assert.NotNil(t, scene.SpatialGrid)
	assert.NotNil(t, scene.Logger)
}

// =============================================================================
// Raycast Tests
// =============================================================================

// rayScene lines up shapes along the x axis: a box at 2, a plane at 5, a triangle
// facing +x at 7, a sphere reached at 9, and a sphere off the axis.
func rayScene(workers int) *Scene {
	scene := NewScene(workers, nil, nil)
	scene.Add(shape.NewSphere(mgl64.Vec3{10, 0, 0}, 1))
	scene.Add(shape.NewAABB(mgl64.Vec3{2, -1, -1}, mgl64.Vec3{3, 1, 1}))
	scene.Add(shape.NewPlane(mgl64.Vec3{1, 0, 0}, -5))
	scene.Add(shape.NewSphere(mgl64.Vec3{0, 5, 0}, 1))
	scene.Add(shape.NewTriangle(mgl64.Vec3{7, -1, -1}, mgl64.Vec3{7, 1, -1}, mgl64.Vec3{7, 0, 1}))
	return scene
}

func TestScene_Raycast(t *testing.T) {
	ray := shape.NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})

	tests := []struct {
		name      string
		culling   bool
		ids       []uint64
		distances []float64
	}{
		{"without culling", false, []uint64{2, 3, 5, 1}, []float64{2, 5, 7, 9}},
		{"with culling", true, []uint64{2, 3, 1}, []float64{2, 5, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, workers := range []int{1, 3, 8} {
				scene := rayScene(workers)
				scene.BackfaceCulling = tt.culling

				hits := scene.Raycast(ray)
				require.Equal(t, tt.ids, hitIDs(hits), "workers = %d", workers)
				for i, h := range hits {
					assert.InDelta(t, tt.distances[i], h.Distance, 1e-9)
					assert.InDelta(t, tt.distances[i], h.Point.X(), 1e-9)
				}
			}
		})
	}
}

func TestScene_RaycastTiesOrderedByID(t *testing.T) {
	scene := NewScene(4, nil, nil)
	for i := 0; i < 5; i++ {
		scene.Add(shape.NewAABB(mgl64.Vec3{1, -1, -1}, mgl64.Vec3{2, 1, 1}))
	}

	hits := scene.Raycast(shape.NewRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}))

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, hitIDs(hits))
}

func TestScene_RaycastSkipsEmptySphere(t *testing.T) {
	scene := NewScene(1, nil, nil)
	scene.Add(shape.EmptySphere())

	hits := scene.Raycast(shape.NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1}))

	assert.Empty(t, hits)
}

func TestScene_Pick(t *testing.T) {
	scene := rayScene(2)

	hit, ok := scene.Pick(shape.NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}))
	require.True(t, ok)
	assert.Equal(t, uint64(2), hit.ID)
	assert.Equal(t, shape.KindBox, hit.Shape.Kind())
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, hit.Point)

	_, ok = scene.Pick(shape.NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{-1, 0, 0}))
	assert.False(t, ok)

	empty := NewScene(1, nil, nil)
	_, ok = empty.Pick(shape.NewRay(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}))
	assert.False(t, ok)
}

// =============================================================================
// Overlaps Tests
// =============================================================================

// overlapScene holds a box on the ground, a sphere touching both, a ray through the box
// and the sphere, and two shapes far away.
func overlapScene(scene *Scene) {
	scene.Add(shape.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}))
	scene.Add(shape.NewSphere(mgl64.Vec3{1.5, 0.5, 0.5}, 0.6))
	scene.Add(shape.NewPlane(mgl64.Vec3{0, 1, 0}, 0))
	scene.Add(shape.NewSphere(mgl64.Vec3{10, 10, 10}, 1))
	scene.Add(shape.NewRay(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}))
	scene.Add(shape.NewAABB(mgl64.Vec3{20, 20, 20}, mgl64.Vec3{21, 21, 21}))
}

func TestScene_Overlaps(t *testing.T) {
	expected := [][2]uint64{{1, 2}, {1, 3}, {1, 5}, {2, 3}, {2, 5}}

	tests := []struct {
		name  string
		scene *Scene
	}{
		{"one worker", NewScene(1, nil, nil)},
		{"many workers", NewScene(8, nil, nil)},
		{"small grid", NewScene(4, NewSpatialGrid(0.5, 16), nil)},
		{"zero scene", &Scene{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlapScene(tt.scene)
			assert.Equal(t, expected, pairIDs(tt.scene.Overlaps()))
		})
	}
}

func TestScene_OverlapsSkipsEmptyShapes(t *testing.T) {
	scene := NewScene(2, nil, nil)
	scene.Add(shape.EmptyAABB())
	scene.Add(shape.EmptySphere())
	scene.Add(shape.NewPlane(mgl64.Vec3{0, 1, 0}, 0))

	assert.Empty(t, scene.Overlaps())
}

// =============================================================================
// Update Tests
// =============================================================================

func TestScene_UpdateEvents(t *testing.T) {
	scene := NewScene(2, nil, nil)
	overlapScene(scene)

	enter := &eventCapture{}
	stay := &eventCapture{}
	exit := &eventCapture{}
	scene.Events.Subscribe(OVERLAP_ENTER, enter.capture)
	scene.Events.Subscribe(OVERLAP_STAY, stay.capture)
	scene.Events.Subscribe(OVERLAP_EXIT, exit.capture)

	scene.Update()
	assert.Equal(t, 5, enter.count())
	assert.Equal(t, 0, stay.count())

	// Removing the sphere ends its three overlaps
	require.True(t, scene.Remove(2))
	enter.reset()
	pairs := scene.Update()

	assert.Equal(t, [][2]uint64{{1, 3}, {1, 5}}, pairIDs(pairs))
	assert.Equal(t, 0, enter.count())
	assert.Equal(t, 2, stay.count())
	assert.Equal(t, []Event{
		OverlapExitEvent{IdA: 1, IdB: 2},
		OverlapExitEvent{IdA: 2, IdB: 3},
		OverlapExitEvent{IdA: 2, IdB: 5},
	}, exit.events)
}

func TestScene_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	scene := NewScene(1, nil, zap.New(core))

	scene.Add(shape.NewSphere(mgl64.Vec3{}, 1))
	scene.Raycast(shape.NewRay(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}))
	scene.Overlaps()

	assert.Equal(t, 1, logs.FilterMessage("shape added").Len())
	raycasts := logs.FilterMessage("raycast").All()
	require.Len(t, raycasts, 1)
	assert.Equal(t, int64(1), raycasts[0].ContextMap()["hits"])
	assert.Equal(t, 1, logs.FilterMessage("overlaps").Len())
}
