// Package prism gathers shapes of the kernel into a Scene and answers batch queries on
// them: ray casts against every object and the list of intersecting pairs.
package prism

import (
	"sort"

	"github.com/akmonengine/prism/shape"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const DEFAULT_WORKERS = 1

const (
	DEFAULT_CELL_SIZE = 4.0
	DEFAULT_CELLS     = 1024
)

// Object is a shape registered in a Scene.
type Object struct {
	ID    uint64
	Shape shape.Shape
}

// Hit is the first point where a ray meets an object.
type Hit struct {
	ID       uint64
	Shape    shape.Shape
	Point    mgl64.Vec3
	Distance float64
}

type Scene struct {
	// Objects in insertion order
	Objects     []Object
	Workers     int
	SpatialGrid *SpatialGrid
	// BackfaceCulling makes ray casts ignore triangles seen from behind
	BackfaceCulling bool
	Logger          *zap.Logger

	Events Events

	nextID uint64
}

// NewScene creates an empty scene. A nil grid gets the default one, a nil logger
// discards everything.
func NewScene(workers int, grid *SpatialGrid, logger *zap.Logger) *Scene {
	if grid == nil {
		grid = NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_CELLS)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scene{
		Workers:     max(DEFAULT_WORKERS, workers),
		SpatialGrid: grid,
		Logger:      logger,
		Events:      NewEvents(),
	}
}

// Add registers a shape and returns its ID. IDs start at 1 and are never reused.
// A nil shape is ignored and gets ID 0.
func (s *Scene) Add(sh shape.Shape) uint64 {
	if sh == nil {
		return 0
	}

	s.nextID++
	s.Objects = append(s.Objects, Object{ID: s.nextID, Shape: sh})
	s.logger().Debug("shape added", zap.Uint64("id", s.nextID), zap.Stringer("kind", sh.Kind()))

	return s.nextID
}

// Remove deletes the object with the given ID, and reports whether it existed.
// Active overlaps involving it are reported as exits on the next Update.
func (s *Scene) Remove(id uint64) bool {
	k := -1
	for i, o := range s.Objects {
		if o.ID == id {
			k = i
			break
		}
	}

	if k == -1 {
		return false
	}

	s.Objects = append(s.Objects[:k], s.Objects[k+1:]...)
	s.Events.forget(id)
	s.logger().Debug("shape removed", zap.Uint64("id", id))

	return true
}

// Get returns the object with the given ID.
func (s *Scene) Get(id uint64) (Object, bool) {
	// Objects are sorted by ID since they are appended with increasing IDs
	i := sort.Search(len(s.Objects), func(i int) bool { return s.Objects[i].ID >= id })
	if i < len(s.Objects) && s.Objects[i].ID == id {
		return s.Objects[i], true
	}
	return Object{}, false
}

// Raycast returns every object hit by the ray, nearest first. Hits at the same distance
// are ordered by ID.
func (s *Scene) Raycast(ray shape.Ray) []Hit {
	results := make([]Hit, len(s.Objects))
	found := make([]bool, len(s.Objects))

	task(s.workers(), s.Objects, func(i int, o Object) {
		point, ok := shape.Raycast(ray, o.Shape, s.BackfaceCulling)
		if !ok {
			return
		}
		results[i] = Hit{
			ID:       o.ID,
			Shape:    o.Shape,
			Point:    point,
			Distance: point.Sub(ray.Origin).Len(),
		}
		found[i] = true
	})

	hits := make([]Hit, 0)
	for i, ok := range found {
		if ok {
			hits = append(hits, results[i])
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})

	s.logger().Debug("raycast",
		zap.Float64s("origin", ray.Origin[:]),
		zap.Float64s("direction", ray.Direction[:]),
		zap.Int("objects", len(s.Objects)),
		zap.Int("hits", len(hits)),
	)

	return hits
}

// Pick returns the nearest object hit by the ray.
func (s *Scene) Pick(ray shape.Ray) (Hit, bool) {
	hits := s.Raycast(ray)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// Overlaps returns every pair of intersecting objects, ordered by IDs.
func (s *Scene) Overlaps() []Pair {
	workers := s.workers()
	pairs := NarrowPhase(s.Objects, BroadPhase(s.SpatialGrid, s.Objects, workers), workers)

	s.logger().Debug("overlaps",
		zap.Int("objects", len(s.Objects)),
		zap.Int("pairs", len(pairs)),
	)

	return pairs
}

// Contacts returns the penetration of every intersecting pair of solid objects,
// ordered by IDs. Planes count as half-spaces behind their normal.
func (s *Scene) Contacts() []Contact {
	contacts := Penetrations(s.Overlaps(), s.workers(), s.logger())

	s.logger().Debug("contacts", zap.Int("contacts", len(contacts)))

	return contacts
}

// Update computes the overlaps and sends the enter, stay and exit events to the
// subscribed listeners.
func (s *Scene) Update() []Pair {
	pairs := s.Overlaps()

	s.Events.recordOverlaps(pairs)
	s.Events.flush()

	return pairs
}

func (s *Scene) workers() int {
	return max(DEFAULT_WORKERS, s.Workers)
}

func (s *Scene) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
