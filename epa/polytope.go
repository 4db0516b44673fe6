package epa

import (
	"fmt"
	"math"
	"sync"

	"github.com/akmonengine/prism/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle of the polytope, with its outward normal and its distance to the origin.
type Face struct {
	Points   [3]mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// edge is an undirected polytope edge.
type edge struct {
	a, b mgl64.Vec3
}

func (e edge) same(other edge) bool {
	return (e.a == other.a && e.b == other.b) || (e.a == other.b && e.b == other.a)
}

// polytope is the convex hull EPA grows inside the Minkowski difference.
// Every vertex ever added stays inside the hull, so their mean is an interior point.
type polytope struct {
	faces    []Face
	vertices []mgl64.Vec3
	horizon  []edge
	visible  []int
}

var polytopePool = sync.Pool{
	New: func() interface{} {
		return &polytope{
			faces:    make([]Face, 0, polytopeInitialCapacity*4),
			vertices: make([]mgl64.Vec3, 0, polytopeInitialCapacity*2),
			horizon:  make([]edge, 0, polytopeInitialCapacity*3),
			visible:  make([]int, 0, polytopeInitialCapacity),
		}
	},
}

func (p *polytope) reset() {
	p.faces = p.faces[:0]
	p.vertices = p.vertices[:0]
	p.horizon = p.horizon[:0]
	p.visible = p.visible[:0]
}

// init builds the four faces of a tetrahedron simplex.
func (p *polytope) init(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("invalid simplex count: %d (expected 4)", simplex.Count)
	}

	pts := simplex.Points
	p.vertices = append(p.vertices, pts[0], pts[1], pts[2], pts[3])
	p.faces = append(p.faces,
		newFace(pts[0], pts[1], pts[2], pts[3]),
		newFace(pts[0], pts[2], pts[3], pts[1]),
		newFace(pts[0], pts[3], pts[1], pts[2]),
		newFace(pts[1], pts[3], pts[2], pts[0]),
	)

	return nil
}

// newFace orients the triangle away from inside, then away from the origin. Faces
// through the origin get EPAMinFaceDistance, zero-area faces an arbitrary +Y normal.
func newFace(p0, p1, p2, inside mgl64.Vec3) Face {
	f := Face{Points: [3]mgl64.Vec3{p0, p1, p2}}

	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	length := normal.Len()
	if length < 1e-8 {
		f.Normal = mgl64.Vec3{0, 1, 0}
		f.Distance = EPAMinFaceDistance
		return f
	}
	normal = normal.Mul(1 / length)

	if normal.Dot(inside.Sub(p0)) > 0 {
		normal = normal.Mul(-1)
	}
	distance := normal.Dot(p0)
	if distance < 0 {
		normal, distance = normal.Mul(-1), -distance
	}

	f.Normal = snapNormalToAxis(normal)
	f.Distance = math.Max(distance, EPAMinFaceDistance)
	return f
}

// closest returns the index of the face nearest to the origin, -1 when there is none.
func (p *polytope) closest() int {
	best := -1
	for i := range p.faces {
		if best == -1 || p.faces[i].Distance < p.faces[best].Distance {
			best = i
		}
	}
	return best
}

// interior returns the mean of the vertices.
func (p *polytope) interior() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, v := range p.vertices {
		sum = sum.Add(v)
	}
	if len(p.vertices) == 0 {
		return sum
	}
	return sum.Mul(1 / float64(len(p.vertices)))
}

// expand adds support to the hull: faces it sees are removed and their horizon is
// stitched to it. When it sees none, or all, of them, only fallback is replaced.
func (p *polytope) expand(support mgl64.Vec3, fallback int) {
	inside := p.interior()

	p.visible = p.visible[:0]
	for i, f := range p.faces {
		if support.Sub(f.Points[0]).Dot(f.Normal) > 0 {
			p.visible = append(p.visible, i)
		}
	}
	if len(p.visible) == 0 || len(p.visible) == len(p.faces) {
		p.visible = append(p.visible[:0], fallback)
	}

	p.collectHorizon()

	// visible is ascending: removing from the back keeps the other indices valid
	for i := len(p.visible) - 1; i >= 0; i-- {
		last := len(p.faces) - 1
		p.faces[p.visible[i]] = p.faces[last]
		p.faces = p.faces[:last]
	}

	for _, e := range p.horizon {
		p.faces = append(p.faces, newFace(e.a, e.b, support, inside))
	}
	p.vertices = append(p.vertices, support)
}

// collectHorizon keeps the edges of the visible faces that only one of them owns.
func (p *polytope) collectHorizon() {
	p.horizon = p.horizon[:0]

	for _, i := range p.visible {
		pts := p.faces[i].Points
		for _, e := range [3]edge{{pts[0], pts[1]}, {pts[1], pts[2]}, {pts[2], pts[0]}} {
			shared := false
			for k := range p.horizon {
				if p.horizon[k].same(e) {
					last := len(p.horizon) - 1
					p.horizon[k] = p.horizon[last]
					p.horizon = p.horizon[:last]
					shared = true
					break
				}
			}
			if !shared {
				p.horizon = append(p.horizon, e)
			}
		}
	}
}

// snapNormalToAxis zeroes components below NormalSnapThreshold and renormalizes.
// Nothing left gives +Y.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length <= 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}
	return normal.Mul(1 / length)
}
