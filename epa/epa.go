// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA is run after GJK detects an overlap to determine:
//   - Penetration depth (how far shapes overlap)
//   - Contact normal (direction to separate shapes)
//
// The algorithm expands a polytope (starting from GJK's final simplex) toward the origin
// in the Minkowski difference space, finding the closest face which gives the Minimum
// Translation Vector (MTV) separating the shapes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"fmt"
	"math"

	"github.com/akmonengine/prism/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations limits polytope expansion to prevent infinite loops.
	// Typical convergence: 5-15 iterations for simple shapes.
	EPAMaxIterations = 32

	// EPAConvergenceTolerance defines when EPA has converged: a new support point
	// improving the closest distance by less than this ends the expansion.
	EPAConvergenceTolerance = 0.001

	// EPAMinFaceDistance is the distance given to faces touching the origin.
	EPAMinFaceDistance = 0.0001

	// NormalSnapThreshold is used to clamp nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-8

	// expandTolerance is how far a new point must lie from the simplex to extend it.
	expandTolerance = 1e-6

	polytopeInitialCapacity = 4
)

// Contact describes how two overlapping convex shapes penetrate.
type Contact struct {
	// Normal points from A toward B: moving B by Normal*Depth separates them.
	Normal mgl64.Vec3
	Depth  float64
	// Point is halfway between the deepest points of A and B along Normal.
	Point mgl64.Vec3
}

// EPA computes penetration depth and contact normal of overlapping convex shapes, from
// the simplex left by gjk.GJK. Simplices with fewer than 4 points are first grown into a
// tetrahedron around the same origin; flat overlaps fall back to an estimate from the
// simplex itself.
//
// The simplex is modified. An error is returned when the expansion does not converge.
func EPA(a, b gjk.Convex, simplex *gjk.Simplex) (Contact, error) {
	if simplex.Count < 4 && !expandSimplex(a, b, simplex) {
		return handleDegenerateSimplex(a, b, simplex), nil
	}

	poly := polytopePool.Get().(*polytope)
	defer polytopePool.Put(poly)
	poly.reset()

	if err := poly.init(simplex); err != nil {
		return Contact{}, err
	}

	for i := 0; i < EPAMaxIterations; i++ {
		closestFaceIndex := poly.closest()
		if closestFaceIndex < 0 {
			break
		}
		closestFace := poly.faces[closestFaceIndex]

		support := gjk.MinkowskiSupport(a, b, closestFace.Normal)
		distance := support.Dot(closestFace.Normal)

		if distance-closestFace.Distance < EPAConvergenceTolerance {
			return newContact(a, b, closestFace.Normal, closestFace.Distance), nil
		}

		poly.expand(support, closestFaceIndex)
	}

	return Contact{}, fmt.Errorf("EPA failed to converge after %d iterations", EPAMaxIterations)
}

func newContact(a, b gjk.Convex, normal mgl64.Vec3, depth float64) Contact {
	deepestA := a.Support(normal)
	deepestB := b.Support(normal.Mul(-1))

	return Contact{
		Normal: normal,
		Depth:  depth,
		Point:  deepestA.Add(deepestB).Mul(0.5),
	}
}

// expandSimplex adds support points to the simplex until it is a tetrahedron with
// volume. It returns false when the Minkowski difference is too flat for it.
func expandSimplex(a, b gjk.Convex, simplex *gjk.Simplex) bool {
	for simplex.Count < 4 {
		var added bool

		switch simplex.Count {
		case 0:
			return false
		case 1:
			added = expandPoint(a, b, simplex)
		case 2:
			added = expandLine(a, b, simplex)
		case 3:
			added = expandTriangle(a, b, simplex)
		}

		if !added {
			return false
		}
	}

	return true
}

var searchAxes = [6]mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

func expandPoint(a, b gjk.Convex, simplex *gjk.Simplex) bool {
	origin := simplex.Points[0]

	for _, axis := range searchAxes {
		p := gjk.MinkowskiSupport(a, b, axis)
		if p.Sub(origin).Len() > expandTolerance {
			simplex.Points[1] = p
			simplex.Count = 2
			return true
		}
	}

	return false
}

func expandLine(a, b gjk.Convex, simplex *gjk.Simplex) bool {
	start := simplex.Points[0]
	line := simplex.Points[1].Sub(start)
	lineDir := line.Normalize()

	// Start from the axis least aligned with the line
	axis := mgl64.Vec3{1, 0, 0}
	if math.Abs(line.Y()) < math.Abs(line.X()) && math.Abs(line.Y()) <= math.Abs(line.Z()) {
		axis = mgl64.Vec3{0, 1, 0}
	} else if math.Abs(line.Z()) < math.Abs(line.X()) {
		axis = mgl64.Vec3{0, 0, 1}
	}
	direction := line.Cross(axis)
	rotation := mgl64.QuatRotate(math.Pi/3, lineDir)

	for i := 0; i < 6; i++ {
		p := gjk.MinkowskiSupport(a, b, direction)

		offset := p.Sub(start)
		if offset.Sub(lineDir.Mul(offset.Dot(lineDir))).Len() > expandTolerance {
			simplex.Points[2] = p
			simplex.Count = 3
			return true
		}

		direction = rotation.Rotate(direction)
	}

	return false
}

func expandTriangle(a, b gjk.Convex, simplex *gjk.Simplex) bool {
	p0 := simplex.Points[0]
	normal := simplex.Points[1].Sub(p0).Cross(simplex.Points[2].Sub(p0))
	if normal.Len() < 1e-12 {
		return false
	}
	normal = normal.Normalize()

	for _, direction := range [2]mgl64.Vec3{normal, normal.Mul(-1)} {
		p := gjk.MinkowskiSupport(a, b, direction)
		if math.Abs(p.Sub(p0).Dot(normal)) > expandTolerance {
			simplex.Points[3] = p
			simplex.Count = 4
			return true
		}
	}

	return false
}

// handleDegenerateSimplex estimates the contact when the simplex cannot be grown into a
// tetrahedron, as for shapes meeting on a flat region.
//
// Cases:
//   - 2+ points: the point closest to the origin gives depth and normal
//   - 1 point: the shapes touch, the normal follows their centroids
func handleDegenerateSimplex(a, b gjk.Convex, simplex *gjk.Simplex) Contact {
	if simplex.Count >= 2 {
		closest := simplex.Points[0]
		for i := 1; i < simplex.Count; i++ {
			if simplex.Points[i].Len() < closest.Len() {
				closest = simplex.Points[i]
			}
		}

		if depth := closest.Len(); depth > NormalSnapThreshold {
			return newContact(a, b, snapNormalToAxis(closest.Mul(1/depth)), depth)
		}
	}

	normal := b.Centroid().Sub(a.Centroid())
	normalLen := normal.Len()

	if normalLen < NormalSnapThreshold {
		// Same centroid, use default upward direction
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Mul(1.0 / normalLen)
	}

	return newContact(a, b, normal, 0)
}
