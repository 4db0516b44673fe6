package prism

import (
	"sort"
	"sync"

	"github.com/akmonengine/prism/shape"
)

// Pair represents two objects whose shapes intersect, ordered by ID.
type Pair struct {
	A Object
	B Object
}

// BroadPhase returns the pairs of objects whose bounds overlap.
// Objects fitting in the grid are paired through it. The others (planes, rays, shapes
// wider than the whole grid) are tested against every non-empty object.
func BroadPhase(spatialGrid *SpatialGrid, objects []Object, workersCount int) <-chan candidate {
	bounds := make([]shape.AABB, len(objects))
	task(workersCount, objects, func(i int, object Object) {
		bounds[i] = object.Shape.Bounds()
	})

	var loose []int
	if spatialGrid != nil {
		spatialGrid.Clear()
	}
	for i, b := range bounds {
		switch {
		case b.IsEmpty():
			// An empty shape intersects nothing
		case spatialGrid != nil && spatialGrid.Fits(b):
			spatialGrid.Insert(i, b)
		default:
			loose = append(loose, i)
		}
	}

	if spatialGrid == nil {
		return loosePairs(loose, bounds, nil)
	}
	spatialGrid.SortCells()

	return loosePairs(loose, bounds, spatialGrid.FindPairsParallel(bounds, workersCount))
}

// loosePairs forwards the grid pairs and adds those involving a loose object.
// The returned channel is closed once both are exhausted.
func loosePairs(loose []int, bounds []shape.AABB, gridPairs <-chan candidate) <-chan candidate {
	out := make(chan candidate, 64)

	isLoose := make([]bool, len(bounds))
	for _, i := range loose {
		isLoose[i] = true
	}

	go func() {
		defer close(out)

		for _, i := range loose {
			for j, b := range bounds {
				// Two loose objects are paired once, by the lowest index
				if j == i || (isLoose[j] && j < i) || b.IsEmpty() {
					continue
				}
				if bounds[i].IntersectsBox(b) {
					out <- candidate{A: min(i, j), B: max(i, j)}
				}
			}
		}

		if gridPairs != nil {
			for p := range gridPairs {
				out <- p
			}
		}
	}()

	return out
}

// NarrowPhase runs the exact intersection test on every candidate across workersCount
// goroutines, and returns the intersecting pairs ordered by IDs.
func NarrowPhase(objects []Object, candidates <-chan candidate, workersCount int) []Pair {
	workersCount = max(DEFAULT_WORKERS, workersCount)
	pairsChan := make(chan Pair, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(pairsChan)

		for i := 0; i < workersCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for c := range candidates {
					a, b := objects[c.A], objects[c.B]
					if !shape.Intersects(a.Shape, b.Shape) {
						continue
					}
					if b.ID < a.ID {
						a, b = b, a
					}
					pairsChan <- Pair{A: a, B: b}
				}
			}()
		}
		wg.Wait()
	}()

	pairs := make([]Pair, 0)
	for p := range pairsChan {
		pairs = append(pairs, p)
	}
	sortPairs(pairs)

	return pairs
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A.ID != pairs[j].A.ID {
			return pairs[i].A.ID < pairs[j].A.ID
		}
		return pairs[i].B.ID < pairs[j].B.ID
	})
}
