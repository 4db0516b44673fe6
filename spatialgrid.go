package prism

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/prism/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is the integer coordinate of a grid cell.
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the objects whose bounds touch it.
type Cell struct {
	indices []int
}

// candidate is a pair of object indices whose bounds overlap, with A < B.
type candidate struct {
	A, B int
}

// SpatialGrid is a uniform grid hashed into a fixed number of cells, used as the broad
// phase of Scene.Overlaps. Several cells of space may share a bucket; the bounds test
// filters the false positives.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
	inserted []int
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a grid of cellSize wide cells, numCells being rounded up to a
// power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo rounds n up to the next power of two.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Fits reports whether bounds can be inserted: finite, not empty, and covering no more
// cells than the grid holds. Other shapes are paired by brute force.
func (sg *SpatialGrid) Fits(bounds shape.AABB) bool {
	if bounds.IsEmpty() {
		return false
	}

	limit := float64(len(sg.cells))
	span := 1.0
	for i := 0; i < 3; i++ {
		if math.IsInf(bounds.Min[i], 0) || math.IsInf(bounds.Max[i], 0) {
			return false
		}
		span *= math.Floor(bounds.Max[i]/sg.cellSize) - math.Floor(bounds.Min[i]/sg.cellSize) + 1
		if span > limit {
			return false
		}
	}
	return true
}

// Insert adds the object index to every cell its bounds touch.
func (sg *SpatialGrid) Insert(index int, bounds shape.AABB) {
	minCell := sg.worldToCell(bounds.Min)
	maxCell := sg.worldToCell(bounds.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})
				sg.cells[cellIdx].indices = append(sg.cells[cellIdx].indices, index)
			}
		}
	}

	sg.inserted = append(sg.inserted, index)
}

// Clear empties every cell, keeping their capacity.
func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].indices = sg.cells[i].indices[:0]
	}
	sg.inserted = sg.inserted[:0]
}

// SortCells orders the indices of each cell.
func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].indices) > 1 {
			sort.Ints(sg.cells[i].indices)
		}
	}
}

// FindPairs returns the pairs of inserted objects whose bounds overlap, sequentially.
// bounds is indexed by object index.
func (sg *SpatialGrid) FindPairs(bounds []shape.AABB) []candidate {
	pairs := make([]candidate, 0, len(sg.inserted)/2)
	seen := make([]bool, len(bounds))

	for _, idx := range sg.inserted {
		pairs = sg.collect(idx, bounds, seen, pairs)
	}

	return pairs
}

// FindPairsParallel splits the inserted objects across numWorkers goroutines and streams
// the overlapping pairs. The channel is closed once every worker is done.
func (sg *SpatialGrid) FindPairsParallel(bounds []shape.AABB, numWorkers int) <-chan candidate {
	var wg sync.WaitGroup
	numWorkers = max(1, numWorkers)
	pairsChan := make(chan candidate, numWorkers*10)

	perWorker := (len(sg.inserted) + numWorkers - 1) / numWorkers
	if perWorker == 0 {
		perWorker = 1
	}

	for start := 0; start < len(sg.inserted); start += perWorker {
		wg.Add(1)

		go func(indices []int) {
			defer wg.Done()

			seen := make([]bool, len(bounds))
			var local []candidate
			for _, idx := range indices {
				local = sg.collect(idx, bounds, seen, local[:0])
				for _, p := range local {
					pairsChan <- p
				}
			}
		}(sg.inserted[start:min(start+perWorker, len(sg.inserted))])
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// collect appends to pairs every object sharing a cell with idx, with a higher index and
// overlapping bounds. seen is reset on return.
func (sg *SpatialGrid) collect(idx int, bounds []shape.AABB, seen []bool, pairs []candidate) []candidate {
	boundsA := bounds[idx]
	minCell := sg.worldToCell(boundsA.Min)
	maxCell := sg.worldToCell(boundsA.Max)

	var visited []int
	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})

				for _, otherIdx := range sg.cells[cellIdx].indices {
					// Each pair is reported once, by its lowest index
					if otherIdx <= idx || seen[otherIdx] {
						continue
					}
					seen[otherIdx] = true
					visited = append(visited, otherIdx)

					if boundsA.IntersectsBox(bounds[otherIdx]) {
						pairs = append(pairs, candidate{A: idx, B: otherIdx})
					}
				}
			}
		}
	}

	for _, v := range visited {
		seen[v] = false
	}
	return pairs
}

// worldToCell converts a world position to cell coordinates.
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell maps a cell to its bucket.
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
