package hyperbox

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/hyperbox/compact"
)

// ============================================================================
// Types
// ============================================================================

// CellKey holds the integer coordinates of a grid cell, one per axis.
type CellKey []int

// Cell holds the indices of the boxes overlapping it.
type Cell struct {
	boxIndices []int
}

// Pair is two intersecting boxes, identified by their index in the slice given to
// FindPairs. IndexA < IndexB.
type Pair struct {
	IndexA int
	IndexB int
}

// SpatialGrid is a uniform hashed grid over ℝⁿ used to find intersecting boxes without
// testing every pair.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// maxCellCoord bounds the cell coordinates a box may be walked over. Boxes reaching
// further, or with infinite corners, are placed in every bucket.
const maxCellCoord = 1 << 31

// cellPrimes spread each axis over the hash space.
var cellPrimes = [...]int{73856093, 19349663, 83492791, 25165843, 50331653, 100663319, 201326611, 402653189}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a grid of numCells buckets, rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].boxIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

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

// Insert registers box under index in every cell it overlaps.
func (sg *SpatialGrid) Insert(index int, box *compact.Compact) {
	sg.eachBoxCell(box, func(cellIdx int) {
		sg.cells[cellIdx].boxIndices = append(sg.cells[cellIdx].boxIndices, index)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].boxIndices = sg.cells[i].boxIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].boxIndices) > 1 {
			sort.Ints(sg.cells[i].boxIndices)
		}
	}
}

// FindPairs returns every intersecting pair among boxes, which must have been inserted
// under their slice index. Pairs are ordered by IndexA, then by discovery.
func (sg *SpatialGrid) FindPairs(boxes []*compact.Compact) []Pair {
	pairs := make([]Pair, 0, len(boxes)/2)
	seen := make([]bool, len(boxes))

	for boxIdx := range boxes {
		clear(seen)
		sg.visit(boxes, boxIdx, seen, func(p Pair) {
			pairs = append(pairs, p)
		})
	}

	return pairs
}

// FindPairsParallel splits the boxes among numWorkers goroutines. The channel is closed
// once every worker is done; pair order is not deterministic.
func (sg *SpatialGrid) FindPairsParallel(boxes []*compact.Compact, numWorkers int) <-chan Pair {
	var wg sync.WaitGroup
	numWorkers = max(1, numWorkers)
	pairsChan := make(chan Pair, numWorkers*10)

	boxesPerWorker := len(boxes) / numWorkers
	if boxesPerWorker == 0 {
		boxesPerWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		startIdx := w * boxesPerWorker
		if startIdx >= len(boxes) {
			break
		}
		endIdx := startIdx + boxesPerWorker
		if w == numWorkers-1 {
			endIdx = len(boxes)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(boxes))
			for boxIdx := start; boxIdx < end; boxIdx++ {
				clear(seen)
				sg.visit(boxes, boxIdx, seen, func(p Pair) {
					pairsChan <- p
				})
			}
		}(startIdx, endIdx)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// visit tests boxes[boxIdx] against every later box sharing one of its cells.
func (sg *SpatialGrid) visit(boxes []*compact.Compact, boxIdx int, seen []bool, emit func(Pair)) {
	boxA := boxes[boxIdx]

	sg.eachBoxCell(boxA, func(cellIdx int) {
		for _, otherIdx := range sg.cells[cellIdx].boxIndices {
			// (A,B) only, never (B,A); a box spanning several cells is tested once
			if otherIdx <= boxIdx || seen[otherIdx] {
				continue
			}
			seen[otherIdx] = true

			if ok, err := boxA.Intersects(boxes[otherIdx]); err == nil && ok {
				emit(Pair{IndexA: boxIdx, IndexB: otherIdx})
			}
		}
	})
}

// cellRange returns the cells holding the corners of box. bounded is false when a
// corner lies outside the cell coordinate range or when the box covers more cells than
// the grid has buckets.
func (sg *SpatialGrid) cellRange(box *compact.Compact) (minCell, maxCell CellKey, bounded bool) {
	begin, end := box.Begin(), box.End()
	defer begin.Close()
	defer end.Close()

	lo, hi := begin.Coords(), end.Coords()
	covered := 1.0
	for i := range lo {
		first, last := math.Floor(lo[i]/sg.cellSize), math.Floor(hi[i]/sg.cellSize)
		if !(math.Abs(first) <= maxCellCoord && math.Abs(last) <= maxCellCoord) {
			return nil, nil, false
		}
		covered *= last - first + 1
		if covered > float64(len(sg.cells)) {
			return nil, nil, false
		}
	}
	return sg.worldToCell(lo), sg.worldToCell(hi), true
}

// eachBoxCell calls fn with the bucket of every cell box overlaps, or with every bucket
// when its cell range is unbounded.
func (sg *SpatialGrid) eachBoxCell(box *compact.Compact, fn func(cellIdx int)) {
	minCell, maxCell, bounded := sg.cellRange(box)
	if !bounded {
		for i := range sg.cells {
			fn(i)
		}
		return
	}
	sg.eachCell(minCell, maxCell, fn)
}

// eachCell calls fn with the bucket of every cell between minCell and maxCell inclusive.
func (sg *SpatialGrid) eachCell(minCell, maxCell CellKey, fn func(cellIdx int)) {
	key := make(CellKey, len(minCell))
	copy(key, minCell)

	for {
		fn(sg.hashCell(key))

		axis := 0
		for ; axis < len(key); axis++ {
			if key[axis] < maxCell[axis] {
				key[axis]++
				break
			}
			key[axis] = minCell[axis]
		}
		if axis == len(key) {
			return
		}
	}
}

// worldToCell converts a position to the coordinates of the cell holding it.
func (sg *SpatialGrid) worldToCell(pos []float64) CellKey {
	key := make(CellKey, len(pos))
	for i, x := range pos {
		key[i] = int(math.Floor(x / sg.cellSize))
	}
	return key
}

// hashCell maps a cell to a bucket index.
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := 0
	for i, k := range key {
		h ^= k * cellPrimes[i%len(cellPrimes)] * (i/len(cellPrimes) + 1)
	}
	return h & sg.cellMask
}
