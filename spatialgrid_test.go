package hyperbox

import (
	"math"
	"sort"
	"testing"

	"github.com/akmonengine/hyperbox/compact"
	"github.com/akmonengine/hyperbox/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBox(t testing.TB, center []float64, halfExtent float64) *compact.Compact {
	t.Helper()
	begin := make([]float64, len(center))
	end := make([]float64, len(center))
	for i, c := range center {
		begin[i] = c - halfExtent
		end[i] = c + halfExtent
	}
	return createBox(t, begin, end)
}

func createBox(t testing.TB, begin, end []float64) *compact.Compact {
	t.Helper()
	b, err := vector.FromSlice(begin, nil)
	require.NoError(t, err)
	e, err := vector.FromSlice(end, nil)
	require.NoError(t, err)

	box, err := compact.New(b, e, DEFAULT_TOLERANCE, nil)
	require.NoError(t, err)
	return box
}

// cellsHolding counts the cells overlapped by box that list index.
func cellsHolding(grid *SpatialGrid, box *compact.Compact, index int) int {
	count := 0
	grid.eachBoxCell(box, func(cellIdx int) {
		for _, idx := range grid.cells[cellIdx].boxIndices {
			if idx == index {
				count++
				return
			}
		}
	})
	return count
}

func TestWorldToCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	tests := []struct {
		name     string
		position []float64
		expected CellKey
	}{
		{"origin", []float64{0, 0, 0}, CellKey{0, 0, 0}},
		{"positive", []float64{1.5, 2.3, 3.7}, CellKey{1, 2, 3}},
		{"negative", []float64{-1.5, -2.3, -3.7}, CellKey{-2, -3, -4}},
		{"fractional", []float64{0.5, 0.5, 0.5}, CellKey{0, 0, 0}},
		{"large", []float64{100.7, -200.3, 50.1}, CellKey{100, -201, 50}},
		{"one axis", []float64{-0.1}, CellKey{-1}},
		{"five axes", []float64{0, 1, 2, 3, 4.5}, CellKey{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, grid.worldToCell(tt.position))
		})
	}

	coarse := NewSpatialGrid(2.5, 16)
	assert.Equal(t, CellKey{1, -1}, coarse.worldToCell([]float64{4.9, -0.1}))
}

func TestHashCell(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16) // mask = 15

	tests := []struct {
		name     string
		key      CellKey
		expected int
	}{
		{"origin", CellKey{0, 0, 0}, 0},
		{"simple", CellKey{1, 2, 3}, 0},
		{"negative", CellKey{-1, -2, -3}, 13},
		{"large", CellKey{100, 200, 300}, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.hashCell(tt.key)
			assert.GreaterOrEqual(t, result, 0)
			assert.Less(t, result, len(grid.cells))
			assert.Equal(t, tt.expected, result)
		})
	}

	// beyond the prime table every axis still lands in range
	wide := make(CellKey, 20)
	for i := range wide {
		wide[i] = i - 10
	}
	h := grid.hashCell(wide)
	assert.GreaterOrEqual(t, h, 0)
	assert.Less(t, h, len(grid.cells))
}

func TestHashCellDistribution(t *testing.T) {
	grid := NewSpatialGrid(1.0, 1024)

	cellCounts := make(map[int]int)
	for x := -100; x <= 100; x++ {
		for y := -100; y <= 100; y++ {
			cellCounts[grid.hashCell(CellKey{x, y})]++
		}
	}

	minCount := int(^uint(0) >> 1)
	maxCount := 0
	for _, count := range cellCounts {
		minCount = min(minCount, count)
		maxCount = max(maxCount, count)
	}

	t.Logf("Hash distribution: min=%d, max=%d, avg=%.1f", minCount, maxCount, float64(201*201)/float64(len(cellCounts)))
	assert.Greater(t, len(cellCounts), len(grid.cells)/2, "hash should use most buckets")
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, expected int }{
		{-3, 1}, {0, 1}, {1, 1}, {3, 4}, {16, 16}, {1000, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, nextPowerOfTwo(tt.in), "nextPowerOfTwo(%d)", tt.in)
	}
}

// ============================================================================
// Insertion
// ============================================================================

func TestInsertSingleBox(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	box := createTestBox(t, []float64{1.5, 2.5, 3.5}, 0.4)

	grid.Insert(0, box)
	assert.Equal(t, 1, cellsHolding(grid, box, 0))
}

func TestInsertMultipleBoxes(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	boxes := []*compact.Compact{
		createTestBox(t, []float64{1.0, 1.0, 1.0}, 0.4),
		createTestBox(t, []float64{2.0, 2.0, 2.0}, 0.4),
		createTestBox(t, []float64{3.0, 3.0, 3.0}, 0.4),
	}

	for i, box := range boxes {
		grid.Insert(i, box)
	}

	for i, box := range boxes {
		assert.Positive(t, cellsHolding(grid, box, i), "box %d not found in any cell", i)
	}
}

func TestClear(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	grid.Insert(0, createTestBox(t, []float64{1, 1}, 0.4))
	grid.Insert(1, createTestBox(t, []float64{2, 2}, 0.4))

	grid.Clear()
	for _, cell := range grid.cells {
		assert.Empty(t, cell.boxIndices)
	}
}

func TestSortCells(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	grid.cells[0].boxIndices = append(grid.cells[0].boxIndices, 5, 2, 8, 1, 9, 3)
	grid.SortCells()

	assert.True(t, sort.IntsAreSorted(grid.cells[0].boxIndices))
	assert.Equal(t, []int{1, 2, 3, 5, 8, 9}, grid.cells[0].boxIndices)
}

func TestBoundaryCases(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)

	// a box centered on a cell corner covers two cells per axis
	box := createTestBox(t, []float64{1.0, 1.0, 1.0}, 0.5)
	minCell, maxCell, bounded := grid.cellRange(box)
	require.True(t, bounded)
	for axis := range minCell {
		assert.Equal(t, 1, maxCell[axis]-minCell[axis], "axis %d", axis)
	}
}

func TestLargeBoxSpanningManyCells(t *testing.T) {
	grid := NewSpatialGrid(1.0, 4096)
	box := createTestBox(t, []float64{0, 0, 0}, 5.0)

	grid.Insert(0, box)

	minCell, maxCell, bounded := grid.cellRange(box)
	require.True(t, bounded)
	expectedCells := 1
	for axis := range minCell {
		expectedCells *= maxCell[axis] - minCell[axis] + 1
	}

	visited := 0
	grid.eachCell(minCell, maxCell, func(int) { visited++ })
	assert.Equal(t, expectedCells, visited)
	assert.Equal(t, expectedCells, cellsHolding(grid, box, 0))
}

func TestUnboundedBoxUsesEveryBucket(t *testing.T) {
	tests := []struct {
		name  string
		begin []float64
		end   []float64
	}{
		{"infinite corner", []float64{0}, []float64{math.Inf(1)}},
		{"negative infinite corner", []float64{math.Inf(-1), 0}, []float64{0, 1}},
		{"beyond cell coordinates", []float64{1e20}, []float64{2e20}},
		{"more cells than buckets", []float64{0, 0, 0}, []float64{30, 30, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := NewSpatialGrid(1.0, 64)
			box := createBox(t, tt.begin, tt.end)

			_, _, bounded := grid.cellRange(box)
			assert.False(t, bounded)

			grid.Insert(0, box)
			for i, cell := range grid.cells {
				assert.Equal(t, []int{0}, cell.boxIndices, "bucket %d", i)
			}
		})
	}
}

// ============================================================================
// Pair finding
// ============================================================================

func TestFindPairs(t *testing.T) {
	tests := []struct {
		name     string
		boxes    []*compact.Compact
		expected []Pair
	}{
		{
			"no overlap",
			[]*compact.Compact{
				createTestBox(t, []float64{0, 0, 0}, 0.4),
				createTestBox(t, []float64{10, 10, 10}, 0.4),
			},
			[]Pair{},
		},
		{
			"overlap",
			[]*compact.Compact{
				createTestBox(t, []float64{0, 0, 0}, 0.4),
				createTestBox(t, []float64{0.5, 0.5, 0.5}, 0.4),
			},
			[]Pair{{0, 1}},
		},
		{
			"same cell without overlap",
			[]*compact.Compact{
				createTestBox(t, []float64{0.2, 0.2}, 0.1),
				createTestBox(t, []float64{0.8, 0.8}, 0.1),
			},
			[]Pair{},
		},
		{
			"large box spanning many cells counted once",
			[]*compact.Compact{
				createTestBox(t, []float64{0, 0}, 3),
				createTestBox(t, []float64{1, 1}, 2),
				createTestBox(t, []float64{20, 20}, 1),
			},
			[]Pair{{0, 1}},
		},
		{
			"infinite box",
			[]*compact.Compact{
				createBox(t, []float64{0}, []float64{math.Inf(1)}),
				createBox(t, []float64{5}, []float64{6}),
				createBox(t, []float64{-3}, []float64{-2}),
			},
			[]Pair{{0, 1}},
		},
		{
			"far boxes",
			[]*compact.Compact{
				createBox(t, []float64{1e20}, []float64{2e20}),
				createBox(t, []float64{1.5e20}, []float64{3e20}),
			},
			[]Pair{{0, 1}},
		},
		{
			"six axes spanning more cells than buckets",
			[]*compact.Compact{
				createBox(t, []float64{0, 0, 0, 0, 0, 0}, []float64{30, 30, 30, 30, 30, 30}),
				createBox(t, []float64{1, 1, 1, 1, 1, 1}, []float64{2, 2, 2, 2, 2, 2}),
				createBox(t, []float64{40, 0, 0, 0, 0, 0}, []float64{41, 1, 1, 1, 1, 1}),
			},
			[]Pair{{0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := NewSpatialGrid(1.0, 64)
			for i, box := range tt.boxes {
				grid.Insert(i, box)
			}
			grid.SortCells()

			assert.Equal(t, tt.expected, grid.FindPairs(tt.boxes))

			parallel := make([]Pair, 0)
			for pair := range grid.FindPairsParallel(tt.boxes, 2) {
				parallel = append(parallel, pair)
			}
			assert.ElementsMatch(t, tt.expected, parallel)
		})
	}
}

func TestFindPairsParallelMoreWorkersThanBoxes(t *testing.T) {
	grid := NewSpatialGrid(1.0, 16)
	boxes := []*compact.Compact{
		createTestBox(t, []float64{0}, 0.4),
		createTestBox(t, []float64{0.5}, 0.4),
	}
	for i, box := range boxes {
		grid.Insert(i, box)
	}

	pairs := collectPairs(grid.FindPairsParallel(boxes, 8))
	assert.Equal(t, []Pair{{0, 1}}, pairs)

	assert.Empty(t, collectPairs(grid.FindPairsParallel(nil, 4)))
}

func BenchmarkFindPairsParallel(b *testing.B) {
	grid := NewSpatialGrid(1.0, 1024)
	boxes := make([]*compact.Compact, 100)

	for i := range boxes {
		center := []float64{
			float64(i%10) * 2.0,
			float64((i/10)%10) * 2.0,
			float64((i/100)%10) * 2.0,
		}
		boxes[i] = createTestBox(b, center, 0.4)
	}

	for i, box := range boxes {
		grid.Insert(i, box)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range grid.FindPairsParallel(boxes, 4) {
			// Consume the channel
		}
	}
}

func BenchmarkFindPairs(b *testing.B) {
	grid := NewSpatialGrid(1.0, 1024)
	boxes := make([]*compact.Compact, 100)
	for i := range boxes {
		boxes[i] = createTestBox(b, []float64{float64(i % 10), float64(i / 10)}, 0.6)
	}
	for i, box := range boxes {
		grid.Insert(i, box)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		grid.FindPairs(boxes)
	}
}
