package hyperbox

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/hyperbox/compact"
	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/akmonengine/hyperbox/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceValidate(t *testing.T) {
	tests := []struct {
		name  string
		space Space
		code  errcode.Code
	}{
		{"defaults", *NewSpace(3, nil), 0},
		{"zero tolerance", Space{Dim: 1, Tolerance: 0, Norm: vector.NormInf}, 0},
		{"zero dimension", Space{Dim: 0, Tolerance: DEFAULT_TOLERANCE}, errcode.DegenerateObject},
		{"NaN tolerance", Space{Dim: 2, Tolerance: math.NaN()}, errcode.NotANumber},
		{"negative tolerance", Space{Dim: 2, Tolerance: -1}, errcode.InvalidParameter},
		{"unknown norm", Space{Dim: 2, Tolerance: 1, Norm: vector.Norm(8)}, errcode.InvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.space.Validate()
			if tt.code == 0 {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestSpacePointAndBox(t *testing.T) {
	space := NewSpace(2, nil)

	_, err := space.Point(1, 2, 3)
	assert.True(t, errors.Is(err, errcode.DimensionMismatch))

	p, err := space.Point(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, p.Coords())

	_, err = space.Box([]float64{0, 0}, []float64{1})
	assert.True(t, errors.Is(err, errcode.DimensionMismatch))

	_, err = space.Box([]float64{0, 0}, []float64{1, 0})
	assert.True(t, errors.Is(err, errcode.DegenerateObject))

	box, err := space.Box([]float64{0, 0}, []float64{2, 1})
	require.NoError(t, err)
	ok, err := box.Contains(p)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSpaceEqual(t *testing.T) {
	space := NewSpace(2, nil)
	a, _ := space.Point(0, 0)
	b, _ := space.Point(0, DEFAULT_TOLERANCE/2)

	ok, err := space.Equal(a, b)
	require.NoError(t, err)
	assert.True(t, ok)

	space.Tolerance = DEFAULT_TOLERANCE / 4
	ok, err = space.Equal(a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSpaceSets(t *testing.T) {
	space := NewSpace(1, nil)
	a, b := space.NewSet(), space.NewSet()
	for _, x := range []float64{0, 1, 2} {
		require.NoError(t, space.Insert(a, x))
	}
	for _, x := range []float64{2, 3} {
		require.NoError(t, space.Insert(b, x))
	}
	require.Error(t, space.Insert(a, 1, 1))

	u, err := space.SetUnion(a, b)
	require.NoError(t, err)
	assert.Equal(t, 4, u.Size())

	d, err := space.SetDifference(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Size())

	sd, err := space.SetSymmetricDifference(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, sd.Size())

	i, err := space.SetIntersection(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, i.Size())
	v, _ := i.Get(0)
	assert.Equal(t, []float64{2}, v.Coords())
}

func TestSpaceBoxAlgebra(t *testing.T) {
	space := NewSpace(2, nil)
	a, _ := space.Box([]float64{-3, -1}, []float64{0, 1})
	b, _ := space.Box([]float64{-1, 0}, []float64{2, 1.5})

	_, err := space.Union(a, b)
	assert.True(t, errors.Is(err, errcode.InvalidParameter))

	c, err := space.Convex(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -1}, c.Begin().Coords())
	assert.Equal(t, []float64{2, 1.5}, c.End().Coords())

	i, err := space.Intersection(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0}, i.Begin().Coords())
	assert.Equal(t, []float64{0, 1}, i.End().Coords())
}

func TestSpaceWalk(t *testing.T) {
	space := NewSpace(2, nil)
	box, err := space.Box([]float64{0, 0}, []float64{2, 1})
	require.NoError(t, err)

	_, err = space.Walk(box, 1)
	assert.True(t, errors.Is(err, errcode.DimensionMismatch))

	it, err := space.Walk(box, 1, 1)
	require.NoError(t, err)
	count := 0
	for range it.Points() {
		count++
	}
	assert.Equal(t, 6, count)
}

func TestSpaceOverlappingPairs(t *testing.T) {
	space := NewSpace(2, nil)
	boxes := []*compact.Compact{
		createTestBox(t, []float64{0, 0}, 1),
		createTestBox(t, []float64{1.5, 0}, 1),
		createTestBox(t, []float64{3, 0}, 1),
		createTestBox(t, []float64{10, 10}, 1),
	}

	pairs, err := space.OverlappingPairs(boxes)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{0, 1}, {1, 2}}, pairs)
	assert.NotNil(t, space.Grid)

	space.Workers = 4
	pairs, err = space.OverlappingPairs(boxes)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{0, 1}, {1, 2}}, pairs)

	contacts, err := space.Contacts(boxes)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, compact.Intersecting, contacts[0].Relation)
}

func TestSpaceOverlappingPairsLargeAndInfiniteBoxes(t *testing.T) {
	tests := []struct {
		name  string
		dim   int
		boxes [][2][]float64
	}{
		{"six axes", 6, [][2][]float64{
			{{0, 0, 0, 0, 0, 0}, {30, 30, 30, 30, 30, 30}},
			{{1, 1, 1, 1, 1, 1}, {2, 2, 2, 2, 2, 2}},
		}},
		{"infinite corner", 1, [][2][]float64{
			{{0}, {math.Inf(1)}},
			{{5}, {6}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space := NewSpace(tt.dim, nil)
			boxes := make([]*compact.Compact, len(tt.boxes))
			for i, corners := range tt.boxes {
				box, err := space.Box(corners[0], corners[1])
				require.NoError(t, err)
				boxes[i] = box
			}

			ok, err := boxes[0].Intersects(boxes[1])
			require.NoError(t, err)
			require.True(t, ok)

			pairs, err := space.OverlappingPairs(boxes)
			require.NoError(t, err)
			assert.Equal(t, []Pair{{0, 1}}, pairs)
		})
	}
}

func TestSpaceOverlappingPairsRejectsBadBoxes(t *testing.T) {
	var buf bytes.Buffer
	space := NewSpace(2, logger.New(logger.WithWriter(&buf)))

	_, err := space.OverlappingPairs([]*compact.Compact{createTestBox(t, []float64{0, 0}, 1), nil})
	assert.True(t, errors.Is(err, errcode.NullInput))

	_, err = space.Contacts([]*compact.Compact{createTestBox(t, []float64{0}, 1)})
	assert.True(t, errors.Is(err, errcode.DimensionMismatch))

	assert.Contains(t, buf.String(), "op=hyperbox.Space.Contacts")
}
