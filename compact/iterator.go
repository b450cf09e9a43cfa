package compact

import (
	"iter"

	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/akmonengine/hyperbox/vector"
	"github.com/go-gl/mathgl/mgl64"
)

// Iterator walks the lattice origin + k·step inside a box like a mixed-radix odometer.
// Direction lists the axes from least to most significant digit.
//
// The iterator owns copies of the box bounds, so it stays valid after the box is closed.
type Iterator struct {
	current   *mgl64.VecN
	step      *mgl64.VecN
	origin    *mgl64.VecN
	bound     *mgl64.VecN
	direction []int
	exhausted bool
	log       *logger.Handle
}

// BeginIterator returns an iterator starting at the lower corner and moving toward the
// upper one. Every component of step must be non-negative.
func (c *Compact) BeginIterator(step *vector.Vector) (*Iterator, error) {
	const op = "compact.BeginIterator"

	if err := c.checkStep(op, step); err != nil {
		return nil, err
	}
	return c.newIterator(c.begin.Coords(), c.end.Coords(), mgl64.NewVecNFromData(step.Coords())), nil
}

// EndIterator returns an iterator starting at the upper corner and moving toward the
// lower one. Every component of step must be non-negative.
func (c *Compact) EndIterator(step *vector.Vector) (*Iterator, error) {
	const op = "compact.EndIterator"

	if err := c.checkStep(op, step); err != nil {
		return nil, err
	}
	backward := mgl64.NewVecNFromData(step.Coords()).Mul(nil, -1)
	return c.newIterator(c.end.Coords(), c.begin.Coords(), backward), nil
}

func (c *Compact) checkStep(op string, step *vector.Vector) error {
	if c == nil || vector.IsNull(step) {
		return fail(c.Logger(), op, errcode.New(op, errcode.NullInput))
	}
	if step.Dim() != c.dim {
		return fail(c.Logger(), op, errcode.Dimension(op, c.dim, step.Dim()))
	}
	for i, s := range step.Coords() {
		if s < 0 {
			return fail(c.Logger(), op, errcode.Newf(op, errcode.InvalidParameter, "negative step %g on axis %d", s, i))
		}
	}
	return nil
}

func (c *Compact) newIterator(origin, bound []float64, step *mgl64.VecN) *Iterator {
	direction := make([]int, c.dim)
	for i := range direction {
		direction[i] = i
	}

	return &Iterator{
		current:   mgl64.NewVecNFromData(origin),
		step:      step,
		origin:    mgl64.NewVecNFromData(origin),
		bound:     mgl64.NewVecNFromData(bound),
		direction: direction,
		log:       c.log.Logger().Acquire(),
	}
}

// Point returns a copy of the current lattice point.
func (it *Iterator) Point() *vector.Vector {
	v, _ := vector.FromSlice(it.current.Raw(), it.log.Logger())
	return v
}

// Direction returns a copy of the carry order.
func (it *Iterator) Direction() []int {
	out := make([]int, len(it.direction))
	copy(out, it.direction)
	return out
}

// SetDirection replaces the carry order. perm must be a permutation of the axis
// indices; otherwise the previous order is kept.
func (it *Iterator) SetDirection(perm []int) error {
	const op = "compact.Iterator.SetDirection"

	if perm == nil {
		return it.fail(op, errcode.New(op, errcode.NullInput))
	}
	if len(perm) != len(it.direction) {
		return it.fail(op, errcode.Dimension(op, len(it.direction), len(perm)))
	}
	seen := make([]bool, len(perm))
	for _, axis := range perm {
		if axis < 0 || axis >= len(perm) || seen[axis] {
			return it.fail(op, errcode.Newf(op, errcode.InvalidParameter, "%v is not a permutation of the axes", perm))
		}
		seen[axis] = true
	}
	copy(it.direction, perm)
	return nil
}

// Step advances to the next lattice point. The first axis in direction order that can
// move without leaving the box is advanced and every axis before it is reset to the
// origin. When no axis can move the iterator is pinned to the far corner and Step
// returns IndexOutOfBounds, now and on every later call.
//
// Axes with a zero step never advance.
func (it *Iterator) Step() error {
	const op = "compact.Iterator.Step"

	if it.exhausted {
		return errcode.Newf(op, errcode.IndexOutOfBounds, "iterator is exhausted")
	}

	for k, axis := range it.direction {
		s := it.step.Get(axis)
		if s == 0 {
			continue
		}
		next, limit := it.current.Get(axis)+s, it.bound.Get(axis)
		if (s > 0 && next <= limit) || (s < 0 && next >= limit) {
			it.current.Set(axis, next)
			for _, carried := range it.direction[:k] {
				it.current.Set(carried, it.origin.Get(carried))
			}
			return nil
		}
	}

	copy(it.current.Raw(), it.bound.Raw())
	it.exhausted = true
	return it.fail(op, errcode.Newf(op, errcode.IndexOutOfBounds, "iterator left the compact"))
}

// Exhausted reports whether Step has run past the last lattice point.
func (it *Iterator) Exhausted() bool {
	return it.exhausted
}

// Points yields the current point and then the point after every successful Step.
func (it *Iterator) Points() iter.Seq[*vector.Vector] {
	return func(yield func(*vector.Vector) bool) {
		if !yield(it.Point()) {
			return
		}
		for it.Step() == nil {
			if !yield(it.Point()) {
				return
			}
		}
	}
}

// Close releases the iterator's logger handle.
func (it *Iterator) Close() {
	if it == nil {
		return
	}
	it.log.Release()
}

func (it *Iterator) fail(op string, err error) error {
	it.log.Error(op, err)
	return err
}
