// Package set implements ordered collections of vectors deduplicated under a tolerance.
//
// The tolerance and norm are supplied per operation rather than stored. A set adopts the
// dimension of its first element and forgets it again once emptied; an empty set has
// dimension 0.
package set

import (
	"errors"
	"iter"

	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/akmonengine/hyperbox/vector"
	"github.com/emirpasic/gods/lists/arraylist"
)

// Set is an insertion-ordered collection of pairwise distinct vectors.
type Set struct {
	dim   int
	items *arraylist.List
	log   *logger.Handle
}

// New returns an empty set reporting to log.
func New(log *logger.Logger) *Set {
	return &Set{
		items: arraylist.New(),
		log:   log.Acquire(),
	}
}

func (s *Set) at(i int) *vector.Vector {
	v, _ := s.items.Get(i)
	return v.(*vector.Vector)
}

// own copies v into storage owned by the set.
func (s *Set) own(v *vector.Vector) *vector.Vector {
	c, _ := vector.FromSlice(v.Coords(), s.log.Logger())
	return c
}

func (s *Set) fail(op string, err error) error {
	s.log.Error(op, err)
	return err
}

// validate runs the checks shared by Insert, Erase and Find. An empty set has no
// dimension to match yet.
func (s *Set) validate(op string, v *vector.Vector, norm vector.Norm, tolerance float64) error {
	if vector.IsNull(v) {
		return errcode.New(op, errcode.NullInput)
	}
	if !s.items.Empty() && v.Dim() != s.dim {
		return errcode.Dimension(op, s.dim, v.Dim())
	}
	if err := vector.ValidateTolerance(op, tolerance); err != nil {
		return err
	}
	if !norm.Valid() {
		return errcode.Newf(op, errcode.InvalidParameter, "unknown norm %s", norm)
	}
	return nil
}

// indexOf returns the index of the first element equal to v, or -1.
func (s *Set) indexOf(v *vector.Vector, norm vector.Norm, tolerance float64) (int, error) {
	for i := 0; i < s.items.Size(); i++ {
		eq, err := vector.Equals(s.at(i), v, norm, tolerance, s.log.Logger())
		if err != nil {
			return -1, err
		}
		if eq {
			return i, nil
		}
	}
	return -1, nil
}

// Insert appends a copy of v unless an element equal to it within tolerance is
// already present. The first insert into an empty set fixes its dimension.
func (s *Set) Insert(v *vector.Vector, norm vector.Norm, tolerance float64) error {
	const op = "set.Insert"

	if err := s.validate(op, v, norm, tolerance); err != nil {
		return s.fail(op, err)
	}
	if s.items.Empty() {
		s.dim = v.Dim()
		s.items.Add(s.own(v))
		return nil
	}

	i, err := s.indexOf(v, norm, tolerance)
	if err != nil {
		return s.fail(op, err)
	}
	if i < 0 {
		s.items.Add(s.own(v))
	}
	return nil
}

// Erase removes every element equal to v within tolerance.
// It fails with ElementNotFound when nothing matches.
func (s *Set) Erase(v *vector.Vector, norm vector.Norm, tolerance float64) error {
	const op = "set.Erase"

	if err := s.validate(op, v, norm, tolerance); err != nil {
		return s.fail(op, err)
	}
	if s.items.Empty() {
		return s.fail(op, errcode.New(op, errcode.ElementNotFound))
	}

	n, err := s.removeMatching(v, norm, tolerance)
	if err != nil {
		return s.fail(op, err)
	}
	if n == 0 {
		return s.fail(op, errcode.New(op, errcode.ElementNotFound))
	}
	return nil
}

// removeMatching removes every element equal to v and returns how many were removed.
func (s *Set) removeMatching(v *vector.Vector, norm vector.Norm, tolerance float64) (int, error) {
	var matches []int
	for i := 0; i < s.items.Size(); i++ {
		eq, err := vector.Equals(s.at(i), v, norm, tolerance, s.log.Logger())
		if err != nil {
			return 0, err
		}
		if eq {
			matches = append(matches, i)
		}
	}
	for k := len(matches) - 1; k >= 0; k-- {
		s.removeAt(matches[k])
	}
	return len(matches), nil
}

// EraseAt removes the element at index.
func (s *Set) EraseAt(index int) error {
	const op = "set.EraseAt"

	if index < 0 || index >= s.items.Size() {
		return s.fail(op, errcode.Newf(op, errcode.IndexOutOfBounds, "index %d out of range [0, %d)", index, s.items.Size()))
	}
	s.removeAt(index)
	return nil
}

func (s *Set) removeAt(index int) {
	s.at(index).Close()
	s.items.Remove(index)
	if s.items.Empty() {
		s.dim = 0
	}
}

// Clear removes all elements and resets the dimension.
func (s *Set) Clear() {
	s.items.Each(func(_ int, value interface{}) {
		value.(*vector.Vector).Close()
	})
	s.items.Clear()
	s.dim = 0
}

// Find returns the index of the first element equal to v within tolerance.
func (s *Set) Find(v *vector.Vector, norm vector.Norm, tolerance float64) (int, error) {
	const op = "set.Find"

	if err := s.validate(op, v, norm, tolerance); err != nil {
		return -1, s.fail(op, err)
	}
	if s.items.Empty() {
		return -1, errcode.New(op, errcode.ElementNotFound)
	}

	i, err := s.indexOf(v, norm, tolerance)
	if err != nil {
		return -1, s.fail(op, err)
	}
	if i < 0 {
		return -1, errcode.New(op, errcode.ElementNotFound)
	}
	return i, nil
}

// Contains reports whether an element equal to v within tolerance is present.
// Validation failures are reported as errors, absence is not.
func (s *Set) Contains(v *vector.Vector, norm vector.Norm, tolerance float64) (bool, error) {
	_, err := s.Find(v, norm, tolerance)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errcode.ElementNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Get returns a copy of the element at index.
func (s *Set) Get(index int) (*vector.Vector, error) {
	const op = "set.Get"

	if index < 0 || index >= s.items.Size() {
		return nil, s.fail(op, errcode.Newf(op, errcode.IndexOutOfBounds, "index %d out of range [0, %d)", index, s.items.Size()))
	}
	return s.at(index).Clone(), nil
}

// All yields each index with a copy of its element, in insertion order.
func (s *Set) All() iter.Seq2[int, *vector.Vector] {
	return func(yield func(int, *vector.Vector) bool) {
		for i := 0; i < s.items.Size(); i++ {
			if !yield(i, s.at(i).Clone()) {
				return
			}
		}
	}
}

// Size returns the number of elements.
func (s *Set) Size() int {
	return s.items.Size()
}

// Dim returns the dimension of the elements, 0 for an empty set.
func (s *Set) Dim() int {
	return s.dim
}

// Clone returns a deep copy sharing the same logger.
func (s *Set) Clone() *Set {
	return s.cloneTo(s.log.Logger())
}

func (s *Set) cloneTo(log *logger.Logger) *Set {
	c := New(log)
	c.dim = s.dim
	s.items.Each(func(_ int, value interface{}) {
		c.items.Add(c.own(value.(*vector.Vector)))
	})
	return c
}

// Close releases the elements and the set's logger handle.
func (s *Set) Close() {
	s.Clear()
	s.log.Release()
}
