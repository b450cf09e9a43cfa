package set

import (
	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/akmonengine/hyperbox/vector"
)

func algebraFail(log *logger.Logger, op string, err error) (*Set, error) {
	log.Error(op, err)
	return nil, err
}

// checkOperands validates two non-empty operands.
func checkOperands(op string, a, b *Set, norm vector.Norm, tolerance float64) error {
	if a.dim != b.dim {
		return errcode.Dimension(op, a.dim, b.dim)
	}
	if err := vector.ValidateTolerance(op, tolerance); err != nil {
		return err
	}
	if !norm.Valid() {
		return errcode.Newf(op, errcode.InvalidParameter, "unknown norm %s", norm)
	}
	return nil
}

// without returns a copy of s minus every element equal to an element of other.
func without(s, other *Set, norm vector.Norm, tolerance float64, log *logger.Logger) (*Set, error) {
	c := s.cloneTo(log)
	for i := 0; i < other.items.Size() && !c.items.Empty(); i++ {
		if _, err := c.removeMatching(other.at(i), norm, tolerance); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Union returns the elements of a followed by those of b not already present.
// An empty operand yields a copy of the other.
func Union(a, b *Set, norm vector.Norm, tolerance float64, log *logger.Logger) (*Set, error) {
	const op = "set.Union"

	if a == nil || b == nil {
		return algebraFail(log, op, errcode.New(op, errcode.NullInput))
	}
	if a.items.Empty() {
		return b.cloneTo(log), nil
	}
	if b.items.Empty() {
		return a.cloneTo(log), nil
	}
	if err := checkOperands(op, a, b, norm, tolerance); err != nil {
		return algebraFail(log, op, err)
	}

	c := a.cloneTo(log)
	for i := 0; i < b.items.Size(); i++ {
		v := b.at(i)
		j, err := c.indexOf(v, norm, tolerance)
		if err != nil {
			c.Close()
			return algebraFail(log, op, err)
		}
		if j < 0 {
			c.items.Add(c.own(v))
		}
	}
	return c, nil
}

// Difference returns the elements of minuend with no equal element in subtrahend.
func Difference(minuend, subtrahend *Set, norm vector.Norm, tolerance float64, log *logger.Logger) (*Set, error) {
	const op = "set.Difference"

	if minuend == nil || subtrahend == nil {
		return algebraFail(log, op, errcode.New(op, errcode.NullInput))
	}
	if minuend.items.Empty() || subtrahend.items.Empty() {
		return minuend.cloneTo(log), nil
	}
	if err := checkOperands(op, minuend, subtrahend, norm, tolerance); err != nil {
		return algebraFail(log, op, err)
	}

	c, err := without(minuend, subtrahend, norm, tolerance, log)
	if err != nil {
		return algebraFail(log, op, err)
	}
	return c, nil
}

// SymmetricDifference returns the elements present in exactly one operand: the residue
// of a followed by the residue of b.
func SymmetricDifference(a, b *Set, norm vector.Norm, tolerance float64, log *logger.Logger) (*Set, error) {
	const op = "set.SymmetricDifference"

	if a == nil || b == nil {
		return algebraFail(log, op, errcode.New(op, errcode.NullInput))
	}
	if a.items.Empty() {
		return b.cloneTo(log), nil
	}
	if b.items.Empty() {
		return a.cloneTo(log), nil
	}
	if err := checkOperands(op, a, b, norm, tolerance); err != nil {
		return algebraFail(log, op, err)
	}

	ra, err := without(a, b, norm, tolerance, log)
	if err != nil {
		return algebraFail(log, op, err)
	}
	defer ra.Close()
	rb, err := without(b, a, norm, tolerance, log)
	if err != nil {
		return algebraFail(log, op, err)
	}
	defer rb.Close()

	return Union(ra, rb, norm, tolerance, log)
}

// Intersection returns the elements of a that have an equal element in b.
// An empty operand yields an empty set.
func Intersection(a, b *Set, norm vector.Norm, tolerance float64, log *logger.Logger) (*Set, error) {
	const op = "set.Intersection"

	if a == nil || b == nil {
		return algebraFail(log, op, errcode.New(op, errcode.NullInput))
	}
	if a.items.Empty() {
		return a.cloneTo(log), nil
	}
	if b.items.Empty() {
		return b.cloneTo(log), nil
	}
	if err := checkOperands(op, a, b, norm, tolerance); err != nil {
		return algebraFail(log, op, err)
	}

	c := a.cloneTo(log)
	for i := c.items.Size() - 1; i >= 0; i-- {
		j, err := b.indexOf(c.at(i), norm, tolerance)
		if err != nil {
			c.Close()
			return algebraFail(log, op, err)
		}
		if j < 0 {
			c.removeAt(i)
		}
	}
	return c, nil
}
