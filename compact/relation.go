package compact

import (
	"fmt"
	"math"

	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/akmonengine/hyperbox/vector"
)

// Relation is the outcome of classifying a pair of boxes.
type Relation int

const (
	// Disparate pairs cannot be compared: nil operand, dimension mismatch or bad tolerance.
	Disparate Relation = iota
	// Disjoint boxes have no common point.
	Disjoint
	// Intersecting boxes overlap without either containing the other.
	Intersecting
	// Inclusion means one box is a subset of the other.
	Inclusion
)

func (r Relation) String() string {
	switch r {
	case Disparate:
		return "Disparate"
	case Disjoint:
		return "Disjoint"
	case Intersecting:
		return "Intersecting"
	case Inclusion:
		return "Inclusion"
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// Classify returns the relation between a and b. For Inclusion it also returns the
// containing box (a when the boxes are equal).
func Classify(a, b *Compact, tolerance float64) (Relation, *Compact, error) {
	const op = "compact.Classify"

	if a == nil || b == nil {
		return Disparate, nil, errcode.New(op, errcode.NullInput)
	}
	if a.dim != b.dim {
		return Disparate, nil, errcode.Dimension(op, a.dim, b.dim)
	}
	if err := vector.ValidateTolerance(op, tolerance); err != nil {
		return Disparate, nil, err
	}

	if !a.intersects(b) {
		return Disjoint, nil, nil
	}
	if b.isSubset(a) {
		return Inclusion, a, nil
	}
	if a.isSubset(b) {
		return Inclusion, b, nil
	}
	return Intersecting, nil, nil
}

// hull returns the corners of the smallest box holding a and b.
func hull(a, b *Compact) (lo, hi []float64) {
	lo, hi = a.begin.Coords(), a.end.Coords()
	for i := range lo {
		lo[i] = min(lo[i], b.begin.Coord(i))
		hi[i] = max(hi[i], b.end.Coord(i))
	}
	return lo, hi
}

// aligned reports whether a and b agree within tolerance on every axis but at most one.
func aligned(a, b *Compact, tolerance float64) bool {
	misaligned := 0
	for i := 0; i < a.dim; i++ {
		if math.Abs(a.begin.Coord(i)-b.begin.Coord(i)) < tolerance &&
			math.Abs(a.end.Coord(i)-b.end.Coord(i)) < tolerance {
			continue
		}
		misaligned++
	}
	return misaligned <= 1
}

// Union merges a and b along their single misaligned axis. When one box contains the
// other the container is returned. Otherwise both must agree within tolerance on every
// axis but one, or Union fails with InvalidParameter; the result then spans both boxes
// on that axis, so disjoint boxes are joined across the gap between them and the result
// holds points belonging to neither.
func Union(a, b *Compact, tolerance float64, log *logger.Logger) (*Compact, error) {
	const op = "compact.Union"

	rel, container, err := Classify(a, b, tolerance)
	if err != nil {
		return nil, fail(log, op, err)
	}
	if rel == Inclusion {
		return container.cloneTo(log), nil
	}
	if !aligned(a, b, tolerance) {
		return nil, fail(log, op, errcode.Newf(op, errcode.InvalidParameter, "compacts are not suitable for union"))
	}

	lo, hi := hull(a, b)
	return build(op, lo, hi, tolerance, log)
}

// Convex returns the smallest box containing both a and b.
func Convex(a, b *Compact, tolerance float64, log *logger.Logger) (*Compact, error) {
	const op = "compact.Convex"

	rel, container, err := Classify(a, b, tolerance)
	if err != nil {
		return nil, fail(log, op, err)
	}
	if rel == Inclusion {
		return container.cloneTo(log), nil
	}

	lo, hi := hull(a, b)
	return build(op, lo, hi, tolerance, log)
}

// Intersection returns the common box of a and b. When one box contains the other the
// containing box is returned. Boxes without common points, or whose overlap is flat
// within tolerance, fail with DegenerateObject.
func Intersection(a, b *Compact, tolerance float64, log *logger.Logger) (*Compact, error) {
	const op = "compact.Intersection"

	rel, container, err := Classify(a, b, tolerance)
	if err != nil {
		return nil, fail(log, op, err)
	}
	switch rel {
	case Inclusion:
		return container.cloneTo(log), nil
	case Disjoint:
		return nil, fail(log, op, errcode.Newf(op, errcode.DegenerateObject, "compacts have no common points"))
	}

	lo, hi := a.begin.Coords(), a.end.Coords()
	for i := range lo {
		lo[i] = max(lo[i], b.begin.Coord(i))
		hi[i] = min(hi[i], b.end.Coord(i))
	}
	return build(op, lo, hi, tolerance, log)
}
