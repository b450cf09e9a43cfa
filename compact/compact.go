// Package compact implements axis-aligned boxes ("compacts") in ℝⁿ, the algebra between
// them and a lattice iterator over their interior.
//
// A Compact is immutable once built: Begin and End return copies and every algebra
// operation builds a new instance. Construction rejects boxes whose extent on some axis
// does not exceed the tolerance.
package compact

import (
	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/akmonengine/hyperbox/vector"
)

// Compact is the closed box [begin, end] with begin[i] < end[i] on every axis.
type Compact struct {
	dim   int
	begin *vector.Vector
	end   *vector.Vector
	log   *logger.Handle
}

func fail(log *logger.Logger, op string, err error) error {
	log.Error(op, err)
	return err
}

// checkDegeneracy fails with DegenerateObject unless end[i] - begin[i] > tolerance on
// every axis.
func checkDegeneracy(op string, begin, end []float64, tolerance float64) error {
	for i := range begin {
		if !(end[i]-begin[i] > tolerance) {
			return errcode.Newf(op, errcode.DegenerateObject, "extent %g on axis %d does not exceed tolerance %g", end[i]-begin[i], i, tolerance)
		}
	}
	return nil
}

// New builds the box spanned by begin and end. The corners are copied.
func New(begin, end *vector.Vector, tolerance float64, log *logger.Logger) (*Compact, error) {
	const op = "compact.New"

	if vector.IsNull(begin) || vector.IsNull(end) {
		return nil, fail(log, op, errcode.New(op, errcode.NullInput))
	}
	if begin.Dim() != end.Dim() {
		return nil, fail(log, op, errcode.Dimension(op, begin.Dim(), end.Dim()))
	}
	if err := vector.ValidateTolerance(op, tolerance); err != nil {
		return nil, fail(log, op, err)
	}
	return build(op, begin.Coords(), end.Coords(), tolerance, log)
}

// build checks degeneracy and takes ownership of lo and hi.
func build(op string, lo, hi []float64, tolerance float64, log *logger.Logger) (*Compact, error) {
	if err := checkDegeneracy(op, lo, hi, tolerance); err != nil {
		return nil, fail(log, op, err)
	}
	b, err := vector.FromSlice(lo, log)
	if err != nil {
		return nil, err
	}
	e, err := vector.FromSlice(hi, log)
	if err != nil {
		b.Close()
		return nil, err
	}
	return &Compact{
		dim:   len(lo),
		begin: b,
		end:   e,
		log:   log.Acquire(),
	}, nil
}

// Dim returns the dimension of the box.
func (c *Compact) Dim() int {
	if c == nil {
		return 0
	}
	return c.dim
}

// Begin returns a copy of the lower corner.
func (c *Compact) Begin() *vector.Vector {
	if c == nil {
		return nil
	}
	return c.begin.Clone()
}

// End returns a copy of the upper corner.
func (c *Compact) End() *vector.Vector {
	if c == nil {
		return nil
	}
	return c.end.Clone()
}

// Clone returns a deep copy sharing the same logger.
func (c *Compact) Clone() *Compact {
	return c.cloneTo(c.log.Logger())
}

func (c *Compact) cloneTo(log *logger.Logger) *Compact {
	b, _ := vector.FromSlice(c.begin.Coords(), log)
	e, _ := vector.FromSlice(c.end.Coords(), log)
	return &Compact{dim: c.dim, begin: b, end: e, log: log.Acquire()}
}

// Logger returns the logger the box reports to.
func (c *Compact) Logger() *logger.Logger {
	if c == nil {
		return nil
	}
	return c.log.Logger()
}

// Close releases the corners and the box's logger handle.
func (c *Compact) Close() {
	if c == nil {
		return
	}
	c.begin.Close()
	c.end.Close()
	c.log.Release()
}

// Contains reports whether begin[i] <= p[i] <= end[i] on every axis.
func (c *Compact) Contains(p *vector.Vector) (bool, error) {
	const op = "compact.Contains"

	if c == nil || vector.IsNull(p) {
		return false, fail(c.Logger(), op, errcode.New(op, errcode.NullInput))
	}
	if p.Dim() != c.dim {
		return false, fail(c.Logger(), op, errcode.Dimension(op, c.dim, p.Dim()))
	}
	return c.contains(p.Coords()), nil
}

func (c *Compact) contains(p []float64) bool {
	for i, x := range p {
		if x < c.begin.Coord(i) || x > c.end.Coord(i) {
			return false
		}
	}
	return true
}

// IsSubset reports whether c lies inside other. Both corners inside other is enough
// since boxes are convex.
func (c *Compact) IsSubset(other *Compact) (bool, error) {
	const op = "compact.IsSubset"

	if err := c.checkOther(op, other); err != nil {
		return false, err
	}
	return c.isSubset(other), nil
}

func (c *Compact) isSubset(other *Compact) bool {
	return other.contains(c.begin.Coords()) && other.contains(c.end.Coords())
}

// Intersects reports whether c and other share at least one point.
func (c *Compact) Intersects(other *Compact) (bool, error) {
	const op = "compact.Intersects"

	if err := c.checkOther(op, other); err != nil {
		return false, err
	}
	return c.intersects(other), nil
}

func (c *Compact) intersects(other *Compact) bool {
	for i := 0; i < c.dim; i++ {
		if max(c.begin.Coord(i), other.begin.Coord(i)) > min(c.end.Coord(i), other.end.Coord(i)) {
			return false
		}
	}
	return true
}

func (c *Compact) checkOther(op string, other *Compact) error {
	if c == nil || other == nil {
		return fail(c.Logger(), op, errcode.New(op, errcode.NullInput))
	}
	if other.dim != c.dim {
		return fail(c.Logger(), op, errcode.Dimension(op, c.dim, other.dim))
	}
	return nil
}
