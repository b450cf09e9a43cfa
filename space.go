package hyperbox

import (
	"github.com/akmonengine/hyperbox/compact"
	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/akmonengine/hyperbox/set"
	"github.com/akmonengine/hyperbox/vector"
)

const (
	DEFAULT_TOLERANCE  = 1e-6
	DEFAULT_NORM       = vector.NormL2
	DEFAULT_CELL_SIZE  = 1.0
	DEFAULT_CELL_COUNT = 1024
	DEFAULT_WORKERS    = 1
)

// Space carries the settings shared by every object of one dimension: the tolerance
// and norm used for equality, the logger objects report to, and the broad-phase grid.
type Space struct {
	Dim int
	// Tolerance below which two points are equal
	Tolerance float64
	Norm      vector.Norm
	// Logger may be nil, objects then run silently
	Logger *logger.Logger
	// Grid is created with DEFAULT_CELL_SIZE and DEFAULT_CELL_COUNT when nil
	Grid    *SpatialGrid
	Workers int
}

// NewSpace returns a space of dimension dim with the default tolerance and norm.
func NewSpace(dim int, log *logger.Logger) *Space {
	return &Space{
		Dim:       dim,
		Tolerance: DEFAULT_TOLERANCE,
		Norm:      DEFAULT_NORM,
		Logger:    log,
		Workers:   DEFAULT_WORKERS,
	}
}

// Validate checks the space settings.
func (s *Space) Validate() error {
	const op = "hyperbox.Space.Validate"

	if s.Dim <= 0 {
		return s.fail(op, errcode.Newf(op, errcode.DegenerateObject, "dimension must be positive, got %d", s.Dim))
	}
	if err := vector.ValidateTolerance(op, s.Tolerance); err != nil {
		return s.fail(op, err)
	}
	if !s.Norm.Valid() {
		return s.fail(op, errcode.Newf(op, errcode.InvalidParameter, "unknown norm %s", s.Norm))
	}
	return nil
}

func (s *Space) fail(op string, err error) error {
	s.Logger.Error(op, err)
	return err
}

// Point creates a vector of the space's dimension.
func (s *Space) Point(coords ...float64) (*vector.Vector, error) {
	const op = "hyperbox.Space.Point"

	if len(coords) != s.Dim {
		return nil, s.fail(op, errcode.Dimension(op, s.Dim, len(coords)))
	}
	return vector.New(s.Dim, coords, s.Logger)
}

// Box creates the compact [begin, end].
func (s *Space) Box(begin, end []float64) (*compact.Compact, error) {
	b, err := s.Point(begin...)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	e, err := s.Point(end...)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	return compact.New(b, e, s.Tolerance, s.Logger)
}

// Walk returns an iterator over the lattice of box with the given step, starting at
// its lower corner.
func (s *Space) Walk(box *compact.Compact, step ...float64) (*compact.Iterator, error) {
	v, err := s.Point(step...)
	if err != nil {
		return nil, err
	}
	defer v.Close()

	return box.BeginIterator(v)
}

// Equal compares two vectors under the space's norm and tolerance.
func (s *Space) Equal(a, b *vector.Vector) (bool, error) {
	return vector.Equals(a, b, s.Norm, s.Tolerance, s.Logger)
}

// NewSet returns an empty set reporting to the space's logger.
func (s *Space) NewSet() *set.Set {
	return set.New(s.Logger)
}

// Insert adds the point coords to st.
func (s *Space) Insert(st *set.Set, coords ...float64) error {
	v, err := s.Point(coords...)
	if err != nil {
		return err
	}
	defer v.Close()

	return st.Insert(v, s.Norm, s.Tolerance)
}

func (s *Space) Union(a, b *compact.Compact) (*compact.Compact, error) {
	return compact.Union(a, b, s.Tolerance, s.Logger)
}

func (s *Space) Convex(a, b *compact.Compact) (*compact.Compact, error) {
	return compact.Convex(a, b, s.Tolerance, s.Logger)
}

func (s *Space) Intersection(a, b *compact.Compact) (*compact.Compact, error) {
	return compact.Intersection(a, b, s.Tolerance, s.Logger)
}

func (s *Space) SetUnion(a, b *set.Set) (*set.Set, error) {
	return set.Union(a, b, s.Norm, s.Tolerance, s.Logger)
}

func (s *Space) SetDifference(a, b *set.Set) (*set.Set, error) {
	return set.Difference(a, b, s.Norm, s.Tolerance, s.Logger)
}

func (s *Space) SetSymmetricDifference(a, b *set.Set) (*set.Set, error) {
	return set.SymmetricDifference(a, b, s.Norm, s.Tolerance, s.Logger)
}

func (s *Space) SetIntersection(a, b *set.Set) (*set.Set, error) {
	return set.Intersection(a, b, s.Norm, s.Tolerance, s.Logger)
}

func (s *Space) checkBoxes(op string, boxes []*compact.Compact) error {
	for _, box := range boxes {
		if box == nil {
			return s.fail(op, errcode.New(op, errcode.NullInput))
		}
		if box.Dim() != s.Dim {
			return s.fail(op, errcode.Dimension(op, s.Dim, box.Dim()))
		}
	}
	return nil
}

func (s *Space) grid() *SpatialGrid {
	if s.Grid == nil {
		s.Grid = NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_CELL_COUNT)
	}
	return s.Grid
}

// OverlappingPairs returns every pair of intersecting boxes, ordered by index.
func (s *Space) OverlappingPairs(boxes []*compact.Compact) ([]Pair, error) {
	if err := s.checkBoxes("hyperbox.Space.OverlappingPairs", boxes); err != nil {
		return nil, err
	}
	s.Workers = max(DEFAULT_WORKERS, s.Workers)

	return collectPairs(BroadPhase(s.grid(), boxes, s.Workers)), nil
}

// Contacts classifies every pair of intersecting boxes, ordered by index.
func (s *Space) Contacts(boxes []*compact.Compact) ([]Contact, error) {
	const op = "hyperbox.Space.Contacts"

	if err := s.checkBoxes(op, boxes); err != nil {
		return nil, err
	}
	if err := vector.ValidateTolerance(op, s.Tolerance); err != nil {
		return nil, s.fail(op, err)
	}
	s.Workers = max(DEFAULT_WORKERS, s.Workers)

	return NarrowPhase(boxes, BroadPhase(s.grid(), boxes, s.Workers), s.Tolerance, s.Workers), nil
}
