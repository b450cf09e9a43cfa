// Package vector implements fixed-dimension points in ℝⁿ with arithmetic, norms and
// tolerance equality.
//
// Vectors never share storage: every constructor, arithmetic result and accessor returns
// an independently owned copy. No coordinate is ever NaN; construction and SetCoord reject it.
//
// Operations returning a bare scalar (Coord, Norm, Dot) signal failure with NaN, callers
// must check math.IsNaN on their result.
package vector

import (
	"fmt"
	"math"
	"strings"

	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/go-gl/mathgl/mgl64"
)

// Vector is a point of ℝⁿ, n >= 1.
type Vector struct {
	data *mgl64.VecN
	log  *logger.Handle
}

// New creates a vector of dimension dim from the first dim values of coords.
// The coordinates are copied.
func New(dim int, coords []float64, log *logger.Logger) (*Vector, error) {
	const op = "vector.New"

	if dim <= 0 {
		return nil, fail(log, op, errcode.Newf(op, errcode.DegenerateObject, "dimension must be positive, got %d", dim))
	}
	if coords == nil {
		return nil, fail(log, op, errcode.New(op, errcode.NullInput))
	}
	if len(coords) < dim {
		return nil, fail(log, op, errcode.Dimension(op, dim, len(coords)))
	}
	for i := 0; i < dim; i++ {
		if math.IsNaN(coords[i]) {
			return nil, fail(log, op, errcode.Newf(op, errcode.NotANumber, "coordinate %d is NaN", i))
		}
	}

	return wrap(mgl64.NewVecNFromData(coords[:dim]), log), nil
}

// FromSlice creates a vector with one dimension per element of coords.
func FromSlice(coords []float64, log *logger.Logger) (*Vector, error) {
	return New(len(coords), coords, log)
}

func wrap(data *mgl64.VecN, log *logger.Logger) *Vector {
	return &Vector{data: data, log: log.Acquire()}
}

func fail(log *logger.Logger, op string, err error) error {
	log.Error(op, err)
	return err
}

// IsNull reports whether v is nil or holds no coordinates, as the zero Vector does.
func IsNull(v *Vector) bool {
	return v.Dim() == 0
}

func (v *Vector) handle() *logger.Handle {
	if v == nil {
		return nil
	}
	return v.log
}

// Dim returns the number of coordinates, 0 for a nil vector.
func (v *Vector) Dim() int {
	if v == nil || v.data == nil {
		return 0
	}
	return v.data.Size()
}

// Coord returns coordinate i, or NaN if i is out of range.
func (v *Vector) Coord(i int) float64 {
	if i < 0 || i >= v.Dim() {
		v.handle().Log("vector.Coord", fmt.Sprintf("index %d out of range [0, %d)", i, v.Dim()), errcode.IndexOutOfBounds)
		return math.NaN()
	}
	return v.data.Get(i)
}

// SetCoord replaces coordinate i. The vector is left unchanged on failure.
func (v *Vector) SetCoord(i int, value float64) error {
	const op = "vector.SetCoord"

	if IsNull(v) {
		return errcode.New(op, errcode.NullInput)
	}
	if i < 0 || i >= v.Dim() {
		err := errcode.Newf(op, errcode.IndexOutOfBounds, "index %d out of range [0, %d)", i, v.Dim())
		v.log.Error(op, err)
		return err
	}
	if math.IsNaN(value) {
		err := errcode.New(op, errcode.NotANumber)
		v.log.Error(op, err)
		return err
	}
	v.data.Set(i, value)
	return nil
}

// Coords returns a copy of the coordinates.
func (v *Vector) Coords() []float64 {
	if v.Dim() == 0 {
		return nil
	}
	out := make([]float64, v.Dim())
	copy(out, v.data.Raw())
	return out
}

// Clone returns a deep copy sharing the same logger.
func (v *Vector) Clone() *Vector {
	if v.Dim() == 0 {
		return nil
	}
	return wrap(mgl64.NewVecNFromData(v.data.Raw()), v.log.Logger())
}

// Logger returns the logger the vector reports to.
func (v *Vector) Logger() *logger.Logger {
	if v == nil {
		return nil
	}
	return v.log.Logger()
}

// Close releases the vector's logger handle.
func (v *Vector) Close() {
	if v == nil {
		return
	}
	v.log.Release()
}

// Norm returns the requested norm, or NaN for an unknown kind.
func (v *Vector) Norm(kind Norm) float64 {
	if v.Dim() == 0 {
		return math.NaN()
	}

	switch kind {
	case NormL1:
		var sum float64
		for _, x := range v.data.Raw() {
			sum += mgl64.Abs(x)
		}
		return sum
	case NormL2:
		return v.data.Len()
	case NormInf:
		var m float64
		for _, x := range v.data.Raw() {
			m = math.Max(m, mgl64.Abs(x))
		}
		return m
	default:
		v.log.Log("vector.Norm", "unknown norm "+kind.String(), errcode.InvalidParameter)
		return math.NaN()
	}
}

func (v *Vector) String() string {
	if v == nil {
		return "<nil>"
	}
	parts := make([]string, v.Dim())
	for i, x := range v.Coords() {
		parts[i] = fmt.Sprintf("%g", x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
