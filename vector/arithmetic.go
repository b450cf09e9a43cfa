package vector

import (
	"math"

	"github.com/akmonengine/hyperbox/errcode"
	"github.com/akmonengine/hyperbox/logger"
	"github.com/go-gl/mathgl/mgl64"
)

// ValidateTolerance rejects NaN (NotANumber) and negative (InvalidParameter) tolerances.
func ValidateTolerance(op string, tolerance float64) error {
	if math.IsNaN(tolerance) {
		return errcode.Newf(op, errcode.NotANumber, "tolerance is NaN")
	}
	if tolerance < 0 {
		return errcode.Newf(op, errcode.InvalidParameter, "negative tolerance %g", tolerance)
	}
	return nil
}

func checkPair(op string, a, b *Vector) error {
	if IsNull(a) || IsNull(b) {
		return errcode.New(op, errcode.NullInput)
	}
	if a.Dim() != b.Dim() {
		return errcode.Dimension(op, a.Dim(), b.Dim())
	}
	return nil
}

func checkResult(op string, data *mgl64.VecN) error {
	for i, x := range data.Raw() {
		if math.IsNaN(x) {
			return errcode.Newf(op, errcode.NotANumber, "coordinate %d of the result is NaN", i)
		}
	}
	return nil
}

// Add returns a + b.
func Add(a, b *Vector, log *logger.Logger) (*Vector, error) {
	const op = "vector.Add"

	if err := checkPair(op, a, b); err != nil {
		return nil, fail(log, op, err)
	}
	sum := a.data.Add(nil, b.data)
	if err := checkResult(op, sum); err != nil {
		return nil, fail(log, op, err)
	}
	return wrap(sum, log), nil
}

// Sub returns a - b.
func Sub(a, b *Vector, log *logger.Logger) (*Vector, error) {
	const op = "vector.Sub"

	if err := checkPair(op, a, b); err != nil {
		return nil, fail(log, op, err)
	}
	diff := a.data.Sub(nil, b.data)
	if err := checkResult(op, diff); err != nil {
		return nil, fail(log, op, err)
	}
	return wrap(diff, log), nil
}

// Scale returns k·v.
func Scale(v *Vector, k float64, log *logger.Logger) (*Vector, error) {
	const op = "vector.Scale"

	if IsNull(v) {
		return nil, fail(log, op, errcode.New(op, errcode.NullInput))
	}
	if math.IsNaN(k) {
		return nil, fail(log, op, errcode.Newf(op, errcode.NotANumber, "scale factor is NaN"))
	}
	prod := v.data.Mul(nil, k)
	if err := checkResult(op, prod); err != nil {
		return nil, fail(log, op, err)
	}
	return wrap(prod, log), nil
}

// Dot returns the scalar product of a and b, or NaN if either is nil or their
// dimensions differ.
func Dot(a, b *Vector, log *logger.Logger) float64 {
	const op = "vector.Dot"

	if err := checkPair(op, a, b); err != nil {
		log.Error(op, err)
		return math.NaN()
	}
	return a.data.Dot(b.data)
}

// Equals reports whether norm(a - b) < tolerance.
//
// It fails on nil input, dimension mismatch, NaN or negative tolerance and unknown norm.
func Equals(a, b *Vector, norm Norm, tolerance float64, log *logger.Logger) (bool, error) {
	const op = "vector.Equals"

	if err := checkPair(op, a, b); err != nil {
		return false, fail(log, op, err)
	}
	if err := ValidateTolerance(op, tolerance); err != nil {
		return false, fail(log, op, err)
	}
	if !norm.Valid() {
		return false, fail(log, op, errcode.Newf(op, errcode.InvalidParameter, "unknown norm %s", norm))
	}

	diff := a.data.Sub(nil, b.data)
	if err := checkResult(op, diff); err != nil {
		return false, fail(log, op, err)
	}
	d := (&Vector{data: diff}).Norm(norm)
	if math.IsNaN(d) {
		return false, fail(log, op, errcode.New(op, errcode.NotANumber))
	}
	return d < tolerance, nil
}
