package vector

import "fmt"

// Norm selects the norm used for lengths and tolerance comparisons.
type Norm int

const (
	// NormL1 is the sum of absolute coordinates.
	NormL1 Norm = iota
	// NormL2 is the Euclidean length.
	NormL2
	// NormInf is the largest absolute coordinate.
	NormInf
)

func (n Norm) String() string {
	switch n {
	case NormL1:
		return "L1"
	case NormL2:
		return "L2"
	case NormInf:
		return "Linf"
	default:
		return fmt.Sprintf("Unknown(%d)", int(n))
	}
}

// Valid reports whether n is one of the supported norms.
func (n Norm) Valid() bool {
	return n >= NormL1 && n <= NormInf
}
