// Package hyperbox is a toolkit for points and axis-aligned boxes in ℝⁿ compared under a
// floating-point tolerance.
//
// The sub-packages hold the geometry: vector (points, norms, tolerance equality), set
// (tolerance-deduplicated point sets and their algebra) and compact (boxes, box algebra
// and lattice iteration). This package ties them together through Space, which fixes the
// dimension, tolerance, norm and logger once, and a hashed SpatialGrid that finds
// intersecting boxes among many.
//
//	space := hyperbox.NewSpace(2, logger.New())
//	a, _ := space.Box([]float64{0, 0}, []float64{2, 1})
//	it, _ := space.Walk(a, 1, 1)
//	for p := range it.Points() {
//		fmt.Println(p)
//	}
package hyperbox
