package dot

import "math"

// Resolve returns the effective size of every dot, aligned with dots; nil
// entries get 0.
//
// For each pair closer than the sum of their radii, the dot is limited to
// max(minDotSize, 2d - Size_j/2). Only original sizes feed the comparison,
// so the order of dots does not matter. Coincident dots (d == 0) are left
// alone. The scan is quadratic in the number of live dots.
func Resolve(dots []*Dot, minDotSize float64) []float64 {
	eff := make([]float64, len(dots))
	for i, a := range dots {
		if a == nil {
			continue
		}
		size := a.Size
		for j, b := range dots {
			if j == i || b == nil {
				continue
			}
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d <= 0 || d >= (a.Size+b.Size)/2 {
				continue
			}
			size = math.Min(size, math.Max(minDotSize, 2*d-b.Size/2))
		}
		eff[i] = size
	}
	return eff
}

// Shrunk counts entries whose effective size is below the dot's own size.
func Shrunk(dots []*Dot, eff []float64) int {
	n := 0
	for i, d := range dots {
		if d != nil && i < len(eff) && eff[i] < d.Size {
			n++
		}
	}
	return n
}
