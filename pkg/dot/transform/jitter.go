package transform

import (
	"math"

	"github.com/matzehuels/halftone/pkg/dot"
)

// Hash returns frac(sin(seed)·10000) in [0, 1).
func Hash(seed float64) float64 {
	v := math.Sin(seed) * 10000
	return v - math.Floor(v)
}

// Offset returns the jitter displacement for a dot generated at (ox, oy).
// Each axis lies in [-strength/2, strength/2).
func Offset(ox, oy, strength float64) (dx, dy float64) {
	seed := ox*1000 + oy
	dx = (Hash(seed) - 0.5) * strength
	dy = (Hash(seed+1) - 0.5) * strength
	return dx, dy
}

// Jitter adds Offset to the current position of each dot and clamps the
// result so the dot stays inside the width×height frame. A non-positive
// strength leaves the dots untouched.
func Jitter(dots []*dot.Dot, strength float64, width, height int) {
	if strength <= 0 {
		return
	}
	w, h := float64(width), float64(height)
	for _, d := range dots {
		if d == nil {
			continue
		}
		dx, dy := Offset(d.OriginalX, d.OriginalY, strength)
		r := d.Size / 2
		d.X = clamp(d.X+dx, r, w-r)
		d.Y = clamp(d.Y+dy, r, h-r)
	}
}

// clamp bounds v to [lo, hi]. When the dot is wider than the frame the
// lower bound wins.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
