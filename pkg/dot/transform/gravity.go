package transform

import (
	"math"

	"github.com/matzehuels/halftone/pkg/dot"
)

// fallPerMass is the downward travel per unit of mass and strength.
const fallPerMass = 3

// Gravity moves each dot to OriginalY + Mass·strength·3, never past
// height - Size/2. A non-positive strength leaves the dots untouched.
func Gravity(dots []*dot.Dot, strength float64, height int) {
	if strength <= 0 {
		return
	}
	floor := float64(height)
	for _, d := range dots {
		if d == nil {
			continue
		}
		fall := d.Mass * strength * fallPerMass
		d.Y = math.Min(floor-d.Size/2, d.OriginalY+fall)
	}
}
