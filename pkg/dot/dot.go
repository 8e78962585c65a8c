package dot

import (
	"math"

	"github.com/matzehuels/halftone/pkg/pattern"
	"github.com/matzehuels/halftone/pkg/sampler"
)

// Dot is a single halftone mark. OriginalX/OriginalY hold the generated
// position; X/Y are moved by the displacement stage. Brightness is the
// normalized darkness n, and Mass mirrors it for gravity.
type Dot struct {
	OriginalX  float64
	OriginalY  float64
	X          float64
	Y          float64
	Size       float64
	Brightness float64
	Mass       float64
}

// Params is the subset of the parameter set used for synthesis.
type Params struct {
	TileSize    float64
	Contrast    float64
	Brightness  float64
	MinDotSize  float64
	MaxDotScale float64
	BrightSkip  float64
	Invert      bool
}

// Normalize maps an RGB mean to darkness in [0, 1]: 1 for black, 0 for
// white. Values pushed past white by the brightness multiplier clamp to 0.
func (p Params) Normalize(mean float64) float64 {
	b := mean * p.Brightness
	n := math.Pow(clamp01(1-b/255), p.Contrast)
	if p.Invert {
		n = 1 - n
	}
	return n
}

// SizeFor returns the dot diameter for darkness n.
func (p Params) SizeFor(n float64) float64 {
	return n * p.TileSize * lerp(1, p.MaxDotScale, n)
}

// Keep reports whether a dot of the given size and darkness survives the
// minimum size and bright-skip filters.
func (p Params) Keep(size, n float64) bool {
	return size >= p.MinDotSize && n >= p.BrightSkip
}

// Synthesize builds one dot per position. Filtered positions are nil.
func Synthesize(points []pattern.Point, s sampler.Surface, p Params) []*Dot {
	dots := make([]*Dot, len(points))
	for i, pt := range points {
		c := s.Sample(pt.X, pt.Y)
		if c.A == 0 {
			continue
		}
		mean := (float64(c.R) + float64(c.G) + float64(c.B)) / 3
		n := p.Normalize(mean)
		size := p.SizeFor(n)
		if !p.Keep(size, n) {
			continue
		}
		dots[i] = &Dot{
			OriginalX:  pt.X,
			OriginalY:  pt.Y,
			X:          pt.X,
			Y:          pt.Y,
			Size:       size,
			Brightness: n,
			Mass:       n,
		}
	}
	return dots
}

// Live returns the non-nil dots in order.
func Live(dots []*Dot) []*Dot {
	out := make([]*Dot, 0, len(dots))
	for _, d := range dots {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
