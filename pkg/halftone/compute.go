package halftone

import (
	"github.com/matzehuels/halftone/pkg/dot"
	"github.com/matzehuels/halftone/pkg/dot/transform"
	"github.com/matzehuels/halftone/pkg/pattern"
	"github.com/matzehuels/halftone/pkg/sampler"
	"github.com/matzehuels/halftone/pkg/shape"
)

// Frame is the coordinate space of a computation, usually the source image's
// native resolution.
type Frame struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the frame has no area.
func (f Frame) Empty() bool { return f.Width <= 0 || f.Height <= 0 }

// Renderable is a dot in its final form. Shape indexes the tile list; -1
// means a plain circle.
type Renderable struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Size       float64 `json:"size"`
	Brightness float64 `json:"brightness"`
	Shape      int     `json:"shape"`
}

// Stats summarizes one pass.
type Stats struct {
	Candidates int `json:"candidates"` // positions generated
	Survivors  int `json:"survivors"`  // dots left after synthesis filters
	Shrunk     int `json:"shrunk"`     // dots reduced by overlap resolution
}

// Result is the output of Compute.
type Result struct {
	Frame  Frame        `json:"frame"`
	Params Params       `json:"params"`
	Dots   []Renderable `json:"dots"`
	Stats  Stats        `json:"stats"`
}

// Compute runs one full pass. Dots are ordered as their positions were
// generated. An empty frame or a pattern whose asset is missing yields an
// empty result.
func Compute(frame Frame, p Params, s sampler.Surface, assets shape.Set) Result {
	res := Result{Frame: frame, Params: p, Dots: []Renderable{}}
	if frame.Empty() || s == nil {
		return res
	}

	points := pattern.Generate(p.Pattern, p.TileSize, frame.Width, frame.Height, assets)
	dots := dot.Synthesize(points, s, p.DotParams())

	transform.Gravity(dots, p.Gravity.Amount(), frame.Height)
	transform.Jitter(dots, p.Noise.Amount(), frame.Width, frame.Height)

	eff := dot.Resolve(dots, p.MinDotSize)
	picker := p.Picker()
	count := len(assets.Tiles)

	for i, d := range dots {
		if d == nil {
			continue
		}
		res.Dots = append(res.Dots, Renderable{
			X:          d.X,
			Y:          d.Y,
			Size:       eff[i],
			Brightness: d.Brightness,
			Shape:      picker.Pick(d.Brightness, count),
		})
	}

	res.Stats = Stats{
		Candidates: len(points),
		Survivors:  len(res.Dots),
		Shrunk:     dot.Shrunk(dots, eff),
	}
	return res
}
