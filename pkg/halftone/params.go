package halftone

import (
	"math"

	"github.com/matzehuels/halftone/pkg/dot"
	"github.com/matzehuels/halftone/pkg/errors"
	"github.com/matzehuels/halftone/pkg/pattern"
	"github.com/matzehuels/halftone/pkg/shape"
)

// Default parameter values.
const (
	DefaultTileSize    = 30
	DefaultContrast    = 1
	DefaultBrightness  = 1
	DefaultMinDotSize  = 2
	DefaultMaxDotScale = 1
	DefaultThreshold1  = 0.33
	DefaultThreshold2  = 0.66
)

// Range is an inclusive numeric bound.
type Range struct{ Min, Max float64 }

// Clamp bounds v to the range. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Supported ranges for the numeric parameters.
var (
	TileSizeRange    = Range{5, 100}
	ContrastRange    = Range{0.2, 3}
	BrightnessRange  = Range{0.5, 1.5}
	MinDotSizeRange  = Range{1, 20}
	MaxDotScaleRange = Range{1, 3}
	BrightSkipRange  = Range{0, 0.5}
	GravityRange     = Range{0, 100}
	NoiseRange       = Range{0, 50}
	ThresholdRange   = Range{0, 1}
)

// Effect is an optional displacement with a strength.
type Effect struct {
	Enabled  bool    `json:"enabled" toml:"enabled"`
	Strength float64 `json:"strength" toml:"strength"`
}

// Amount returns the strength when the effect is enabled, else 0.
func (e Effect) Amount() float64 {
	if !e.Enabled {
		return 0
	}
	return e.Strength
}

// Params is the full parameter set for one computation.
type Params struct {
	TileSize    float64 `json:"tile_size" toml:"tile_size"`
	Contrast    float64 `json:"contrast" toml:"contrast"`
	Brightness  float64 `json:"brightness" toml:"brightness"`
	MinDotSize  float64 `json:"min_dot_size" toml:"min_dot_size"`
	MaxDotScale float64 `json:"max_dot_scale" toml:"max_dot_scale"`
	BrightSkip  float64 `json:"bright_skip" toml:"bright_skip"`
	Invert      bool    `json:"invert" toml:"invert"`

	Gravity Effect `json:"gravity" toml:"gravity"`
	Noise   Effect `json:"noise" toml:"noise"`

	Pattern    pattern.Kind `json:"pattern" toml:"pattern"`
	ShapeMode  shape.Mode   `json:"shape_mode" toml:"shape_mode"`
	Threshold1 float64      `json:"threshold1" toml:"threshold1"`
	Threshold2 float64      `json:"threshold2" toml:"threshold2"`
}

// DefaultParams returns the parameter set used when nothing is configured.
func DefaultParams() Params {
	return Params{
		TileSize:    DefaultTileSize,
		Contrast:    DefaultContrast,
		Brightness:  DefaultBrightness,
		MinDotSize:  DefaultMinDotSize,
		MaxDotScale: DefaultMaxDotScale,
		Pattern:     pattern.Grid,
		ShapeMode:   shape.ModeSingle,
		Threshold1:  DefaultThreshold1,
		Threshold2:  DefaultThreshold2,
	}
}

// Clamp returns a copy with every numeric field inside its supported range.
// Thresholds are swapped when Threshold1 > Threshold2, and empty pattern or
// shape mode names take their defaults.
func (p Params) Clamp() Params {
	p.TileSize = TileSizeRange.Clamp(p.TileSize)
	p.Contrast = ContrastRange.Clamp(p.Contrast)
	p.Brightness = BrightnessRange.Clamp(p.Brightness)
	p.MinDotSize = MinDotSizeRange.Clamp(p.MinDotSize)
	p.MaxDotScale = MaxDotScaleRange.Clamp(p.MaxDotScale)
	p.BrightSkip = BrightSkipRange.Clamp(p.BrightSkip)
	p.Gravity.Strength = GravityRange.Clamp(p.Gravity.Strength)
	p.Noise.Strength = NoiseRange.Clamp(p.Noise.Strength)
	p.Threshold1 = ThresholdRange.Clamp(p.Threshold1)
	p.Threshold2 = ThresholdRange.Clamp(p.Threshold2)
	if p.Threshold1 > p.Threshold2 {
		p.Threshold1, p.Threshold2 = p.Threshold2, p.Threshold1
	}
	if p.Pattern == "" {
		p.Pattern = pattern.Grid
	}
	if p.ShapeMode == "" {
		p.ShapeMode = shape.ModeSingle
	}
	return p
}

// Validate rejects unknown pattern and shape mode names. Numeric fields are
// not checked; use Clamp.
func (p Params) Validate() error {
	if p.Pattern != "" && !pattern.ValidKinds[p.Pattern] {
		return errors.New(errors.ErrCodeInvalidPattern,
			"invalid pattern: %q (must be one of: grid, staggered, radial, shape, svg-pattern)", p.Pattern)
	}
	if p.ShapeMode != "" && !shape.ValidModes[p.ShapeMode] {
		return errors.New(errors.ErrCodeInvalidShapeMode,
			"invalid shape mode: %q (must be one of: single, range, random)", p.ShapeMode)
	}
	return nil
}

// Normalize validates p and returns the clamped copy. It accepts display
// names such as "SVG Pattern" or "Range".
func (p Params) Normalize() (Params, error) {
	kind, err := pattern.ParseKind(string(p.Pattern))
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidPattern, err, "invalid parameters")
	}
	mode, err := shape.ParseMode(string(p.ShapeMode))
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidShapeMode, err, "invalid parameters")
	}
	p.Pattern, p.ShapeMode = kind, mode
	return p.Clamp(), nil
}

// DotParams returns the synthesis subset.
func (p Params) DotParams() dot.Params {
	return dot.Params{
		TileSize:    p.TileSize,
		Contrast:    p.Contrast,
		Brightness:  p.Brightness,
		MinDotSize:  p.MinDotSize,
		MaxDotScale: p.MaxDotScale,
		BrightSkip:  p.BrightSkip,
		Invert:      p.Invert,
	}
}

// Picker returns the shape picker configured by p.
func (p Params) Picker() shape.Picker {
	return shape.Picker{Mode: p.ShapeMode, T1: p.Threshold1, T2: p.Threshold2}
}
