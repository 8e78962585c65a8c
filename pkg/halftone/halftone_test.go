package halftone

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/halftone/pkg/errors"
	"github.com/matzehuels/halftone/pkg/pattern"
	"github.com/matzehuels/halftone/pkg/sampler"
	"github.com/matzehuels/halftone/pkg/shape"
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func tiles(n int) []shape.Asset {
	out := make([]shape.Asset, n)
	for i := range out {
		out[i] = shape.NewBitmap("tile", shape.MediaTypePNG, nil, fill(4, 4, black))
	}
	return out
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.TileSize != 30 || p.Contrast != 1 || p.Brightness != 1 || p.MinDotSize != 2 || p.MaxDotScale != 1 {
		t.Errorf("unexpected numeric defaults: %+v", p)
	}
	if p.Pattern != pattern.Grid || p.ShapeMode != shape.ModeSingle {
		t.Errorf("Pattern/ShapeMode = %q/%q, want grid/single", p.Pattern, p.ShapeMode)
	}
	if p.Threshold1 != 0.33 || p.Threshold2 != 0.66 {
		t.Errorf("thresholds = %v/%v, want 0.33/0.66", p.Threshold1, p.Threshold2)
	}
	if p.Gravity.Enabled || p.Noise.Enabled || p.Invert {
		t.Error("effects should be off by default")
	}
	if p.Clamp() != p {
		t.Error("defaults should already be inside their ranges")
	}
}

func TestParamsClamp(t *testing.T) {
	p := Params{
		TileSize:    1,
		Contrast:    10,
		Brightness:  math.NaN(),
		MinDotSize:  0,
		MaxDotScale: 0.5,
		BrightSkip:  0.9,
		Gravity:     Effect{Enabled: true, Strength: 500},
		Noise:       Effect{Strength: -3},
		Threshold1:  0.8,
		Threshold2:  0.2,
	}.Clamp()

	want := Params{
		TileSize:    5,
		Contrast:    3,
		Brightness:  0.5,
		MinDotSize:  1,
		MaxDotScale: 1,
		BrightSkip:  0.5,
		Gravity:     Effect{Enabled: true, Strength: 100},
		Noise:       Effect{Strength: 0},
		Pattern:     pattern.Grid,
		ShapeMode:   shape.ModeSingle,
		Threshold1:  0.2,
		Threshold2:  0.8,
	}
	if p != want {
		t.Errorf("Clamp() =\n%+v\nwant\n%+v", p, want)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		wantCode errors.Code
	}{
		{"defaults", DefaultParams(), ""},
		{"empty names", Params{}, ""},
		{"bad pattern", Params{Pattern: "hex"}, errors.ErrCodeInvalidPattern},
		{"display pattern name", Params{Pattern: "SVG Pattern"}, errors.ErrCodeInvalidPattern},
		{"bad mode", Params{ShapeMode: "cycle"}, errors.ErrCodeInvalidShapeMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetCode(tt.params.Validate()); got != tt.wantCode {
				t.Errorf("Validate() code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestParamsNormalize(t *testing.T) {
	p := DefaultParams()
	p.Pattern = "SVG Pattern"
	p.ShapeMode = "Range"
	p.TileSize = 400

	got, err := p.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Pattern != pattern.SVGPattern || got.ShapeMode != shape.ModeRange || got.TileSize != 100 {
		t.Errorf("Normalize() = %+v", got)
	}

	p.Pattern = "hexagon"
	if _, err := p.Normalize(); !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("Normalize(hexagon) error = %v, want INVALID_PATTERN", err)
	}
}

func TestEffectAmount(t *testing.T) {
	if got := (Effect{Strength: 5}).Amount(); got != 0 {
		t.Errorf("disabled Amount() = %v, want 0", got)
	}
	if got := (Effect{Enabled: true, Strength: 5}).Amount(); got != 5 {
		t.Errorf("enabled Amount() = %v, want 5", got)
	}
}

func blackParams() Params {
	p := DefaultParams()
	p.TileSize = 50
	return p
}

func TestCompute_BlackGrid(t *testing.T) {
	frame := Frame{Width: 200, Height: 200}
	res := Compute(frame, blackParams(), sampler.New(fill(200, 200, black)), shape.Set{})

	if len(res.Dots) != 16 {
		t.Fatalf("got %d dots, want 16", len(res.Dots))
	}
	for _, d := range res.Dots {
		if d.Size != 50 || d.Brightness != 1 || d.Shape != shape.None {
			t.Errorf("dot = %+v, want size 50, brightness 1, circle", d)
		}
	}
	if res.Stats != (Stats{Candidates: 16, Survivors: 16, Shrunk: 0}) {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Frame != frame {
		t.Errorf("Frame = %+v, want %+v", res.Frame, frame)
	}
}

func TestCompute_White(t *testing.T) {
	res := Compute(Frame{200, 200}, blackParams(), sampler.New(fill(200, 200, white)), shape.Set{})
	if len(res.Dots) != 0 {
		t.Errorf("white image produced %d dots", len(res.Dots))
	}
	if res.Dots == nil {
		t.Error("Dots should be empty, not nil")
	}
	if res.Stats.Candidates != 16 || res.Stats.Survivors != 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestCompute_TransparentMargin(t *testing.T) {
	img := fill(200, 200, black)
	for y := 0; y < 200; y++ {
		for x := 0; x < 100; x++ {
			img.SetNRGBA(x, y, color.NRGBA{})
		}
	}
	res := Compute(Frame{200, 200}, blackParams(), sampler.New(img), shape.Set{})
	if len(res.Dots) != 8 {
		t.Fatalf("got %d dots, want 8", len(res.Dots))
	}
	for _, d := range res.Dots {
		if d.X < 100 {
			t.Errorf("dot at x=%v in transparent half", d.X)
		}
	}
}

func TestCompute_Gravity(t *testing.T) {
	p := blackParams()
	p.Gravity = Effect{Enabled: true, Strength: 10}
	res := Compute(Frame{200, 200}, p, sampler.New(fill(200, 200, black)), shape.Set{})

	want := map[float64]bool{55: true, 105: true, 155: true, 175: true}
	for _, d := range res.Dots {
		if !want[d.Y] {
			t.Errorf("dot Y = %v, want one of 55, 105, 155, 175", d.Y)
		}
	}

	p.Gravity.Enabled = false
	res = Compute(Frame{200, 200}, p, sampler.New(fill(200, 200, black)), shape.Set{})
	if res.Dots[0].Y != 25 {
		t.Errorf("disabled gravity moved first dot to %v", res.Dots[0].Y)
	}
}

func TestCompute_NoiseDeterministic(t *testing.T) {
	p := blackParams()
	p.TileSize = 20
	p.Noise = Effect{Enabled: true, Strength: 25}
	s := sampler.New(fill(150, 120, color.NRGBA{R: 90, G: 90, B: 90, A: 255}))

	a := Compute(Frame{150, 120}, p, s, shape.Set{})
	b := Compute(Frame{150, 120}, p, s, shape.Set{})
	if len(a.Dots) == 0 || len(a.Dots) != len(b.Dots) {
		t.Fatalf("dot counts %d vs %d", len(a.Dots), len(b.Dots))
	}
	for i := range a.Dots {
		if a.Dots[i] != b.Dots[i] {
			t.Fatalf("dot %d differs: %+v vs %+v", i, a.Dots[i], b.Dots[i])
		}
	}
	for _, d := range a.Dots {
		if d.X < d.Size/2-1e-9 || d.X > 150-d.Size/2+1e-9 {
			t.Errorf("jittered dot outside frame: %+v", d)
		}
	}
}

func TestCompute_ShapeSelection(t *testing.T) {
	p := blackParams()
	p.ShapeMode = shape.ModeRange
	res := Compute(Frame{100, 100}, p, sampler.New(fill(100, 100, black)), shape.Set{Tiles: tiles(3)})

	for _, d := range res.Dots {
		if d.Shape != 2 {
			t.Errorf("black dot in range mode picked tile %d, want 2", d.Shape)
		}
	}

	p.ShapeMode = shape.ModeSingle
	res = Compute(Frame{100, 100}, p, sampler.New(fill(100, 100, black)), shape.Set{Tiles: tiles(3)})
	for _, d := range res.Dots {
		if d.Shape != 0 {
			t.Errorf("single mode picked tile %d, want 0", d.Shape)
		}
	}
}

func TestCompute_Overlap(t *testing.T) {
	p := blackParams()
	p.TileSize = 20
	p.MaxDotScale = 3
	res := Compute(Frame{100, 100}, p, sampler.New(fill(100, 100, black)), shape.Set{})

	if res.Stats.Shrunk == 0 {
		t.Fatal("oversized dots should have been shrunk")
	}
	for _, d := range res.Dots {
		if d.Size > 60 || d.Size < p.MinDotSize {
			t.Errorf("effective size %v outside [%v, 60]", d.Size, p.MinDotSize)
		}
	}
}

func TestCompute_MissingAssets(t *testing.T) {
	for _, kind := range []pattern.Kind{pattern.Shape, pattern.SVGPattern} {
		p := blackParams()
		p.Pattern = kind
		res := Compute(Frame{100, 100}, p, sampler.New(fill(100, 100, black)), shape.Set{})
		if len(res.Dots) != 0 || res.Stats.Candidates != 0 {
			t.Errorf("%s without assets: %+v", kind, res.Stats)
		}
	}
}

func TestCompute_EmptyFrame(t *testing.T) {
	res := Compute(Frame{}, blackParams(), sampler.New(fill(1, 1, black)), shape.Set{})
	if len(res.Dots) != 0 {
		t.Errorf("empty frame produced %d dots", len(res.Dots))
	}
	res = Compute(Frame{10, 10}, blackParams(), nil, shape.Set{})
	if len(res.Dots) != 0 {
		t.Errorf("nil surface produced %d dots", len(res.Dots))
	}
}
