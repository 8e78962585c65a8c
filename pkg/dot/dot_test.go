package dot

import (
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/halftone/pkg/pattern"
)

// surfaceFunc adapts a function to sampler.Surface.
type surfaceFunc func(x, y float64) color.NRGBA

func (f surfaceFunc) Sample(x, y float64) color.NRGBA { return f(x, y) }

func solid(v uint8) surfaceFunc {
	return func(x, y float64) color.NRGBA { return color.NRGBA{R: v, G: v, B: v, A: 255} }
}

func defaults() Params {
	return Params{
		TileSize:    30,
		Contrast:    1,
		Brightness:  1,
		MinDotSize:  2,
		MaxDotScale: 1,
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		params func(p *Params)
		mean   float64
		want   float64
	}{
		{"black", nil, 0, 1},
		{"white", nil, 255, 0},
		{"mid", nil, 127.5, 0.5},
		{"contrast squares", func(p *Params) { p.Contrast = 2 }, 127.5, 0.25},
		{"brightness past white clamps", func(p *Params) { p.Brightness = 1.5 }, 255, 0},
		{"invert black", func(p *Params) { p.Invert = true }, 0, 0},
		{"invert white", func(p *Params) { p.Invert = true }, 255, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaults()
			if tt.params != nil {
				tt.params(&p)
			}
			got := p.Normalize(tt.mean)
			if math.IsNaN(got) || math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.mean, got, tt.want)
			}
		})
	}
}

func TestSizeFor(t *testing.T) {
	p := defaults()
	if got := p.SizeFor(1); got != 30 {
		t.Errorf("SizeFor(1) = %v, want 30", got)
	}

	p.MaxDotScale = 3
	if got := p.SizeFor(1); got != 90 {
		t.Errorf("SizeFor(1) with scale 3 = %v, want 90", got)
	}
	// 0.5 * 30 * lerp(1, 3, 0.5) = 15 * 2
	if got := p.SizeFor(0.5); got != 30 {
		t.Errorf("SizeFor(0.5) with scale 3 = %v, want 30", got)
	}
}

func TestSynthesize_BlackAndWhite(t *testing.T) {
	pts := []pattern.Point{{X: 15, Y: 15}}

	black := Synthesize(pts, solid(0), defaults())
	if black[0] == nil {
		t.Fatal("black sample should produce a dot")
	}
	if black[0].Brightness != 1 || black[0].Mass != 1 || black[0].Size != 30 {
		t.Errorf("black dot = %+v, want n=1 size=30", *black[0])
	}

	white := Synthesize(pts, solid(255), defaults())
	if white[0] != nil {
		t.Errorf("white sample should be filtered, got %+v", *white[0])
	}
}

func TestSynthesize_Alignment(t *testing.T) {
	pts := []pattern.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}}
	s := surfaceFunc(func(x, y float64) color.NRGBA {
		switch x {
		case 0:
			return color.NRGBA{}
		case 10:
			return color.NRGBA{A: 255}
		case 20:
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		default:
			return color.NRGBA{R: 64, G: 64, B: 64, A: 255}
		}
	})

	dots := Synthesize(pts, s, defaults())
	if len(dots) != len(pts) {
		t.Fatalf("len = %d, want %d", len(dots), len(pts))
	}
	if dots[0] != nil {
		t.Error("transparent sample should be nil")
	}
	if dots[1] == nil || dots[1].OriginalX != 10 {
		t.Error("opaque black should be kept at index 1")
	}
	if dots[2] != nil {
		t.Error("white sample should be nil")
	}
	if dots[3] == nil || dots[3].X != 30 {
		t.Error("grey sample should be kept at index 3")
	}
	if got := len(Live(dots)); got != 2 {
		t.Errorf("Live() = %d dots, want 2", got)
	}
}

func TestSynthesize_Filters(t *testing.T) {
	pts := []pattern.Point{{X: 5, Y: 5}}

	p := defaults()
	p.MinDotSize = 20
	// mean 204 -> n = 0.2 -> size 6
	if dots := Synthesize(pts, solid(204), p); dots[0] != nil {
		t.Errorf("dot below MinDotSize kept: %+v", *dots[0])
	}

	p = defaults()
	p.BrightSkip = 0.5
	if dots := Synthesize(pts, solid(204), p); dots[0] != nil {
		t.Errorf("dot below BrightSkip kept: %+v", *dots[0])
	}
	if dots := Synthesize(pts, solid(0), p); dots[0] == nil {
		t.Error("dark dot above BrightSkip dropped")
	}
}

func TestSynthesize_MinSizeHolds(t *testing.T) {
	var pts []pattern.Point
	for x := 0; x < 256; x++ {
		pts = append(pts, pattern.Point{X: float64(x)})
	}
	ramp := surfaceFunc(func(x, y float64) color.NRGBA {
		v := uint8(x)
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	})

	for _, minDot := range []float64{1, 2, 7.5, 20} {
		p := defaults()
		p.MinDotSize = minDot
		p.Contrast = 1.7
		p.MaxDotScale = 2.2
		for _, d := range Live(Synthesize(pts, ramp, p)) {
			if d.Size < minDot {
				t.Errorf("minDot %v: dot at %v has size %v", minDot, d.OriginalX, d.Size)
			}
		}
	}
}

func TestSynthesize_Empty(t *testing.T) {
	if dots := Synthesize(nil, solid(0), defaults()); len(dots) != 0 {
		t.Errorf("Synthesize(nil) = %d dots, want 0", len(dots))
	}
}
