package pattern

import (
	"image"
	"image/color"
	"testing"

	"github.com/matzehuels/halftone/pkg/shape"
)

// alphaGrid is a minimal shape.Asset for tests.
type alphaGrid struct {
	w, h   int
	opaque func(x, y int) bool
}

func (a alphaGrid) Width() int  { return a.w }
func (a alphaGrid) Height() int { return a.h }
func (a alphaGrid) AlphaAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= a.w || y >= a.h || !a.opaque(x, y) {
		return 0
	}
	return 255
}

func TestGrid(t *testing.T) {
	pts := Generate(Grid, 50, 200, 200, shape.Set{})
	if len(pts) != 16 {
		t.Fatalf("got %d points, want 16", len(pts))
	}

	want := map[float64]bool{25: true, 75: true, 125: true, 175: true}
	for _, p := range pts {
		if !want[p.X] || !want[p.Y] {
			t.Errorf("unexpected point %v", p)
		}
	}
	if pts[0] != (Point{25, 25}) || pts[1] != (Point{75, 25}) {
		t.Errorf("grid should be row-major, got %v, %v", pts[0], pts[1])
	}
}

func TestGridNonSquare(t *testing.T) {
	pts := Generate(Grid, 30, 100, 40, shape.Set{})
	// x: 15, 45, 75 (105 > 85); y: 15 only (45 > 25).
	if len(pts) != 3 {
		t.Errorf("got %d points, want 3: %v", len(pts), pts)
	}
}

func TestStaggered(t *testing.T) {
	pts := Generate(Staggered, 50, 200, 200, shape.Set{})
	if len(pts) != 14 {
		t.Fatalf("got %d points, want 14", len(pts))
	}

	rows := map[float64][]float64{}
	for _, p := range pts {
		rows[p.Y] = append(rows[p.Y], p.X)
	}
	if got := rows[25]; len(got) != 4 || got[0] != 25 {
		t.Errorf("row 0 = %v, want starting at 25 with 4 points", got)
	}
	if got := rows[75]; len(got) != 3 || got[0] != 50 {
		t.Errorf("row 1 = %v, want offset row starting at 50 with 3 points", got)
	}
}

func TestRadial(t *testing.T) {
	const w, h, tile = 120, 100, 20.0
	pts := Generate(Radial, tile, w, h, shape.Set{})
	if len(pts) == 0 {
		t.Fatal("radial pattern produced no points")
	}
	half := tile / 2
	for _, p := range pts {
		if p.X < half || p.X > w-half || p.Y < half || p.Y > h-half {
			t.Errorf("point %v outside frame margin", p)
		}
		if p.X != float64(int(p.X)) || p.Y != float64(int(p.Y)) {
			t.Errorf("point %v should be rounded to integers", p)
		}
	}

	// First ring starts at angle 0, radius half.
	if pts[0] != (Point{70, 50}) {
		t.Errorf("first point = %v, want {70 50}", pts[0])
	}

	again := Generate(Radial, tile, w, h, shape.Set{})
	if len(again) != len(pts) {
		t.Fatal("radial pattern not deterministic")
	}
	for i := range pts {
		if pts[i] != again[i] {
			t.Fatalf("point %d differs between runs", i)
		}
	}
}

func TestRadialTooSmall(t *testing.T) {
	if pts := Generate(Radial, 50, 10, 10, shape.Set{}); len(pts) != 0 {
		t.Errorf("got %d points, want none when the first ring exceeds the frame", len(pts))
	}
}

func TestShape(t *testing.T) {
	mask := alphaGrid{w: 4, h: 4, opaque: func(x, y int) bool { return x < 2 }}
	pts := Generate(Shape, 50, 100, 100, shape.Set{Mask: mask})

	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2: %v", len(pts), pts)
	}
	for _, p := range pts {
		if p.X != 25 {
			t.Errorf("point %v should be in the opaque left half", p)
		}
	}
}

func TestShapeFallsBackToTile(t *testing.T) {
	tile := alphaGrid{w: 4, h: 4, opaque: func(x, y int) bool { return y >= 2 }}
	pts := Generate(Shape, 50, 100, 100, shape.Set{Tiles: []shape.Asset{tile}})

	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2: %v", len(pts), pts)
	}
	for _, p := range pts {
		if p.Y != 75 {
			t.Errorf("point %v should be in the opaque bottom half", p)
		}
	}
}

func TestShapeThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: shape.AlphaThreshold})
		}
	}
	mask := shape.NewBitmap("faint", shape.MediaTypePNG, nil, img)
	if pts := Generate(Shape, 10, 20, 20, shape.Set{Mask: mask}); len(pts) != 0 {
		t.Errorf("alpha equal to threshold should not count, got %d points", len(pts))
	}
}

func TestSVGPattern(t *testing.T) {
	pat := alphaGrid{w: 10, h: 10, opaque: func(x, y int) bool { return x == 0 && y == 0 }}
	pts := Generate(SVGPattern, 5, 25, 20, shape.Set{Pattern: pat})

	want := []Point{{0, 0}, {10, 0}, {20, 0}, {0, 10}, {10, 10}, {20, 10}}
	if len(pts) != len(want) {
		t.Fatalf("got %v, want %v", pts, want)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestSVGPatternDropsOutside(t *testing.T) {
	pat := alphaGrid{w: 10, h: 10, opaque: func(x, y int) bool { return true }}
	pts := Generate(SVGPattern, 5, 12, 12, shape.Set{Pattern: pat})
	for _, p := range pts {
		if p.X < 0 || p.X >= 12 || p.Y < 0 || p.Y >= 12 {
			t.Errorf("point %v outside frame", p)
		}
	}
	// Instances at 0 and 10 on each axis; local offsets 0, 5 → 0, 5, 10 fit (15 does not).
	if len(pts) != 9 {
		t.Errorf("got %d points, want 9", len(pts))
	}
}

func TestMissingAssets(t *testing.T) {
	for _, kind := range []Kind{Shape, SVGPattern} {
		if pts := Generate(kind, 10, 100, 100, shape.Set{}); pts != nil {
			t.Errorf("%s without asset = %v, want nil", kind, pts)
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	empty := alphaGrid{w: 0, h: 10, opaque: func(x, y int) bool { return true }}
	tests := []struct {
		name   string
		kind   Kind
		tile   float64
		w, h   int
		assets shape.Set
	}{
		{"zero tile", Grid, 0, 100, 100, shape.Set{}},
		{"negative tile", Radial, -5, 100, 100, shape.Set{}},
		{"empty frame", Staggered, 10, 0, 100, shape.Set{}},
		{"zero width mask", Shape, 10, 100, 100, shape.Set{Mask: empty}},
		{"zero width pattern", SVGPattern, 10, 100, 100, shape.Set{Pattern: empty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if pts := Generate(tt.kind, tt.tile, tt.w, tt.h, tt.assets); len(pts) != 0 {
				t.Errorf("got %d points, want none", len(pts))
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"grid", Grid, false},
		{"Staggered", Staggered, false},
		{"radial", Radial, false},
		{"Shape", Shape, false},
		{"SVG Pattern", SVGPattern, false},
		{"svg_pattern", SVGPattern, false},
		{"", Grid, false},
		{"hexagon", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
