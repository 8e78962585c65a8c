package transform

import (
	"math"
	"testing"

	"github.com/matzehuels/halftone/pkg/dot"
)

func newDot(x, y, size, mass float64) *dot.Dot {
	return &dot.Dot{OriginalX: x, OriginalY: y, X: x, Y: y, Size: size, Brightness: mass, Mass: mass}
}

func TestGravity(t *testing.T) {
	tests := []struct {
		name     string
		dot      *dot.Dot
		strength float64
		height   int
		wantY    float64
	}{
		{"full mass", newDot(50, 50, 10, 1), 10, 200, 80},
		{"half mass", newDot(50, 50, 10, 0.5), 10, 200, 65},
		{"clamped at floor", newDot(50, 180, 10, 1), 10, 200, 195},
		{"zero strength", newDot(50, 50, 10, 1), 0, 200, 50},
		{"negative strength", newDot(50, 50, 10, 1), -5, 200, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Gravity([]*dot.Dot{tt.dot}, tt.strength, tt.height)
			if tt.dot.Y != tt.wantY {
				t.Errorf("Y = %v, want %v", tt.dot.Y, tt.wantY)
			}
			if tt.dot.X != 50 {
				t.Errorf("X = %v, gravity must not move X", tt.dot.X)
			}
		})
	}
}

func TestGravity_UsesOriginalY(t *testing.T) {
	d := newDot(10, 20, 4, 1)
	dots := []*dot.Dot{d}
	Gravity(dots, 5, 1000)
	Gravity(dots, 5, 1000)
	if d.Y != 35 {
		t.Errorf("Y = %v, want 35 after repeated application", d.Y)
	}
}

func TestGravity_SkipsNil(t *testing.T) {
	dots := []*dot.Dot{nil, newDot(0, 0, 2, 1), nil}
	Gravity(dots, 1, 100)
	if dots[1].Y != 3 {
		t.Errorf("Y = %v, want 3", dots[1].Y)
	}
}

func TestHash(t *testing.T) {
	for _, s := range []float64{0, 1, -1, 12345, 1e6 + 0.5, -987.25} {
		h := Hash(s)
		if h < 0 || h >= 1 {
			t.Errorf("Hash(%v) = %v, want [0, 1)", s, h)
		}
	}
	if Hash(0) != 0 {
		t.Errorf("Hash(0) = %v, want 0", Hash(0))
	}
}

func TestOffset_Deterministic(t *testing.T) {
	positions := [][2]float64{{0, 0}, {25, 75}, {1234, 567}, {15.5, 3.25}}
	for _, p := range positions {
		dx1, dy1 := Offset(p[0], p[1], 20)
		dx2, dy2 := Offset(p[0], p[1], 20)
		if math.Float64bits(dx1) != math.Float64bits(dx2) || math.Float64bits(dy1) != math.Float64bits(dy2) {
			t.Errorf("Offset(%v) not bit-identical", p)
		}
		if math.Abs(dx1) > 10 || math.Abs(dy1) > 10 {
			t.Errorf("Offset(%v) = (%v, %v), want within ±10", p, dx1, dy1)
		}
	}
}

func TestOffset_Formula(t *testing.T) {
	ox, oy, strength := 25.0, 75.0, 30.0
	seed := ox*1000 + oy
	wantX := (Hash(seed) - 0.5) * strength
	wantY := (Hash(seed+1) - 0.5) * strength

	dx, dy := Offset(ox, oy, strength)
	if dx != wantX || dy != wantY {
		t.Errorf("Offset = (%v, %v), want (%v, %v)", dx, dy, wantX, wantY)
	}
}

func TestJitter(t *testing.T) {
	d := newDot(100, 100, 10, 0.5)
	Jitter([]*dot.Dot{d}, 20, 200, 200)

	dx, dy := Offset(100, 100, 20)
	if d.X != 100+dx || d.Y != 100+dy {
		t.Errorf("position = (%v, %v), want (%v, %v)", d.X, d.Y, 100+dx, 100+dy)
	}
}

func TestJitter_Clamps(t *testing.T) {
	var dots []*dot.Dot
	for x := 0.0; x <= 40; x += 5 {
		dots = append(dots, newDot(x, x, 8, 1))
	}
	Jitter(dots, 50, 40, 40)
	for _, d := range dots {
		if d.X < 4 || d.X > 36 || d.Y < 4 || d.Y > 36 {
			t.Errorf("dot from (%v, %v) left frame: (%v, %v)", d.OriginalX, d.OriginalY, d.X, d.Y)
		}
	}
}

func TestJitter_AfterGravity(t *testing.T) {
	d := newDot(50, 50, 10, 1)
	dots := []*dot.Dot{d}
	Gravity(dots, 10, 200)
	Jitter(dots, 4, 200, 200)

	_, dy := Offset(50, 50, 4)
	if d.Y != 80+dy {
		t.Errorf("Y = %v, want gravity then jitter %v", d.Y, 80+dy)
	}
}

func TestJitter_ZeroStrength(t *testing.T) {
	d := newDot(10, 10, 4, 1)
	Jitter([]*dot.Dot{d, nil}, 0, 100, 100)
	if d.X != 10 || d.Y != 10 {
		t.Errorf("zero strength moved dot to (%v, %v)", d.X, d.Y)
	}
}
