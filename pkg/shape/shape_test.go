package shape

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10" width="20" height="10">
  <rect x="0" y="0" width="10" height="10" fill="#000"/>
</svg>`

func TestPickerPick(t *testing.T) {
	tests := []struct {
		name   string
		picker Picker
		n      float64
		count  int
		want   int
	}{
		{"no tiles", Picker{Mode: ModeSingle}, 0.5, 0, None},
		{"no tiles range", Picker{Mode: ModeRange, T1: 0.33, T2: 0.66}, 0.5, 0, None},
		{"single", Picker{Mode: ModeSingle}, 0.9, 3, 0},
		{"empty mode is single", Picker{}, 0.9, 3, 0},
		{"range low", Picker{Mode: ModeRange, T1: 0.33, T2: 0.66}, 0.2, 3, 0},
		{"range mid", Picker{Mode: ModeRange, T1: 0.33, T2: 0.66}, 0.5, 3, 1},
		{"range high", Picker{Mode: ModeRange, T1: 0.33, T2: 0.66}, 0.9, 3, 2},
		{"range mid one tile", Picker{Mode: ModeRange, T1: 0.33, T2: 0.66}, 0.5, 1, 0},
		{"range high two tiles", Picker{Mode: ModeRange, T1: 0.33, T2: 0.66}, 0.9, 2, 1},
		{"range high many tiles", Picker{Mode: ModeRange, T1: 0.33, T2: 0.66}, 0.9, 5, 2},
		{"random", Picker{Mode: ModeRandom}, 0.125, 4, 125 % 4},
		{"random zero", Picker{Mode: ModeRandom}, 0, 4, 0},
		{"random one", Picker{Mode: ModeRandom}, 1, 3, 1000 % 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.picker.Pick(tt.n, tt.count); got != tt.want {
				t.Errorf("Pick(%v, %d) = %d, want %d", tt.n, tt.count, got, tt.want)
			}
		})
	}
}

func TestPickerRandomRepeatable(t *testing.T) {
	p := Picker{Mode: ModeRandom}
	for _, n := range []float64{0.01, 0.5, 0.777, 0.999} {
		if p.Pick(n, 7) != p.Pick(n, 7) {
			t.Errorf("Pick(%v) not repeatable", n)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"single", ModeSingle, false},
		{"Range", ModeRange, false},
		{" Random ", ModeRandom, false},
		{"", ModeSingle, false},
		{"shuffle", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetReference(t *testing.T) {
	tile := NewBitmap("tile", MediaTypePNG, nil, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	mask := NewBitmap("mask", MediaTypePNG, nil, image.NewNRGBA(image.Rect(0, 0, 3, 3)))

	if (Set{}).Reference() != nil {
		t.Error("empty set should have no reference")
	}
	if got := (Set{Tiles: []Asset{tile}}).Reference(); got != tile {
		t.Error("reference should fall back to first tile")
	}
	if got := (Set{Tiles: []Asset{tile}, Mask: mask}).Reference(); got != mask {
		t.Error("mask should win over tiles")
	}
}

func TestSetTile(t *testing.T) {
	tile := NewBitmap("tile", MediaTypePNG, nil, image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	s := Set{Tiles: []Asset{tile}}

	if s.Tile(0) != tile {
		t.Error("Tile(0) should return the tile")
	}
	if s.Tile(1) != nil || s.Tile(-1) != nil {
		t.Error("out of range Tile should be nil")
	}
}

func TestBitmapAlphaAt(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(2, 1, color.NRGBA{A: 200})
	b := NewBitmap("b", MediaTypePNG, nil, img)

	if b.Width() != 4 || b.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", b.Width(), b.Height())
	}
	if got := b.AlphaAt(2, 1); got != 200 {
		t.Errorf("AlphaAt(2,1) = %d, want 200", got)
	}
	if got := b.AlphaAt(0, 0); got != 0 {
		t.Errorf("AlphaAt(0,0) = %d, want 0", got)
	}
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}} {
		if got := b.AlphaAt(p[0], p[1]); got != 0 {
			t.Errorf("AlphaAt(%d,%d) = %d, want 0 outside bounds", p[0], p[1], got)
		}
	}
}

func TestNewBitmapOffsetImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 8))
	img.SetNRGBA(5, 5, color.NRGBA{A: 255})
	b := NewBitmap("offset", MediaTypePNG, nil, img)

	if got := b.AlphaAt(0, 0); got != 255 {
		t.Errorf("offset origin should map to (0,0), got alpha %d", got)
	}
}

func TestLoadSVG(t *testing.T) {
	b, err := Load("square.svg", []byte(squareSVG), 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Width() != 20 || b.Height() != 10 {
		t.Fatalf("size = %dx%d, want 20x10", b.Width(), b.Height())
	}
	if b.MediaType() != MediaTypeSVG {
		t.Errorf("MediaType = %q, want %q", b.MediaType(), MediaTypeSVG)
	}
	if got := b.AlphaAt(5, 5); got <= AlphaThreshold {
		t.Errorf("inside rect alpha = %d, want > %d", got, AlphaThreshold)
	}
	if got := b.AlphaAt(15, 5); got > AlphaThreshold {
		t.Errorf("outside rect alpha = %d, want <= %d", got, AlphaThreshold)
	}
}

func TestLoadSVGSized(t *testing.T) {
	b, err := LoadSVG("square.svg", []byte(squareSVG), 40)
	if err != nil {
		t.Fatalf("LoadSVG: %v", err)
	}
	if b.Width() != 40 || b.Height() != 20 {
		t.Errorf("size = %dx%d, want 40x20", b.Width(), b.Height())
	}
}

func TestLoadPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	b, err := Load("dot.png", buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.MediaType() != MediaTypePNG {
		t.Errorf("MediaType = %q, want %q", b.MediaType(), MediaTypePNG)
	}
	if got := b.AlphaAt(1, 1); got != 255 {
		t.Errorf("AlphaAt(1,1) = %d, want 255", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("junk.bin", []byte("not an image"), 0); err == nil {
		t.Error("Load should fail on undecodable data")
	}
}

func TestIsSVG(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"a.svg", "", true},
		{"A.SVG", "", true},
		{"upload", `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`, true},
		{"a.png", "\x89PNG", false},
	}
	for _, tt := range tests {
		if got := IsSVG(tt.name, []byte(tt.data)); got != tt.want {
			t.Errorf("IsSVG(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSvgSize(t *testing.T) {
	tests := []struct {
		vw, vh float64
		size   int
		w, h   int
	}{
		{20, 10, 0, 20, 10},
		{20, 10, 100, 100, 50},
		{0, 0, 0, defaultSVGSide, defaultSVGSide},
		{10.2, 4.1, 0, 11, 5},
	}
	for _, tt := range tests {
		w, h := svgSize(tt.vw, tt.vh, tt.size)
		if w != tt.w || h != tt.h {
			t.Errorf("svgSize(%v, %v, %d) = %dx%d, want %dx%d", tt.vw, tt.vh, tt.size, w, h, tt.w, tt.h)
		}
	}
}
