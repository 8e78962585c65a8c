// Package pattern generates candidate dot centers.
//
// Every pattern works in frame coordinates and is driven by the tile size,
// which acts as the spacing between neighbouring candidates:
//
//   - [Grid]: a square lattice at (tile/2 + k·tile)
//   - [Staggered]: the grid with every odd row shifted by tile/2
//   - [Radial]: concentric rings around the frame center
//   - [Shape]: the grid, kept only where a reference shape is opaque
//   - [SVGPattern]: a pattern shape tiled across the frame, sampled on
//     its own pixel grid
//
// Patterns that need an asset return nil when the asset is missing. The
// order of the returned points is deterministic; downstream stages keep
// their results aligned with it.
package pattern

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/halftone/pkg/shape"
)

// Kind names a position pattern.
type Kind string

const (
	Grid       Kind = "grid"
	Staggered  Kind = "staggered"
	Radial     Kind = "radial"
	Shape      Kind = "shape"
	SVGPattern Kind = "svg-pattern"
)

// ValidKinds is the set of supported patterns.
var ValidKinds = map[Kind]bool{
	Grid:       true,
	Staggered:  true,
	Radial:     true,
	Shape:      true,
	SVGPattern: true,
}

// ParseKind accepts canonical names and display names such as
// "SVG Pattern". The empty string means Grid.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	if norm == "" {
		return Grid, nil
	}
	k := Kind(norm)
	if !ValidKinds[k] {
		return "", fmt.Errorf("invalid pattern: %q (must be one of: grid, staggered, radial, shape, svg-pattern)", s)
	}
	return k, nil
}

// Point is a candidate dot center in frame coordinates.
type Point struct {
	X, Y float64
}

// Generate returns the candidate positions for kind on a width×height
// frame. It returns nil for a non-positive tile size, an empty frame, or
// when the pattern's asset is unavailable.
func Generate(kind Kind, tileSize float64, width, height int, assets shape.Set) []Point {
	if tileSize <= 0 || width <= 0 || height <= 0 {
		return nil
	}
	w, h := float64(width), float64(height)

	switch kind {
	case Staggered:
		return staggered(tileSize, w, h)
	case Radial:
		return radial(tileSize, w, h)
	case Shape:
		return masked(tileSize, w, h, assets.Reference())
	case SVGPattern:
		return tiled(tileSize, w, h, assets.Pattern)
	default:
		return grid(tileSize, w, h)
	}
}

// steps returns start, start+step, ... while the value stays <= limit.
// Values are computed by multiplication so long runs don't drift.
func steps(start, step, limit float64, fn func(v float64)) {
	for k := 0; ; k++ {
		v := start + float64(k)*step
		if v > limit {
			return
		}
		fn(v)
	}
}

func grid(tile, w, h float64) []Point {
	half := tile / 2
	var pts []Point
	steps(half, tile, h-half, func(y float64) {
		steps(half, tile, w-half, func(x float64) {
			pts = append(pts, Point{x, y})
		})
	})
	return pts
}

func staggered(tile, w, h float64) []Point {
	half := tile / 2
	var pts []Point
	steps(half, tile, h-half, func(y float64) {
		row := int(math.Floor((y - half) / tile))
		offset := 0.0
		if row%2 == 1 {
			offset = tile / 2
		}
		steps(half+offset, tile, w-half, func(x float64) {
			pts = append(pts, Point{x, y})
		})
	})
	return pts
}

func radial(tile, w, h float64) []Point {
	half := tile / 2
	cx, cy := w/2, h/2
	maxR := math.Hypot(cx, cy)

	var pts []Point
	for ring := 0; ; ring++ {
		r := half + float64(ring)*tile
		if r >= maxR {
			break
		}
		if r <= 0 {
			continue
		}
		step := tile / r
		for k := 0; ; k++ {
			a := float64(k) * step
			if a >= 2*math.Pi {
				break
			}
			x := roundHalfUp(cx + r*math.Cos(a))
			y := roundHalfUp(cy + r*math.Sin(a))
			if x >= half && x <= w-half && y >= half && y <= h-half {
				pts = append(pts, Point{x, y})
			}
		}
	}
	return pts
}

// masked keeps grid points whose linearly mapped position in ref is opaque.
func masked(tile, w, h float64, ref shape.Asset) []Point {
	if !shape.Usable(ref) {
		return nil
	}
	sw, sh := float64(ref.Width()-1), float64(ref.Height()-1)

	var pts []Point
	for _, p := range grid(tile, w, h) {
		sx := int(math.Floor(p.X / w * sw))
		sy := int(math.Floor(p.Y / h * sh))
		if ref.AlphaAt(sx, sy) > shape.AlphaThreshold {
			pts = append(pts, p)
		}
	}
	return pts
}

// tiled repeats the pattern's bounding box over the frame and samples each
// instance on the pattern's own pixel grid at tile stride.
func tiled(tile, w, h float64, pat shape.Asset) []Point {
	if !shape.Usable(pat) {
		return nil
	}
	pw, ph := float64(pat.Width()), float64(pat.Height())
	tilesX := int(math.Ceil(w / pw))
	tilesY := int(math.Ceil(h / ph))

	// Opaque local points are the same for every instance.
	var local []Point
	for sy := 0.0; sy < ph; sy += tile {
		for sx := 0.0; sx < pw; sx += tile {
			if pat.AlphaAt(int(sx), int(sy)) > shape.AlphaThreshold {
				local = append(local, Point{sx, sy})
			}
		}
	}

	var pts []Point
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			ox, oy := float64(tx)*pw, float64(ty)*ph
			for _, p := range local {
				fx, fy := ox+p.X, oy+p.Y
				if fx >= 0 && fx < w && fy >= 0 && fy < h {
					pts = append(pts, Point{fx, fy})
				}
			}
		}
	}
	return pts
}

// roundHalfUp rounds .5 toward +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
