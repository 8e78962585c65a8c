package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/shape"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	fill       string
	background string
}

// WithScale sets the output scale relative to the frame (default 1).
// Non-positive values are ignored.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGFill sets the circle color.
func WithPNGFill(c string) PNGOption { return func(r *pngRenderer) { r.fill = c } }

// WithPNGBackground fills the image before drawing. The default is
// transparent.
func WithPNGBackground(c string) PNGOption { return func(r *pngRenderer) { r.background = c } }

// RenderPNG rasterizes res. Tiles are drawn from their rasterized form and
// fitted into the dot's square; dots whose tile has no raster fall back to
// circles.
func RenderPNG(res halftone.Result, assets shape.Set, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, fill: DefaultFill}
	for _, opt := range opts {
		opt(&r)
	}

	w := int(math.Ceil(float64(res.Frame.Width) * r.scale))
	h := int(math.Ceil(float64(res.Frame.Height) * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty frame %dx%d", res.Frame.Width, res.Frame.Height)
	}

	dc := gg.NewContext(w, h)
	if r.background != "" {
		dc.SetHexColor(r.background)
		dc.Clear()
	}

	// Consecutive circles share one path. It is filled before the next
	// tile so dots stack in list order, as in the SVG output.
	circles := 0
	flush := func() {
		if circles > 0 {
			dc.SetHexColor(r.fill)
			dc.Fill()
			circles = 0
		}
	}
	for _, d := range res.Dots {
		if d.Size <= 0 {
			continue
		}
		if a := assets.Tile(d.Shape); canDrawTile(a) {
			flush()
			drawTile(dc, a, d, r.scale)
			continue
		}
		dc.DrawCircle(d.X*r.scale, d.Y*r.scale, d.Size/2*r.scale)
		circles++
	}
	flush()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// canDrawTile reports whether a has a raster the PNG sink can draw.
func canDrawTile(a shape.Asset) bool {
	if !shape.Usable(a) {
		return false
	}
	_, ok := a.(shape.Raster)
	return ok
}

// drawTile draws a centred at the dot, its longest side matching the dot
// size. a must pass canDrawTile.
func drawTile(dc *gg.Context, a shape.Asset, d halftone.Renderable, scale float64) {
	rs := a.(shape.Raster)
	k := d.Size * scale / float64(max(a.Width(), a.Height()))
	dc.Push()
	dc.Translate(d.X*scale, d.Y*scale)
	dc.Scale(k, k)
	dc.DrawImageAnchored(rs.Image(), 0, 0, 0.5, 0.5)
	dc.Pop()
}
