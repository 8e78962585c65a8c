package sink

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/shape"
)

// DefaultFill is the color of plain circle dots.
const DefaultFill = "#000000"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fill       string
	background string
}

// WithFill sets the circle color. Colors must be validated by the caller.
func WithFill(c string) SVGOption { return func(r *svgRenderer) { r.fill = c } }

// WithBackground paints a full-frame rectangle behind the dots. The default
// is a transparent background.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// RenderSVG renders res as a standalone SVG document sized to the frame.
// Dots whose tile cannot be embedded fall back to circles.
func RenderSVG(res halftone.Result, assets shape.Set, opts ...SVGOption) []byte {
	r := svgRenderer{fill: DefaultFill}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := res.Frame.Width, res.Frame.Height
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", w, h, r.background)
	}

	symbols := renderSymbols(&buf, res.Dots, assets)

	fmt.Fprintf(&buf, `  <g fill="%s">`+"\n", r.fill)
	for _, d := range res.Dots {
		if d.Size <= 0 {
			continue
		}
		if id, ok := symbols[d.Shape]; ok {
			fmt.Fprintf(&buf, `    <use href="#%s" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
				id, num(d.X-d.Size/2), num(d.Y-d.Size/2), num(d.Size), num(d.Size))
			continue
		}
		fmt.Fprintf(&buf, `    <circle cx="%s" cy="%s" r="%s"/>`+"\n", num(d.X), num(d.Y), num(d.Size/2))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderSymbols writes a <defs> block with one <symbol> per tile that is
// referenced by some dot and can be embedded. It returns the symbol ids by
// tile index.
func renderSymbols(buf *bytes.Buffer, dots []halftone.Renderable, assets shape.Set) map[int]string {
	used := make(map[int]bool)
	for _, d := range dots {
		if d.Shape >= 0 {
			used[d.Shape] = true
		}
	}

	ids := make(map[int]string)
	for i, a := range assets.Tiles {
		if !used[i] || !shape.Usable(a) {
			continue
		}
		e, ok := a.(shape.Embeddable)
		if !ok || len(e.Source()) == 0 {
			continue
		}
		if len(ids) == 0 {
			buf.WriteString("  <defs>\n")
		}
		id := fmt.Sprintf("tile-%d", i)
		ids[i] = id
		fmt.Fprintf(buf, `    <symbol id="%s" viewBox="0 0 %d %d">`+"\n", id, a.Width(), a.Height())
		fmt.Fprintf(buf, `      <image href="data:%s;base64,%s" width="%d" height="%d"/>`+"\n",
			e.MediaType(), base64.StdEncoding.EncodeToString(e.Source()), a.Width(), a.Height())
		buf.WriteString("    </symbol>\n")
	}
	if len(ids) > 0 {
		buf.WriteString("  </defs>\n")
	}
	return ids
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
