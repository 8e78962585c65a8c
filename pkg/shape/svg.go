package shape

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultSVGSide is used when an SVG declares no usable viewBox.
const defaultSVGSide = 256

// LoadSVG rasterizes an SVG document into a Bitmap. When size > 0 the
// longest side of the raster is size pixels; otherwise the viewBox size
// is used.
func LoadSVG(name string, data []byte, size int) (*Bitmap, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg %s: %w", name, err)
	}

	w, h := svgSize(icon.ViewBox.W, icon.ViewBox.H, size)
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	return NewBitmap(name, MediaTypeSVG, data, img), nil
}

// svgSize picks integer raster dimensions for a viewBox.
func svgSize(vw, vh float64, size int) (int, int) {
	if vw <= 0 || vh <= 0 {
		vw, vh = defaultSVGSide, defaultSVGSide
	}
	if size > 0 {
		s := float64(size) / math.Max(vw, vh)
		vw, vh = vw*s, vh*s
	}
	return max(1, int(math.Ceil(vw))), max(1, int(math.Ceil(vh)))
}
