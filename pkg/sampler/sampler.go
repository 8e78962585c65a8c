// Package sampler reads colors from a source image in frame coordinates.
//
// Large images are sampled from a reduced copy so that the sampling buffer
// stays within a fixed pixel and side budget. The reduction never upscales:
// [ScaleFor] is always >= 1, and coordinates are mapped back with
// sx = clamp(floor(x/scale), 0, w-1).
package sampler

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

const (
	// MaxPixels bounds the pixel count of a sampling buffer.
	MaxPixels = 2_000_000

	// MaxSide bounds the longest side of a sampling buffer.
	MaxSide = 2048
)

// Surface returns the color at a point given in frame coordinates.
type Surface interface {
	Sample(x, y float64) color.NRGBA
}

// New builds the cheapest surface for img that satisfies the sampling
// budgets: a direct lookup when the image is small enough, a reduced copy
// otherwise.
func New(img image.Image) Surface {
	b := img.Bounds()
	if scale := ScaleFor(b.Dx(), b.Dy()); scale > 1 {
		return NewReduced(img, scale)
	}
	return NewDirect(img)
}

// ScaleFor returns the reduction factor for a w×h frame:
// max(1, max(w,h)/MaxSide, sqrt(w*h/MaxPixels)).
func ScaleFor(w, h int) float64 {
	bySide := float64(max(w, h)) / MaxSide
	byPixels := math.Sqrt(float64(w) * float64(h) / MaxPixels)
	return max(1, bySide, byPixels)
}

// =============================================================================
// Direct
// =============================================================================

// Direct samples a full-resolution buffer.
type Direct struct {
	img *image.NRGBA
}

// NewDirect copies img into an NRGBA buffer anchored at the origin.
func NewDirect(img image.Image) *Direct {
	return &Direct{img: toNRGBA(img)}
}

// Sample returns the pixel containing (x, y). Points outside the buffer
// are clamped to the nearest edge.
func (d *Direct) Sample(x, y float64) color.NRGBA {
	return lookup(d.img, x, y, 1)
}

// =============================================================================
// Reduced
// =============================================================================

// Reduced samples a downscaled copy of the source.
type Reduced struct {
	img   *image.NRGBA
	scale float64
}

// NewReduced resamples img by 1/scale with bilinear filtering. The buffer
// is at least 1×1. A scale below 1 is treated as 1.
func NewReduced(img image.Image, scale float64) *Reduced {
	scale = max(1, scale)
	b := img.Bounds()
	w := max(1, int(math.Floor(float64(b.Dx())/scale)))
	h := max(1, int(math.Floor(float64(b.Dy())/scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return &Reduced{img: dst, scale: scale}
}

// Sample maps (x, y) into the reduced buffer and returns that pixel.
func (r *Reduced) Sample(x, y float64) color.NRGBA {
	return lookup(r.img, x, y, r.scale)
}

// Scale returns the reduction factor relative to the frame.
func (r *Reduced) Scale() float64 { return r.scale }

// Size returns the dimensions of the reduced buffer.
func (r *Reduced) Size() (int, int) { return r.img.Rect.Dx(), r.img.Rect.Dy() }

// =============================================================================
// Helpers
// =============================================================================

func lookup(img *image.NRGBA, x, y, scale float64) color.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	sx := clamp(int(math.Floor(x/scale)), 0, w-1)
	sy := clamp(int(math.Floor(y/scale)), 0, h-1)
	return img.NRGBAAt(sx, sy)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ScaleOf reports the reduction factor of s, 1 for surfaces that sample
// at full resolution.
func ScaleOf(s Surface) float64 {
	if r, ok := s.(*Reduced); ok {
		return r.scale
	}
	return 1
}

var (
	_ Surface = (*Direct)(nil)
	_ Surface = (*Reduced)(nil)
)
