package shape

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Media types recorded on loaded bitmaps.
const (
	MediaTypeSVG = "image/svg+xml"
	MediaTypePNG = "image/png"
)

// AlphaThreshold is the alpha value (of 255) a pixel must exceed to count
// as part of a shape.
const AlphaThreshold = 10

// Asset is a decoded shape with a readable alpha channel.
type Asset interface {
	Width() int
	Height() int
	AlphaAt(x, y int) uint8
}

// Embeddable is implemented by assets that can be written back into a
// vector document in their original encoding.
type Embeddable interface {
	MediaType() string
	Source() []byte
}

// Raster is implemented by assets that can be drawn as an image.
type Raster interface {
	Image() image.Image
}

// Bitmap is an Asset backed by a rasterized image. It keeps the bytes it
// was decoded from.
type Bitmap struct {
	name      string
	mediaType string
	source    []byte
	img       *image.NRGBA
}

// NewBitmap wraps an already-decoded image. The image is copied into an
// NRGBA buffer anchored at the origin.
func NewBitmap(name, mediaType string, source []byte, img image.Image) *Bitmap {
	return &Bitmap{
		name:      name,
		mediaType: mediaType,
		source:    source,
		img:       toNRGBA(img),
	}
}

// Load decodes an asset file. SVG files are rasterized so that their
// longest side equals size; size <= 0 keeps the document's own size.
// Anything else goes through the registered image decoders.
func Load(name string, data []byte, size int) (*Bitmap, error) {
	if IsSVG(name, data) {
		return LoadSVG(name, data, size)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return NewBitmap(name, "image/"+format, data, img), nil
}

// IsSVG reports whether the file looks like an SVG document, by extension
// or by sniffing the first bytes.
func IsSVG(name string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(name), ".svg") {
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// Name returns the file name the bitmap was loaded from.
func (b *Bitmap) Name() string { return b.name }

// MediaType returns the media type of the source bytes.
func (b *Bitmap) MediaType() string { return b.mediaType }

// Source returns the original encoded file.
func (b *Bitmap) Source() []byte { return b.source }

// Image returns the rasterized asset.
func (b *Bitmap) Image() image.Image { return b.img }

func (b *Bitmap) Width() int  { return b.img.Rect.Dx() }
func (b *Bitmap) Height() int { return b.img.Rect.Dy() }

// AlphaAt returns the alpha of pixel (x, y), or 0 outside the bitmap.
func (b *Bitmap) AlphaAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.Width() || y >= b.Height() {
		return 0
	}
	return b.img.Pix[y*b.img.Stride+x*4+3]
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

var (
	_ Asset      = (*Bitmap)(nil)
	_ Embeddable = (*Bitmap)(nil)
	_ Raster     = (*Bitmap)(nil)
)
