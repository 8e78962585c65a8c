package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/halftone/pkg/cache"
	"github.com/matzehuels/halftone/pkg/errors"
	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/observability"
	"github.com/matzehuels/halftone/pkg/sampler"
	"github.com/matzehuels/halftone/pkg/shape"
)

// MaxSourcePixels bounds the decoded size of a source image.
const MaxSourcePixels = 100_000_000

// TileRasterSize is the longest side SVG tiles are rasterized to. Masks
// and patterns keep their document size because positions are read from
// their pixel grid.
const TileRasterSize = 256

// =============================================================================
// Input
// =============================================================================

// Source is one named input file.
type Source struct {
	Name string
	Data []byte
}

// Input holds the files of one run. Only Image is required.
type Input struct {
	Image   Source
	Tiles   []Source
	Mask    *Source
	Pattern *Source
}

// Validate checks file names and that the image is not empty.
func (in Input) Validate() error {
	if len(in.Image.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidImage, "image is empty")
	}
	if err := errors.ValidateImageName(in.Image.Name); err != nil {
		return err
	}
	for _, src := range in.assets() {
		if len(src.Data) == 0 {
			return errors.New(errors.ErrCodeInvalidAsset, "%s is empty", src.Name)
		}
		if err := errors.ValidateAssetName(src.Name); err != nil {
			return err
		}
	}
	return nil
}

// Hash identifies the input by content. File names do not contribute, but
// the role of every file does.
func (in Input) Hash() string {
	parts := [][]byte{in.Image.Data, []byte("tiles")}
	for _, t := range in.Tiles {
		parts = append(parts, t.Data)
	}
	parts = append(parts, []byte("mask"))
	if in.Mask != nil {
		parts = append(parts, in.Mask.Data)
	}
	parts = append(parts, []byte("pattern"))
	if in.Pattern != nil {
		parts = append(parts, in.Pattern.Data)
	}
	return cache.HashParts(parts...)
}

// TileNames returns the tile file names in upload order.
func (in Input) TileNames() []string {
	names := make([]string, len(in.Tiles))
	for i, t := range in.Tiles {
		names[i] = t.Name
	}
	return names
}

func (in Input) assets() []Source {
	out := append([]Source(nil), in.Tiles...)
	if in.Mask != nil {
		out = append(out, *in.Mask)
	}
	if in.Pattern != nil {
		out = append(out, *in.Pattern)
	}
	return out
}

// =============================================================================
// Decode
// =============================================================================

// DecodeImage decodes a raster source image. Oversized images are rejected
// before their pixels are read.
func DecodeImage(src Source) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src.Data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "cannot read %s", src.Name)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "%s has no pixels", src.Name)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, errors.New(errors.ErrCodeTooLarge, "%s is %dx%d, larger than %d pixels",
			src.Name, cfg.Width, cfg.Height, MaxSourcePixels)
	}
	img, _, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "cannot decode %s", src.Name)
	}
	return img, nil
}

// Letterbox fits img into a w×h frame preserving its aspect ratio and
// centres it on a transparent canvas. Transparent margins yield no dots.
func Letterbox(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(w, h, color.NRGBA{})
	if b.Dx() <= 0 || b.Dy() <= 0 || w <= 0 || h <= 0 {
		return canvas
	}

	scale := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	fw := max(1, int(math.Round(float64(b.Dx())*scale)))
	fh := max(1, int(math.Round(float64(b.Dy())*scale)))

	var fitted *image.NRGBA
	if scale < 1 {
		fitted = imaging.Fit(img, fw, fh, imaging.Lanczos)
	} else {
		fitted = imaging.Resize(img, fw, fh, imaging.Lanczos)
	}
	return imaging.PasteCenter(canvas, fitted)
}

// LoadAssets decodes the tile, mask and pattern files.
func LoadAssets(in Input) (shape.Set, error) {
	var set shape.Set
	for _, t := range in.Tiles {
		a, err := shape.Load(t.Name, t.Data, TileRasterSize)
		if err != nil {
			return shape.Set{}, errors.Wrap(errors.ErrCodeInvalidAsset, err, "tile %s", t.Name)
		}
		set.Tiles = append(set.Tiles, a)
	}
	if in.Mask != nil {
		a, err := shape.Load(in.Mask.Name, in.Mask.Data, 0)
		if err != nil {
			return shape.Set{}, errors.Wrap(errors.ErrCodeInvalidAsset, err, "mask %s", in.Mask.Name)
		}
		set.Mask = a
	}
	if in.Pattern != nil {
		a, err := shape.Load(in.Pattern.Name, in.Pattern.Data, 0)
		if err != nil {
			return shape.Set{}, errors.Wrap(errors.ErrCodeInvalidAsset, err, "pattern %s", in.Pattern.Name)
		}
		set.Pattern = a
	}
	return set, nil
}

// =============================================================================
// Prepared
// =============================================================================

// Prepared is a decoded input ready for repeated computation.
type Prepared struct {
	Frame   halftone.Frame
	Surface sampler.Surface
	Assets  shape.Set
	Tiles   []string
}

// Prepare validates and decodes in. When opts requests a frame, the image is
// letterboxed into it; otherwise the frame is the image's own size.
func Prepare(ctx context.Context, in Input, opts Options) (*Prepared, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForCompute(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, in.Image.Name)
	start := time.Now()

	img, err := DecodeImage(in.Image)
	if err != nil {
		hooks.OnDecodeComplete(ctx, in.Image.Name, 0, 0, time.Since(start), err)
		return nil, err
	}
	if opts.Letterboxed() {
		img = Letterbox(img, opts.FrameWidth, opts.FrameHeight)
	}
	assets, err := LoadAssets(in)
	if err != nil {
		hooks.OnDecodeComplete(ctx, in.Image.Name, 0, 0, time.Since(start), err)
		return nil, err
	}

	b := img.Bounds()
	surface := sampler.New(img)
	hooks.OnDecodeComplete(ctx, in.Image.Name, b.Dx(), b.Dy(), time.Since(start), nil)

	opts.Logger.Debug("decoded input",
		"image", in.Image.Name,
		"width", b.Dx(),
		"height", b.Dy(),
		"tiles", len(assets.Tiles),
		"sample_scale", fmt.Sprintf("%.2f", sampler.ScaleOf(surface)))

	return &Prepared{
		Frame:   halftone.Frame{Width: b.Dx(), Height: b.Dy()},
		Surface: surface,
		Assets:  assets,
		Tiles:   in.TileNames(),
	}, nil
}

// Compute runs one pass with p. Parameters are normalized first; an
// invalid pattern or shape mode name is an error.
func (p *Prepared) Compute(params halftone.Params) (halftone.Result, error) {
	params, err := params.Normalize()
	if err != nil {
		return halftone.Result{}, err
	}
	return halftone.Compute(p.Frame, params, p.Surface, p.Assets), nil
}
