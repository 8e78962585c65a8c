// Package pipeline provides the decode → compute → render pipeline for
// halftone.
//
// The CLI, the interactive tuner and the HTTP server all go through this
// package so that inputs are validated, decoded and cached the same way
// everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: read the source image and the shape assets, letterboxing the
//     image into a fixed frame when one is requested
//  2. Compute: run [halftone.Compute] over the decoded image
//  3. Render: write the dot field as SVG, PNG or JSON
//
// Compute results and rendered artifacts are cached by content hash, so
// re-rendering the same input with different fill colors skips decoding and
// computing entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	in := pipeline.Input{Image: pipeline.Source{Name: "cat.jpg", Data: data}}
//	opts := pipeline.Options{
//	    Params:  halftone.DefaultParams(),
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, in, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Callers that recompute often on the same image, such as the tuner, decode
// once with [Prepare] and call [Prepared.Compute] per parameter change.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/halftone/pkg/cache"
	"github.com/matzehuels/halftone/pkg/errors"
	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

const (
	// DefaultScale is the PNG output scale relative to the frame.
	DefaultScale = 1.0

	// MinScale and MaxScale bound the PNG output scale. Values below 1 are
	// previews; values above 1 are print exports.
	MinScale = 0.1
	MaxScale = 8.0

	// OutputBaseName is the file name stem of exported artifacts.
	OutputBaseName = "halftone-output"
)

// DefaultFill is the circle color used when none is configured.
const DefaultFill = sink.DefaultFill

// OutputName returns the export file name for a format, e.g.
// "halftone-output.svg".
func OutputName(format string) string {
	return OutputBaseName + "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compute options
	Params      halftone.Params `json:"params"`
	FrameWidth  int             `json:"frame_width,omitempty"`  // letterbox width, 0 keeps the image size
	FrameHeight int             `json:"frame_height,omitempty"` // letterbox height, 0 keeps the image size
	Refresh     bool            `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Fill       string   `json:"fill,omitempty"`
	Background string   `json:"background,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Result is the computed dot field.
	Result halftone.Result

	// InputHash is the content hash of the image and assets.
	InputHash string

	// ResultHash is the content hash of the computed dot field.
	ResultHash string

	// Tiles lists the tile names in upload order.
	Tiles []string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width       int
	Height      int
	Dots        int
	DecodeTime  time.Duration
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComputeHit bool // Whether the dot field came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompute normalizes the parameters and checks the frame. A zero
// Params value is replaced by [halftone.DefaultParams].
func (o *Options) ValidateForCompute() error {
	if o.Params == (halftone.Params{}) {
		o.Params = halftone.DefaultParams()
	}
	p, err := o.Params.Normalize()
	if err != nil {
		return err
	}
	o.Params = p

	if o.FrameWidth != 0 || o.FrameHeight != 0 {
		if err := errors.ValidateFrame(o.FrameWidth, o.FrameHeight); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Fill == "" {
		o.Fill = DefaultFill
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateColor(o.Fill); err != nil {
		return err
	}
	if o.Background != "" {
		if err := errors.ValidateColor(o.Background); err != nil {
			return err
		}
	}
	if o.Scale < MinScale || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidParams, "scale %g out of range (%g..%g)", o.Scale, MinScale, MaxScale)
	}
	return nil
}

// Letterboxed reports whether the image is fitted into a fixed frame.
func (o *Options) Letterboxed() bool {
	return o.FrameWidth > 0 && o.FrameHeight > 0
}

// ResultKeyOpts returns cache key options for the compute stage.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Params:      o.Params,
		FrameWidth:  o.FrameWidth,
		FrameHeight: o.FrameHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering. Only
// PNG output depends on the scale.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Fill:       o.Fill,
		Background: o.Background,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
