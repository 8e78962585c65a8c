package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/matzehuels/halftone/pkg/errors"
	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/pipeline"
	"github.com/matzehuels/halftone/pkg/preset"
)

// =============================================================================
// Parameter Flags
// =============================================================================

// paramFlags binds one flag per halftone parameter. Flag values only
// replace preset values when given explicitly.
type paramFlags struct {
	p       halftone.Params
	gravity float64
	noise   float64
}

func newParamFlags() *paramFlags {
	return &paramFlags{p: halftone.DefaultParams()}
}

func (f *paramFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.p.TileSize, "tile-size", f.p.TileSize,
		rangeUsage("grid spacing in frame pixels", halftone.TileSizeRange))
	fs.Float64Var(&f.p.Contrast, "contrast", f.p.Contrast,
		rangeUsage("exponent applied to darkness", halftone.ContrastRange))
	fs.Float64Var(&f.p.Brightness, "brightness", f.p.Brightness,
		rangeUsage("multiplier on sampled brightness", halftone.BrightnessRange))
	fs.Float64Var(&f.p.MinDotSize, "min-dot", f.p.MinDotSize,
		rangeUsage("smallest dot kept, in pixels", halftone.MinDotSizeRange))
	fs.Float64Var(&f.p.MaxDotScale, "max-scale", f.p.MaxDotScale,
		rangeUsage("growth factor for the darkest dots", halftone.MaxDotScaleRange))
	fs.Float64Var(&f.p.BrightSkip, "bright-skip", f.p.BrightSkip,
		rangeUsage("drop dots lighter than this darkness", halftone.BrightSkipRange))
	fs.BoolVar(&f.p.Invert, "invert", f.p.Invert, "size dots by lightness instead of darkness")
	fs.Float64Var(&f.gravity, "gravity", 0,
		rangeUsage("pull dark dots downwards, 0 disables", halftone.GravityRange))
	fs.Float64Var(&f.noise, "noise", 0,
		rangeUsage("deterministic jitter amplitude, 0 disables", halftone.NoiseRange))
	fs.StringVarP((*string)(&f.p.Pattern), "pattern", "p", string(f.p.Pattern),
		"position pattern: grid, staggered, radial, shape, svg-pattern")
	fs.StringVar((*string)(&f.p.ShapeMode), "shape-mode", string(f.p.ShapeMode),
		"tile selection: single, range, random")
	fs.Float64Var(&f.p.Threshold1, "threshold1", f.p.Threshold1, "range mode: darkness below which the first tile is used")
	fs.Float64Var(&f.p.Threshold2, "threshold2", f.p.Threshold2, "range mode: darkness above which the last tile is used")
}

func rangeUsage(desc string, r halftone.Range) string {
	return fmt.Sprintf("%s (%g..%g)", desc, r.Min, r.Max)
}

// apply copies the explicitly set flags onto dst.
func (f *paramFlags) apply(fs *pflag.FlagSet, dst *halftone.Params) {
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "tile-size":
			dst.TileSize = f.p.TileSize
		case "contrast":
			dst.Contrast = f.p.Contrast
		case "brightness":
			dst.Brightness = f.p.Brightness
		case "min-dot":
			dst.MinDotSize = f.p.MinDotSize
		case "max-scale":
			dst.MaxDotScale = f.p.MaxDotScale
		case "bright-skip":
			dst.BrightSkip = f.p.BrightSkip
		case "invert":
			dst.Invert = f.p.Invert
		case "gravity":
			dst.Gravity = halftone.Effect{Enabled: f.gravity > 0, Strength: f.gravity}
		case "noise":
			dst.Noise = halftone.Effect{Enabled: f.noise > 0, Strength: f.noise}
		case "pattern":
			dst.Pattern = f.p.Pattern
		case "shape-mode":
			dst.ShapeMode = f.p.ShapeMode
		case "threshold1":
			dst.Threshold1 = f.p.Threshold1
		case "threshold2":
			dst.Threshold2 = f.p.Threshold2
		}
	})
}

// =============================================================================
// Output Flags
// =============================================================================

// outputFlags holds the preset, frame and render settings shared by the
// render, tune and preset commands.
type outputFlags struct {
	preset     string
	frame      string
	formats    string
	fill       string
	background string
	scale      float64
}

func (f *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.preset, "preset", "", "load parameters from a TOML preset; explicit flags override it")
	fs.StringVar(&f.frame, "frame", "", "letterbox the image into a WxH frame, e.g. 1200x800")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	fs.StringVar(&f.fill, "fill", "", "dot color as #rgb or #rrggbb (default "+pipeline.DefaultFill+")")
	fs.StringVar(&f.background, "background", "", "background color, transparent when empty")
	fs.Float64Var(&f.scale, "scale", pipeline.DefaultScale,
		fmt.Sprintf("PNG scale relative to the frame (%g..%g)", pipeline.MinScale, pipeline.MaxScale))
}

// buildOptions resolves the effective options: defaults, then the preset,
// then explicitly set flags. The result is validated.
func buildOptions(fs *pflag.FlagSet, params *paramFlags, out *outputFlags) (pipeline.Options, error) {
	opts := pipeline.Options{Params: halftone.DefaultParams()}
	if out.preset != "" {
		f, err := preset.Load(out.preset)
		if err != nil {
			return opts, err
		}
		if opts, err = f.Options(); err != nil {
			return opts, err
		}
	}

	params.apply(fs, &opts.Params)

	if fs.Changed("format") {
		opts.Formats = parseFormats(out.formats)
	}
	if fs.Changed("fill") {
		opts.Fill = out.fill
	}
	if fs.Changed("background") {
		opts.Background = out.background
	}
	if fs.Changed("scale") {
		opts.Scale = out.scale
	}
	if fs.Changed("frame") {
		opts.FrameWidth, opts.FrameHeight = 0, 0
		if out.frame != "" {
			w, h, err := errors.ParseFrame(out.frame)
			if err != nil {
				return opts, err
			}
			opts.FrameWidth, opts.FrameHeight = w, h
		}
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// toPreset converts effective options back into a preset file.
func toPreset(opts pipeline.Options) preset.File {
	f := preset.File{
		Params: opts.Params,
		Output: preset.Output{
			Formats:    opts.Formats,
			Fill:       opts.Fill,
			Background: opts.Background,
			Scale:      opts.Scale,
		},
	}
	if opts.Letterboxed() {
		f.Output.Frame = fmt.Sprintf("%dx%d", opts.FrameWidth, opts.FrameHeight)
	}
	return f
}

// =============================================================================
// Asset Flags
// =============================================================================

// assetFlags names the shape files that accompany every image.
type assetFlags struct {
	tiles   []string
	mask    string
	pattern string
}

func (f *assetFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&f.tiles, "tile", "t", nil, "tile shape (SVG or PNG), repeatable; order matters for range mode")
	fs.StringVar(&f.mask, "mask", "", "mask shape for the shape pattern")
	fs.StringVar(&f.pattern, "pattern-file", "", "pattern shape for the svg-pattern pattern")
}

// load reads the asset files into an input template.
func (f *assetFlags) load() (pipeline.Input, error) {
	var in pipeline.Input
	for _, path := range f.tiles {
		src, err := readSource(path)
		if err != nil {
			return in, err
		}
		in.Tiles = append(in.Tiles, src)
	}
	if f.mask != "" {
		src, err := readSource(f.mask)
		if err != nil {
			return in, err
		}
		in.Mask = &src
	}
	if f.pattern != "" {
		src, err := readSource(f.pattern)
		if err != nil {
			return in, err
		}
		in.Pattern = &src
	}
	return in, nil
}

// readSource reads a file into a named pipeline source.
func readSource(path string) (pipeline.Source, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return pipeline.Source{}, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return pipeline.Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.Source{Name: filepath.Base(path), Data: data}, nil
}
