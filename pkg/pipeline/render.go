package pipeline

import (
	"fmt"

	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/render/sink"
	"github.com/matzehuels/halftone/pkg/shape"
)

// Render generates output artifacts in the requested formats. tiles names
// the tile assets for JSON output and may be nil.
func Render(res halftone.Result, assets shape.Set, tiles []string, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(res, assets, buildSVGOptions(opts)...)
		case FormatPNG:
			data, err = sink.RenderPNG(res, assets, buildPNGOptions(opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(res, sink.WithJSONTiles(tiles))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithFill(opts.Fill)}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{
		sink.WithScale(opts.Scale),
		sink.WithPNGFill(opts.Fill),
	}
	if opts.Background != "" {
		pngOpts = append(pngOpts, sink.WithPNGBackground(opts.Background))
	}
	return pngOpts
}
