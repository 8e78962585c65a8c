// Package pkg provides the core libraries for Halftone image rendering.
//
// # Overview
//
// Halftone turns a raster image into a field of dots whose size follows the
// local darkness of the source. Dots can be plain circles or user supplied
// tile shapes, laid out on a grid, a staggered grid, concentric rings, a
// mask or a repeating SVG pattern. The pkg directory is organized into three
// main areas:
//
//  1. Domain logic ([sampler], [pattern], [dot], [shape], [halftone])
//  2. Output ([render/sink], [pipeline], [preset])
//  3. Infrastructure ([cache], [store], [errors], [observability])
//
// # Architecture
//
// The typical data flow through Halftone:
//
//	Source image + tiles
//	         ↓
//	    [pipeline] package (decode, letterbox, rasterize tiles)
//	         ↓
//	    [sampler] package (downscaled color lookups)
//	         ↓
//	    [pattern] package (candidate points)
//	         ↓
//	    [dot] package (sizes, effects, overlap)
//	         ↓
//	    [render/sink] package (SVG/PNG/JSON output)
//
// # Quick Start
//
// Render an image with the default parameters:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/halftone/pkg/cache"
//	    "github.com/matzehuels/halftone/pkg/pipeline"
//	)
//
//	data, _ := os.ReadFile("photo.jpg")
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	res, _ := runner.Execute(context.Background(),
//	    pipeline.Input{Image: pipeline.Source{Name: "photo.jpg", Data: data}},
//	    pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("photo.svg", res.Artifacts["svg"], 0644)
//
// # Main Packages
//
// [halftone] - Parameters, clamping and the [halftone.Compute] entry point
// that produces the final list of renderable dots.
//
// [sampler] - Color lookup on a downscaled copy of the source for large
// images, or on the original for small ones.
//
// [pattern] - Candidate point generators. Grid, staggered and radial need no
// assets; mask and svg-pattern read alpha from the reference tile.
//
// [dot] - Size synthesis from brightness, the overlap pass that shrinks
// colliding dots, and [dot/transform] with the gravity and noise effects.
//
// [shape] - Tile assets (bitmaps and rasterized SVGs) and the picker that
// assigns a tile to each dot.
//
// [render/sink] - Output encoders. SVG embeds tiles as symbols, PNG draws
// with gg at an optional scale, JSON exports the dot list.
//
// [pipeline] - Decode, compute and render with two cache stages, used by
// both the CLI and the HTTP server.
//
// [preset] - TOML parameter presets.
//
// [cache] - Byte caches for computed results and artifacts: file, memory,
// Redis and a null cache.
//
// [store] - Render records for the HTTP server: file, memory and MongoDB.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/dot/...        # Specific package
//	go test -run Example         # Examples only
//
// [sampler]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/sampler
// [pattern]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/pattern
// [dot]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/dot
// [dot/transform]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/dot/transform
// [shape]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/shape
// [halftone]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/halftone
// [halftone.Compute]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/halftone#Compute
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/pipeline
// [preset]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/preset
// [cache]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/store
// [errors]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/halftone/pkg/observability
package pkg
