// Package sink renders computed dot fields into output formats.
//
// # Overview
//
// A "sink" transforms a [halftone.Result] into bytes. This package provides:
//
//   - SVG: the primary vector artifact
//   - PNG: a raster preview or print export drawn with fogleman/gg
//   - JSON: the dot list and parameters for external tools
//
// # SVG Output
//
// [RenderSVG] writes one <circle> per plain dot and one <use> per tiled dot.
// Tiles are declared once as <symbol> elements holding the original asset
// bytes as a data URI, so the output stays vector when the tiles are SVG.
//
//	svg := sink.RenderSVG(res, assets,
//	    sink.WithFill("#1a1a1a"),
//	    sink.WithBackground("#ffffff"),
//	)
//
// # PNG Output
//
// [RenderPNG] rasterizes the same dot list. [WithScale] multiplies the frame
// size, e.g. 0.25 for a quick preview or 4 for print.
//
// # JSON Output
//
// [RenderJSON] exports frame, parameters, statistics and dots as a
// pretty-printed document.
package sink
