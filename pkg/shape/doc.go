// Package shape holds the vector assets that decorate a halftone and the
// rule that picks one of them for each dot.
//
// # Assets
//
// Three kinds of asset feed the pipeline:
//
//   - Tiles: an ordered list of shapes drawn in place of plain circles
//   - Mask: a shape whose opaque region restricts where dots may appear
//   - Pattern: a shape whose alpha channel is repeated across the frame
//
// All of them are consumed through the [Asset] interface, which only
// exposes the alpha channel in the asset's own pixel coordinates. The
// concrete [Bitmap] type also keeps the original file so output sinks can
// embed the vector source instead of the rasterized copy.
//
// SVG files are rasterized with oksvg/rasterx when loaded:
//
//	tile, err := shape.Load("star.svg", data, 0)
//	set := shape.Set{Tiles: []shape.Asset{tile}}
//
// # Picking
//
// [Picker] chooses a tile index for a dot from its normalized brightness.
// Index -1 means "no tile", in which case the dot is rendered as a circle.
package shape
