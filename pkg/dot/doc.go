// Package dot turns candidate positions into sized dots and resolves
// overlaps between them.
//
// # Synthesis
//
// [Synthesize] samples the surface at every candidate, converts the mean of
// the RGB channels into a darkness value n in [0, 1] and derives the dot size
// from it:
//
//	b    = mean(R, G, B) · Brightness
//	n    = clamp(1 - b/255, 0, 1) ^ Contrast
//	size = n · TileSize · lerp(1, MaxDotScale, n)
//
// Fully transparent samples, dots below MinDotSize and darkness values below
// BrightSkip become nil entries. The result stays index-aligned with the
// input positions so later stages can report per-candidate outcomes.
//
// # Overlap Resolution
//
// [Resolve] shrinks dots that intrude into their neighbours. It runs a single
// pass against the original sizes and returns the effective sizes without
// touching the dots themselves.
package dot
