// Package halftone computes dot fields from images.
//
// [Compute] is the entry point. Given a frame, a [Params] value, a sampling
// surface and optional shape assets, it runs the full pass:
//
//  1. generate candidate positions for the selected pattern
//  2. synthesize sized dots from the sampled colors
//  3. apply gravity, then jitter
//  4. resolve overlaps into effective sizes
//  5. pick a tile shape for every surviving dot
//
// The result is a flat list of [Renderable] values ready for a sink. Every
// parameter change means a new call; nothing is cached between passes and
// no state is shared, so concurrent calls are safe as long as each owns its
// surface.
//
// # Parameters
//
// [Params] is a plain value with JSON and TOML tags so presets, API requests
// and the CLI all describe the same thing. Input boundaries call
// [Params.Clamp] to pull numeric values into their supported ranges and
// [Params.Validate] to reject unknown pattern or shape mode names. Compute
// itself trusts its input.
package halftone
