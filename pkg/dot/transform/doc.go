// Package transform displaces synthesized dots.
//
// Two effects run after synthesis, in this order:
//
//   - [Gravity] pulls each dot down in proportion to its mass, stopping at
//     the bottom edge of the frame.
//   - [Jitter] shifts each dot by a deterministic offset derived from its
//     original position.
//
// Jitter does not use a random source. [Hash] is the classic shader hash
// frac(sin(s)·10000), seeded with OriginalX·1000 + OriginalY, so the same
// input always yields bit-identical offsets across runs and machines with
// IEEE-754 math.
//
// Both functions mutate the dots in place and skip nil entries.
package transform
