// Package heatshrink implements the Heatshrink compression family, a
// small-footprint LZSS variant designed for constrained embedded targets.
//
// Both the Encoder and the Decoder are streaming state machines: callers
// feed input through Sink in arbitrarily small chunks, drain output through
// Poll into arbitrarily small buffers, and signal end-of-stream with
// Finish. Neither machine allocates on its steady-state path; all storage
// is sized once, at construction.
//
// The window size (2^8 = 256 bytes) and lookahead size (2^4 = 16 bytes) are
// fixed at compile time for this profile and are not configurable at
// runtime, matching the reference implementation this package is compatible
// with (see https://github.com/atomicobject/heatshrink).
package heatshrink

// Compile-time profile parameters. W is the window size in bits, L is the
// lookahead (match length) size in bits.
const (
	windowBits    = 8
	lookaheadBits = 4

	windowSize    = 1 << windowBits    // 256 bytes of sliding-window history
	lookaheadSize = 1 << lookaheadBits // 16 bytes, the longest representable match

	// The encoder's input buffer holds one full window of already-scanned
	// backlog plus a full window of incoming lookahead.
	inputBufferSize = 2 * windowSize
)
