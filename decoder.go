package heatshrink

import (
	"fmt"

	"go.uber.org/zap"
)

// decoderState is a node of the decoder's finite state machine.
type decoderState uint8

const (
	stateTagBit decoderState = iota
	stateDecYieldLiteral
	stateBackRefIndex
	stateBackRefCount
	stateYieldBackRef
)

// decoderInputBufferSize bounds how much compressed data a single Sink call
// can stage before it must be Polled. It has no correctness bearing on the
// wire format; it only trades memory for how eagerly the caller must drain.
const decoderInputBufferSize = 512

// Decoder is a streaming Heatshrink decoder. The zero value is not ready to
// use; construct one with NewDecoder.
type Decoder struct {
	window     [windowSize]byte
	headIndex  uint16
	outputCount uint16
	outputIndex uint16

	in    bitReader
	state decoderState

	logger *zap.SugaredLogger
}

// NewDecoder returns a Decoder ready to accept compressed input via Sink.
func NewDecoder() *Decoder {
	d := &Decoder{in: newBitReader(decoderInputBufferSize)}
	d.Reset()
	return d
}

// SetLogger attaches a structured logger; nil disables logging.
func (d *Decoder) SetLogger(logger *zap.SugaredLogger) {
	d.logger = logger
}

func (d *Decoder) logf(format string, v ...any) {
	if d.logger != nil {
		d.logger.Debugf(format, v...)
	}
}

// Reset returns the decoder to its initial state, as if newly constructed.
func (d *Decoder) Reset() {
	d.headIndex = 0
	d.outputCount = 0
	d.outputIndex = 0
	d.state = stateTagBit
	d.in.reset()
	for i := range d.window {
		d.window[i] = 0
	}
	if d.logger != nil {
		d.logger.Info("decoder reset")
	}
}

// Sink copies up to len(input) bytes of compressed data into the decoder's
// pending-input buffer.
func (d *Decoder) Sink(input []byte) (SinkResult, int, error) {
	if len(input) == 0 {
		return SinkFull, 0, ErrNullInput
	}
	n := d.in.sink(input)
	if n == 0 {
		return SinkFull, 0, nil
	}
	d.logf("sunk %d bytes", n)
	return SinkOK, n, nil
}

// Poll drives the state machine, writing at most len(output) decompressed
// bytes.
func (d *Decoder) Poll(output []byte) (PollResult, int, error) {
	if len(output) == 0 {
		return PollMore, 0, ErrNullInput
	}
	sink := newOutputSink(output)

	for {
		before := d.state
		switch d.state {
		case stateTagBit:
			d.state = d.stepTagBit()
		case stateDecYieldLiteral:
			d.state = d.stepYieldLiteral(&sink)
		case stateBackRefIndex:
			d.state = d.stepBackRefIndex()
		case stateBackRefCount:
			d.state = d.stepBackRefCount()
		case stateYieldBackRef:
			d.state = d.stepYieldBackRef(&sink)
		default:
			return PollEmpty, sink.written(), fmt.Errorf("%w: unknown decoder state %d", ErrInternal, d.state)
		}

		if d.state == before {
			if sink.canTake() {
				return PollEmpty, sink.written(), nil
			}
			return PollMore, sink.written(), nil
		}
	}
}

// Finish signals that no more compressed data will be sunk. FinishDone
// means the decoder consumed everything cleanly; FinishMore while no
// further Sink is coming indicates a truncated stream.
func (d *Decoder) Finish() (FinishResult, error) {
	// A pending back-reference copy always needs another Poll regardless of
	// whether more compressed input is coming.
	if d.state == stateYieldBackRef {
		return FinishMore, nil
	}
	// With no buffered bytes left, a stall in stateTagBit is a clean
	// boundary between tokens. A stall in stateBackRefIndex or
	// stateDecYieldLiteral means the tag bit and the fewer than 8 bits after
	// it all sit in the final byte: that is the encoder's zero padding (a 0
	// bit reads as a back-reference tag) or other trailing bits, and is also
	// treated as a clean end. A stall in stateBackRefCount has already
	// consumed a tag and a full index field, more than one byte of padding
	// can hold, so it is reported as truncation.
	if d.in.size == 0 {
		switch d.state {
		case stateTagBit, stateBackRefIndex, stateDecYieldLiteral:
			return FinishDone, nil
		}
	}
	return FinishMore, nil
}

func (d *Decoder) stepTagBit() decoderState {
	bits := d.in.getBits(1)
	switch {
	case bits == noBits:
		return stateTagBit
	case bits != 0:
		return stateDecYieldLiteral
	default:
		d.outputIndex = 0
		return stateBackRefIndex
	}
}

func (d *Decoder) stepYieldLiteral(out *outputSink) decoderState {
	if !out.canTake() {
		return stateDecYieldLiteral
	}
	bits := d.in.getBits(8)
	if bits == noBits {
		return stateDecYieldLiteral
	}
	c := uint8(bits)
	d.window[d.headIndex&(windowSize-1)] = c
	d.headIndex++
	out.push(c)
	return stateTagBit
}

func (d *Decoder) stepBackRefIndex() decoderState {
	bits := d.in.getBits(windowBits)
	if bits == noBits {
		return stateBackRefIndex
	}
	d.outputIndex = bits + 1
	d.outputCount = 0
	return stateBackRefCount
}

func (d *Decoder) stepBackRefCount() decoderState {
	bits := d.in.getBits(lookaheadBits)
	if bits == noBits {
		return stateBackRefCount
	}
	d.outputCount = bits + 1
	return stateYieldBackRef
}

func (d *Decoder) stepYieldBackRef(out *outputSink) decoderState {
	if !out.canTake() {
		return stateYieldBackRef
	}
	mask := uint16(windowSize - 1)
	for d.outputCount > 0 && out.canTake() {
		c := d.window[(d.headIndex-d.outputIndex)&mask]
		d.window[d.headIndex&mask] = c
		out.push(c)
		d.headIndex++
		d.outputCount--
	}
	if d.outputCount == 0 {
		return stateTagBit
	}
	return stateYieldBackRef
}
