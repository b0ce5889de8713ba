package heatshrink

import (
	"fmt"

	"go.uber.org/zap"
)

// encoderState is a node of the encoder's finite state machine.
type encoderState uint8

const (
	stateNotFull encoderState = iota
	stateFilled
	stateSearch
	stateYieldTagBit
	stateYieldLiteral
	stateYieldBackRefIndex
	stateYieldBackRefLength
	stateSaveBacklog
	stateFlushBits
	stateDone
)

const (
	tagLiteral   uint8 = 1
	tagBackRef   uint8 = 0
	flagFinished uint8 = 1
)

// Encoder is a streaming LZSS encoder implementing the Heatshrink wire
// format. The zero value is not ready to use; construct one with
// NewEncoder.
type Encoder struct {
	buffer [inputBufferSize]byte

	inputSize      uint16
	matchScanIndex uint16
	matchLength    uint16
	matchPos       uint16

	outgoingBits      uint16
	outgoingBitsCount uint8

	flags uint8
	state encoderState

	out bitWriter
	idx matcher

	logger *zap.SugaredLogger
}

// NewEncoder returns an Encoder ready to accept input via Sink.
func NewEncoder() *Encoder {
	e := &Encoder{idx: newMatcher()}
	e.Reset()
	return e
}

// SetLogger attaches a structured logger; nil disables logging. Log lines
// are emitted at Debug for per-transition detail and never above Info, so
// attaching a logger in production is harmless.
func (e *Encoder) SetLogger(logger *zap.SugaredLogger) {
	e.logger = logger
}

func (e *Encoder) logf(format string, v ...any) {
	if e.logger != nil {
		e.logger.Debugf(format, v...)
	}
}

// Reset returns the encoder to its initial state, as if newly constructed.
func (e *Encoder) Reset() {
	e.inputSize = 0
	e.matchScanIndex = 0
	e.matchLength = 0
	e.matchPos = 0
	e.outgoingBits = 0
	e.outgoingBitsCount = 0
	e.flags = 0
	e.state = stateNotFull
	e.out.reset()
	for i := range e.buffer {
		e.buffer[i] = 0
	}
	if e.logger != nil {
		e.logger.Info("encoder reset")
	}
}

func (e *Encoder) isFinishing() bool {
	return e.flags&flagFinished != 0
}

// Sink copies up to len(input) bytes into the encoder's input buffer,
// returning how many bytes were accepted. It never blocks and never
// allocates. While the input buffer is full and not yet drained by Poll it
// accepts nothing and returns SinkFull with a nil error (backpressure).
func (e *Encoder) Sink(input []byte) (SinkResult, int, error) {
	if len(input) == 0 {
		return SinkFull, 0, ErrNullInput
	}
	if e.isFinishing() {
		return SinkFull, 0, fmt.Errorf("%w: sink called after finish", ErrMisuse)
	}
	if e.state != stateNotFull {
		return SinkFull, 0, nil
	}

	writeOffset := windowSize + e.inputSize
	remaining := windowSize - e.inputSize
	if remaining == 0 {
		return SinkFull, 0, nil
	}

	copySize := remaining
	if len(input) < int(copySize) {
		copySize = uint16(len(input))
	}

	copy(e.buffer[writeOffset:], input[:copySize])
	e.inputSize += copySize
	e.logf("sunk %d bytes, input buffer now holds %d", copySize, e.inputSize)

	if e.inputSize == windowSize {
		e.state = stateFilled
	}
	return SinkOK, int(copySize), nil
}

// Poll drives the state machine, writing at most len(output) bytes.
func (e *Encoder) Poll(output []byte) (PollResult, int, error) {
	if len(output) == 0 {
		return PollMore, 0, ErrNullInput
	}
	sink := newOutputSink(output)

	for {
		switch e.state {
		case stateNotFull:
			return PollEmpty, sink.written(), nil
		case stateFilled:
			e.idx.rebuild(e.buffer[:], windowSize+e.inputSize)
			e.state = stateSearch
		case stateSearch:
			e.state = e.stepSearch()
		case stateYieldTagBit:
			if !sink.canTake() {
				return PollMore, sink.written(), nil
			}
			e.state = e.yieldTagBit(&sink)
		case stateYieldLiteral:
			if !sink.canTake() {
				return PollMore, sink.written(), nil
			}
			e.state = e.yieldLiteral(&sink)
		case stateYieldBackRefIndex:
			if !sink.canTake() {
				return PollMore, sink.written(), nil
			}
			e.state = e.yieldBackRefIndex(&sink)
		case stateYieldBackRefLength:
			if !sink.canTake() {
				return PollMore, sink.written(), nil
			}
			e.state = e.yieldBackRefLength(&sink)
		case stateSaveBacklog:
			e.saveBacklog()
			e.state = stateNotFull
		case stateFlushBits:
			if e.out.aligned() {
				e.state = stateDone
				continue
			}
			if !sink.canTake() {
				return PollMore, sink.written(), nil
			}
			e.out.flush(&sink)
			e.state = stateDone
		case stateDone:
			return PollEmpty, sink.written(), nil
		default:
			return PollEmpty, sink.written(), fmt.Errorf("%w: unknown encoder state %d", ErrInternal, e.state)
		}
	}
}

// Finish signals that no further input will be sunk. The caller must keep
// calling Poll and Finish until Finish returns FinishDone.
func (e *Encoder) Finish() (FinishResult, error) {
	e.flags |= flagFinished
	if e.state == stateNotFull {
		e.state = stateFilled
	}
	if e.state == stateDone {
		return FinishDone, nil
	}
	return FinishMore, nil
}

func (e *Encoder) stepSearch() encoderState {
	bias := uint16(lookaheadSize)
	if e.isFinishing() {
		bias = 1
	}

	// Written as msi+bias > inputSize rather than msi > inputSize-bias: the
	// subtraction form underflows uint16 when inputSize < bias (notably the
	// empty-input finish case), silently skipping the flush transition.
	if e.matchScanIndex+bias > e.inputSize {
		if e.isFinishing() {
			return stateFlushBits
		}
		return stateSaveBacklog
	}

	end := windowSize + e.matchScanIndex
	start := end - windowSize

	maxPossible := uint16(lookaheadSize)
	if e.inputSize-e.matchScanIndex < maxPossible {
		maxPossible = e.inputSize - e.matchScanIndex
	}

	pos, length, found := e.idx.find(e.buffer[:], start, end, maxPossible)
	if !found {
		e.matchScanIndex++
		e.matchLength = 0
		return stateYieldTagBit
	}
	e.matchPos = pos
	e.matchLength = length
	return stateYieldTagBit
}

func (e *Encoder) yieldTagBit(out *outputSink) encoderState {
	if e.matchLength == 0 {
		e.out.pushBits(1, tagLiteral, out)
		return stateYieldLiteral
	}
	e.out.pushBits(1, tagBackRef, out)
	e.outgoingBits = e.matchPos - 1
	e.outgoingBitsCount = windowBits
	return stateYieldBackRefIndex
}

func (e *Encoder) yieldLiteral(out *outputSink) encoderState {
	c := e.buffer[windowSize+e.matchScanIndex-1]
	e.out.pushBits(8, c, out)
	return stateSearch
}

func (e *Encoder) pushOutgoingBits(out *outputSink) uint8 {
	var count uint8
	var bits uint8
	if e.outgoingBitsCount > 8 {
		count = 8
		bits = uint8(e.outgoingBits >> (e.outgoingBitsCount - 8))
	} else {
		count = e.outgoingBitsCount
		bits = uint8(e.outgoingBits)
	}
	if count > 0 {
		e.out.pushBits(count, bits, out)
		e.outgoingBitsCount -= count
	}
	return count
}

func (e *Encoder) yieldBackRefIndex(out *outputSink) encoderState {
	if e.pushOutgoingBits(out) > 0 {
		return stateYieldBackRefIndex
	}
	e.outgoingBits = e.matchLength - 1
	e.outgoingBitsCount = lookaheadBits
	return stateYieldBackRefLength
}

func (e *Encoder) yieldBackRefLength(out *outputSink) encoderState {
	if e.pushOutgoingBits(out) > 0 {
		return stateYieldBackRefLength
	}
	e.matchScanIndex += e.matchLength
	e.matchLength = 0
	return stateSearch
}

// saveBacklog shifts the last windowSize bytes to the front of the buffer
// so they remain available as dictionary history for future matches.
func (e *Encoder) saveBacklog() {
	unprocessed := windowSize - e.matchScanIndex
	shiftSize := windowSize + unprocessed
	copy(e.buffer[:], e.buffer[e.matchScanIndex:e.matchScanIndex+shiftSize])
	e.matchScanIndex = 0
	e.inputSize -= windowSize - unprocessed
	e.logf("saved backlog, input size now %d", e.inputSize)
}
