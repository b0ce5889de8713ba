package heatshrink

// SinkResult is the outcome of a Sink call.
type SinkResult uint8

const (
	// SinkOK means data was accepted into the input buffer (possibly zero
	// bytes, if the buffer was already full — that is backpressure, not an
	// error).
	SinkOK SinkResult = iota
	// SinkFull means the input buffer had no room at all for more data.
	SinkFull
)

func (r SinkResult) String() string {
	switch r {
	case SinkOK:
		return "SinkOK"
	case SinkFull:
		return "SinkFull"
	default:
		return "SinkUnknown"
	}
}

// PollResult is the outcome of a Poll call.
type PollResult uint8

const (
	// PollEmpty means no more output is available right now; the caller
	// should Sink more input (or the machine is Done).
	PollEmpty PollResult = iota
	// PollMore means the output buffer was filled and Poll should be called
	// again with a fresh buffer.
	PollMore
)

func (r PollResult) String() string {
	switch r {
	case PollEmpty:
		return "PollEmpty"
	case PollMore:
		return "PollMore"
	default:
		return "PollUnknown"
	}
}

// FinishResult is the outcome of a Finish call.
type FinishResult uint8

const (
	// FinishMore means the machine still has buffered work; keep polling.
	FinishMore FinishResult = iota
	// FinishDone means the machine has emitted everything it will emit.
	FinishDone
)

func (r FinishResult) String() string {
	switch r {
	case FinishMore:
		return "FinishMore"
	case FinishDone:
		return "FinishDone"
	default:
		return "FinishUnknown"
	}
}
