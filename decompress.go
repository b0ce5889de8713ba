package heatshrink

import "fmt"

// Decompress runs data through a fresh Decoder end-to-end and returns the
// original bytes. It is a convenience for callers that don't need
// incremental streaming; see Decoder for the streaming contract.
func Decompress(data []byte) ([]byte, error) {
	dec := NewDecoder()
	var out []byte
	scratch := make([]byte, pollBufferSize)

	offset := 0
	for offset < len(data) {
		_, n, err := dec.Sink(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("heatshrink: decompress: %w", err)
		}
		offset += n

		for {
			res, m, err := dec.Poll(scratch)
			if err != nil {
				return nil, fmt.Errorf("heatshrink: decompress: %w", err)
			}
			out = append(out, scratch[:m]...)
			if res == PollEmpty {
				break
			}
		}
	}

	res, err := dec.Finish()
	if err != nil {
		return nil, fmt.Errorf("heatshrink: decompress: %w", err)
	}
	if res != FinishDone {
		return nil, fmt.Errorf("heatshrink: decompress: %w: truncated stream", ErrMisuse)
	}

	return out, nil
}
