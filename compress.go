package heatshrink

import "fmt"

// pollBufferSize is the scratch output size used internally by the one-shot
// helpers between Poll calls; it has no bearing on the wire format.
const pollBufferSize = 4096

// Compress runs data through a fresh Encoder end-to-end and returns the
// compressed bytes. It is a convenience for callers that don't need
// incremental streaming; see Encoder for the streaming contract.
func Compress(data []byte) ([]byte, error) {
	enc := NewEncoder()
	var out []byte
	scratch := make([]byte, pollBufferSize)

	offset := 0
	for offset < len(data) {
		_, n, err := enc.Sink(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("heatshrink: compress: %w", err)
		}
		offset += n

		for {
			res, m, err := enc.Poll(scratch)
			if err != nil {
				return nil, fmt.Errorf("heatshrink: compress: %w", err)
			}
			out = append(out, scratch[:m]...)
			if res == PollEmpty {
				break
			}
		}
	}

	for {
		res, err := enc.Finish()
		if err != nil {
			return nil, fmt.Errorf("heatshrink: compress: %w", err)
		}
		for {
			pres, m, err := enc.Poll(scratch)
			if err != nil {
				return nil, fmt.Errorf("heatshrink: compress: %w", err)
			}
			out = append(out, scratch[:m]...)
			if pres == PollEmpty {
				break
			}
		}
		if res == FinishDone {
			break
		}
	}

	return out, nil
}
