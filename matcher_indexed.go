//go:build heatshrinkindex

package heatshrink

// matcher accelerates longest-match search with a per-byte hash chain: for
// every buffer position i, chain[i] holds the nearest earlier position j<i
// with buf[j] == buf[i], or -1. Rebuilt each time the encoder enters
// stateFilled: on the first fill and on each refill after stateSaveBacklog
// shifts the window. Selected when the encoder is
// built with the heatshrinkindex tag; costs one int16 per input-buffer byte
// plus a transient 256-entry head-of-chain array during rebuild.
type matcher struct {
	chain []int16
}

func newMatcher() matcher {
	return matcher{chain: make([]int16, inputBufferSize)}
}

// rebuild reconstructs the hash chain over buf[0:size).
func (m *matcher) rebuild(buf []byte, size uint16) {
	var lastSeen [256]int16
	for i := range lastSeen {
		lastSeen[i] = -1
	}
	for i := uint16(0); i < size; i++ {
		v := buf[i]
		m.chain[i] = lastSeen[v]
		lastSeen[v] = int16(i)
	}
}

// find walks the chain backward from end, bounded by start, extending each
// candidate as far as it matches. It is exact-equivalent to the naive
// scanner, only faster.
func (m *matcher) find(buf []byte, start, end, maxlen uint16) (pos, length uint16, found bool) {
	matchMaxLen := uint16(0)
	matchIndex := matchNotFound

	p := m.chain[end]
	for p >= 0 && uint16(p) >= start {
		up := uint16(p)
		if buf[up+matchMaxLen] != buf[end+matchMaxLen] {
			p = m.chain[up]
			continue
		}
		l := uint16(1)
		for l < maxlen {
			if buf[up+l] != buf[end+l] {
				break
			}
			l++
		}
		if l > matchMaxLen {
			matchMaxLen = l
			matchIndex = up
			if l == maxlen {
				break
			}
		}
		p = m.chain[up]
	}

	return acceptMatch(end, matchIndex, matchMaxLen)
}
