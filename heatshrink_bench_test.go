package heatshrink

import (
	"bytes"
	"fmt"
	"testing"
)

func benchmarkInputSets() map[string][]byte {
	return map[string][]byte{
		"text-4k":     bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 90),
		"pattern-64k": bytes.Repeat([]byte("ABCDEF0123456789"), 4096),
		"zeros-256k":  make([]byte, 256*1024),
	}
}

func BenchmarkCompress(b *testing.B) {
	for name, data := range benchmarkInputSets() {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Compress(data); err != nil {
					b.Fatalf("Compress: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecompress(b *testing.B) {
	for name, data := range benchmarkInputSets() {
		compressed, err := Compress(data)
		if err != nil {
			b.Fatalf("setup Compress failed for %s: %v", name, err)
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Decompress(compressed); err != nil {
					b.Fatalf("Decompress: %v", err)
				}
			}
		})
	}
}

func BenchmarkPollChunkSizes(b *testing.B) {
	data := bytes.Repeat([]byte("benchmarking poll buffer sizes against the same payload "), 200)
	sizes := []int{16, 256, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("poll=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				enc := NewEncoder()
				scratch := make([]byte, size)
				offset := 0
				for offset < len(data) {
					_, n, err := enc.Sink(data[offset:])
					if err != nil {
						b.Fatalf("Sink: %v", err)
					}
					offset += n
					for {
						res, _, err := enc.Poll(scratch)
						if err != nil {
							b.Fatalf("Poll: %v", err)
						}
						if res == PollEmpty {
							break
						}
					}
				}
				for {
					res, err := enc.Finish()
					if err != nil {
						b.Fatalf("Finish: %v", err)
					}
					for {
						pres, _, err := enc.Poll(scratch)
						if err != nil {
							b.Fatalf("Poll: %v", err)
						}
						if pres == PollEmpty {
							break
						}
					}
					if res == FinishDone {
						break
					}
				}
			}
		})
	}
}
