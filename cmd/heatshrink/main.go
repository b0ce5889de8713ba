// Command heatshrink is a thin reference driver over the heatshrink
// package's streaming Sink/Poll/Finish contract: it reads from a file (or
// stdin), writes to a file (or stdout), and either encodes or decodes.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/streamshrink/heatshrink"
)

const appBufferSize = 64 * 1024

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("heatshrink", flag.ContinueOnError)
	encode := fs.Bool("e", false, "compress data")
	decode := fs.Bool("d", false, "decompress data")
	verbose := fs.Bool("v", false, "print input & output sizes and compression ratio to stderr")
	window := fs.Uint("w", 8, "base-2 log of the LZSS sliding window size (only 8 is supported)")
	lookahead := fs.Uint("l", 4, "number of bits used for back-reference lengths (only 4 is supported)")
	debug := fs.Bool("debug", false, "emit debug-level state machine logging to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *encode == *decode {
		return fmt.Errorf("exactly one of -e or -d is required")
	}
	if *window != 8 {
		return fmt.Errorf("only the compiled-in window size (8) is supported, got -w %d", *window)
	}
	if *lookahead != 4 {
		return fmt.Errorf("only the compiled-in lookahead size (4) is supported, got -l %d", *lookahead)
	}

	var logger *zap.SugaredLogger
	if *debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building debug logger: %w", err)
		}
		defer l.Sync() //nolint:errcheck
		logger = l.Sugar()
	}

	rest := fs.Args()
	var inputName string
	in := io.Reader(os.Stdin)
	if len(rest) > 0 && rest[0] != "-" {
		inputName = rest[0]
		f, err := os.Open(inputName)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	} else {
		inputName = "-"
	}

	out := io.Writer(os.Stdout)
	if len(rest) > 1 && rest[1] != "-" {
		f, err := os.Create(rest[1])
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	var inputSize, outputSize int
	var err error
	if *encode {
		inputSize, outputSize, err = runEncode(in, out, logger)
	} else {
		inputSize, outputSize, err = runDecode(in, out, logger)
	}
	if err != nil {
		return err
	}

	if *verbose {
		ratio := 0.0
		if inputSize > 0 {
			ratio = 100.0 - (100.0*float64(outputSize))/float64(inputSize)
		}
		fmt.Fprintf(os.Stderr, "%s %.2f%% \t%d -> %d (-w %d -l %d)\n",
			inputName, ratio, inputSize, outputSize, *window, *lookahead)
	}
	return nil
}

func runEncode(r io.Reader, w io.Writer, logger *zap.SugaredLogger) (inputSize, outputSize int, err error) {
	enc := heatshrink.NewEncoder()
	enc.SetLogger(logger)

	inBuf := make([]byte, appBufferSize)
	outBuf := make([]byte, appBufferSize)

	for {
		n, readErr := r.Read(inBuf)
		inputSize += n

		processed := 0
		for {
			if n > 0 {
				_, sunk, sinkErr := enc.Sink(inBuf[processed:n])
				if sinkErr != nil {
					return inputSize, outputSize, fmt.Errorf("sink: %w", sinkErr)
				}
				processed += sunk
			}

			for {
				res, m, pollErr := enc.Poll(outBuf)
				if pollErr != nil {
					return inputSize, outputSize, fmt.Errorf("poll: %w", pollErr)
				}
				if m > 0 {
					if _, err := w.Write(outBuf[:m]); err != nil {
						return inputSize, outputSize, fmt.Errorf("write: %w", err)
					}
					outputSize += m
				}
				if res == heatshrink.PollEmpty {
					break
				}
			}

			if readErr == io.EOF && processed == n {
				fres, finErr := enc.Finish()
				if finErr != nil {
					return inputSize, outputSize, fmt.Errorf("finish: %w", finErr)
				}
				if fres == heatshrink.FinishDone {
					return inputSize, outputSize, nil
				}
			}
			if processed == n {
				break
			}
		}

		if readErr == io.EOF {
			// Finish above didn't reach Done in one round; loop back with
			// n == 0 so the next Poll can keep draining state.
			continue
		}
		if readErr != nil {
			return inputSize, outputSize, fmt.Errorf("read: %w", readErr)
		}
	}
}

func runDecode(r io.Reader, w io.Writer, logger *zap.SugaredLogger) (inputSize, outputSize int, err error) {
	dec := heatshrink.NewDecoder()
	dec.SetLogger(logger)

	inBuf := make([]byte, appBufferSize)
	outBuf := make([]byte, appBufferSize)

	for {
		n, readErr := r.Read(inBuf)
		inputSize += n

		processed := 0
		for processed < n {
			_, sunk, sinkErr := dec.Sink(inBuf[processed:n])
			if sinkErr != nil {
				return inputSize, outputSize, fmt.Errorf("sink: %w", sinkErr)
			}
			processed += sunk

			for {
				res, m, pollErr := dec.Poll(outBuf)
				if pollErr != nil {
					return inputSize, outputSize, fmt.Errorf("poll: %w", pollErr)
				}
				if m > 0 {
					if _, err := w.Write(outBuf[:m]); err != nil {
						return inputSize, outputSize, fmt.Errorf("write: %w", err)
					}
					outputSize += m
				}
				if res == heatshrink.PollEmpty {
					break
				}
			}
		}

		if readErr == io.EOF {
			fres, finErr := dec.Finish()
			if finErr != nil {
				return inputSize, outputSize, fmt.Errorf("finish: %w", finErr)
			}
			if fres != heatshrink.FinishDone {
				if logger != nil {
					logger.Warn("input exhausted before decoder reached a clean end of stream")
				}
				return inputSize, outputSize, fmt.Errorf("truncated compressed stream")
			}
			return inputSize, outputSize, nil
		}
		if readErr != nil {
			return inputSize, outputSize, fmt.Errorf("read: %w", readErr)
		}
	}
}
