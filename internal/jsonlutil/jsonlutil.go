// Package jsonlutil provides a small generic JSONL writer goroutine.
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
)

// Start launches a goroutine encoding values of type T as one JSON line
// each. It returns the input channel and a one-shot error channel that
// yields after the input closes and the output is flushed. Errors matched
// by isBroken (closed/broken pipes) are suppressed.
func Start[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error, isBroken func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		enc := json.NewEncoder(bw)
		for v := range in {
			if err := encode(enc, v); err != nil {
				if isBroken(err) {
					err = nil
				}
				done <- err
				// Drain so producers never block.
				for range in {
				}
				return
			}
		}
		if err := bw.Flush(); err != nil && !isBroken(err) {
			done <- err
			return
		}
		done <- nil
	}()

	return in, done
}
