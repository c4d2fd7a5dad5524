// Package writers streams hits to an output in one of the supported
// formats. Each writer runs on its own goroutine fed through a channel and
// reports a single error after the channel closes.
package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"pulsekit/internal/jsonlutil"
	"pulsekit/pkg/api"

	"pulsekit-core/record"
)

const (
	FormatText   = "text"
	FormatJSONL  = "jsonl"
	FormatBinary = "binary"
)

const textHeader = "time\tchannel\tdt\trecord_index\tleft\tright\tlength"

// Start launches the writer goroutine for format and returns its input and
// one-shot error channels. header only applies to text output.
func Start(format string, out io.Writer, bufSize int, header bool) (chan<- record.Hit, <-chan error, error) {
	switch format {
	case FormatText:
		in, done := startFunc(out, bufSize, func(bw *bufio.Writer) error {
			if !header {
				return nil
			}
			_, err := fmt.Fprintln(bw, textHeader)
			return err
		}, writeTextHit)
		return in, done, nil
	case FormatJSONL:
		in, done := jsonlutil.Start(out, bufSize,
			func(enc *json.Encoder, h record.Hit) error {
				return enc.Encode(api.ToHitV1(h))
			}, IsBrokenPipe)
		return in, done, nil
	case FormatBinary:
		in, done := startFunc(out, bufSize, nil, writeBinaryHit)
		return in, done, nil
	default:
		return nil, nil, fmt.Errorf("unknown output format %q", format)
	}
}

func writeTextHit(bw *bufio.Writer, h record.Hit) error {
	_, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		h.Time, h.Channel, h.DT, h.RecordIdx, h.Left, h.Right, h.Length)
	return err
}

func writeBinaryHit(bw *bufio.Writer, h record.Hit) error {
	var buf [record.HitSize]byte
	if _, err := h.MarshalTo(buf[:]); err != nil {
		return err
	}
	_, err := bw.Write(buf[:])
	return err
}

// startFunc is the shared writer-goroutine skeleton for non-JSONL formats.
func startFunc(out io.Writer, bufSize int, prologue func(*bufio.Writer) error, write func(*bufio.Writer, record.Hit) error) (chan<- record.Hit, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan record.Hit, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		fail := func(err error) {
			if IsBrokenPipe(err) {
				err = nil
			}
			done <- err
			for range in {
			}
		}
		if prologue != nil {
			if err := prologue(bw); err != nil {
				fail(err)
				return
			}
		}
		for h := range in {
			if err := write(bw, h); err != nil {
				fail(err)
				return
			}
		}
		if err := bw.Flush(); err != nil && !IsBrokenPipe(err) {
			done <- err
			return
		}
		done <- nil
	}()

	return in, done
}
