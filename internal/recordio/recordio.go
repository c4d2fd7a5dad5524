// Package recordio reads and writes the fixed-layout record file format
// produced by the acquisition side: a 12-byte header (magic, format version,
// samples per record) followed by fixed-size records until EOF.
package recordio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"pulsekit-core/record"
)

const (
	Magic         = "PKRC"
	FormatVersion = 1
	headerSize    = 12
)

var (
	ErrBadMagic   = errors.New("not a record file (bad magic)")
	ErrBadVersion = errors.New("unsupported record file version")
	ErrTruncated  = errors.New("truncated record file")
)

// ReadAll decodes every record from r into one array.
func ReadAll(r io.Reader) ([]record.Record, error) {
	br := bufio.NewReaderSize(r, 1<<16)

	var hdr [headerSize]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing header", ErrTruncated)
		}
		return nil, err
	}
	if string(hdr[0:4]) != Magic {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint16(hdr[4:6]); v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	spr := int(binary.LittleEndian.Uint16(hdr[6:8]))
	if spr == 0 {
		return nil, fmt.Errorf("%w: zero samples per record", ErrBadMagic)
	}

	wire := record.RecordHeaderSize + 2*spr
	buf := make([]byte, wire)
	var recs []record.Record
	for {
		_, err := io.ReadFull(br, buf)
		if err == io.EOF {
			return recs, nil
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: record %d", ErrTruncated, len(recs))
		}
		if err != nil {
			return nil, err
		}
		var rec record.Record
		if err := record.UnmarshalInto(buf, spr, &rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
}

// ReadFile reads a record file; "-" means stdin.
func ReadFile(path string) ([]record.Record, error) {
	if path == "-" {
		return ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	recs, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Write encodes recs to w. Geometry must be uniform; spr is taken from the
// records themselves.
func Write(w io.Writer, recs []record.Record) error {
	spr, err := record.SamplesPerRecord(recs)
	if err != nil {
		return err
	}
	if spr == 0 || spr > 1<<16-1 {
		return fmt.Errorf("samples per record %d not representable", spr)
	}

	bw := bufio.NewWriterSize(w, 1<<16)
	var hdr [headerSize]byte
	copy(hdr[0:4], Magic)
	binary.LittleEndian.PutUint16(hdr[4:6], FormatVersion)
	binary.LittleEndian.PutUint16(hdr[6:8], uint16(spr))
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}

	buf := make([]byte, record.RecordHeaderSize+2*spr)
	for i := range recs {
		if _, err := recs[i].MarshalTo(buf); err != nil {
			return err
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes recs to path; "-" means stdout.
func WriteFile(path string, recs []record.Record) error {
	if path == "-" {
		return Write(os.Stdout, recs)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, recs); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
