package record

import (
	"encoding/binary"
	"errors"
	"math"
)

var ErrInsufficientBuffer = errors.New("buffer too small")

// Fixed little-endian layout shared with ingestion and downstream consumers.
// A record occupies RecordHeaderSize bytes of metadata followed by one int16
// per sample; a hit is a single fixed-size block.
const (
	RecordHeaderSize = 8 + 4 + 4 + 4 + 4 + 4 + 4 // time, channel, dt, record_i, pulse_length, baseline, area
	HitSize          = 8 + 4 + 4 + 4 + 2 + 2 + 4 // time, channel, dt, record_idx, left, right, length
)

// WireSize returns the encoded size of r in bytes.
func (r *Record) WireSize() int { return RecordHeaderSize + 2*len(r.Data) }

// MarshalTo encodes r into dest and returns the number of bytes written.
func (r *Record) MarshalTo(dest []byte) (int, error) {
	n := r.WireSize()
	if len(dest) < n {
		return 0, ErrInsufficientBuffer
	}
	binary.LittleEndian.PutUint64(dest[0:8], uint64(r.Time))
	binary.LittleEndian.PutUint32(dest[8:12], uint32(r.Channel))
	binary.LittleEndian.PutUint32(dest[12:16], uint32(r.DT))
	binary.LittleEndian.PutUint32(dest[16:20], uint32(r.RecordI))
	binary.LittleEndian.PutUint32(dest[20:24], uint32(r.PulseLength))
	binary.LittleEndian.PutUint32(dest[24:28], math.Float32bits(r.Baseline))
	binary.LittleEndian.PutUint32(dest[28:32], math.Float32bits(r.Area))
	off := RecordHeaderSize
	for _, s := range r.Data {
		binary.LittleEndian.PutUint16(dest[off:off+2], uint16(s))
		off += 2
	}
	return n, nil
}

// UnmarshalInto decodes a record with samplesPerRecord samples from src into
// r, reusing r.Data when it has the right capacity.
func UnmarshalInto(src []byte, samplesPerRecord int, r *Record) error {
	n := RecordHeaderSize + 2*samplesPerRecord
	if len(src) < n {
		return ErrInsufficientBuffer
	}
	r.Time = int64(binary.LittleEndian.Uint64(src[0:8]))
	r.Channel = int32(binary.LittleEndian.Uint32(src[8:12]))
	r.DT = int32(binary.LittleEndian.Uint32(src[12:16]))
	r.RecordI = int32(binary.LittleEndian.Uint32(src[16:20]))
	r.PulseLength = int32(binary.LittleEndian.Uint32(src[20:24]))
	r.Baseline = math.Float32frombits(binary.LittleEndian.Uint32(src[24:28]))
	r.Area = math.Float32frombits(binary.LittleEndian.Uint32(src[28:32]))
	if cap(r.Data) >= samplesPerRecord {
		r.Data = r.Data[:samplesPerRecord]
	} else {
		r.Data = make([]int16, samplesPerRecord)
	}
	off := RecordHeaderSize
	for i := 0; i < samplesPerRecord; i++ {
		r.Data[i] = int16(binary.LittleEndian.Uint16(src[off : off+2]))
		off += 2
	}
	return nil
}

// MarshalTo encodes h into dest and returns the number of bytes written.
func (h *Hit) MarshalTo(dest []byte) (int, error) {
	if len(dest) < HitSize {
		return 0, ErrInsufficientBuffer
	}
	binary.LittleEndian.PutUint64(dest[0:8], uint64(h.Time))
	binary.LittleEndian.PutUint32(dest[8:12], uint32(h.Channel))
	binary.LittleEndian.PutUint32(dest[12:16], uint32(h.DT))
	binary.LittleEndian.PutUint32(dest[16:20], uint32(h.RecordIdx))
	binary.LittleEndian.PutUint16(dest[20:22], uint16(h.Left))
	binary.LittleEndian.PutUint16(dest[22:24], uint16(h.Right))
	binary.LittleEndian.PutUint32(dest[24:28], uint32(h.Length))
	return HitSize, nil
}

// UnmarshalHit decodes one hit from src.
func UnmarshalHit(src []byte, h *Hit) error {
	if len(src) < HitSize {
		return ErrInsufficientBuffer
	}
	h.Time = int64(binary.LittleEndian.Uint64(src[0:8]))
	h.Channel = int32(binary.LittleEndian.Uint32(src[8:12]))
	h.DT = int32(binary.LittleEndian.Uint32(src[12:16]))
	h.RecordIdx = int32(binary.LittleEndian.Uint32(src[16:20]))
	h.Left = int32(binary.LittleEndian.Uint16(src[20:22]))
	h.Right = int32(binary.LittleEndian.Uint16(src[22:24]))
	h.Length = int32(binary.LittleEndian.Uint32(src[24:28]))
	return nil
}
