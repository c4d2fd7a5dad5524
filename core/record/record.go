// Package record defines the fixed-width waveform fragment ("record") and the
// derived above-threshold interval ("hit") shared by the pulse transforms and
// their collaborators.
package record

import (
	"errors"
	"fmt"
)

// NotApplicable marks a missing previous/next record in a pulse chain.
const NotApplicable int32 = -1

var ErrGeometry = errors.New("inconsistent samples per record")

// Record is one fixed-width fragment of a pulse on one channel.
//
// Data holds raw (pre-baseline) samples until Baseline runs; samples beyond
// PulseLength - RecordI*samplesPerRecord in the last fragment are zero padding.
type Record struct {
	Time        int64   // absolute start timestamp of the first sample
	Channel     int32   // channel identifier, small non-negative range
	DT          int32   // sample period, time units per sample
	RecordI     int32   // zero-based fragment index within the pulse
	PulseLength int32   // valid samples across the whole pulse
	Baseline    float32 // per-pulse baseline level, written by Baseline
	Area        float32 // integral of Data, written by Integrate
	Data        []int16 // samples, length = samples per record
}

// Hit is a maximal run of samples strictly above a threshold within a single
// record. Right is the first sample index past the run; RecordIdx is the
// positional index of the record within the array passed to FindHits, not the
// record's own fragment index.
type Hit struct {
	Time      int64
	Channel   int32
	DT        int32
	RecordIdx int32
	Left      int32
	Right     int32
	Length    int32
}

// SamplesPerRecord returns the uniform Data length of recs, or ErrGeometry if
// any record disagrees with the first. Returns 0 for an empty array.
func SamplesPerRecord(recs []Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	n := len(recs[0].Data)
	for i := range recs {
		if len(recs[i].Data) != n {
			return 0, fmt.Errorf("record %d has %d samples, want %d: %w",
				i, len(recs[i].Data), n, ErrGeometry)
		}
	}
	return n, nil
}

// MaxChannel returns the largest Channel in recs, or -1 for an empty array.
func MaxChannel(recs []Record) int32 {
	max := int32(-1)
	for i := range recs {
		if recs[i].Channel > max {
			max = recs[i].Channel
		}
	}
	return max
}
