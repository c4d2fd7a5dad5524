package pulse

import (
	"fmt"

	"pulsekit-core/record"
)

// DefaultBaselineSamples is the number of samples at the start of a pulse
// averaged into the baseline estimate.
const DefaultBaselineSamples = 40

// Baseline estimates a baseline per pulse and subtracts it in place.
//
// For the first fragment of a pulse (RecordI == 0) the baseline is the mean
// of the first baselineSamples raw samples; continuation fragments reuse the
// baseline last computed for their channel. Every valid sample s is replaced
// by int16(baseline) - s, which also flips the negative-going pulses
// positive. Zero padding past the pulse length is left untouched.
//
// Not idempotent: run once per record array, before Integrate and FindHits.
func Baseline(recs []record.Record, baselineSamples int) error {
	if len(recs) == 0 {
		return nil
	}
	spr, err := record.SamplesPerRecord(recs)
	if err != nil {
		return err
	}
	if baselineSamples <= 0 || baselineSamples > spr {
		return fmt.Errorf("baseline samples %d out of range [1,%d]", baselineSamples, spr)
	}

	// Baseline last seen per channel, scoped to this call.
	nch := record.MaxChannel(recs) + 1
	lastBL := make([]float32, nch)
	seen := make([]bool, nch)

	for i := range recs {
		r := &recs[i]
		ch := r.Channel

		var bl float32
		if r.RecordI == 0 {
			var sum int64
			for _, s := range r.Data[:baselineSamples] {
				sum += int64(s)
			}
			bl = float32(sum) / float32(baselineSamples)
			lastBL[ch] = bl
			seen[ch] = true
		} else {
			if !seen[ch] {
				return fmt.Errorf("record %d (channel %d, record_i %d): %w",
					i, ch, r.RecordI, ErrOrphanRecord)
			}
			bl = lastBL[ch]
		}

		last := spr
		if n := int(r.PulseLength) - int(r.RecordI)*spr; n < last {
			last = n
		}
		if last < 0 {
			last = 0
		}
		ib := int16(bl) // truncate toward zero
		for j := 0; j < last; j++ {
			r.Data[j] = ib - r.Data[j]
		}
		r.Baseline = bl
	}
	return nil
}
