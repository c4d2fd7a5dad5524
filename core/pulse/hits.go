package pulse

import "pulsekit-core/record"

// DefaultHitChunk is the hit buffer capacity used when FindHits is called
// with chunkSize <= 0. Below roughly a thousand, per-chunk overhead starts
// to dominate the scan itself.
const DefaultHitChunk = 10000

// FindHits scans baseline-corrected records for maximal runs of samples
// strictly above threshold and streams them to emit in chunks of at most
// chunkSize hits. A run is scanned per record: hits never span a record
// boundary even when the pulse continues into the next fragment, and a run
// still above threshold at a record's final sample is not closed and is
// dropped. Hit.RecordIdx is the record's position in recs.
//
// emit receives each full chunk and, after the scan, the non-empty
// remainder; it owns the slice it is handed. Returning an error from emit
// aborts the scan.
func FindHits(recs []record.Record, threshold int, chunkSize int, emit func([]record.Hit) error) error {
	if len(recs) == 0 {
		return nil
	}
	spr, err := record.SamplesPerRecord(recs)
	if err != nil {
		return err
	}
	if chunkSize <= 0 {
		chunkSize = DefaultHitChunk
	}

	buf := make([]record.Hit, 0, chunkSize)

	for ri := range recs {
		r := &recs[ri]
		inInterval := false
		hitStart := 0

		for i := 0; i < spr; i++ {
			above := int(r.Data[i]) > threshold

			if !inInterval && above {
				inInterval = true
				hitStart = i
			}
			if inInterval && !above {
				inInterval = false
				// Right bound is exclusive: the current sample is the first
				// one at or below threshold.
				buf = append(buf, record.Hit{
					Time:      r.Time + int64(hitStart)*int64(r.DT),
					Channel:   r.Channel,
					DT:        r.DT,
					RecordIdx: int32(ri),
					Left:      int32(hitStart),
					Right:     int32(i),
					Length:    int32(i - hitStart + 1),
				})
				if len(buf) == chunkSize {
					if err := emit(buf); err != nil {
						return err
					}
					buf = make([]record.Hit, 0, chunkSize)
				}
			}
		}
	}
	if len(buf) > 0 {
		return emit(buf)
	}
	return nil
}
