package pulse

import (
	"fmt"

	"pulsekit-core/record"
)

// Links reconstructs the fragment chain of every pulse. It returns two
// arrays parallel to recs: prev[i] and next[i] are indices into recs of the
// previous/next fragment of the same pulse, or record.NotApplicable at the
// chain ends. Indices are local to this array and not stable across calls.
func Links(recs []record.Record) (prev, next []int32, err error) {
	prev = make([]int32, len(recs))
	next = make([]int32, len(recs))
	for i := range prev {
		prev[i] = record.NotApplicable
		next[i] = record.NotApplicable
	}
	if len(recs) == 0 {
		return prev, next, nil
	}

	nch := record.MaxChannel(recs) + 1
	lastSeen := make([]int32, nch)
	for i := range lastSeen {
		lastSeen[i] = record.NotApplicable
	}

	for i := range recs {
		ch := recs[i].Channel
		if recs[i].RecordI == 0 {
			// Record starts a new pulse.
			prev[i] = record.NotApplicable
		} else {
			last := lastSeen[ch]
			if last == record.NotApplicable {
				return nil, nil, fmt.Errorf("record %d (channel %d, record_i %d): %w",
					i, ch, recs[i].RecordI, ErrOrphanRecord)
			}
			prev[i] = last
			next[last] = int32(i)
		}
		lastSeen[ch] = int32(i)
	}
	return prev, next, nil
}
