package pulse

import "pulsekit-core/record"

// Integrate sets each record's Area to the sum of its samples. Call after
// Baseline for baseline-corrected areas. Stateless across records.
func Integrate(recs []record.Record) {
	for i := range recs {
		var sum int64
		for _, s := range recs[i].Data {
			sum += int64(s)
		}
		recs[i].Area = float32(sum)
	}
}
