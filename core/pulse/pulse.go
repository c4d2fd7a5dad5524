// Package pulse implements the four transforms run on digitized detector
// pulses before feature extraction: baseline subtraction, integration,
// record linkage, and hit finding.
//
// All four operate on a record array delivered in order: per channel, the
// fragments of a pulse appear contiguously with increasing RecordI, and
// RecordI == 0 opens a new pulse. Violations of that ordering are data
// integrity errors and fail the whole call.
package pulse

import "errors"

// ErrOrphanRecord reports a continuation record whose channel has no prior
// record in the array, i.e. the input was cut or reordered upstream.
var ErrOrphanRecord = errors.New("continuation record without a prior record on its channel")
