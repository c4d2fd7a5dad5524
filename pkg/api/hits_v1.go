// Package api holds the versioned wire structs emitted by the CLI, kept
// separate from core types so output stays stable across refactors.
package api

import "pulsekit-core/record"

// HitV1 is the stable JSONL form of a hit (v1).
type HitV1 struct {
	Time        int64 `json:"time"`
	Channel     int32 `json:"channel"`
	DT          int32 `json:"dt"`
	RecordIndex int32 `json:"record_index"`
	Left        int32 `json:"left"`
	Right       int32 `json:"right"`
	Length      int32 `json:"length"`
}

// ToHitV1 converts a core hit to its v1 wire form.
func ToHitV1(h record.Hit) HitV1 {
	return HitV1{
		Time:        h.Time,
		Channel:     h.Channel,
		DT:          h.DT,
		RecordIndex: h.RecordIdx,
		Left:        h.Left,
		Right:       h.Right,
		Length:      h.Length,
	}
}
