package pulse

import (
	"errors"
	"testing"

	"pulsekit-core/record"
)

func TestLinksChains(t *testing.T) {
	// Two channels with interleaved fragments:
	// idx: 0      1      2      3      4
	//      ch0/0  ch1/0  ch0/1  ch1/1  ch0/2
	recs := []record.Record{
		rec(0, 0, 12, 0, 0, 0, 0),
		rec(1, 0, 8, 0, 0, 0, 0),
		rec(0, 1, 12, 0, 0, 0, 0),
		rec(1, 1, 8, 0, 0, 0, 0),
		rec(0, 2, 12, 0, 0, 0, 0),
	}
	prev, next, err := Links(recs)
	if err != nil {
		t.Fatalf("links: %v", err)
	}

	na := record.NotApplicable
	wantPrev := []int32{na, na, 0, 1, 2}
	wantNext := []int32{2, 3, 4, na, na}
	for i := range recs {
		if prev[i] != wantPrev[i] {
			t.Errorf("prev[%d] = %d, want %d", i, prev[i], wantPrev[i])
		}
		if next[i] != wantNext[i] {
			t.Errorf("next[%d] = %d, want %d", i, next[i], wantNext[i])
		}
	}

	// Symmetry: next and prev agree.
	for i := range recs {
		if next[i] != na && prev[next[i]] != int32(i) {
			t.Errorf("prev[next[%d]] = %d, want %d", i, prev[next[i]], i)
		}
	}

	// Following next from each pulse head walks record_i 0,1,2,... without gaps.
	for i := range recs {
		if recs[i].RecordI != 0 {
			continue
		}
		want := int32(0)
		for j := int32(i); j != na; j = next[j] {
			if recs[j].RecordI != want {
				t.Errorf("chain from %d: record_i %d, want %d", i, recs[j].RecordI, want)
			}
			want++
		}
	}
}

func TestLinksOrphanContinuation(t *testing.T) {
	recs := []record.Record{
		rec(0, 0, 4, 0, 0, 0, 0),
		rec(1, 2, 12, 0, 0, 0, 0), // channel 1 never had a first fragment
	}
	_, _, err := Links(recs)
	if !errors.Is(err, ErrOrphanRecord) {
		t.Fatalf("err = %v, want ErrOrphanRecord", err)
	}
}

func TestLinksBackToBackPulsesSameChannel(t *testing.T) {
	recs := []record.Record{
		rec(0, 0, 8, 0, 0, 0, 0),
		rec(0, 1, 8, 0, 0, 0, 0),
		rec(0, 0, 4, 0, 0, 0, 0), // new pulse on the same channel
	}
	prev, next, err := Links(recs)
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	if prev[2] != record.NotApplicable {
		t.Errorf("prev[2] = %d, want NotApplicable", prev[2])
	}
	if next[1] != record.NotApplicable {
		t.Errorf("next[1] = %d, want NotApplicable", next[1])
	}
	if prev[1] != 0 || next[0] != 1 {
		t.Errorf("first pulse chain broken: prev[1]=%d next[0]=%d", prev[1], next[0])
	}
}

func TestLinksEmptyInput(t *testing.T) {
	prev, next, err := Links(nil)
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	if len(prev) != 0 || len(next) != 0 {
		t.Errorf("want empty outputs, got %d/%d", len(prev), len(next))
	}
}

func TestLinksIdempotent(t *testing.T) {
	recs := []record.Record{
		rec(0, 0, 8, 0, 0, 0, 0),
		rec(0, 1, 8, 0, 0, 0, 0),
	}
	p1, n1, err := Links(recs)
	if err != nil {
		t.Fatal(err)
	}
	p2, n2, err := Links(recs)
	if err != nil {
		t.Fatal(err)
	}
	for i := range recs {
		if p1[i] != p2[i] || n1[i] != n2[i] {
			t.Fatalf("second run differs at %d", i)
		}
	}
}
