package pulse

import (
	"testing"

	"pulsekit-core/record"
)

func collectHits(t *testing.T, recs []record.Record, threshold, chunkSize int) ([]record.Hit, []int) {
	t.Helper()
	var hits []record.Hit
	var chunkLens []int
	err := FindHits(recs, threshold, chunkSize, func(chunk []record.Hit) error {
		chunkLens = append(chunkLens, len(chunk))
		hits = append(hits, chunk...)
		return nil
	})
	if err != nil {
		t.Fatalf("find hits: %v", err)
	}
	return hits, chunkLens
}

func TestFindHitsBasic(t *testing.T) {
	recs := []record.Record{{
		Time: 1000, Channel: 3, DT: 10, PulseLength: 6,
		Data: []int16{0, 20, 20, 0, 30, 0},
	}}
	hits, _ := collectHits(t, recs, 15, 0)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	// Right is exclusive; Length keeps the historical +1.
	want := []record.Hit{
		{Time: 1010, Channel: 3, DT: 10, RecordIdx: 0, Left: 1, Right: 3, Length: 3},
		{Time: 1040, Channel: 3, DT: 10, RecordIdx: 0, Left: 4, Right: 5, Length: 2},
	}
	for i, w := range want {
		if hits[i] != w {
			t.Errorf("hit[%d] = %+v, want %+v", i, hits[i], w)
		}
	}
}

func TestFindHitsLengthIncludesClosingSample(t *testing.T) {
	// Single above-threshold sample: Right-Left = 1 but Length = 2.
	recs := []record.Record{{DT: 1, Data: []int16{0, 30, 0, 0}}}
	hits, _ := collectHits(t, recs, 15, 0)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if hits[0].Left != 1 || hits[0].Right != 2 || hits[0].Length != 2 {
		t.Errorf("hit = %+v, want Left=1 Right=2 Length=2", hits[0])
	}
}

func TestFindHitsDropsRunTouchingRecordEnd(t *testing.T) {
	// A run still above threshold at the final sample never closes; the
	// following record opens its own hits independently.
	recs := []record.Record{
		{DT: 1, Data: []int16{0, 20, 20, 20}},
		{DT: 1, Data: []int16{20, 20, 0, 0}},
	}
	hits, _ := collectHits(t, recs, 15, 0)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1 (trailing run dropped)", len(hits))
	}
	if hits[0].RecordIdx != 1 || hits[0].Left != 0 || hits[0].Right != 2 {
		t.Errorf("hit = %+v, want RecordIdx=1 Left=0 Right=2", hits[0])
	}
}

func TestFindHitsThresholdIsStrict(t *testing.T) {
	recs := []record.Record{{DT: 1, Data: []int16{15, 15, 16, 0}}}
	hits, _ := collectHits(t, recs, 15, 0)
	if len(hits) != 1 || hits[0].Left != 2 {
		t.Fatalf("hits = %+v, want single hit at Left=2", hits)
	}
}

func TestFindHitsRecordIdxIsPositional(t *testing.T) {
	// RecordIdx reports the position in the scanned array, not RecordI.
	recs := []record.Record{
		{DT: 1, RecordI: 5, Data: []int16{0, 0, 0, 0}},
		{DT: 1, RecordI: 7, Data: []int16{0, 30, 0, 0}},
	}
	hits, _ := collectHits(t, recs, 15, 0)
	if len(hits) != 1 || hits[0].RecordIdx != 1 {
		t.Fatalf("hits = %+v, want single hit with RecordIdx=1", hits)
	}
}

func TestFindHitsChunking(t *testing.T) {
	// 7 hits with capacity 3 arrive as chunks of 3, 3, 1 and concatenate to
	// the unchunked result.
	data := make([]int16, 14)
	for i := 0; i < 14; i += 2 {
		data[i] = 20
	}
	recs := []record.Record{{DT: 1, Data: data}}

	chunked, lens := collectHits(t, recs, 15, 3)
	wantLens := []int{3, 3, 1}
	if len(lens) != len(wantLens) {
		t.Fatalf("got %d chunks (%v), want %v", len(lens), lens, wantLens)
	}
	for i, w := range wantLens {
		if lens[i] != w {
			t.Errorf("chunk %d has %d hits, want %d", i, lens[i], w)
		}
	}

	whole, _ := collectHits(t, recs, 15, 0)
	if len(whole) != len(chunked) {
		t.Fatalf("chunked %d hits, unchunked %d", len(chunked), len(whole))
	}
	for i := range whole {
		if whole[i] != chunked[i] {
			t.Errorf("hit %d differs: %+v vs %+v", i, chunked[i], whole[i])
		}
	}
}

func TestFindHitsEmptyInput(t *testing.T) {
	err := FindHits(nil, 15, 0, func([]record.Hit) error {
		t.Fatal("emit called for empty input")
		return nil
	})
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
}

func TestFindHitsEmitErrorAborts(t *testing.T) {
	data := make([]int16, 8)
	for i := 0; i < 8; i += 2 {
		data[i] = 20
	}
	recs := []record.Record{{DT: 1, Data: data}}
	calls := 0
	sentinel := errTest("stop")
	err := FindHits(recs, 15, 1, func([]record.Hit) error {
		calls++
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if calls != 1 {
		t.Fatalf("emit called %d times after error, want 1", calls)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
