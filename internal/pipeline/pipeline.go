// Package pipeline runs the pulse transforms over a record array and
// streams hit chunks to a visit callback.
//
// Records are partitioned by channel (order preserved within each channel),
// so partitions can be baselined and scanned on parallel workers without
// breaking the per-channel state the transforms carry. With Workers <= 1 the
// whole array is processed sequentially in exact input order.
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pulsekit-core/pulse"
	"pulsekit-core/record"
)

// Config controls one pipeline run.
type Config struct {
	BaselineSamples int
	Threshold       int
	HitChunk        int  // FindHits chunk capacity; 0 = pulse.DefaultHitChunk
	Workers         int  // parallel channel partitions; <=1 = sequential
	CheckLinks      bool // validate the fragment chain before processing
}

// Stats summarizes a completed run.
type Stats struct {
	Records  int
	Channels int
	Hits     int
}

type part struct {
	idx  []int32         // positions in the caller's array
	recs []record.Record // copies sharing Data with the caller's records
}

// ForEachHitChunk baselines and integrates recs in place, finds hits, and
// calls visit with each hit chunk. Hit.RecordIdx always refers to positions
// in recs, regardless of partitioning. visit is never called concurrently.
func ForEachHitChunk(ctx context.Context, cfg Config, recs []record.Record, visit func([]record.Hit) error) (Stats, error) {
	var st Stats
	st.Records = len(recs)
	if len(recs) == 0 {
		return st, nil
	}
	if _, err := record.SamplesPerRecord(recs); err != nil {
		return st, err
	}
	if cfg.CheckLinks {
		if _, _, err := pulse.Links(recs); err != nil {
			return st, err
		}
	}

	parts := partitionByChannel(recs)
	st.Channels = len(parts)

	if cfg.Workers <= 1 {
		if err := pulse.Baseline(recs, cfg.BaselineSamples); err != nil {
			return st, err
		}
		pulse.Integrate(recs)
		err := pulse.FindHits(recs, cfg.Threshold, cfg.HitChunk, func(chunk []record.Hit) error {
			st.Hits += len(chunk)
			return visit(chunk)
		})
		return st, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	results := make(chan []record.Hit, cfg.Workers*2)

	// Single collector keeps visit unsynchronized.
	done := make(chan error, 1)
	go func() {
		for chunk := range results {
			st.Hits += len(chunk)
			if err := visit(chunk); err != nil {
				done <- err
				// Drain so workers never block on a dead collector.
				for range results {
				}
				return
			}
		}
		done <- nil
	}()

	for pi := range parts {
		p := &parts[pi]
		g.Go(func() error {
			if err := pulse.Baseline(p.recs, cfg.BaselineSamples); err != nil {
				return err
			}
			pulse.Integrate(p.recs)
			err := pulse.FindHits(p.recs, cfg.Threshold, cfg.HitChunk, func(chunk []record.Hit) error {
				for i := range chunk {
					chunk[i].RecordIdx = p.idx[chunk[i].RecordIdx]
				}
				select {
				case results <- chunk:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
			if err != nil {
				return err
			}
			// Data was mutated through the shared backing array; Baseline and
			// Area live on the partition copies and must be written back.
			for i, gi := range p.idx {
				recs[gi].Baseline = p.recs[i].Baseline
				recs[gi].Area = p.recs[i].Area
			}
			return nil
		})
	}

	werr := g.Wait()
	close(results)
	verr := <-done

	if werr != nil {
		return st, werr
	}
	if verr != nil {
		return st, verr
	}
	return st, ctx.Err()
}

// partitionByChannel splits recs into per-channel views in order of first
// appearance, preserving record order within each channel.
func partitionByChannel(recs []record.Record) []part {
	byCh := make(map[int32]int)
	var parts []part
	for i := range recs {
		ch := recs[i].Channel
		pi, ok := byCh[ch]
		if !ok {
			pi = len(parts)
			byCh[ch] = pi
			parts = append(parts, part{})
		}
		parts[pi].idx = append(parts[pi].idx, int32(i))
		parts[pi].recs = append(parts[pi].recs, recs[i])
	}
	return parts
}
