// Package app wires CLI parsing, record loading, the pipeline, and hit
// writers into the pulsekit command.
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pulsekit/internal/cli"
	"pulsekit/internal/config"
	"pulsekit/internal/pipeline"
	"pulsekit/internal/recordio"
	"pulsekit/internal/version"
	"pulsekit/internal/writers"

	"pulsekit-core/record"
)

// RunContext parses argv and executes one processing run, writing hits to
// stdout and diagnostics to stderr. It returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("pulsekit")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(outw)
		fs.Usage()
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "pulsekit version %s\n", version.Version)
		return 0
	}

	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		config.Apply(cfg, &opts, func(name string) bool { return set[name] })
		if err := cli.Validate(&opts); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
	}

	log := newLogger(stderr, opts.Quiet)
	defer func() { _ = log.Sync() }()
	runID := uuid.NewString()
	start := time.Now()

	var recs []record.Record
	for _, path := range opts.RecordFiles {
		rs, err := recordio.ReadFile(path)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		recs = append(recs, rs...)
	}
	log.Info("run started",
		zap.String("run_id", runID),
		zap.Strings("files", opts.RecordFiles),
		zap.Int("records", len(recs)),
		zap.Int("threshold", opts.Threshold),
		zap.Int("baseline_samples", opts.BaselineSamples),
	)

	thr := opts.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	inCh, writeErr, err := writers.Start(opts.Output, outw, thr*4, opts.Header)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	stats, perr := pipeline.ForEachHitChunk(ctx, pipeline.Config{
		BaselineSamples: opts.BaselineSamples,
		Threshold:       opts.Threshold,
		HitChunk:        opts.ChunkSize,
		Workers:         thr,
		CheckLinks:      opts.CheckLinks,
	}, recs, func(chunk []record.Hit) error {
		for _, h := range chunk {
			select {
			case inCh <- h:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	close(inCh)

	if werr := <-writeErr; werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, perr)
		return 3
	}

	log.Info("run complete",
		zap.String("run_id", runID),
		zap.Int("records", stats.Records),
		zap.Int("channels", stats.Channels),
		zap.Int("hits", stats.Hits),
		zap.Duration("elapsed", time.Since(start)),
	)
	if stats.Hits == 0 {
		return opts.NoHitsExitCode
	}
	return 0
}

// Run executes with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func newLogger(stderr io.Writer, quiet bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(stderr),
		zap.InfoLevel,
	)
	return zap.New(core)
}
