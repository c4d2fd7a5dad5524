package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"pulsekit/internal/version"
	"pulsekit/internal/writers"

	"pulsekit-core/pulse"
)

// Options holds all CLI flags and arguments.
type Options struct {
	RecordFiles []string
	ConfigFile  string

	// Processing parameters
	BaselineSamples int
	Threshold       int
	ChunkSize       int
	CheckLinks      bool

	// Performance
	Threads int

	// Output
	Output string
	Header bool // true unless --no-header
	Quiet  bool

	NoHitsExitCode int

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: detector pulse processing (baseline, integrate, hit finding)

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	var files stringSlice
	fs.Var(&files, "records", "record file(s) (repeatable or '-') [*]")
	fs.StringVar(&opt.ConfigFile, "config", "", "TOML file with parameter defaults []")

	fs.IntVar(&opt.BaselineSamples, "baseline-samples", pulse.DefaultBaselineSamples,
		fmt.Sprintf("samples averaged into the pulse baseline [%d]", pulse.DefaultBaselineSamples))
	fs.IntVar(&opt.Threshold, "threshold", 15, "hit threshold, strictly-above, after baseline [15]")
	fs.IntVar(&opt.ChunkSize, "chunk-size", pulse.DefaultHitChunk,
		fmt.Sprintf("hits per output chunk (0 = default) [%d]", pulse.DefaultHitChunk))
	fs.BoolVar(&opt.CheckLinks, "check-links", false, "validate the record chain before processing [false]")

	fs.IntVar(&opt.Threads, "threads", 0, "worker threads across channels (0 = all CPUs) [0]")

	fs.StringVar(&opt.Output, "output", writers.FormatText, "output format: text | jsonl | binary [text]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text output [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress run log on stderr [false]")
	fs.IntVar(&opt.NoHitsExitCode, "no-hits-exit-code", 0, "exit code when no hits are found [0]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.RecordFiles = files
	opt.Header = !noHeader

	return opt, Validate(&opt)
}

// Validate checks option ranges; it runs again after config defaults apply.
func Validate(opt *Options) error {
	if len(opt.RecordFiles) == 0 {
		return errors.New("at least one --records file is required")
	}
	if opt.BaselineSamples < 1 {
		return errors.New("--baseline-samples must be >= 1")
	}
	if opt.ChunkSize < 0 {
		return errors.New("--chunk-size must be >= 0")
	}
	if opt.Threads < 0 {
		return errors.New("--threads must be >= 0")
	}
	switch opt.Output {
	case writers.FormatText, writers.FormatJSONL, writers.FormatBinary:
	default:
		return fmt.Errorf("invalid --output %q", opt.Output)
	}
	return nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
