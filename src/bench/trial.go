package bench

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Blackdeer1524/sortbench/src"
	"github.com/Blackdeer1524/sortbench/src/gapseq"
	"github.com/Blackdeer1524/sortbench/src/rangen"
	"github.com/Blackdeer1524/sortbench/src/records"
	"github.com/Blackdeer1524/sortbench/src/shellsort"
)

var ErrInvalidOptions = errors.New("invalid benchmark options")

// Options are the plain values the sweep is driven by.
type Options struct {
	MinRecords  int
	MaxRecords  int
	Growth      int
	Repetitions int
	BaseSeed    int64
	Variants    []gapseq.Variant
	Source      string
	Workers     int
	Layout      records.Layout
}

func DefaultOptions() Options {
	return Options{
		MinRecords:  10,
		MaxRecords:  10_000_000,
		Growth:      10,
		Repetitions: 5,
		BaseSeed:    301,
		Variants:    gapseq.All(),
		Source:      rangen.SourceMD5,
		Workers:     1,
		Layout:      records.DefaultLayout(),
	}
}

func (o Options) validate() error {
	switch {
	case o.MinRecords < 0:
		return fmt.Errorf("%w: min records %d is negative", ErrInvalidOptions, o.MinRecords)
	case o.MaxRecords < o.MinRecords:
		return fmt.Errorf(
			"%w: max records %d below min records %d",
			ErrInvalidOptions, o.MaxRecords, o.MinRecords,
		)
	case o.Growth < 2:
		return fmt.Errorf("%w: growth %d must be at least 2", ErrInvalidOptions, o.Growth)
	case o.Repetitions < 1:
		return fmt.Errorf("%w: repetitions %d must be positive", ErrInvalidOptions, o.Repetitions)
	case o.Workers < 1:
		return fmt.Errorf("%w: workers %d must be positive", ErrInvalidOptions, o.Workers)
	case len(o.Variants) == 0:
		return fmt.Errorf("%w: no gap sequence variants", ErrInvalidOptions)
	}

	return o.Layout.Validate()
}

// Trial is one measured sort.
type Trial struct {
	Variant gapseq.Variant
	N       int
	Seed    int64
}

// Result is the outcome of a trial.
type Result struct {
	Name          string
	Count         int
	Seed          int64
	Elapsed       time.Duration
	RecordsPerSec float64
	OK            bool
}

// CSVHeader names the columns written by Result.CSV.
const CSVHeader = "name,count,seed,elapsed_ns,records_per_sec,ok"

func (r Result) CSV() string {
	return fmt.Sprintf(
		"%s,%d,%d,%d,%.1f,%t",
		r.Name, r.Count, r.Seed, r.Elapsed.Nanoseconds(), r.RecordsPerSec, r.OK,
	)
}

func recordsPerSec(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}

	rate := float64(n) / elapsed.Seconds()
	if math.IsInf(rate, 0) {
		return 0
	}

	return rate
}

// Runner executes trials. Gap sequences are materialized once and shared
// read-only; every trial builds and seeds its own random source.
type Runner struct {
	opts  Options
	seqs  map[gapseq.Variant]gapseq.Sequence
	clock Clock
	log   src.Logger
}

func NewRunner(opts Options, clock Clock, log src.Logger) (*Runner, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if _, err := rangen.NewSource(opts.Source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	seqs := make(map[gapseq.Variant]gapseq.Sequence, len(opts.Variants))
	for _, v := range opts.Variants {
		seq, err := gapseq.Materialize(v)
		if err != nil {
			return nil, fmt.Errorf("failed to materialize %s: %w", v, err)
		}

		seqs[v] = seq
	}

	if clock == nil {
		clock = WallClock
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Runner{
		opts:  opts,
		seqs:  seqs,
		clock: clock,
		log:   log,
	}, nil
}

// Sequences returns the materialized sequence of every selected variant.
func (r *Runner) Sequences() map[gapseq.Variant]gapseq.Sequence {
	return r.seqs
}

// RunTrial generates, sorts and checks one array. Only the sort is timed.
func (r *Runner) RunTrial(t Trial) (Result, error) {
	seq, ok := r.seqs[t.Variant]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", gapseq.ErrUnknownVariant, t.Variant)
	}

	source, err := rangen.NewSource(r.opts.Source)
	if err != nil {
		return Result{}, err
	}
	source.SetSeed(t.Seed)

	arr, err := records.Generate(t.N, source, r.opts.Layout)
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate %d records: %w", t.N, err)
	}

	start := r.clock.Now()
	err = shellsort.SortArray(arr, seq)
	elapsed := r.clock.Now().Sub(start)

	if err != nil {
		return Result{}, fmt.Errorf("failed to sort with %s: %w", t.Variant, err)
	}

	res := Result{
		Name:          t.Variant.String(),
		Count:         t.N,
		Seed:          t.Seed,
		Elapsed:       elapsed,
		RecordsPerSec: recordsPerSec(t.N, elapsed),
		OK:            records.CheckOrder(arr),
	}

	if !res.OK {
		r.log.Warnw("array is out of order after sort",
			zap.String("variant", res.Name),
			zap.Int("n", res.Count),
			zap.Int64("seed", res.Seed),
		)
	}

	return res, nil
}
