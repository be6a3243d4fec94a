package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/panjf2000/ants"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sizes lists the record counts of the sweep: MinRecords, then repeated
// multiplication by Growth while the count stays within MaxRecords.
// A zero MinRecords contributes a single empty trial size.
func (r *Runner) Sizes() []int {
	sizes := make([]int, 0)

	n := r.opts.MinRecords
	if n == 0 {
		sizes = append(sizes, 0)
		n = 1
	}

	for n <= r.opts.MaxRecords {
		sizes = append(sizes, n)

		if n > math.MaxInt/r.opts.Growth {
			break
		}
		n *= r.opts.Growth
	}

	return sizes
}

// batch returns the trials of one size: variants in the configured order,
// and for each variant one trial per repetition seeded BaseSeed+rep.
func (r *Runner) batch(n int) []Trial {
	trials := make([]Trial, 0, len(r.opts.Variants)*r.opts.Repetitions)

	for _, v := range r.opts.Variants {
		for rep := 0; rep < r.opts.Repetitions; rep++ {
			trials = append(trials, Trial{
				Variant: v,
				N:       n,
				Seed:    r.opts.BaseSeed + int64(rep),
			})
		}
	}

	return trials
}

// Plan returns every trial of the sweep in the order results are emitted.
func (r *Runner) Plan() []Trial {
	var plan []Trial
	for _, n := range r.Sizes() {
		plan = append(plan, r.batch(n)...)
	}

	return plan
}

func (r *Runner) runBatch(ctx context.Context, pool *ants.Pool, trials []Trial) ([]Result, error) {
	results := make([]Result, len(trials))
	errs := make([]error, len(trials))

	var wg sync.WaitGroup

	for i, t := range trials {
		wg.Add(1)

		err := pool.Submit(func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}

			results[i], errs[i] = r.RunTrial(t)
		})
		if err != nil {
			wg.Done()
			wg.Wait()

			return nil, fmt.Errorf("failed to submit trial: %w", err)
		}
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return results, nil
}

// Sweep runs the whole plan and hands every result to sink in plan order.
// Trials of one size run on a pool of Workers goroutines; with a single
// worker trials never overlap, which is what timing comparisons want.
//
// Sweep stops at the first trial error, sink error or context
// cancellation.
func (r *Runner) Sweep(ctx context.Context, sink func(Result) error) error {
	pool, err := ants.NewPool(r.opts.Workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	out := make(chan Result)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(out)

		for _, n := range r.Sizes() {
			if err := ctx.Err(); err != nil {
				return err
			}

			trials := r.batch(n)
			r.log.Debugw("running batch", zap.Int("n", n), zap.Int("trials", len(trials)))

			results, err := r.runBatch(ctx, pool, trials)
			if err != nil {
				return fmt.Errorf("batch n=%d: %w", n, err)
			}

			for _, res := range results {
				select {
				case out <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		return nil
	})

	g.Go(func() error {
		for res := range out {
			r.log.Infow("sort finished",
				zap.String("variant", res.Name),
				zap.Int("n", res.Count),
				zap.Int64("seed", res.Seed),
				zap.Duration("elapsed", res.Elapsed),
				zap.Float64("recs_per_sec", res.RecordsPerSec),
				zap.Bool("ok", res.OK),
			)

			if err := sink(res); err != nil {
				return fmt.Errorf("failed to record result: %w", err)
			}
		}

		return nil
	})

	return g.Wait()
}
