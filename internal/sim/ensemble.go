package sim

import (
	"context"

	"github.com/san-kum/ape/internal/config"
	"github.com/san-kum/ape/internal/jobs"
)

// Ensemble runs independent replicas of one scenario across a worker pool.
// The simulation is deterministic, so every replica must produce identical
// telemetry; benchmarks use that to cross-check reproducibility while
// measuring throughput.
type Ensemble struct {
	scn  *config.Scenario
	runs int
}

func NewEnsemble(scn *config.Scenario, runs int) *Ensemble {
	return &Ensemble{scn: scn, runs: runs}
}

// Run fans the replicas out over pool and blocks until all have finished.
// The first build or context error wins; partial results are discarded.
func (e *Ensemble) Run(ctx context.Context, pool *jobs.Pool) ([]*Result, error) {
	results := make([]*Result, e.runs)
	errs := make([]error, e.runs)

	for i := 0; i < e.runs; i++ {
		pool.Enqueue(func() {
			r, err := Build(e.scn)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = r.Run(ctx, e.scn.Dt, e.scn.Steps)
		})
	}
	pool.WaitIdle()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Deterministic reports whether every result carries the same step count
// and per-step pair counts.
func Deterministic(results []*Result) bool {
	if len(results) < 2 {
		return true
	}
	first := results[0]
	for _, r := range results[1:] {
		if r.StepsTaken != first.StepsTaken || len(r.PairCounts) != len(first.PairCounts) {
			return false
		}
		for i, c := range r.PairCounts {
			if c != first.PairCounts[i] {
				return false
			}
		}
	}
	return true
}
