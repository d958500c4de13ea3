package infer

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
	"github.com/fhaive/dream/mutinfo"
)

// Combination is one point of the inference parameter grid.
type Combination struct {
	Method         Method
	Estimator      mutinfo.Estimator
	Discretization mutinfo.Discretization
}

func (c Combination) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Method, c.Estimator, c.Discretization)
}

// Skipped reports whether the combination is analytically undefined: an
// entropy-based estimator with no discretization. Such combinations
// contribute no matrix and are dropped after the fan-out, without error.
func (c Combination) Skipped() bool {
	return c.Estimator.NeedsDiscretization() && c.Discretization == mutinfo.None
}

// WorkerError wraps a failure of a single inference worker. Any worker
// failure aborts the whole engine call: reducing a partial ensemble would
// silently bias the median.
type WorkerError struct {
	Combination Combination
	Err         error
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("inference worker %s: %v", e.Combination, e.Err)
}

func (e WorkerError) Unwrap() error { return e.Err }

// Config parameterizes one engine run.
type Config struct {
	Methods         []Method
	Estimators      []mutinfo.Estimator
	Discretizations []mutinfo.Discretization

	// Workers bounds the number of combinations evaluated concurrently.
	// Clamped to [1, runtime.NumCPU()].
	Workers int

	// Progress receives per-combination start/completion events. Nil means
	// log to the standard logger.
	Progress dream.ProgressSink
}

// Grid returns the cross product of the configured method, estimator, and
// discretization vectors, including combinations that will be skipped.
func (cfg Config) Grid() []Combination {
	grid := make([]Combination, 0, len(cfg.Methods)*len(cfg.Estimators)*len(cfg.Discretizations))
	for _, m := range cfg.Methods {
		for _, e := range cfg.Estimators {
			for _, d := range cfg.Discretizations {
				grid = append(grid, Combination{Method: m, Estimator: e, Discretization: d})
			}
		}
	}
	return grid
}

// Run evaluates every valid combination of the grid over the expression
// table (genes in rows, samples in columns) and reduces the resulting
// matrices to a single consensus matrix by element-wise median. The table is
// standardized per gene once, before the fan-out; the input is not modified.
func Run(table *genematrix.Matrix, cfg Config) (*genematrix.Matrix, error) {
	if table == nil {
		return nil, dream.Configf("nil expression table")
	}
	if len(cfg.Methods) == 0 {
		return nil, dream.Configf("empty method vector")
	}
	if len(cfg.Estimators) == 0 {
		return nil, dream.Configf("empty estimator vector")
	}
	if len(cfg.Discretizations) == 0 {
		return nil, dream.Configf("empty discretization vector")
	}

	progress := cfg.Progress
	if progress == nil {
		progress = dream.LogProgress()
	}

	std := table.Clone()
	std.StandardizeRows()

	grid := cfg.Grid()

	workers := cfg.Workers
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	// Results are tagged by grid position so the median reduction is
	// independent of completion order. A nil slot is a skipped combination.
	results := make([]*genematrix.Matrix, len(grid))
	errs := make([]error, len(grid))

	var wg sync.WaitGroup
	concurrencyLimit := make(chan struct{}, workers)
	for i, combo := range grid {
		if combo.Skipped() {
			progress.Printf("inference %s: skipped (undefined combination)", combo)
			continue
		}

		wg.Add(1)
		concurrencyLimit <- struct{}{}
		go func(i int, combo Combination) {
			defer wg.Done()
			defer func() { <-concurrencyLimit }()

			start := time.Now()
			progress.Printf("inference %s: started", combo)

			mi, err := mutinfo.Pairwise(std, combo.Estimator, combo.Discretization)
			if err != nil {
				errs[i] = WorkerError{Combination: combo, Err: err}
				return
			}
			results[i] = combo.Method.Apply(mi)

			progress.Printf("inference %s: completed in %s", combo, time.Since(start))
		}(i, combo)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	valid := make([]*genematrix.Matrix, 0, len(results))
	for _, m := range results {
		if m != nil {
			valid = append(valid, m)
		}
	}
	if len(valid) == 0 {
		return nil, dream.Configf("every combination of the grid was skipped; nothing to infer")
	}

	return genematrix.Median(valid)
}
