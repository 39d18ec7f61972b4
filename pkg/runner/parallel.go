package runner

import (
	"context"
	"sync"

	precheckerrors "github.com/arthur-debert/precheck/pkg/errors"
	"github.com/arthur-debert/precheck/pkg/registry"
)

// canParallelize reports whether a selection may run concurrently.
//
// The rule is deliberately conservative: any mutating action forces the
// whole run sequential, because the ordering contract says mutators finish
// before checkers observing the same files start, and deciding whether two
// globs can overlap is not worth solving when identical patterns already
// catch the common case. Non-mutating actions with pairwise distinct include
// patterns are the only batch allowed to interleave.
func canParallelize(selections []registry.Selection) bool {
	if len(selections) < 2 {
		return false
	}

	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		if sel.Action.Mutating {
			return false
		}
		if _, dup := seen[sel.Action.Include]; dup {
			return false
		}
		seen[sel.Action.Include] = struct{}{}
	}
	return true
}

// runParallel executes the selections concurrently with a bounded worker
// pool. Results are reassembled into declaration order so callers see the
// same shape as a sequential run.
func (r *Runner) runParallel(ctx context.Context, selections []registry.Selection) ([]Result, error) {
	workers := r.workers
	if workers <= 0 || workers > len(selections) {
		workers = len(selections)
	}

	r.logger.Debug().
		Int("selections", len(selections)).
		Int("workers", workers).
		Msg("Running actions in parallel")

	type job struct {
		idx int
		sel registry.Selection
	}

	jobs := make(chan job)
	results := make([]Result, len(selections))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					results[j.idx] = Result{Action: j.sel.Action.Name, Files: j.sel.Files, Skipped: true}
					continue
				}
				results[j.idx] = r.runOne(ctx, j.sel)
			}
		}()
	}

	for i, sel := range selections {
		jobs <- job{idx: i, sel: sel}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return results, precheckerrors.Wrap(ctx.Err(), precheckerrors.ErrInterrupted,
			"run aborted before all actions completed")
	}

	return results, nil
}
